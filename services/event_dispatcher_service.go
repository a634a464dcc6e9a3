package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"staffdesk/staffdesk/broker"
	"staffdesk/staffdesk/database"
	"staffdesk/staffdesk/models"
)

type EventDispatcherServiceInterface interface {
	Start()
	Stop()
	ProcessPendingEvents()
}

// EventDispatcherService drains the transactional outbox: it periodically
// picks up undispatched event rows and publishes them to the broker.
type EventDispatcherService struct {
	db        *database.Database
	ticker    *time.Ticker
	done      chan struct{}
	mu        sync.Mutex
	isRunning bool
}

func NewEventDispatcherService(db *database.Database) *EventDispatcherService {
	return &EventDispatcherService{
		db:     db,
		ticker: time.NewTicker(1 * time.Second),
		done:   make(chan struct{}),
	}
}

func (s *EventDispatcherService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	go s.ProcessPendingEvents()
}

// Stop halts the ticker and signals the dispatch goroutine to exit
func (s *EventDispatcherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	s.ticker.Stop()
	close(s.done)
}

func (s *EventDispatcherService) ProcessPendingEvents() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
		}

		if !broker.IsConnected() {
			continue
		}

		var events []models.Event
		if err := s.db.DB.Where("dispatched = ?", false).Find(&events).Error; err != nil {
			log.Printf("Error fetching pending events: %v", err)
			continue
		}

		for _, event := range events {
			if err := s.dispatchEvent(event); err != nil {
				log.Printf("Error dispatching event %s: %v", event.ID, err)
				continue
			}
		}
	}
}

func (s *EventDispatcherService) dispatchEvent(event models.Event) error {
	payload := map[string]interface{}{
		"event_id":  event.ID.String(),
		"type":      event.Event,
		"entity":    event.Entity,
		"timestamp": event.Timestamp,
		"data":      event.Data,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	subject := broker.SubjectForEntity(event.Entity)
	if err := broker.PublishMessage(subject, jsonData); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.DB.Model(&event).Updates(map[string]interface{}{
		"dispatched":    true,
		"dispatched_at": now,
	}).Error
}

var EventDispatcherServiceInstance EventDispatcherServiceInterface
