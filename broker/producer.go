package broker

import (
	"log"

	"staffdesk/staffdesk/config"

	"github.com/nats-io/nats.go"
)

var conn *nats.Conn

// InitProducer connects to the NATS server. The caller decides whether a
// failure is fatal; event dispatch is skipped while the producer is down.
func InitProducer(cfg config.Config) error {
	var err error
	conn, err = nats.Connect(cfg.NatsURL,
		nats.Name("staffdesk-api"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return err
	}
	log.Printf("NATS producer connected to %s", cfg.NatsURL)
	return nil
}

// PublishMessage publishes a payload to a subject
func PublishMessage(subject string, data []byte) error {
	if conn == nil {
		return nats.ErrConnectionClosed
	}
	if err := conn.Publish(subject, data); err != nil {
		log.Printf("Failed to publish message to %s: %v", subject, err)
		return err
	}
	return nil
}

// IsConnected reports whether the producer has a live connection
func IsConnected() bool {
	return conn != nil && conn.IsConnected()
}

func CloseProducer() {
	if conn != nil {
		conn.Close()
		conn = nil
	}
}
