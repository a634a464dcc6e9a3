package services

import (
	"testing"
	"time"

	"staffdesk/staffdesk/testutils"

	"github.com/stretchr/testify/assert"
)

func TestEventDispatcherStopSignalsShutdown(t *testing.T) {
	db := testutils.SetupTestDB(t)
	dispatcher := NewEventDispatcherService(db)

	dispatcher.Start()
	dispatcher.Stop()

	select {
	case <-dispatcher.done:
		// dispatch goroutine has been told to exit
	case <-time.After(time.Second):
		t.Fatal("Stop did not signal the dispatch goroutine")
	}

	// Stop after Stop is a no-op, not a panic on a closed channel
	assert.NotPanics(t, func() { dispatcher.Stop() })
}

func TestEventDispatcherStartIsIdempotent(t *testing.T) {
	db := testutils.SetupTestDB(t)
	dispatcher := NewEventDispatcherService(db)

	dispatcher.Start()
	assert.NotPanics(t, func() { dispatcher.Start() })
	dispatcher.Stop()
}
