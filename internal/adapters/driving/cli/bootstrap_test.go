package cli

import (
	"context"
	"testing"
	"time"

	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/core/services"
)

// The sweeper loop blocks until stopped. startSweeper must hand it off to
// a background goroutine and return straight away, otherwise serve would
// never reach its listener and chat would never launch the UI.
func TestStartSweeper_ReturnsImmediately(t *testing.T) {
	store := services.NewSessionStore(domain.SessionConfig{
		TTL:           time.Minute,
		SweepInterval: 5 * time.Millisecond,
	})

	done := make(chan func(), 1)
	go func() {
		done <- startSweeper(context.Background(), store)
	}()

	var stop func()
	select {
	case stop = <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("startSweeper blocked instead of running the sweeper in the background")
	}

	// Stop must terminate the background loop and return.
	stopped := make(chan struct{})
	go func() {
		stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stopping the sweeper did not return")
	}
}
