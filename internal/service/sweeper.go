package service

import (
	"context"
	"log"
	"time"

	"github.com/edutrack/edutrack-api/internal/repository"
)

// Sweeper periodically removes expired passcode sessions from the store.
// Expiry is also enforced lazily on every verify lookup; the sweep only keeps
// the store from accumulating entries nobody ever verifies.
type Sweeper struct {
	store    repository.OTPStore
	interval time.Duration
}

// NewSweeper creates a sweeper for the given store
func NewSweeper(store repository.OTPStore, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, interval: interval}
}

// Run sweeps on a fixed interval until the context is cancelled. Call it in
// its own goroutine; cancelling the context is the explicit stop.
func (w *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := w.store.SweepExpired(ctx)
			if err != nil {
				log.Printf("⚠️  OTP sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("🧹 OTP sweep removed %d expired session(s)", removed)
			}
		}
	}
}
