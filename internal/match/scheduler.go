package match

import (
	"sync"
	"time"
)

// scheduler runs at most one repeating timer. Starting a new one always
// stops the previous one first, so two phase clocks can never run at once.
// Callers still guard against a tick that was already in flight when Stop
// was called; the engine does that with a generation check.
type scheduler struct {
	mu   sync.Mutex
	stop chan struct{}
}

// Start stops any running timer and begins invoking fn every interval.
func (s *scheduler) Start(interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	stop := make(chan struct{})
	s.stop = stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

// Stop halts the running timer, if any.
func (s *scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *scheduler) stopLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}
