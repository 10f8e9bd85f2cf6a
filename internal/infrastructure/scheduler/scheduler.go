package scheduler

import (
	"sync"
	"time"

	"github.com/timeclock/backend/internal/domain/shared"
)

// WallClock is the production Scheduler backed by the runtime's timers
type WallClock struct{}

// NewWallClock creates a wall-clock scheduler
func NewWallClock() *WallClock {
	return &WallClock{}
}

// After runs fn once after d on a new goroutine
func (s *WallClock) After(d time.Duration, fn func()) shared.CancelHandle {
	t := time.AfterFunc(d, fn)
	return &timerHandle{timer: t}
}

// Every runs fn on every tick of a d-period ticker
func (s *WallClock) Every(d time.Duration, fn func()) shared.CancelHandle {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return &tickerHandle{ticker: ticker, done: done}
}

type timerHandle struct {
	once  sync.Once
	timer *time.Timer
}

func (h *timerHandle) Cancel() {
	h.once.Do(func() { h.timer.Stop() })
}

type tickerHandle struct {
	once   sync.Once
	ticker *time.Ticker
	done   chan struct{}
}

func (h *tickerHandle) Cancel() {
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.done)
	})
}

var _ shared.Scheduler = (*WallClock)(nil)
