package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	apptt "github.com/timeclock/backend/internal/application/timetracking"
	"github.com/timeclock/backend/internal/infrastructure/config"
)

// StaleEntrySweeper periodically runs the stale-entry close pass so sessions
// abandoned without a clock-out do not stay open forever.
type StaleEntrySweeper struct {
	service *apptt.StaleEntryService
	logger  *zap.Logger
	config  config.StaleEntryConfig

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewStaleEntrySweeper creates a sweeper over the given service
func NewStaleEntrySweeper(service *apptt.StaleEntryService, logger *zap.Logger, cfg config.StaleEntryConfig) *StaleEntrySweeper {
	return &StaleEntrySweeper{
		service: service,
		logger:  logger,
		config:  cfg,
	}
}

// Start launches the background sweep loop. An initial sweep runs
// immediately so entries that expired while the process was down are closed
// without waiting a full interval.
func (s *StaleEntrySweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Stale entry sweeper is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Stale entry sweeper started",
		zap.Duration("check_interval", s.config.CheckInterval),
		zap.Duration("expiration", s.config.Expiration),
	)
	return nil
}

// Stop gracefully stops the sweeper
func (s *StaleEntrySweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Stale entry sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *StaleEntrySweeper) run(ctx context.Context) {
	defer s.wg.Done()

	s.sweep(ctx)

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *StaleEntrySweeper) sweep(ctx context.Context) {
	closed, err := s.service.CloseStale(ctx)
	if err != nil {
		s.logger.Error("Stale entry sweep failed", zap.Error(err))
		return
	}
	if closed > 0 {
		s.logger.Info("Stale entry sweep completed", zap.Int("closed", closed))
	}
}
