package timetracking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/timeclock/backend/internal/domain/reporting"
	"github.com/timeclock/backend/internal/domain/timetracking"
)

// StaleEntryService force-closes sessions whose owner never clocked out.
// An entry open longer than the expiration is assumed abandoned: it is closed
// at clock-in plus the expiration, flagged for review, and its owner is told.
type StaleEntryService struct {
	repo       timetracking.TimeEntryRepository
	clock      timetracking.Clock
	notifier   Notifier
	logger     *zap.Logger
	policy     timetracking.OvertimePolicy
	hourlyRate decimal.Decimal
	expiration time.Duration
}

// NewStaleEntryService creates the sweep service
func NewStaleEntryService(
	repo timetracking.TimeEntryRepository,
	clock timetracking.Clock,
	notifier Notifier,
	logger *zap.Logger,
	policy timetracking.OvertimePolicy,
	hourlyRate decimal.Decimal,
	expiration time.Duration,
) *StaleEntryService {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &StaleEntryService{
		repo:       repo,
		clock:      clock,
		notifier:   notifier,
		logger:     logger,
		policy:     policy,
		hourlyRate: hourlyRate,
		expiration: expiration,
	}
}

// CloseStale closes every expired open entry and returns how many it closed.
// Failures on individual entries are logged and skipped so one bad row cannot
// stall the sweep.
func (s *StaleEntryService) CloseStale(ctx context.Context) (int, error) {
	now := s.clock.Now()
	cutoff := now.Add(-s.expiration)
	stale, err := s.repo.FindStaleActive(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, entry := range stale {
		closeAt := entry.ClockIn.Add(s.expiration)
		if err := entry.Close(closeAt, entry.Notes); err != nil {
			s.logger.Error("Failed to close stale entry",
				zap.String("entry_id", entry.ID.String()),
				zap.Error(err),
			)
			continue
		}
		split := reporting.CalculateEntryOvertime(entry, s.policy, s.hourlyRate)
		entry.ApplyOvertimeSplit(split.RegularHours, split.OvertimeHours, split.DoubleOvertimeHours)
		entry.Flag("Auto-closed after exceeding maximum session duration")

		if err := s.repo.Save(ctx, entry); err != nil {
			s.logger.Error("Failed to save stale entry",
				zap.String("entry_id", entry.ID.String()),
				zap.Error(err),
			)
			continue
		}
		closed++
		s.notifier.Notify(ctx, entry.UserID, SeverityWarning,
			"Session auto-closed",
			"Your session was open too long and has been closed automatically; please review it")
		s.logger.Warn("Auto-closed stale session",
			zap.String("entry_id", entry.ID.String()),
			zap.String("user_id", entry.UserID.String()),
			zap.Time("clock_in", entry.ClockIn),
		)
	}
	return closed, nil
}
