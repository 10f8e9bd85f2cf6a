package timetracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/timeclock/backend/internal/domain/reporting"
	"github.com/timeclock/backend/internal/domain/shared"
	"github.com/timeclock/backend/internal/domain/timetracking"
)

// Config holds the session engine's policy and timing settings
type Config struct {
	Policy                 timetracking.OvertimePolicy
	HourlyRate             decimal.Decimal
	WorkReminderInterval   time.Duration
	BreakReminderDuration  time.Duration
	SyncInterval           time.Duration
	CleanupInterval        time.Duration
	FutureClockInTolerance time.Duration
	BroadcastTopic         string
	MaxStorageRetries      int
}

func (c *Config) applyDefaults() {
	if c.WorkReminderInterval <= 0 {
		c.WorkReminderInterval = time.Hour
	}
	if c.BreakReminderDuration <= 0 {
		c.BreakReminderDuration = 45 * time.Minute
	}
	if c.SyncInterval <= 0 {
		c.SyncInterval = 5 * time.Minute
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = time.Hour
	}
	if c.FutureClockInTolerance <= 0 {
		c.FutureClockInTolerance = 5 * time.Minute
	}
	if c.BroadcastTopic == "" {
		c.BroadcastTopic = "timeclock.updates"
	}
	if c.MaxStorageRetries <= 0 {
		c.MaxStorageRetries = 3
	}
}

// userTimers are the per-session reminder handles owned by this instance
type userTimers struct {
	entryID       uuid.UUID
	workReminder  shared.CancelHandle
	breakReminder shared.CancelHandle
}

// broadcastEnvelope wraps a real-time update with the sending instance's
// identity so instances can skip their own broadcasts.
type broadcastEnvelope struct {
	InstanceID uuid.UUID                   `json:"instance_id"`
	Update     timetracking.RealTimeUpdate `json:"update"`
}

// SessionService is the session engine: it owns clock-in/out and break
// transitions, per-session reminders, periodic store resync, and cross-instance
// fan-out. Progress queries delegate to the pure aggregation engine over
// snapshots of live entries.
type SessionService struct {
	repo        timetracking.TimeEntryRepository
	clock       timetracking.Clock
	scheduler   shared.Scheduler
	broadcaster shared.Broadcaster
	publisher   shared.EventPublisher
	notifier    Notifier
	engine      *reporting.Engine
	logger      *zap.Logger
	cfg         Config
	instanceID  uuid.UUID

	mu          sync.Mutex
	timers      map[uuid.UUID]*userTimers
	syncHandle  shared.CancelHandle
	cleanHandle shared.CancelHandle
	unsubscribe func()
	started     bool
	stopped     bool
}

// NewSessionService creates a session service. The broadcaster and publisher
// may be nil for deployments that need neither fan-out nor local events.
func NewSessionService(
	repo timetracking.TimeEntryRepository,
	clock timetracking.Clock,
	scheduler shared.Scheduler,
	broadcaster shared.Broadcaster,
	notifier Notifier,
	logger *zap.Logger,
	cfg Config,
) *SessionService {
	cfg.applyDefaults()
	return &SessionService{
		repo:        repo,
		clock:       clock,
		scheduler:   scheduler,
		broadcaster: broadcaster,
		notifier:    notifier,
		engine:      reporting.NewEngine(clock),
		logger:      logger,
		cfg:         cfg,
		instanceID:  uuid.New(),
		timers:      make(map[uuid.UUID]*userTimers),
	}
}

// SetEventPublisher sets the publisher for local domain events
func (s *SessionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Initialize recovers reminders for sessions already open in the store,
// subscribes to cross-instance updates, and starts the periodic sync and
// cleanup jobs. Safe to call once; later calls are no-ops.
func (s *SessionService) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	now := s.clock.Now()
	open, err := s.repo.FindStaleActive(ctx, now.Add(s.cfg.FutureClockInTolerance))
	if err != nil {
		return fmt.Errorf("recover open sessions: %w", err)
	}
	for _, entry := range open {
		s.startTimers(entry)
	}

	if s.broadcaster != nil {
		unsub, err := s.broadcaster.Subscribe(s.cfg.BroadcastTopic, s.handleRemoteUpdate)
		if err != nil {
			return fmt.Errorf("subscribe to broadcast topic: %w", err)
		}
		s.mu.Lock()
		s.unsubscribe = unsub
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.syncHandle = s.scheduler.Every(s.cfg.SyncInterval, func() {
		s.syncNow(context.Background())
	})
	s.cleanHandle = s.scheduler.Every(s.cfg.CleanupInterval, func() {
		s.cleanupTimers(context.Background())
	})
	s.mu.Unlock()

	s.logger.Info("Session engine started",
		zap.String("instance_id", s.instanceID.String()),
		zap.Int("recovered_sessions", len(open)),
	)
	return nil
}

// Shutdown cancels all reminders and background jobs and detaches from the
// broadcast channel. Idempotent.
func (s *SessionService) Shutdown(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true

	if s.syncHandle != nil {
		s.syncHandle.Cancel()
	}
	if s.cleanHandle != nil {
		s.cleanHandle.Cancel()
	}
	for userID, timers := range s.timers {
		cancelUserTimers(timers)
		delete(s.timers, userID)
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.logger.Info("Session engine stopped", zap.String("instance_id", s.instanceID.String()))
	return nil
}

// ClockIn starts a new work session. A user with an open session gets
// ErrAlreadyClockedIn unless Force is set, in which case the open session is
// closed and flagged before the new one starts.
func (s *SessionService) ClockIn(ctx context.Context, userID uuid.UUID, req ClockInRequest) (*timetracking.TimeEntry, error) {
	now := s.clock.Now()
	at := now
	if req.At != nil {
		at = *req.At
	}
	if at.After(now.Add(s.cfg.FutureClockInTolerance)) {
		return nil, timetracking.ErrClockInInFuture
	}

	actives, err := s.repo.FindAllActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(actives) > 0 {
		if !req.Force {
			return nil, timetracking.ErrAlreadyClockedIn
		}
		for _, prev := range actives {
			if err := s.forceClose(ctx, prev, at, "Superseded by forced clock-in"); err != nil {
				return nil, err
			}
		}
	}

	entry, err := timetracking.NewTimeEntry(userID, at, req.Notes)
	if err != nil {
		return nil, err
	}
	err = s.withRetry(ctx, "create entry", func() error {
		return s.repo.CreateActive(ctx, entry)
	})
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// another instance won the race after our duplicate check
			return nil, timetracking.ErrAlreadyClockedIn
		}
		return nil, err
	}

	s.startTimers(entry)
	s.publish(ctx, timetracking.NewClockInEvent(entry, req.Force, at))
	s.broadcast(ctx, timetracking.NewRealTimeUpdate(timetracking.EventTypeClockIn, userID, at, entry))
	s.logger.Info("Clocked in",
		zap.String("user_id", userID.String()),
		zap.String("entry_id", entry.ID.String()),
		zap.Bool("forced", req.Force),
	)
	return entry, nil
}

// ClockOut completes the user's active session, computing total hours and the
// overtime split. Duplicate open sessions left behind by races are reconciled
// first: the newest survives, the rest are closed and flagged.
func (s *SessionService) ClockOut(ctx context.Context, userID uuid.UUID, req ClockOutRequest) (*timetracking.TimeEntry, error) {
	now := s.clock.Now()
	at := now
	if req.At != nil {
		at = *req.At
	}

	entry, err := s.activeEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := entry.Close(at, req.Notes); err != nil {
		return nil, err
	}
	s.applySplit(entry)

	err = s.withRetry(ctx, "save entry", func() error {
		return s.repo.Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.cancelTimers(userID)
	s.publish(ctx, timetracking.NewClockOutEvent(entry, at))
	s.broadcast(ctx, timetracking.NewRealTimeUpdate(timetracking.EventTypeClockOut, userID, at, entry))
	s.logger.Info("Clocked out",
		zap.String("user_id", userID.String()),
		zap.String("entry_id", entry.ID.String()),
		zap.Float64("total_hours", entry.TotalHours),
		zap.Float64("overtime_hours", entry.OvertimeHours),
	)
	return entry, nil
}

// StartBreak opens a break on the user's active session and arms the
// long-break reminder.
func (s *SessionService) StartBreak(ctx context.Context, userID uuid.UUID, breakType timetracking.BreakType) (*timetracking.BreakPeriod, error) {
	now := s.clock.Now()
	entry, err := s.activeEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	brk, err := entry.StartBreak(breakType, now)
	if err != nil {
		return nil, err
	}
	err = s.withRetry(ctx, "save entry", func() error {
		return s.repo.Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.armBreakReminder(userID, entry.ID)
	s.publish(ctx, timetracking.NewBreakStartEvent(entry, *brk, now))
	s.broadcast(ctx, timetracking.NewRealTimeUpdate(timetracking.EventTypeBreakStart, userID, now, brk))
	return brk, nil
}

// EndBreak closes the open break on the user's active session
func (s *SessionService) EndBreak(ctx context.Context, userID uuid.UUID) (*timetracking.BreakPeriod, error) {
	now := s.clock.Now()
	entry, err := s.activeEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	brk, err := entry.EndBreak(now)
	if err != nil {
		return nil, err
	}
	err = s.withRetry(ctx, "save entry", func() error {
		return s.repo.Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.disarmBreakReminder(userID)
	s.publish(ctx, timetracking.NewBreakEndEvent(entry, *brk, now))
	s.broadcast(ctx, timetracking.NewRealTimeUpdate(timetracking.EventTypeBreakEnd, userID, now, brk))
	return brk, nil
}

// Status returns the live view of the user's current session
func (s *SessionService) Status(ctx context.Context, userID uuid.UUID) (SessionStatus, error) {
	now := s.clock.Now()
	entry, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ToSessionStatus(userID, nil, now), nil
		}
		return SessionStatus{}, err
	}
	return ToSessionStatus(userID, entry, now), nil
}

// TodayProgress aggregates the user's entries for the current calendar day.
// An open session contributes provisionally, as if it closed right now.
func (s *SessionService) TodayProgress(ctx context.Context, userID uuid.UUID) (reporting.DailyWorkSummary, error) {
	now := s.clock.Now()
	from := s.clock.StartOfDay(now)
	entries, err := s.repo.FindByUserAndRange(ctx, userID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return reporting.DailyWorkSummary{}, err
	}
	return s.engine.GenerateDailySummary(s.snapshot(entries, now), now, s.cfg.Policy, s.cfg.HourlyRate), nil
}

// WeeklyProgress aggregates the user's entries for the current calendar week
func (s *SessionService) WeeklyProgress(ctx context.Context, userID uuid.UUID) (reporting.WeeklyWorkSummary, error) {
	now := s.clock.Now()
	from := s.clock.StartOfWeek(now)
	entries, err := s.repo.FindByUserAndRange(ctx, userID, from, from.AddDate(0, 0, 7))
	if err != nil {
		return reporting.WeeklyWorkSummary{}, err
	}
	return s.engine.GenerateWeeklySummary(s.snapshot(entries, now), now, s.cfg.Policy, s.cfg.HourlyRate), nil
}

// MonthlyProgress aggregates the user's entries for the current calendar
// month. The range is padded to whole weeks because the monthly rollup is
// built from weekly summaries whose edges can cross month boundaries.
func (s *SessionService) MonthlyProgress(ctx context.Context, userID uuid.UUID) (reporting.MonthlyWorkSummary, error) {
	now := s.clock.Now()
	from := s.clock.StartOfWeek(s.clock.StartOfMonth(now))
	to := s.clock.StartOfWeek(s.clock.EndOfMonth(now)).AddDate(0, 0, 7)
	entries, err := s.repo.FindByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return reporting.MonthlyWorkSummary{}, err
	}
	return s.engine.GenerateMonthlySummary(s.snapshot(entries, now), now, s.cfg.Policy, s.cfg.HourlyRate), nil
}

// ProgressMetrics derives streaks, punctuality, break compliance and trend
// over [from, to].
func (s *SessionService) ProgressMetrics(ctx context.Context, userID uuid.UUID, from, to time.Time) (reporting.WorkProgressMetrics, error) {
	now := s.clock.Now()
	lo := s.clock.StartOfDay(from)
	hi := s.clock.StartOfDay(to).AddDate(0, 0, 1)
	entries, err := s.repo.FindByUserAndRange(ctx, userID, lo, hi)
	if err != nil {
		return reporting.WorkProgressMetrics{}, err
	}
	return s.engine.CalculateProgressMetrics(s.snapshot(entries, now), from, to, s.cfg.Policy, s.cfg.HourlyRate), nil
}

// activeEntry returns the user's single active entry, reconciling duplicates
// first. When a race left more than one open entry, the newest wins; the rest
// are closed where they stand and flagged for review rather than dropped.
func (s *SessionService) activeEntry(ctx context.Context, userID uuid.UUID) (*timetracking.TimeEntry, error) {
	actives, err := s.repo.FindAllActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(actives) == 0 {
		return nil, timetracking.ErrNotClockedIn
	}
	if len(actives) > 1 {
		s.logger.Warn("Reconciling duplicate active sessions",
			zap.String("user_id", userID.String()),
			zap.Int("count", len(actives)),
		)
		now := s.clock.Now()
		for _, extra := range actives[1:] {
			if err := s.forceClose(ctx, extra, now, "Duplicate active session"); err != nil {
				return nil, err
			}
		}
	}
	return actives[0], nil
}

// forceClose closes an entry outside the normal clock-out path and flags it.
// An entry whose clock-in is not before the close instant is closed one
// minute after clock-in so the ordering invariant holds.
func (s *SessionService) forceClose(ctx context.Context, entry *timetracking.TimeEntry, at time.Time, reason string) error {
	closeAt := at
	if !closeAt.After(entry.ClockIn) {
		closeAt = entry.ClockIn.Add(time.Minute)
	}
	if err := entry.Close(closeAt, entry.Notes); err != nil {
		return err
	}
	s.applySplit(entry)
	entry.Flag(reason)
	err := s.withRetry(ctx, "save entry", func() error {
		return s.repo.Save(ctx, entry)
	})
	if err != nil {
		return err
	}
	s.cancelTimers(entry.UserID)
	s.publish(ctx, timetracking.NewClockOutEvent(entry, closeAt))
	s.broadcast(ctx, timetracking.NewRealTimeUpdate(timetracking.EventTypeClockOut, entry.UserID, closeAt, entry))
	return nil
}

func (s *SessionService) applySplit(entry *timetracking.TimeEntry) {
	split := reporting.CalculateEntryOvertime(entry, s.cfg.Policy, s.cfg.HourlyRate)
	entry.ApplyOvertimeSplit(split.RegularHours, split.OvertimeHours, split.DoubleOvertimeHours)
}

// snapshot returns entries ready for aggregation. Completed entries pass
// through; active ones are deep-copied and provisionally closed at now so the
// pure engine never sees, or mutates, live state.
func (s *SessionService) snapshot(entries []*timetracking.TimeEntry, now time.Time) []*timetracking.TimeEntry {
	out := make([]*timetracking.TimeEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsActive() {
			out = append(out, entry)
			continue
		}
		snap := *entry
		snap.Breaks = append([]timetracking.BreakPeriod(nil), entry.Breaks...)
		if now.After(snap.ClockIn) {
			if err := snap.Close(now, snap.Notes); err == nil {
				s.applySplit(&snap)
			}
		}
		out = append(out, &snap)
	}
	return out
}

// startTimers arms the recurring work reminder for an open session. Existing
// timers for the same entry are kept; timers for a different entry are
// replaced.
func (s *SessionService) startTimers(entry *timetracking.TimeEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if existing, ok := s.timers[entry.UserID]; ok {
		if existing.entryID == entry.ID {
			return
		}
		cancelUserTimers(existing)
	}

	userID := entry.UserID
	clockIn := entry.ClockIn
	timers := &userTimers{entryID: entry.ID}
	timers.workReminder = s.scheduler.Every(s.cfg.WorkReminderInterval, func() {
		elapsed := s.clock.Now().Sub(clockIn)
		s.notifier.Notify(context.Background(), userID, SeverityInfo,
			"Still clocked in",
			fmt.Sprintf("You have been working for %.1f hours", elapsed.Hours()))
	})
	s.timers[userID] = timers

	if entry.IsOnBreak() {
		s.armBreakReminderLocked(userID, entry.ID)
	}
}

// armBreakReminder arms the one-shot long-break reminder for the user
func (s *SessionService) armBreakReminder(userID, entryID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armBreakReminderLocked(userID, entryID)
}

func (s *SessionService) armBreakReminderLocked(userID, entryID uuid.UUID) {
	if s.stopped {
		return
	}
	timers, ok := s.timers[userID]
	if !ok {
		timers = &userTimers{entryID: entryID}
		s.timers[userID] = timers
	}
	if timers.breakReminder != nil {
		timers.breakReminder.Cancel()
	}
	minutes := int(s.cfg.BreakReminderDuration / time.Minute)
	timers.breakReminder = s.scheduler.After(s.cfg.BreakReminderDuration, func() {
		s.notifier.Notify(context.Background(), userID, SeverityWarning,
			"Long break",
			fmt.Sprintf("Your break has lasted over %d minutes", minutes))
	})
}

func (s *SessionService) disarmBreakReminder(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timers, ok := s.timers[userID]; ok && timers.breakReminder != nil {
		timers.breakReminder.Cancel()
		timers.breakReminder = nil
	}
}

// cancelTimers drops every reminder held for the user
func (s *SessionService) cancelTimers(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timers, ok := s.timers[userID]; ok {
		cancelUserTimers(timers)
		delete(s.timers, userID)
	}
}

func cancelUserTimers(t *userTimers) {
	if t.workReminder != nil {
		t.workReminder.Cancel()
	}
	if t.breakReminder != nil {
		t.breakReminder.Cancel()
	}
}

// trackedUsers returns the users this instance currently holds timers for
func (s *SessionService) trackedUsers() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]uuid.UUID, 0, len(s.timers))
	for userID := range s.timers {
		users = append(users, userID)
	}
	return users
}

// syncNow reconciles this instance's view of each tracked session with the
// store and publishes a progress snapshot. It runs on the sync interval and
// after remote updates; drift from a missed broadcast heals here.
func (s *SessionService) syncNow(ctx context.Context) {
	for _, userID := range s.trackedUsers() {
		s.resyncUser(ctx, userID)
	}
	s.adoptUntracked(ctx)
}

// adoptUntracked scans the store for open sessions this instance holds no
// timers for and starts tracking them. A clock-in whose broadcast never
// arrived gets its reminders back at the next sync instead of the next
// restart.
func (s *SessionService) adoptUntracked(ctx context.Context) {
	open, err := s.repo.FindStaleActive(ctx, s.clock.Now().Add(s.cfg.FutureClockInTolerance))
	if err != nil {
		s.logger.Warn("Open session scan failed", zap.Error(err))
		return
	}
	for _, entry := range open {
		s.startTimers(entry)
	}
}

// resyncUser reloads the user's active session and realigns local timers
func (s *SessionService) resyncUser(ctx context.Context, userID uuid.UUID) {
	entry, err := s.activeEntry(ctx, userID)
	if err != nil {
		if errors.Is(err, timetracking.ErrNotClockedIn) {
			s.cancelTimers(userID)
			return
		}
		s.logger.Warn("Session resync failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return
	}

	s.startTimers(entry)

	now := s.clock.Now()
	status := ToSessionStatus(userID, entry, now)
	if payload, err := json.Marshal(status); err == nil {
		s.publish(ctx, timetracking.NewProgressUpdateEvent(entry.ID, userID, payload, now))
	}
}

// cleanupTimers drops reminders whose backing entry is gone or completed.
// Covers sessions closed by other instances or by the stale-entry sweep.
func (s *SessionService) cleanupTimers(ctx context.Context) {
	s.mu.Lock()
	tracked := make(map[uuid.UUID]uuid.UUID, len(s.timers))
	for userID, timers := range s.timers {
		tracked[userID] = timers.entryID
	}
	s.mu.Unlock()

	for userID, entryID := range tracked {
		entry, err := s.repo.FindByID(ctx, entryID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.cancelTimers(userID)
			}
			continue
		}
		if !entry.IsActive() {
			s.cancelTimers(userID)
		}
	}
}

// handleRemoteUpdate reacts to a session change made by another instance by
// resyncing the affected user. Our own broadcasts are skipped.
func (s *SessionService) handleRemoteUpdate(payload []byte) {
	var env broadcastEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		s.logger.Warn("Dropping malformed broadcast", zap.Error(err))
		return
	}
	if env.InstanceID == s.instanceID {
		return
	}
	s.resyncUser(context.Background(), env.Update.UserID)
}

// publish delivers a domain event to local subscribers, best-effort
func (s *SessionService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Event publish failed",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}

// broadcast fans an update out to other instances, best-effort
func (s *SessionService) broadcast(ctx context.Context, update timetracking.RealTimeUpdate) {
	if s.broadcaster == nil {
		return
	}
	payload, err := json.Marshal(broadcastEnvelope{InstanceID: s.instanceID, Update: update})
	if err != nil {
		return
	}
	if err := s.broadcaster.Broadcast(ctx, s.cfg.BroadcastTopic, payload); err != nil {
		s.logger.Warn("Broadcast failed",
			zap.String("type", update.Type),
			zap.Error(err),
		)
	}
}

// withRetry retries a storage operation on retryable failures with a short
// linear backoff. Validation and business-rule failures surface immediately.
func (s *SessionService) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= s.cfg.MaxStorageRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && !domainErr.Retryable() {
			return err
		}
		if attempt < s.cfg.MaxStorageRetries {
			s.logger.Warn("Storage operation failed, retrying",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
			}
		}
	}
	return err
}
