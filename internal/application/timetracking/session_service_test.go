package timetracking_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apptt "github.com/timeclock/backend/internal/application/timetracking"
	"github.com/timeclock/backend/internal/domain/shared"
	"github.com/timeclock/backend/internal/domain/timetracking"
	"github.com/timeclock/backend/internal/infrastructure/clock"
	"github.com/timeclock/backend/internal/infrastructure/event"
	"github.com/timeclock/backend/internal/infrastructure/scheduler"
)

// fakeRepo is an in-memory TimeEntryRepository with injectable failures
type fakeRepo struct {
	mu             sync.Mutex
	entries        map[uuid.UUID]*timetracking.TimeEntry
	createErr      error
	saveFailures   int // transient system errors before Save succeeds
	createFailures int
	saveCalls      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: make(map[uuid.UUID]*timetracking.TimeEntry)}
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*timetracking.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return entry, nil
}

func (r *fakeRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*timetracking.TimeEntry, error) {
	actives, err := r.FindAllActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(actives) == 0 {
		return nil, shared.ErrNotFound
	}
	return actives[0], nil
}

func (r *fakeRepo) FindAllActiveByUser(_ context.Context, userID uuid.UUID) ([]*timetracking.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var actives []*timetracking.TimeEntry
	for _, entry := range r.entries {
		if entry.UserID == userID && entry.IsActive() {
			actives = append(actives, entry)
		}
	}
	sort.Slice(actives, func(i, j int) bool {
		return actives[i].CreatedAt.After(actives[j].CreatedAt)
	})
	return actives, nil
}

func (r *fakeRepo) FindByUserAndRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]*timetracking.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*timetracking.TimeEntry
	for _, entry := range r.entries {
		if entry.UserID == userID && !entry.ClockIn.Before(from) && entry.ClockIn.Before(to) {
			matched = append(matched, entry)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ClockIn.Before(matched[j].ClockIn)
	})
	return matched, nil
}

func (r *fakeRepo) CreateActive(_ context.Context, entry *timetracking.TimeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createFailures > 0 {
		r.createFailures--
		return shared.NewSystemError("STORAGE_ERROR", "store unavailable", nil)
	}
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.entries {
		if existing.UserID == entry.UserID && existing.IsActive() {
			return shared.ErrAlreadyExists
		}
	}
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeRepo) Save(_ context.Context, entry *timetracking.TimeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.saveFailures > 0 {
		r.saveFailures--
		return shared.NewSystemError("STORAGE_ERROR", "store unavailable", nil)
	}
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeRepo) FindStaleActive(_ context.Context, before time.Time) ([]*timetracking.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stale []*timetracking.TimeEntry
	for _, entry := range r.entries {
		if entry.IsActive() && entry.ClockIn.Before(before) {
			stale = append(stale, entry)
		}
	}
	return stale, nil
}

type notification struct {
	userID   uuid.UUID
	severity apptt.Severity
	title    string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []notification
}

func (n *recordingNotifier) Notify(_ context.Context, userID uuid.UUID, severity apptt.Severity, title, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, notification{userID: userID, severity: severity, title: title})
}

func (n *recordingNotifier) withTitle(title string) []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notification
	for _, note := range n.notes {
		if note.title == title {
			out = append(out, note)
		}
	}
	return out
}

type fixture struct {
	repo   *fakeRepo
	clk    *clock.FixedClock
	sched  *scheduler.Virtual
	bcast  *event.InProcessBroadcaster
	notif  *recordingNotifier
	svc    *apptt.SessionService
	userID uuid.UUID
}

var fixtureStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	cfg := clock.DefaultConfig()
	cfg.Timezone = "UTC"
	clk, err := clock.NewFixed(cfg, fixtureStart)
	require.NoError(t, err)

	f := &fixture{
		repo:   newFakeRepo(),
		clk:    clk,
		sched:  scheduler.NewVirtual(),
		bcast:  event.NewInProcessBroadcaster(),
		notif:  &recordingNotifier{},
		userID: uuid.New(),
	}
	f.svc = f.newService(t)
	return f
}

// newService builds a second engine instance over the same store and
// broadcast channel but its own scheduler, mirroring another process
func (f *fixture) newService(t *testing.T) *apptt.SessionService {
	svc := apptt.NewSessionService(f.repo, f.clk, f.sched, f.bcast, f.notif, zap.NewNop(), apptt.Config{
		Policy:     timetracking.DefaultOvertimePolicy(),
		HourlyRate: decimal.NewFromInt(100),
	})
	require.NoError(t, svc.Initialize(context.Background()))
	t.Cleanup(func() { svc.Shutdown(context.Background()) })
	return svc
}

func TestSessionService_ClockInAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{Notes: "morning"})
	require.NoError(t, err)
	assert.True(t, entry.IsActive())
	assert.Equal(t, fixtureStart, entry.ClockIn)

	f.clk.Advance(2 * time.Hour)
	status, err := f.svc.Status(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, status.ClockedIn)
	assert.False(t, status.OnBreak)
	assert.InDelta(t, 2.0, status.ElapsedHours, 1e-9)
	assert.Equal(t, entry.ID, status.Entry.ID)
}

func TestSessionService_ClockIn_AlreadyClockedIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{})
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{})
	assert.ErrorIs(t, err, timetracking.ErrAlreadyClockedIn)
}

func TestSessionService_ClockIn_FutureTolerance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tooFar := fixtureStart.Add(10 * time.Minute)
	_, err := f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{At: &tooFar})
	assert.ErrorIs(t, err, timetracking.ErrClockInInFuture)

	// Small clock skew between devices is tolerated
	nearby := fixtureStart.Add(4 * time.Minute)
	_, err = f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{At: &nearby})
	assert.NoError(t, err)
}

func TestSessionService_ForceClockIn_ClosesAndFlagsPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	previous, err := f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{})
	require.NoError(t, err)

	f.clk.Advance(3 * time.Hour)
	replacement, err := f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{Force: true})
	require.NoError(t, err)
	assert.NotEqual(t, previous.ID, replacement.ID)
	assert.True(t, replacement.IsActive())

	closed, err := f.repo.FindByID(ctx, previous.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsActive())
	assert.True(t, closed.Flagged)
	assert.Equal(t, "Superseded by forced clock-in", closed.FlagReason)
	assert.InDelta(t, 3.0, closed.TotalHours, 1e-9)
}

func TestSessionService_ClockOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{})
	require.NoError(t, err)

	f.clk.Advance(2 * time.Hour)
	_, err = f.svc.StartBreak(ctx, f.userID, timetracking.BreakTypeLunch)
	require.NoError(t, err)
	f.clk.Advance(30 * time.Minute)
	_, err = f.svc.EndBreak(ctx, f.userID)
	require.NoError(t, err)

	f.clk.Set(fixtureStart.Add(9 * time.Hour))
	entry, err := f.svc.ClockOut(ctx, f.userID, apptt.ClockOutRequest{Notes: "done"})
	require.NoError(t, err)

	assert.False(t, entry.IsActive())
	assert.InDelta(t, 8.5, entry.TotalHours, 1e-9)
	assert.InDelta(t, 8.0, entry.RegularHours, 1e-9)
	assert.InDelta(t, 0.5, entry.OvertimeHours, 1e-9)

	status, err := f.svc.Status(ctx, f.userID)
	require.NoError(t, err)
	assert.False(t, status.ClockedIn)
}

func TestSessionService_ClockOut_NotClockedIn(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ClockOut(context.Background(), f.userID, apptt.ClockOutRequest{})
	assert.ErrorIs(t, err, timetracking.ErrNotClockedIn)
}

func TestSessionService_ClockOut_ReconcilesDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Two open entries for the same user, as left behind by a crossed race
	older, err := timetracking.NewTimeEntry(f.userID, fixtureStart.Add(-2*time.Hour), "")
	require.NoError(t, err)
	older.CreatedAt = fixtureStart.Add(-2 * time.Hour)
	newer, err := timetracking.NewTimeEntry(f.userID, fixtureStart, "")
	require.NoError(t, err)
	newer.CreatedAt = fixtureStart
	require.NoError(t, f.repo.Save(ctx, older))
	require.NoError(t, f.repo.Save(ctx, newer))

	f.clk.Advance(8 * time.Hour)
	survivor, err := f.svc.ClockOut(ctx, f.userID, apptt.ClockOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, newer.ID, survivor.ID)

	reconciled, err := f.repo.FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.False(t, reconciled.IsActive())
	assert.True(t, reconciled.Flagged)
	assert.Equal(t, "Duplicate active session", reconciled.FlagReason)
}

func TestSessionService_WorkReminderFires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{})
	require.NoError(t, err)

	f.sched.Advance(time.Hour)
	reminders := f.notif.withTitle("Still clocked in")
	require.Len(t, reminders, 1)
	assert.Equal(t, apptt.SeverityInfo, reminders[0].severity)
	assert.Equal(t, f.userID, reminders[0].userID)

	f.sched.Advance(time.Hour)
	assert.Len(t, f.notif.withTitle("Still clocked in"), 2)
}

func TestSessionService_BreakReminder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{})
	require.NoError(t, err)
	_, err = f.svc.StartBreak(ctx, f.userID, timetracking.BreakTypeLunch)
	require.NoError(t, err)

	f.sched.Advance(44 * time.Minute)
	assert.Empty(t, f.notif.withTitle("Long break"))

	f.sched.Advance(time.Minute)
	warnings := f.notif.withTitle("Long break")
	require.Len(t, warnings, 1)
	assert.Equal(t, apptt.SeverityWarning, warnings[0].severity)

	// One-shot: it does not repeat
	f.sched.Advance(2 * time.Hour)
	assert.Len(t, f.notif.withTitle("Long break"), 1)
}

func TestSessionService_EndBreakDisarmsReminder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{})
	require.NoError(t, err)
	_, err = f.svc.StartBreak(ctx, f.userID, timetracking.BreakTypeShort)
	require.NoError(t, err)
	f.clk.Advance(10 * time.Minute)
	f.sched.Advance(10 * time.Minute)
	_, err = f.svc.EndBreak(ctx, f.userID)
	require.NoError(t, err)

	f.sched.Advance(2 * time.Hour)
	assert.Empty(t, f.notif.withTitle("Long break"))
}

func TestSessionService_BreakRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartBreak(ctx, f.userID, timetracking.BreakTypeLunch)
	assert.ErrorIs(t, err, timetracking.ErrNotClockedIn)

	_, err = f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{})
	require.NoError(t, err)

	_, err = f.svc.EndBreak(ctx, f.userID)
	assert.ErrorIs(t, err, timetracking.ErrNoActiveBreak)

	_, err = f.svc.StartBreak(ctx, f.userID, timetracking.BreakTypeLunch)
	require.NoError(t, err)
	_, err = f.svc.StartBreak(ctx, f.userID, timetracking.BreakTypeShort)
	assert.ErrorIs(t, err, timetracking.ErrAlreadyOnBreak)
}

func TestSessionService_NoTimerLeaks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Initialize holds the sync and cleanup jobs
	base := f.sched.Pending()
	assert.Equal(t, 2, base)

	_, err := f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{})
	require.NoError(t, err)
	_, err = f.svc.StartBreak(ctx, f.userID, timetracking.BreakTypeLunch)
	require.NoError(t, err)
	assert.Equal(t, base+2, f.sched.Pending())

	f.clk.Advance(time.Hour)
	_, err = f.svc.EndBreak(ctx, f.userID)
	require.NoError(t, err)
	f.clk.Advance(time.Hour)
	_, err = f.svc.ClockOut(ctx, f.userID, apptt.ClockOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, base, f.sched.Pending())

	require.NoError(t, f.svc.Shutdown(ctx))
	assert.Zero(t, f.sched.Pending())
}

func TestSessionService_InitializeRecoversOpenSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := timetracking.NewTimeEntry(f.userID, fixtureStart.Add(-3*time.Hour), "")
	require.NoError(t, err)
	require.NoError(t, f.repo.Save(ctx, entry))

	sched := scheduler.NewVirtual()
	svc := apptt.NewSessionService(f.repo, f.clk, sched, f.bcast, f.notif, zap.NewNop(), apptt.Config{
		Policy:     timetracking.DefaultOvertimePolicy(),
		HourlyRate: decimal.NewFromInt(100),
	})
	require.NoError(t, svc.Initialize(ctx))
	defer svc.Shutdown(ctx)

	// sync, cleanup, and the recovered session's work reminder
	assert.Equal(t, 3, sched.Pending())

	sched.Advance(time.Hour)
	assert.NotEmpty(t, f.notif.withTitle("Still clocked in"))
}

func TestSessionService_RemoteUpdateSyncsOtherInstance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherSched := scheduler.NewVirtual()
	other := apptt.NewSessionService(f.repo, f.clk, otherSched, f.bcast, f.notif, zap.NewNop(), apptt.Config{
		Policy:     timetracking.DefaultOvertimePolicy(),
		HourlyRate: decimal.NewFromInt(100),
	})
	require.NoError(t, other.Initialize(ctx))
	defer other.Shutdown(ctx)
	require.Equal(t, 2, otherSched.Pending())

	// The clock-in broadcast makes the other instance pick the session up
	_, err := f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, otherSched.Pending())

	// And the clock-out broadcast makes it let go again
	f.clk.Advance(8 * time.Hour)
	_, err = f.svc.ClockOut(ctx, f.userID, apptt.ClockOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, otherSched.Pending())
}

func TestSessionService_PeriodicSyncAdoptsUnseenSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.Equal(t, 2, f.sched.Pending())

	// An open session appears in the store without any broadcast, as if
	// another instance's clock-in announcement was lost
	entry, err := timetracking.NewTimeEntry(f.userID, fixtureStart.Add(-2*time.Hour), "")
	require.NoError(t, err)
	require.NoError(t, f.repo.Save(ctx, entry))
	require.Equal(t, 2, f.sched.Pending())

	// The next periodic sync picks it up and arms its work reminder
	f.sched.Advance(5 * time.Minute)
	assert.Equal(t, 3, f.sched.Pending())

	f.sched.Advance(time.Hour)
	assert.NotEmpty(t, f.notif.withTitle("Still clocked in"))
}

func TestSessionService_RetriesTransientStorageFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.repo.createFailures = 2
	_, err := f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{})
	assert.NoError(t, err)

	f.clk.Advance(8 * time.Hour)
	f.repo.saveFailures = 2
	f.repo.saveCalls = 0
	_, err = f.svc.ClockOut(ctx, f.userID, apptt.ClockOutRequest{})
	assert.NoError(t, err)
	assert.Equal(t, 3, f.repo.saveCalls)
}

func TestSessionService_GivesUpAfterMaxRetries(t *testing.T) {
	f := newFixture(t)
	f.repo.createFailures = 10

	_, err := f.svc.ClockIn(context.Background(), f.userID, apptt.ClockInRequest{})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.True(t, domainErr.Retryable())
}

func TestSessionService_DoesNotRetryBusinessFailures(t *testing.T) {
	f := newFixture(t)
	f.repo.createErr = shared.ErrAlreadyExists

	_, err := f.svc.ClockIn(context.Background(), f.userID, apptt.ClockInRequest{})
	assert.ErrorIs(t, err, timetracking.ErrAlreadyClockedIn)
}

func TestSessionService_TodayProgressIncludesOpenSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{})
	require.NoError(t, err)

	f.clk.Advance(4 * time.Hour)
	summary, err := f.svc.TodayProgress(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.EntryCount)
	assert.InDelta(t, 4.0, summary.TotalHours, 1e-9)

	// The provisional close never touches the live entry
	stored, err := f.repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive())
	assert.Zero(t, stored.TotalHours)
}

func TestSessionService_WeeklyProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A session from last week stays out of this week's report
	lastWeek, err := timetracking.NewTimeEntry(f.userID, fixtureStart.AddDate(0, 0, -1), "")
	require.NoError(t, err)
	require.NoError(t, lastWeek.Close(fixtureStart.AddDate(0, 0, -1).Add(8*time.Hour), ""))
	require.NoError(t, f.repo.Save(ctx, lastWeek))

	_, err = f.svc.ClockIn(ctx, f.userID, apptt.ClockInRequest{})
	require.NoError(t, err)
	f.clk.Advance(4 * time.Hour)

	summary, err := f.svc.WeeklyProgress(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DaysWorked)
	assert.InDelta(t, 4.0, summary.TotalHours, 1e-9)
}

func TestSessionService_ProgressMetricsRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	day := fixtureStart.AddDate(0, 0, -7)
	for i := 0; i < 3; i++ {
		entry, err := timetracking.NewTimeEntry(f.userID, day.AddDate(0, 0, i), "")
		require.NoError(t, err)
		require.NoError(t, entry.Close(day.AddDate(0, 0, i).Add(8*time.Hour), ""))
		require.NoError(t, f.repo.Save(ctx, entry))
	}

	metrics, err := f.svc.ProgressMetrics(ctx, f.userID, day, day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, metrics.DaysWorked)
	assert.Equal(t, 3, metrics.LongestStreak)
	assert.Equal(t, 0, metrics.CurrentStreak)
}

func TestSessionService_InitializeAndShutdownIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Initialize(ctx))
	require.NoError(t, f.svc.Shutdown(ctx))
	require.NoError(t, f.svc.Shutdown(ctx))
	assert.Zero(t, f.sched.Pending())

	// A stopped engine does not come back
	require.NoError(t, f.svc.Initialize(ctx))
	assert.Zero(t, f.sched.Pending())
}
