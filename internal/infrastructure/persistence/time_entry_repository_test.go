package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeclock/backend/internal/domain/shared"
	"github.com/timeclock/backend/internal/domain/timetracking"
	"github.com/timeclock/backend/internal/infrastructure/config"
)

func newTestRepository(t *testing.T) *GormTimeEntryRepository {
	// A single connection keeps the in-memory database alive and shared
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return NewGormTimeEntryRepository(db.DB)
}

func activeEntry(t *testing.T, userID uuid.UUID, clockIn time.Time) *timetracking.TimeEntry {
	entry, err := timetracking.NewTimeEntry(userID, clockIn, "")
	require.NoError(t, err)
	return entry
}

func TestGormTimeEntryRepository_RoundTripWithBreaks(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()
	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	entry := activeEntry(t, userID, clockIn)
	entry.Notes = "on site"
	require.NoError(t, repo.CreateActive(ctx, entry))

	_, err := entry.StartBreak(timetracking.BreakTypeShort, clockIn.Add(2*time.Hour))
	require.NoError(t, err)
	_, err = entry.EndBreak(clockIn.Add(2*time.Hour + 15*time.Minute))
	require.NoError(t, err)
	_, err = entry.StartBreak(timetracking.BreakTypeLunch, clockIn.Add(4*time.Hour))
	require.NoError(t, err)
	_, err = entry.EndBreak(clockIn.Add(4*time.Hour + 45*time.Minute))
	require.NoError(t, err)
	require.NoError(t, entry.Close(clockIn.Add(9*time.Hour), "done"))
	require.NoError(t, repo.Save(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.UserID, found.UserID)
	assert.Equal(t, timetracking.EntryStatusCompleted, found.Status)
	assert.Equal(t, entry.TotalHours, found.TotalHours)
	assert.Equal(t, "done", found.Notes)
	require.Len(t, found.Breaks, 2)
	// Breaks come back in start order
	assert.Equal(t, timetracking.BreakTypeShort, found.Breaks[0].Type)
	assert.Equal(t, timetracking.BreakTypeLunch, found.Breaks[1].Type)
	assert.Equal(t, 15, found.Breaks[0].DurationMinutes)
	assert.Equal(t, 45, found.Breaks[1].DurationMinutes)
	assert.True(t, found.Breaks[0].IsPaid)
	assert.False(t, found.Breaks[1].IsPaid)
}

func TestGormTimeEntryRepository_FindByID_NotFound(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTimeEntryRepository_CreateActive_RejectsSecondActive(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()
	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateActive(ctx, activeEntry(t, userID, clockIn)))

	err := repo.CreateActive(ctx, activeEntry(t, userID, clockIn.Add(time.Hour)))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	// A different user is unaffected
	assert.NoError(t, repo.CreateActive(ctx, activeEntry(t, uuid.New(), clockIn)))
}

func TestGormTimeEntryRepository_CreateActive_AllowedAfterClose(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()
	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	entry := activeEntry(t, userID, clockIn)
	require.NoError(t, repo.CreateActive(ctx, entry))
	require.NoError(t, entry.Close(clockIn.Add(8*time.Hour), ""))
	require.NoError(t, repo.Save(ctx, entry))

	assert.NoError(t, repo.CreateActive(ctx, activeEntry(t, userID, clockIn.Add(24*time.Hour))))
}

func TestGormTimeEntryRepository_FindAllActiveByUser_NewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	older := activeEntry(t, userID, base)
	older.CreatedAt = base
	older.UpdatedAt = base
	newer := activeEntry(t, userID, base.Add(time.Hour))
	newer.CreatedAt = base.Add(time.Hour)
	newer.UpdatedAt = base.Add(time.Hour)

	// Save bypasses the one-active guard, mirroring a duplicate that slipped
	// in through another instance
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	actives, err := repo.FindAllActiveByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, actives, 2)
	assert.Equal(t, newer.ID, actives[0].ID)
	assert.Equal(t, older.ID, actives[1].ID)

	winner, err := repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, winner.ID)
}

func TestGormTimeEntryRepository_FindActiveByUser_NotFound(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.FindActiveByUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTimeEntryRepository_FindByUserAndRange(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	inside := activeEntry(t, userID, from.Add(9*time.Hour))
	atStart := activeEntry(t, userID, from)
	require.NoError(t, repo.Save(ctx, inside))
	require.NoError(t, repo.Save(ctx, atStart))

	// The upper bound is exclusive, the lower inclusive
	atEnd := activeEntry(t, userID, to)
	before := activeEntry(t, userID, from.Add(-time.Minute))
	otherUser := activeEntry(t, uuid.New(), from.Add(9*time.Hour))
	require.NoError(t, repo.Save(ctx, atEnd))
	require.NoError(t, repo.Save(ctx, before))
	require.NoError(t, repo.Save(ctx, otherUser))

	entries, err := repo.FindByUserAndRange(ctx, userID, from, to)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Ascending by clock-in
	assert.Equal(t, atStart.ID, entries[0].ID)
	assert.Equal(t, inside.ID, entries[1].ID)
}

func TestGormTimeEntryRepository_FindStaleActive(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cutoff := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	stale := activeEntry(t, uuid.New(), cutoff.Add(-25*time.Hour))
	fresh := activeEntry(t, uuid.New(), cutoff.Add(-time.Hour))
	closed := activeEntry(t, uuid.New(), cutoff.Add(-30*time.Hour))
	require.NoError(t, closed.Close(cutoff.Add(-22*time.Hour), ""))

	require.NoError(t, repo.Save(ctx, stale))
	require.NoError(t, repo.Save(ctx, fresh))
	require.NoError(t, repo.Save(ctx, closed))

	entries, err := repo.FindStaleActive(ctx, cutoff.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, stale.ID, entries[0].ID)
}
