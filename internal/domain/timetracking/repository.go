package timetracking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TimeEntryRepository is the storage gateway for time entries. Entry identity
// (ids) and nested break order must survive save/load round-trips, and all
// instants must come back with stable timezone semantics.
type TimeEntryRepository interface {
	// FindByID finds an entry by its ID; shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*TimeEntry, error)

	// FindActiveByUser returns the user's open entry; shared.ErrNotFound when
	// the user is not clocked in
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*TimeEntry, error)

	// FindAllActiveByUser returns every open entry for the user, newest first.
	// More than one element means a cross-instance race slipped a duplicate in;
	// callers reconcile rather than fail.
	FindAllActiveByUser(ctx context.Context, userID uuid.UUID) ([]*TimeEntry, error)

	// FindByUserAndRange returns the user's entries whose clock-in falls in
	// [from, to), ordered by clock-in ascending
	FindByUserAndRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*TimeEntry, error)

	// CreateActive persists a new active entry, failing with
	// shared.ErrAlreadyExists when the user already has an open entry. The
	// check-and-create runs in one transaction to keep the one-active-entry
	// invariant as close to atomic as the store allows.
	CreateActive(ctx context.Context, entry *TimeEntry) error

	// Save persists the current state of an existing entry and its breaks
	Save(ctx context.Context, entry *TimeEntry) error

	// FindStaleActive returns open entries whose clock-in is before the cutoff,
	// across all users
	FindStaleActive(ctx context.Context, before time.Time) ([]*TimeEntry, error)
}
