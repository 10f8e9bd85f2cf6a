package timetracking

import (
	"time"

	"github.com/google/uuid"

	"github.com/timeclock/backend/internal/domain/shared"
)

// EntryStatus represents the lifecycle state of a time entry
type EntryStatus string

const (
	EntryStatusActive    EntryStatus = "ACTIVE"
	EntryStatusCompleted EntryStatus = "COMPLETED"
)

// IsValid checks if the status is a valid EntryStatus
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusActive, EntryStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of EntryStatus
func (s EntryStatus) String() string {
	return string(s)
}

// Typed errors for clock and break state transitions
var (
	ErrAlreadyClockedIn = shared.NewBusinessError("ALREADY_CLOCKED_IN", "You are already clocked in; clock out first or force a new session")
	ErrNotClockedIn     = shared.NewBusinessError("NOT_CLOCKED_IN", "You are not clocked in")
	ErrAlreadyOnBreak   = shared.NewBusinessError("ALREADY_ON_BREAK", "A break is already in progress")
	ErrNoActiveBreak    = shared.NewBusinessError("NO_ACTIVE_BREAK", "There is no break in progress")
	ErrInvalidBreakType = shared.NewValidationError("INVALID_BREAK_TYPE", "Unrecognized break type")
	ErrClockInInFuture  = shared.NewValidationError("CLOCK_IN_IN_FUTURE", "Clock-in time cannot be in the future")
	ErrEntryCompleted   = shared.NewBusinessError("ENTRY_COMPLETED", "The time entry is already completed")
	ErrInvalidClockOut  = shared.NewValidationError("INVALID_CLOCK_OUT", "Clock-out must be after clock-in")
)

// TimeEntry is one continuous work session for one user on one calendar day.
//
// Invariants: ClockOut, when present, is strictly after ClockIn; breaks never
// overlap and at most one break is open at a time, and only while the entry
// itself is still active.
type TimeEntry struct {
	ID                  uuid.UUID     `json:"id"`
	UserID              uuid.UUID     `json:"user_id"`
	ClockIn             time.Time     `json:"clock_in"`
	ClockOut            *time.Time    `json:"clock_out,omitempty"`
	Breaks              []BreakPeriod `json:"breaks"`
	Status              EntryStatus   `json:"status"`
	TotalHours          float64       `json:"total_hours"`
	RegularHours        float64       `json:"regular_hours"`
	OvertimeHours       float64       `json:"overtime_hours"`
	DoubleOvertimeHours float64       `json:"double_overtime_hours"`
	Notes               string        `json:"notes"`
	Flagged             bool          `json:"flagged"`
	FlagReason          string        `json:"flag_reason,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// NewTimeEntry creates an active time entry starting at the given instant
func NewTimeEntry(userID uuid.UUID, clockIn time.Time, notes string) (*TimeEntry, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_USER", "User ID cannot be empty")
	}
	now := time.Now()
	return &TimeEntry{
		ID:        uuid.New(),
		UserID:    userID,
		ClockIn:   clockIn,
		Status:    EntryStatusActive,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsActive reports whether the entry is still open
func (e *TimeEntry) IsActive() bool {
	return e.Status == EntryStatusActive && e.ClockOut == nil
}

// OpenBreak returns the currently open break, or nil
func (e *TimeEntry) OpenBreak() *BreakPeriod {
	for i := range e.Breaks {
		if e.Breaks[i].IsOpen() {
			return &e.Breaks[i]
		}
	}
	return nil
}

// IsOnBreak reports whether a break is currently in progress
func (e *TimeEntry) IsOnBreak() bool {
	return e.IsActive() && e.OpenBreak() != nil
}

// BreakMinutes returns the total whole minutes spent on closed breaks
func (e *TimeEntry) BreakMinutes() int {
	total := 0
	for i := range e.Breaks {
		total += e.Breaks[i].DurationMinutes
	}
	return total
}

// StartBreak opens a break of the given type.
// Legal only while the entry is active and no other break is open.
func (e *TimeEntry) StartBreak(breakType BreakType, at time.Time) (*BreakPeriod, error) {
	if !breakType.IsValid() {
		return nil, ErrInvalidBreakType
	}
	if !e.IsActive() {
		return nil, ErrNotClockedIn
	}
	if e.OpenBreak() != nil {
		return nil, ErrAlreadyOnBreak
	}
	e.Breaks = append(e.Breaks, newBreakPeriod(e.ID, breakType, at))
	e.UpdatedAt = at
	return &e.Breaks[len(e.Breaks)-1], nil
}

// EndBreak closes the open break at the given instant and freezes its duration
func (e *TimeEntry) EndBreak(at time.Time) (*BreakPeriod, error) {
	open := e.OpenBreak()
	if open == nil {
		return nil, ErrNoActiveBreak
	}
	open.close(at)
	e.UpdatedAt = at
	return open, nil
}

// AutoCompleteBreaks force-closes any open break using now as its end time.
// Invoked by Close so an entry never completes with a dangling open break.
// Returns the number of breaks closed.
func (e *TimeEntry) AutoCompleteBreaks(now time.Time) int {
	closed := 0
	for i := range e.Breaks {
		if e.Breaks[i].IsOpen() {
			e.Breaks[i].close(now)
			closed++
		}
	}
	if closed > 0 {
		e.UpdatedAt = now
	}
	return closed
}

// Close completes the entry at the given instant. Open breaks are
// auto-completed first, then TotalHours is frozen as elapsed time minus
// all break minutes.
func (e *TimeEntry) Close(clockOut time.Time, notes string) error {
	if !e.IsActive() {
		return ErrEntryCompleted
	}
	if !clockOut.After(e.ClockIn) {
		return ErrInvalidClockOut
	}

	e.AutoCompleteBreaks(clockOut)

	out := clockOut
	e.ClockOut = &out
	e.Status = EntryStatusCompleted
	e.TotalHours = clockOut.Sub(e.ClockIn).Hours() - float64(e.BreakMinutes())/60.0
	if e.TotalHours < 0 {
		e.TotalHours = 0
	}
	if notes != "" {
		e.Notes = notes
	}
	e.UpdatedAt = clockOut
	return nil
}

// ApplyOvertimeSplit freezes the regular/overtime/double-overtime hour split
// computed by the aggregation layer
func (e *TimeEntry) ApplyOvertimeSplit(regular, overtime, doubleOvertime float64) {
	e.RegularHours = regular
	e.OvertimeHours = overtime
	e.DoubleOvertimeHours = doubleOvertime
}

// Flag marks the entry for review without dropping it, e.g. when periodic
// sync finds duplicate active entries for the same user
func (e *TimeEntry) Flag(reason string) {
	e.Flagged = true
	e.FlagReason = reason
	e.UpdatedAt = time.Now()
}
