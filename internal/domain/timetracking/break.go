package timetracking

import (
	"time"

	"github.com/google/uuid"
)

// BreakType represents the kind of pause taken during a work session
type BreakType string

const (
	BreakTypeLunch    BreakType = "lunch"
	BreakTypeShort    BreakType = "short"
	BreakTypeExtended BreakType = "extended"
)

// IsValid checks if the break type is recognized
func (t BreakType) IsValid() bool {
	switch t {
	case BreakTypeLunch, BreakTypeShort, BreakTypeExtended:
		return true
	}
	return false
}

// String returns the string representation of BreakType
func (t BreakType) String() string {
	return string(t)
}

// DefaultPaid returns whether a break of this type is paid by default.
// Short breaks are paid; lunch and extended breaks are not.
func (t BreakType) DefaultPaid() bool {
	return t == BreakTypeShort
}

// AllBreakTypes returns every recognized break type
func AllBreakTypes() []BreakType {
	return []BreakType{BreakTypeLunch, BreakTypeShort, BreakTypeExtended}
}

// BreakPeriod is a labeled pause nested inside a TimeEntry.
// At most one BreakPeriod per entry may be open (EndTime nil) at a time.
type BreakPeriod struct {
	ID              uuid.UUID  `json:"id"`
	EntryID         uuid.UUID  `json:"entry_id"`
	Type            BreakType  `json:"type"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	IsPaid          bool       `json:"is_paid"`
	CreatedAt       time.Time  `json:"created_at"`
}

// IsOpen reports whether the break has not been ended yet
func (b *BreakPeriod) IsOpen() bool {
	return b.EndTime == nil
}

// close ends the break at the given instant and freezes its duration,
// rounded to whole minutes.
func (b *BreakPeriod) close(at time.Time) {
	end := at
	b.EndTime = &end
	b.DurationMinutes = int(at.Sub(b.StartTime).Round(time.Minute) / time.Minute)
}

func newBreakPeriod(entryID uuid.UUID, breakType BreakType, start time.Time) BreakPeriod {
	return BreakPeriod{
		ID:        uuid.New(),
		EntryID:   entryID,
		Type:      breakType,
		StartTime: start,
		IsPaid:    breakType.DefaultPaid(),
		CreatedAt: start,
	}
}
