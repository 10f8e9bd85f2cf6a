package timetracking

import "time"

// Clock supplies the current instant and timezone-aware calendar boundaries.
// All "today/this week" decisions in the engine and the aggregation layer go
// through this port so tests can substitute a fixed clock.
type Clock interface {
	Now() time.Time
	StartOfDay(t time.Time) time.Time
	EndOfDay(t time.Time) time.Time
	StartOfWeek(t time.Time) time.Time
	EndOfWeek(t time.Time) time.Time
	StartOfMonth(t time.Time) time.Time
	EndOfMonth(t time.Time) time.Time
	IsWorkingDay(t time.Time) bool
	IsHoliday(t time.Time) bool
	SameDay(a, b time.Time) bool
	Location() *time.Location
}
