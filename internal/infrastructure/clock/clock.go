package clock

import (
	"fmt"
	"time"

	"github.com/timeclock/backend/internal/domain/timetracking"
)

// Config holds calendar configuration
type Config struct {
	Timezone     string   // IANA zone name, e.g. "Asia/Shanghai"
	WorkDays     []int    // time.Weekday values that count as working days
	Holidays     []string // dates in YYYY-MM-DD that override WorkDays
	WeekStartsOn int      // time.Weekday the week starts on (default Monday)
}

// DefaultConfig returns a Monday-to-Friday calendar in the local timezone
func DefaultConfig() Config {
	return Config{
		Timezone:     "Local",
		WorkDays:     []int{1, 2, 3, 4, 5},
		WeekStartsOn: int(time.Monday),
	}
}

// CalendarClock implements the timetracking.Clock port with a fixed,
// configurable timezone. All day/week/month boundaries are relative to it.
type CalendarClock struct {
	location  *time.Location
	workDays  map[time.Weekday]bool
	holidays  map[string]bool
	weekStart time.Weekday
}

// New creates a CalendarClock from configuration
func New(cfg Config) (*CalendarClock, error) {
	loc := time.Local
	if cfg.Timezone != "" && cfg.Timezone != "Local" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
	}

	workDays := make(map[time.Weekday]bool, len(cfg.WorkDays))
	for _, d := range cfg.WorkDays {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("invalid work day %d", d)
		}
		workDays[time.Weekday(d)] = true
	}

	holidays := make(map[string]bool, len(cfg.Holidays))
	for _, h := range cfg.Holidays {
		if _, err := time.ParseInLocation("2006-01-02", h, loc); err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", h, err)
		}
		holidays[h] = true
	}

	return &CalendarClock{
		location:  loc,
		workDays:  workDays,
		holidays:  holidays,
		weekStart: time.Weekday(cfg.WeekStartsOn),
	}, nil
}

// Now returns the current instant in the configured timezone
func (c *CalendarClock) Now() time.Time {
	return time.Now().In(c.location)
}

// Location returns the configured timezone
func (c *CalendarClock) Location() *time.Location {
	return c.location
}

// StartOfDay returns midnight of t's calendar day
func (c *CalendarClock) StartOfDay(t time.Time) time.Time {
	t = t.In(c.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.location)
}

// EndOfDay returns the last nanosecond of t's calendar day
func (c *CalendarClock) EndOfDay(t time.Time) time.Time {
	return c.StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfWeek returns midnight of the first day of t's week
func (c *CalendarClock) StartOfWeek(t time.Time) time.Time {
	day := c.StartOfDay(t)
	offset := int(day.Weekday()) - int(c.weekStart)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

// EndOfWeek returns the last nanosecond of t's week
func (c *CalendarClock) EndOfWeek(t time.Time) time.Time {
	return c.StartOfWeek(t).AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// StartOfMonth returns midnight of the first day of t's month
func (c *CalendarClock) StartOfMonth(t time.Time) time.Time {
	t = t.In(c.location)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, c.location)
}

// EndOfMonth returns the last nanosecond of t's month
func (c *CalendarClock) EndOfMonth(t time.Time) time.Time {
	return c.StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// IsWorkingDay reports whether t falls on a configured working day that is
// not a holiday
func (c *CalendarClock) IsWorkingDay(t time.Time) bool {
	if c.IsHoliday(t) {
		return false
	}
	return c.workDays[t.In(c.location).Weekday()]
}

// IsHoliday reports whether t falls on a configured holiday
func (c *CalendarClock) IsHoliday(t time.Time) bool {
	return c.holidays[t.In(c.location).Format("2006-01-02")]
}

// SameDay reports whether a and b fall on the same calendar day
func (c *CalendarClock) SameDay(a, b time.Time) bool {
	return c.StartOfDay(a).Equal(c.StartOfDay(b))
}

var _ timetracking.Clock = (*CalendarClock)(nil)
