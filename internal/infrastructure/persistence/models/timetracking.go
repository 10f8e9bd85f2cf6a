package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/timeclock/backend/internal/domain/timetracking"
)

// TimeEntryModel is the persistence model for the TimeEntry aggregate root.
type TimeEntryModel struct {
	ID                  uuid.UUID                `gorm:"type:uuid;primary_key"`
	UserID              uuid.UUID                `gorm:"type:uuid;not null;index:idx_time_entries_user_clock_in"`
	ClockIn             time.Time                `gorm:"not null;index:idx_time_entries_user_clock_in"`
	ClockOut            *time.Time               `gorm:"index"`
	Breaks              []BreakPeriodModel       `gorm:"foreignKey:EntryID;references:ID"`
	Status              timetracking.EntryStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	TotalHours          float64                  `gorm:"not null;default:0"`
	RegularHours        float64                  `gorm:"not null;default:0"`
	OvertimeHours       float64                  `gorm:"not null;default:0"`
	DoubleOvertimeHours float64                  `gorm:"not null;default:0"`
	Notes               string                   `gorm:"type:text"`
	Flagged             bool                     `gorm:"not null;default:false"`
	FlagReason          string                   `gorm:"type:varchar(500)"`
	CreatedAt           time.Time                `gorm:"not null"`
	UpdatedAt           time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TimeEntryModel) TableName() string {
	return "time_entries"
}

// ToDomain converts the persistence model to a domain TimeEntry
func (m *TimeEntryModel) ToDomain() *timetracking.TimeEntry {
	entry := &timetracking.TimeEntry{
		ID:                  m.ID,
		UserID:              m.UserID,
		ClockIn:             m.ClockIn,
		ClockOut:            m.ClockOut,
		Status:              m.Status,
		TotalHours:          m.TotalHours,
		RegularHours:        m.RegularHours,
		OvertimeHours:       m.OvertimeHours,
		DoubleOvertimeHours: m.DoubleOvertimeHours,
		Notes:               m.Notes,
		Flagged:             m.Flagged,
		FlagReason:          m.FlagReason,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
		Breaks:              make([]timetracking.BreakPeriod, len(m.Breaks)),
	}
	for i, brk := range m.Breaks {
		entry.Breaks[i] = brk.ToDomain()
	}
	return entry
}

// FromDomain populates the persistence model from a domain TimeEntry
func (m *TimeEntryModel) FromDomain(e *timetracking.TimeEntry) {
	m.ID = e.ID
	m.UserID = e.UserID
	m.ClockIn = e.ClockIn
	m.ClockOut = e.ClockOut
	m.Status = e.Status
	m.TotalHours = e.TotalHours
	m.RegularHours = e.RegularHours
	m.OvertimeHours = e.OvertimeHours
	m.DoubleOvertimeHours = e.DoubleOvertimeHours
	m.Notes = e.Notes
	m.Flagged = e.Flagged
	m.FlagReason = e.FlagReason
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
	m.Breaks = make([]BreakPeriodModel, len(e.Breaks))
	for i, brk := range e.Breaks {
		m.Breaks[i] = BreakPeriodModelFromDomain(brk)
	}
}

// TimeEntryModelFromDomain creates a persistence model from a domain TimeEntry
func TimeEntryModelFromDomain(e *timetracking.TimeEntry) *TimeEntryModel {
	m := &TimeEntryModel{}
	m.FromDomain(e)
	return m
}

// BreakPeriodModel is the persistence model for the BreakPeriod entity.
type BreakPeriodModel struct {
	ID              uuid.UUID              `gorm:"type:uuid;primary_key"`
	EntryID         uuid.UUID              `gorm:"type:uuid;not null;index"`
	Type            timetracking.BreakType `gorm:"type:varchar(20);not null"`
	StartTime       time.Time              `gorm:"not null"`
	EndTime         *time.Time
	DurationMinutes int       `gorm:"not null;default:0"`
	IsPaid          bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BreakPeriodModel) TableName() string {
	return "break_periods"
}

// ToDomain converts the persistence model to a domain BreakPeriod
func (m *BreakPeriodModel) ToDomain() timetracking.BreakPeriod {
	return timetracking.BreakPeriod{
		ID:              m.ID,
		EntryID:         m.EntryID,
		Type:            m.Type,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		DurationMinutes: m.DurationMinutes,
		IsPaid:          m.IsPaid,
		CreatedAt:       m.CreatedAt,
	}
}

// BreakPeriodModelFromDomain creates a persistence model from a domain BreakPeriod
func BreakPeriodModelFromDomain(b timetracking.BreakPeriod) BreakPeriodModel {
	return BreakPeriodModel{
		ID:              b.ID,
		EntryID:         b.EntryID,
		Type:            b.Type,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationMinutes: b.DurationMinutes,
		IsPaid:          b.IsPaid,
		CreatedAt:       b.CreatedAt,
	}
}
