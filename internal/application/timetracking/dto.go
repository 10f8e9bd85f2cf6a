package timetracking

import (
	"time"

	"github.com/google/uuid"

	"github.com/timeclock/backend/internal/domain/timetracking"
)

// ClockInRequest represents a request to start a work session
type ClockInRequest struct {
	At    *time.Time `json:"at"`
	Notes string     `json:"notes" binding:"max=500"`
	Force bool       `json:"force"`
}

// ClockOutRequest represents a request to complete the active work session
type ClockOutRequest struct {
	At    *time.Time `json:"at"`
	Notes string     `json:"notes" binding:"max=500"`
}

// StartBreakRequest represents a request to open a break
type StartBreakRequest struct {
	Type string `json:"type" binding:"required,breaktype"`
}

// SessionStatus is the live view of a user's current session
type SessionStatus struct {
	UserID        uuid.UUID               `json:"user_id"`
	ClockedIn     bool                    `json:"clocked_in"`
	OnBreak       bool                    `json:"on_break"`
	Entry         *timetracking.TimeEntry `json:"entry,omitempty"`
	ElapsedHours  float64                 `json:"elapsed_hours"`
	NetWorkHours  float64                 `json:"net_work_hours"`
	BreakMinutes  int                     `json:"break_minutes"`
	OpenBreakType string                  `json:"open_break_type,omitempty"`
	AsOf          time.Time               `json:"as_of"`
}

// ToSessionStatus builds the status view for an open entry at the given
// instant. A nil entry yields a clocked-out status.
func ToSessionStatus(userID uuid.UUID, entry *timetracking.TimeEntry, now time.Time) SessionStatus {
	status := SessionStatus{UserID: userID, AsOf: now}
	if entry == nil {
		return status
	}
	status.ClockedIn = true
	status.Entry = entry
	status.BreakMinutes = entry.BreakMinutes()
	status.ElapsedHours = now.Sub(entry.ClockIn).Hours()
	if status.ElapsedHours < 0 {
		status.ElapsedHours = 0
	}
	status.NetWorkHours = status.ElapsedHours - float64(status.BreakMinutes)/60
	if status.NetWorkHours < 0 {
		status.NetWorkHours = 0
	}
	if open := entry.OpenBreak(); open != nil {
		status.OnBreak = true
		status.OpenBreakType = open.Type.String()
		openMinutes := int(now.Sub(open.StartTime).Round(time.Minute) / time.Minute)
		if openMinutes > 0 {
			status.BreakMinutes += openMinutes
			status.NetWorkHours = status.ElapsedHours - float64(status.BreakMinutes)/60
			if status.NetWorkHours < 0 {
				status.NetWorkHours = 0
			}
		}
	}
	return status
}
