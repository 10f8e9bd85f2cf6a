package timetracking

import "github.com/timeclock/backend/internal/domain/shared"

// OvertimePolicy is the configuration value object describing thresholds,
// rates and caps for overtime evaluation. Immutable per evaluation; callers
// may pass an override per call.
type OvertimePolicy struct {
	StandardWorkHours       float64 `json:"standard_work_hours"`
	OvertimeThreshold       float64 `json:"overtime_threshold"`
	OvertimeRate            float64 `json:"overtime_rate"`
	DoubleOvertimeThreshold float64 `json:"double_overtime_threshold,omitempty"` // 0 = no double tier
	DoubleOvertimeRate      float64 `json:"double_overtime_rate,omitempty"`
	MaxOvertimePerDay       float64 `json:"max_overtime_per_day,omitempty"` // 0 = uncapped
	MaxOvertimePerWeek      float64 `json:"max_overtime_per_week,omitempty"`
	RestDayRate             float64 `json:"rest_day_rate,omitempty"`
	HolidayRate             float64 `json:"holiday_rate,omitempty"`
}

// DefaultOvertimePolicy returns the standard 8-hour / 1.25x policy
func DefaultOvertimePolicy() OvertimePolicy {
	return OvertimePolicy{
		StandardWorkHours:       8,
		OvertimeThreshold:       8,
		OvertimeRate:            1.25,
		DoubleOvertimeThreshold: 12,
		DoubleOvertimeRate:      1.5,
		MaxOvertimePerDay:       4,
		MaxOvertimePerWeek:      12,
		RestDayRate:             1.5,
		HolidayRate:             2.0,
	}
}

// HasDoubleOvertime reports whether a double-overtime tier is configured
func (p OvertimePolicy) HasDoubleOvertime() bool {
	return p.DoubleOvertimeThreshold > 0 && p.DoubleOvertimeRate > 0
}

// Validate checks the policy for internal consistency
func (p OvertimePolicy) Validate() error {
	if p.StandardWorkHours <= 0 || p.StandardWorkHours > 24 {
		return shared.NewValidationError("INVALID_POLICY", "Standard work hours must be in (0, 24]")
	}
	if p.OvertimeThreshold < p.StandardWorkHours {
		return shared.NewValidationError("INVALID_POLICY", "Overtime threshold cannot be below standard work hours")
	}
	if p.OvertimeRate < 1 {
		return shared.NewValidationError("INVALID_POLICY", "Overtime rate must be at least 1.0")
	}
	if p.HasDoubleOvertime() && p.DoubleOvertimeThreshold <= p.OvertimeThreshold {
		return shared.NewValidationError("INVALID_POLICY", "Double-overtime threshold must exceed the overtime threshold")
	}
	if p.MaxOvertimePerDay < 0 || p.MaxOvertimePerWeek < 0 {
		return shared.NewValidationError("INVALID_POLICY", "Overtime caps cannot be negative")
	}
	return nil
}
