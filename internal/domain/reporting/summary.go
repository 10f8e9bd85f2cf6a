package reporting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/timeclock/backend/internal/domain/timetracking"
)

// DayStatus classifies a daily summary
type DayStatus string

const (
	DayStatusAbsent     DayStatus = "absent"
	DayStatusComplete   DayStatus = "complete"
	DayStatusOvertime   DayStatus = "overtime"
	DayStatusIncomplete DayStatus = "incomplete"
)

// DailyWorkSummary is a derived view over one calendar day of time entries.
// Summaries are recomputed on demand and never persisted as source of truth.
type DailyWorkSummary struct {
	Date                 time.Time       `json:"date"`
	IsWorkingDay         bool            `json:"is_working_day"`
	IsHoliday            bool            `json:"is_holiday"`
	EntryCount           int             `json:"entry_count"`
	TotalHours           float64         `json:"total_hours"`
	RegularHours         float64         `json:"regular_hours"`
	OvertimeHours        float64         `json:"overtime_hours"`
	DoubleOvertimeHours  float64         `json:"double_overtime_hours"`
	BreakMinutes         int             `json:"break_minutes"`
	NetWorkHours         float64         `json:"net_work_hours"`
	GoalHours            float64         `json:"goal_hours"`
	CompletionPercentage float64         `json:"completion_percentage"`
	Efficiency           float64         `json:"efficiency"`
	Status               DayStatus       `json:"status"`
	Earnings             decimal.Decimal `json:"earnings"`
	FirstClockIn         *time.Time      `json:"first_clock_in,omitempty"`
	LastClockOut         *time.Time      `json:"last_clock_out,omitempty"`
	ProjectedFinish      *time.Time      `json:"projected_finish,omitempty"`
}

// WeeklyWorkSummary owns the seven daily summaries of one calendar week
type WeeklyWorkSummary struct {
	WeekStart            time.Time          `json:"week_start"`
	WeekEnd              time.Time          `json:"week_end"`
	Days                 []DailyWorkSummary `json:"days"`
	TotalHours           float64            `json:"total_hours"`
	RegularHours         float64            `json:"regular_hours"`
	OvertimeHours        float64            `json:"overtime_hours"`
	DoubleOvertimeHours  float64            `json:"double_overtime_hours"`
	BreakMinutes         int                `json:"break_minutes"`
	NetWorkHours         float64            `json:"net_work_hours"`
	GoalHours            float64            `json:"goal_hours"`
	CompletionPercentage float64            `json:"completion_percentage"`
	WorkingDays          int                `json:"working_days"`
	DaysWorked           int                `json:"days_worked"`
	OvertimeOccurrences  int                `json:"overtime_occurrences"`
	AverageDailyHours    float64            `json:"average_daily_hours"`
	Earnings             decimal.Decimal    `json:"earnings"`
	MostProductiveDay    *time.Time         `json:"most_productive_day,omitempty"`
	LeastProductiveDay   *time.Time         `json:"least_productive_day,omitempty"`
}

// MonthlyWorkSummary owns the weekly summaries whose ranges intersect the
// month; month-level day counts are clipped to the month's own boundaries.
type MonthlyWorkSummary struct {
	MonthStart           time.Time           `json:"month_start"`
	MonthEnd             time.Time           `json:"month_end"`
	Weeks                []WeeklyWorkSummary `json:"weeks"`
	TotalHours           float64             `json:"total_hours"`
	RegularHours         float64             `json:"regular_hours"`
	OvertimeHours        float64             `json:"overtime_hours"`
	DoubleOvertimeHours  float64             `json:"double_overtime_hours"`
	BreakMinutes         int                 `json:"break_minutes"`
	NetWorkHours         float64             `json:"net_work_hours"`
	GoalHours            float64             `json:"goal_hours"`
	CompletionPercentage float64             `json:"completion_percentage"`
	WorkingDays          int                 `json:"working_days"`
	DaysWorked           int                 `json:"days_worked"`
	OvertimeOccurrences  int                 `json:"overtime_occurrences"`
	AverageWeeklyHours   float64             `json:"average_weekly_hours"`
	Earnings             decimal.Decimal     `json:"earnings"`
}

// Engine is the pure aggregation layer: time entries in, summaries out.
// It holds no mutable state beyond the injected calendar clock.
type Engine struct {
	clock timetracking.Clock
}

// NewEngine creates an aggregation engine over the given calendar clock
func NewEngine(clock timetracking.Clock) *Engine {
	return &Engine{clock: clock}
}

// GenerateDailySummary aggregates the entries belonging to the calendar day
// of date. Multiple entries on the same day are summed. Earnings on rest days
// and holidays are scaled by the policy's rest-day/holiday rates.
func (e *Engine) GenerateDailySummary(entries []*timetracking.TimeEntry, date time.Time, policy timetracking.OvertimePolicy, hourlyRate decimal.Decimal) DailyWorkSummary {
	working := e.clock.IsWorkingDay(date)
	holiday := e.clock.IsHoliday(date)

	summary := DailyWorkSummary{
		Date:         e.clock.StartOfDay(date),
		IsWorkingDay: working,
		IsHoliday:    holiday,
		Earnings:     decimal.Zero,
	}
	if working {
		summary.GoalHours = policy.StandardWorkHours
	}

	dayRate := decimal.NewFromInt(1)
	if holiday && policy.HolidayRate > 0 {
		dayRate = decimal.NewFromFloat(policy.HolidayRate)
	} else if !working && policy.RestDayRate > 0 {
		dayRate = decimal.NewFromFloat(policy.RestDayRate)
	}

	for _, entry := range entries {
		if !e.clock.SameDay(entry.ClockIn, date) {
			continue
		}
		summary.EntryCount++
		split := CalculateEntryOvertime(entry, policy, hourlyRate)
		summary.TotalHours += entry.TotalHours
		summary.RegularHours += split.RegularHours
		summary.OvertimeHours += split.OvertimeHours
		summary.DoubleOvertimeHours += split.DoubleOvertimeHours
		summary.BreakMinutes += entry.BreakMinutes()
		summary.Earnings = summary.Earnings.Add(split.TotalPay.Mul(dayRate).Round(2))

		in := entry.ClockIn
		if summary.FirstClockIn == nil || in.Before(*summary.FirstClockIn) {
			summary.FirstClockIn = &in
		}
		if entry.ClockOut != nil {
			out := *entry.ClockOut
			if summary.LastClockOut == nil || out.After(*summary.LastClockOut) {
				summary.LastClockOut = &out
			}
		}
	}

	summary.NetWorkHours = summary.TotalHours - float64(summary.BreakMinutes)/60.0

	if summary.GoalHours > 0 {
		summary.CompletionPercentage = summary.NetWorkHours / summary.GoalHours * 100
	} else {
		// Non-working day: no goal to miss
		summary.CompletionPercentage = 100
	}

	// Zero total hours counts as 1 for the ratio only
	denom := summary.TotalHours
	if denom == 0 {
		denom = 1
	}
	summary.Efficiency = clampPercent(summary.NetWorkHours / denom * 100)

	overtimeHours := summary.OvertimeHours + summary.DoubleOvertimeHours
	switch {
	case working && summary.EntryCount == 0:
		summary.Status = DayStatusAbsent
	case !working:
		summary.Status = DayStatusComplete
	case summary.CompletionPercentage >= 100 && overtimeHours > 0:
		summary.Status = DayStatusOvertime
	case summary.CompletionPercentage >= 100:
		summary.Status = DayStatusComplete
	default:
		summary.Status = DayStatusIncomplete
	}

	if summary.Status == DayStatusIncomplete && summary.FirstClockIn != nil {
		// Straight-line projection: earliest clock-in plus the hours still
		// needed to reach the goal
		remaining := summary.GoalHours - summary.NetWorkHours
		if remaining > 0 {
			projected := summary.FirstClockIn.Add(time.Duration(remaining * float64(time.Hour)))
			summary.ProjectedFinish = &projected
		}
	}

	return summary
}

// GenerateWeeklySummary composes the daily summaries of the week containing
// date and rolls them up.
func (e *Engine) GenerateWeeklySummary(entries []*timetracking.TimeEntry, date time.Time, policy timetracking.OvertimePolicy, hourlyRate decimal.Decimal) WeeklyWorkSummary {
	weekStart := e.clock.StartOfWeek(date)
	summary := WeeklyWorkSummary{
		WeekStart: weekStart,
		WeekEnd:   e.clock.EndOfWeek(date),
		Days:      make([]DailyWorkSummary, 0, 7),
		Earnings:  decimal.Zero,
	}

	for i := 0; i < 7; i++ {
		day := e.GenerateDailySummary(entries, weekStart.AddDate(0, 0, i), policy, hourlyRate)
		summary.Days = append(summary.Days, day)
		accumulateDay(&summary, day)
	}

	finishRollup(&summary)
	pickProductiveDays(&summary)
	return summary
}

// GenerateMonthlySummary composes every weekly summary whose range intersects
// the month of date. Month-level totals are clipped to the month's own days so
// boundary weeks do not leak hours from the neighboring months.
func (e *Engine) GenerateMonthlySummary(entries []*timetracking.TimeEntry, date time.Time, policy timetracking.OvertimePolicy, hourlyRate decimal.Decimal) MonthlyWorkSummary {
	monthStart := e.clock.StartOfMonth(date)
	monthEnd := e.clock.EndOfMonth(date)

	summary := MonthlyWorkSummary{
		MonthStart: monthStart,
		MonthEnd:   monthEnd,
		Earnings:   decimal.Zero,
	}

	for cursor := e.clock.StartOfWeek(monthStart); !cursor.After(monthEnd); cursor = cursor.AddDate(0, 0, 7) {
		week := e.GenerateWeeklySummary(entries, cursor, policy, hourlyRate)
		summary.Weeks = append(summary.Weeks, week)

		for _, day := range week.Days {
			if day.Date.Before(monthStart) || day.Date.After(monthEnd) {
				continue
			}
			summary.TotalHours += day.TotalHours
			summary.RegularHours += day.RegularHours
			summary.OvertimeHours += day.OvertimeHours
			summary.DoubleOvertimeHours += day.DoubleOvertimeHours
			summary.BreakMinutes += day.BreakMinutes
			summary.GoalHours += day.GoalHours
			summary.Earnings = summary.Earnings.Add(day.Earnings)
			if day.IsWorkingDay {
				summary.WorkingDays++
			}
			if day.EntryCount > 0 {
				summary.DaysWorked++
			}
			if day.Status == DayStatusOvertime {
				summary.OvertimeOccurrences++
			}
		}
	}

	summary.NetWorkHours = summary.TotalHours - float64(summary.BreakMinutes)/60.0
	if summary.GoalHours > 0 {
		summary.CompletionPercentage = summary.NetWorkHours / summary.GoalHours * 100
	} else {
		summary.CompletionPercentage = 100
	}
	if len(summary.Weeks) > 0 {
		summary.AverageWeeklyHours = summary.TotalHours / float64(len(summary.Weeks))
	}
	return summary
}

func accumulateDay(w *WeeklyWorkSummary, day DailyWorkSummary) {
	w.TotalHours += day.TotalHours
	w.RegularHours += day.RegularHours
	w.OvertimeHours += day.OvertimeHours
	w.DoubleOvertimeHours += day.DoubleOvertimeHours
	w.BreakMinutes += day.BreakMinutes
	w.GoalHours += day.GoalHours
	w.Earnings = w.Earnings.Add(day.Earnings)
	if day.IsWorkingDay {
		w.WorkingDays++
	}
	if day.EntryCount > 0 {
		w.DaysWorked++
	}
	if day.Status == DayStatusOvertime {
		w.OvertimeOccurrences++
	}
}

func finishRollup(w *WeeklyWorkSummary) {
	w.NetWorkHours = w.TotalHours - float64(w.BreakMinutes)/60.0
	if w.GoalHours > 0 {
		w.CompletionPercentage = w.NetWorkHours / w.GoalHours * 100
	} else {
		w.CompletionPercentage = 100
	}
	if w.DaysWorked > 0 {
		w.AverageDailyHours = w.TotalHours / float64(w.DaysWorked)
	}
}

// pickProductiveDays chooses the highest and lowest efficiency among working
// days with nonzero hours; ties go to the earliest day.
func pickProductiveDays(w *WeeklyWorkSummary) {
	var most, least *DailyWorkSummary
	for i := range w.Days {
		day := &w.Days[i]
		if !day.IsWorkingDay || day.TotalHours == 0 {
			continue
		}
		if most == nil || day.Efficiency > most.Efficiency {
			most = day
		}
		if least == nil || day.Efficiency < least.Efficiency {
			least = day
		}
	}
	if most != nil {
		d := most.Date
		w.MostProductiveDay = &d
	}
	if least != nil {
		d := least.Date
		w.LeastProductiveDay = &d
	}
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
