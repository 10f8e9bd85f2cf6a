package reporting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/timeclock/backend/internal/domain/timetracking"
)

// Trend classifies the direction of recent work volume
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Punctuality cutoff: a clock-in at or before this local time counts as
// punctual. Independent of the overtime policy.
const (
	punctualHour   = 9
	punctualMinute = 30
)

// WorkProgressMetrics are behavioral statistics derived from a sequence of
// daily summaries over an arbitrary date range.
type WorkProgressMetrics struct {
	PeriodStart         time.Time `json:"period_start"`
	PeriodEnd           time.Time `json:"period_end"`
	CurrentStreak       int       `json:"current_streak"`
	LongestStreak       int       `json:"longest_streak"`
	PunctualityRate     float64   `json:"punctuality_rate"`
	BreakComplianceRate float64   `json:"break_compliance_rate"`
	Trend               Trend     `json:"trend"`
	WorkingDays         int       `json:"working_days"`
	DaysWorked          int       `json:"days_worked"`
	AverageDailyHours   float64   `json:"average_daily_hours"`
}

// CalculateProgressMetrics builds the full daily summary sequence over
// [from, to] and derives streaks, punctuality, break compliance and trend.
//
// The current streak only advances when a qualifying day is today or later;
// a genuine streak that ended yesterday therefore reports a current streak of
// zero over a purely historical range. This mirrors long-standing behavior
// that callers have come to rely on, and is pinned by tests.
func (e *Engine) CalculateProgressMetrics(entries []*timetracking.TimeEntry, from, to time.Time, policy timetracking.OvertimePolicy, hourlyRate decimal.Decimal) WorkProgressMetrics {
	start := e.clock.StartOfDay(from)
	end := e.clock.StartOfDay(to)
	today := e.clock.StartOfDay(e.clock.Now())

	metrics := WorkProgressMetrics{
		PeriodStart: start,
		PeriodEnd:   e.clock.EndOfDay(to),
	}

	var (
		run             int
		punctualDays    int
		daysWithClockIn int
		breakDays       int
		compliantDays   int
		netSeries       []float64
		totalHours      float64
	)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		summary := e.GenerateDailySummary(entries, day, policy, hourlyRate)

		if summary.EntryCount > 0 {
			metrics.DaysWorked++
			totalHours += summary.TotalHours
		}

		if summary.FirstClockIn != nil {
			daysWithClockIn++
			in := summary.FirstClockIn.In(e.clock.Location())
			if in.Hour() < punctualHour || (in.Hour() == punctualHour && in.Minute() <= punctualMinute) {
				punctualDays++
			}
		}

		if !summary.IsWorkingDay {
			// Rest days neither extend nor break a streak
			continue
		}
		metrics.WorkingDays++

		if summary.BreakMinutes > 0 {
			breakDays++
			if summary.BreakMinutes >= 30 && summary.BreakMinutes <= 90 {
				compliantDays++
			}
		}

		netSeries = append(netSeries, summary.NetWorkHours)

		if summary.EntryCount > 0 && summary.CompletionPercentage >= 100 {
			run++
			if run > metrics.LongestStreak {
				metrics.LongestStreak = run
			}
			if !day.Before(today) {
				metrics.CurrentStreak = run
			}
		} else {
			run = 0
		}
	}

	if daysWithClockIn > 0 {
		metrics.PunctualityRate = float64(punctualDays) / float64(daysWithClockIn) * 100
	}
	if breakDays > 0 {
		metrics.BreakComplianceRate = float64(compliantDays) / float64(breakDays) * 100
	} else {
		// No breaks ever taken: nothing to hold against the user
		metrics.BreakComplianceRate = 100
	}
	if metrics.DaysWorked > 0 {
		metrics.AverageDailyHours = totalHours / float64(metrics.DaysWorked)
	}
	metrics.Trend = classifyTrend(netSeries)
	return metrics
}

// classifyTrend compares first-half vs second-half means with a 10% margin.
// Fewer than 3 data points is always stable.
func classifyTrend(series []float64) Trend {
	if len(series) < 3 {
		return TrendStable
	}
	half := len(series) / 2
	firstMean := mean(series[:half])
	secondMean := mean(series[half:])
	margin := firstMean * 0.10

	switch {
	case secondMean > firstMean+margin:
		return TrendIncreasing
	case secondMean < firstMean-margin:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
