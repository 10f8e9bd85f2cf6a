package reporting

import (
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/timeclock/backend/internal/domain/shared"
)

// ExportFormat selects the serialization format for summary export
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
)

// IsValid checks if the export format is recognized
func (f ExportFormat) IsValid() bool {
	return f == ExportFormatJSON || f == ExportFormatCSV
}

// ErrUnsupportedExport is returned for summaries or formats export cannot handle
var ErrUnsupportedExport = shared.NewValidationError("UNSUPPORTED_EXPORT", "Unsupported export format or summary type")

// ExportSummary serializes a daily, weekly or monthly summary (or progress
// metrics) to the requested format.
func ExportSummary(summary any, format ExportFormat) (string, error) {
	switch format {
	case ExportFormatJSON:
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return "", shared.NewSystemError("EXPORT_FAILED", "Failed to serialize summary", err)
		}
		return string(data), nil
	case ExportFormatCSV:
		return exportCSV(summary)
	default:
		return "", ErrUnsupportedExport
	}
}

func exportCSV(summary any) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	switch s := summary.(type) {
	case DailyWorkSummary:
		writeDailyHeader(w)
		writeDailyRow(w, s)
	case *DailyWorkSummary:
		writeDailyHeader(w)
		writeDailyRow(w, *s)
	case WeeklyWorkSummary:
		writeDailyHeader(w)
		for _, day := range s.Days {
			writeDailyRow(w, day)
		}
	case *WeeklyWorkSummary:
		writeDailyHeader(w)
		for _, day := range s.Days {
			writeDailyRow(w, day)
		}
	case MonthlyWorkSummary:
		writeMonthlyRows(w, s)
	case *MonthlyWorkSummary:
		writeMonthlyRows(w, *s)
	case WorkProgressMetrics:
		writeMetricsRows(w, s)
	case *WorkProgressMetrics:
		writeMetricsRows(w, *s)
	default:
		return "", ErrUnsupportedExport
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", shared.NewSystemError("EXPORT_FAILED", "Failed to serialize summary", err)
	}
	return buf.String(), nil
}

func writeDailyHeader(w *csv.Writer) {
	w.Write([]string{
		"date", "status", "entries", "total_hours", "regular_hours",
		"overtime_hours", "double_overtime_hours", "break_minutes",
		"net_work_hours", "goal_hours", "completion_pct", "efficiency", "earnings",
	})
}

func writeDailyRow(w *csv.Writer, d DailyWorkSummary) {
	w.Write([]string{
		d.Date.Format("2006-01-02"),
		string(d.Status),
		strconv.Itoa(d.EntryCount),
		formatHours(d.TotalHours),
		formatHours(d.RegularHours),
		formatHours(d.OvertimeHours),
		formatHours(d.DoubleOvertimeHours),
		strconv.Itoa(d.BreakMinutes),
		formatHours(d.NetWorkHours),
		formatHours(d.GoalHours),
		formatHours(d.CompletionPercentage),
		formatHours(d.Efficiency),
		d.Earnings.StringFixed(2),
	})
}

func writeMonthlyRows(w *csv.Writer, m MonthlyWorkSummary) {
	w.Write([]string{
		"week_start", "week_end", "total_hours", "overtime_hours",
		"break_minutes", "net_work_hours", "completion_pct", "days_worked", "earnings",
	})
	for _, week := range m.Weeks {
		w.Write([]string{
			week.WeekStart.Format("2006-01-02"),
			week.WeekEnd.Format("2006-01-02"),
			formatHours(week.TotalHours),
			formatHours(week.OvertimeHours + week.DoubleOvertimeHours),
			strconv.Itoa(week.BreakMinutes),
			formatHours(week.NetWorkHours),
			formatHours(week.CompletionPercentage),
			strconv.Itoa(week.DaysWorked),
			week.Earnings.StringFixed(2),
		})
	}
}

func writeMetricsRows(w *csv.Writer, m WorkProgressMetrics) {
	w.Write([]string{"metric", "value"})
	w.Write([]string{"period_start", m.PeriodStart.Format(time.RFC3339)})
	w.Write([]string{"period_end", m.PeriodEnd.Format(time.RFC3339)})
	w.Write([]string{"current_streak", strconv.Itoa(m.CurrentStreak)})
	w.Write([]string{"longest_streak", strconv.Itoa(m.LongestStreak)})
	w.Write([]string{"punctuality_rate", formatHours(m.PunctualityRate)})
	w.Write([]string{"break_compliance_rate", formatHours(m.BreakComplianceRate)})
	w.Write([]string{"trend", string(m.Trend)})
	w.Write([]string{"working_days", strconv.Itoa(m.WorkingDays)})
	w.Write([]string{"days_worked", strconv.Itoa(m.DaysWorked)})
	w.Write([]string{"average_daily_hours", formatHours(m.AverageDailyHours)})
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
