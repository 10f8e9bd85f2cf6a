package reporting

import (
	"github.com/shopspring/decimal"

	"github.com/timeclock/backend/internal/domain/timetracking"
)

// EntryOvertime is the per-entry hour split and pay breakdown produced by
// CalculateEntryOvertime.
type EntryOvertime struct {
	RegularHours        float64         `json:"regular_hours"`
	OvertimeHours       float64         `json:"overtime_hours"`
	DoubleOvertimeHours float64         `json:"double_overtime_hours"`
	RegularPay          decimal.Decimal `json:"regular_pay"`
	OvertimePay         decimal.Decimal `json:"overtime_pay"`
	DoubleOvertimePay   decimal.Decimal `json:"double_overtime_pay"`
	TotalPay            decimal.Decimal `json:"total_pay"`
}

// CalculateEntryOvertime splits one entry's total hours into regular,
// overtime and double-overtime tiers under the given policy, then prices
// each tier at the hourly rate.
//
// The split happens first and the daily cap is applied afterwards, with the
// double-overtime tier consuming the cap before plain overtime. This order
// is a deliberate policy choice; changing it changes pay.
func CalculateEntryOvertime(entry *timetracking.TimeEntry, policy timetracking.OvertimePolicy, hourlyRate decimal.Decimal) EntryOvertime {
	total := entry.TotalHours

	regular := total
	if regular > policy.StandardWorkHours {
		regular = policy.StandardWorkHours
	}

	var overtime, doubleOvertime float64
	if total > policy.OvertimeThreshold {
		if policy.HasDoubleOvertime() && total > policy.DoubleOvertimeThreshold {
			doubleOvertime = total - policy.DoubleOvertimeThreshold
			overtime = policy.DoubleOvertimeThreshold - policy.OvertimeThreshold
		} else {
			overtime = total - policy.OvertimeThreshold
		}

		if cap := policy.MaxOvertimePerDay; cap > 0 {
			if doubleOvertime > cap {
				doubleOvertime = cap
				overtime = 0
			} else if overtime > cap-doubleOvertime {
				overtime = cap - doubleOvertime
			}
		}
	}

	result := EntryOvertime{
		RegularHours:        regular,
		OvertimeHours:       overtime,
		DoubleOvertimeHours: doubleOvertime,
		RegularPay:          hourlyRate.Mul(decimal.NewFromFloat(regular)).Round(2),
		OvertimePay:         hourlyRate.Mul(decimal.NewFromFloat(overtime)).Mul(decimal.NewFromFloat(policy.OvertimeRate)).Round(2),
	}
	if policy.HasDoubleOvertime() {
		result.DoubleOvertimePay = hourlyRate.Mul(decimal.NewFromFloat(doubleOvertime)).Mul(decimal.NewFromFloat(policy.DoubleOvertimeRate)).Round(2)
	} else {
		result.DoubleOvertimePay = decimal.Zero
	}
	result.TotalPay = result.RegularPay.Add(result.OvertimePay).Add(result.DoubleOvertimePay)
	return result
}
