package reporting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/timeclock/backend/internal/domain/timetracking"
)

func entryWithHours(hours float64) *timetracking.TimeEntry {
	return &timetracking.TimeEntry{TotalHours: hours}
}

var rate100 = decimal.NewFromInt(100)

func TestCalculateEntryOvertime_Split(t *testing.T) {
	policy := timetracking.DefaultOvertimePolicy()

	tests := []struct {
		name     string
		total    float64
		regular  float64
		overtime float64
		double   float64
	}{
		{"under standard", 6, 6, 0, 0},
		{"exactly standard", 8, 8, 0, 0},
		{"two hours over", 10, 8, 2, 0},
		{"at double threshold", 12, 8, 4, 0},
		{"into double tier, cap squeezes overtime", 14, 8, 2, 2},
		{"double consumes whole cap", 18, 8, 0, 4},
		{"zero hours", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateEntryOvertime(entryWithHours(tt.total), policy, rate100)
			assert.InDelta(t, tt.regular, result.RegularHours, 1e-9)
			assert.InDelta(t, tt.overtime, result.OvertimeHours, 1e-9)
			assert.InDelta(t, tt.double, result.DoubleOvertimeHours, 1e-9)
		})
	}
}

func TestCalculateEntryOvertime_SumIdentityWithoutCap(t *testing.T) {
	policy := timetracking.DefaultOvertimePolicy()
	policy.MaxOvertimePerDay = 0

	for _, total := range []float64{0, 4.5, 8, 9.25, 12, 13.75, 16} {
		result := CalculateEntryOvertime(entryWithHours(total), policy, rate100)
		sum := result.RegularHours + result.OvertimeHours + result.DoubleOvertimeHours
		assert.InDelta(t, total, sum, 1e-9, "total %v", total)
	}
}

func TestCalculateEntryOvertime_Pay(t *testing.T) {
	policy := timetracking.DefaultOvertimePolicy()

	// 10h: 8 regular at 100, 2 overtime at 125
	result := CalculateEntryOvertime(entryWithHours(10), policy, rate100)
	assert.True(t, result.RegularPay.Equal(decimal.NewFromInt(800)), "regular pay %s", result.RegularPay)
	assert.True(t, result.OvertimePay.Equal(decimal.NewFromInt(250)), "overtime pay %s", result.OvertimePay)
	assert.True(t, result.DoubleOvertimePay.Equal(decimal.Zero))
	assert.True(t, result.TotalPay.Equal(decimal.NewFromInt(1050)), "total pay %s", result.TotalPay)

	// 18h: double tier takes the whole 4h daily cap at 150
	result = CalculateEntryOvertime(entryWithHours(18), policy, rate100)
	assert.True(t, result.OvertimePay.Equal(decimal.Zero))
	assert.True(t, result.DoubleOvertimePay.Equal(decimal.NewFromInt(600)), "double pay %s", result.DoubleOvertimePay)
	assert.True(t, result.TotalPay.Equal(decimal.NewFromInt(1400)), "total pay %s", result.TotalPay)
}

func TestCalculateEntryOvertime_NoDoubleTier(t *testing.T) {
	policy := timetracking.DefaultOvertimePolicy()
	policy.DoubleOvertimeThreshold = 0
	policy.DoubleOvertimeRate = 0

	result := CalculateEntryOvertime(entryWithHours(14), policy, rate100)
	assert.InDelta(t, 8.0, result.RegularHours, 1e-9)
	// 6 hours over the threshold, clipped by the 4h daily cap
	assert.InDelta(t, 4.0, result.OvertimeHours, 1e-9)
	assert.InDelta(t, 0.0, result.DoubleOvertimeHours, 1e-9)
	assert.True(t, result.DoubleOvertimePay.Equal(decimal.Zero))
}

func TestCalculateEntryOvertime_FractionalRate(t *testing.T) {
	policy := timetracking.DefaultOvertimePolicy()
	rate := decimal.RequireFromString("33.33")

	// 9.5h: 8 regular, 1.5 overtime at 1.25x
	result := CalculateEntryOvertime(entryWithHours(9.5), policy, rate)
	assert.True(t, result.RegularPay.Equal(decimal.RequireFromString("266.64")), "regular pay %s", result.RegularPay)
	assert.True(t, result.OvertimePay.Equal(decimal.RequireFromString("62.49")), "overtime pay %s", result.OvertimePay)
}
