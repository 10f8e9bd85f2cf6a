package timetracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOvertimePolicy(t *testing.T) {
	policy := DefaultOvertimePolicy()

	require.NoError(t, policy.Validate())
	assert.Equal(t, 8.0, policy.StandardWorkHours)
	assert.Equal(t, 8.0, policy.OvertimeThreshold)
	assert.Equal(t, 1.25, policy.OvertimeRate)
	assert.True(t, policy.HasDoubleOvertime())
}

func TestOvertimePolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*OvertimePolicy)
		wantErr bool
	}{
		{"default is valid", func(p *OvertimePolicy) {}, false},
		{"zero standard hours", func(p *OvertimePolicy) { p.StandardWorkHours = 0 }, true},
		{"standard hours above a day", func(p *OvertimePolicy) { p.StandardWorkHours = 25 }, true},
		{"threshold below standard", func(p *OvertimePolicy) { p.OvertimeThreshold = 7 }, true},
		{"overtime rate below 1", func(p *OvertimePolicy) { p.OvertimeRate = 0.5 }, true},
		{"double threshold not above threshold", func(p *OvertimePolicy) { p.DoubleOvertimeThreshold = 8 }, true},
		{"negative daily cap", func(p *OvertimePolicy) { p.MaxOvertimePerDay = -1 }, true},
		{"no double overtime tier", func(p *OvertimePolicy) {
			p.DoubleOvertimeThreshold = 0
			p.DoubleOvertimeRate = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := DefaultOvertimePolicy()
			tt.mutate(&policy)
			err := policy.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOvertimePolicy_HasDoubleOvertime(t *testing.T) {
	policy := DefaultOvertimePolicy()
	assert.True(t, policy.HasDoubleOvertime())

	policy.DoubleOvertimeRate = 0
	assert.False(t, policy.HasDoubleOvertime())

	policy = DefaultOvertimePolicy()
	policy.DoubleOvertimeThreshold = 0
	assert.False(t, policy.HasDoubleOvertime())
}
