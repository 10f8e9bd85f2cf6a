package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVirtual_AfterFiresOnce(t *testing.T) {
	s := NewVirtual()
	var calls int
	s.After(time.Minute, func() { calls++ })

	s.Advance(59 * time.Second)
	assert.Zero(t, calls)

	s.Advance(time.Second)
	assert.Equal(t, 1, calls)

	s.Advance(time.Hour)
	assert.Equal(t, 1, calls)
	assert.Zero(t, s.Pending())
}

func TestVirtual_EveryRepeatsWithinOneAdvance(t *testing.T) {
	s := NewVirtual()
	var calls int
	s.Every(10*time.Minute, func() { calls++ })

	s.Advance(35 * time.Minute)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, s.Pending())
}

func TestVirtual_FiresInDueOrder(t *testing.T) {
	s := NewVirtual()
	var order []string
	s.After(3*time.Minute, func() { order = append(order, "late") })
	s.After(time.Minute, func() { order = append(order, "early") })
	s.Every(2*time.Minute, func() { order = append(order, "tick") })

	s.Advance(4 * time.Minute)
	assert.Equal(t, []string{"early", "tick", "late", "tick"}, order)
}

func TestVirtual_Cancel(t *testing.T) {
	s := NewVirtual()
	var calls int
	handle := s.After(time.Minute, func() { calls++ })
	handle.Cancel()

	s.Advance(time.Hour)
	assert.Zero(t, calls)
	assert.Zero(t, s.Pending())

	// Cancelling twice is harmless
	handle.Cancel()
}

func TestVirtual_CancelRecurring(t *testing.T) {
	s := NewVirtual()
	var calls int
	handle := s.Every(time.Minute, func() { calls++ })

	s.Advance(2 * time.Minute)
	assert.Equal(t, 2, calls)

	handle.Cancel()
	s.Advance(time.Hour)
	assert.Equal(t, 2, calls)
	assert.Zero(t, s.Pending())
}

func TestVirtual_CallbackMaySchedule(t *testing.T) {
	s := NewVirtual()
	var chained int
	s.After(time.Minute, func() {
		s.After(time.Minute, func() { chained++ })
	})

	// The chained task is due within the same window and fires too
	s.Advance(2 * time.Minute)
	assert.Equal(t, 1, chained)
}
