package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		ok       bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},

		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},

		// Repeating the current status is not a transition.
		{BookingStatusPending, BookingStatusPending, false},
		{BookingStatusConfirmed, BookingStatusConfirmed, false},
		{BookingStatusCompleted, BookingStatusCompleted, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
}

func TestBookingActiveAt(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
	}
	b := &Booking{Status: BookingStatusConfirmed, StartDate: day(10), EndDate: day(12)}

	assert.False(t, b.ActiveAt(day(9)))
	// Both endpoints inclusive.
	assert.True(t, b.ActiveAt(day(10)))
	assert.True(t, b.ActiveAt(day(11)))
	assert.True(t, b.ActiveAt(day(12)))
	assert.False(t, b.ActiveAt(day(13)))

	cancelled := &Booking{Status: BookingStatusCancelled, StartDate: day(10), EndDate: day(12)}
	assert.False(t, cancelled.ActiveAt(day(11)))
}
