package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		capacity      int
		alreadyBooked bool
		confirmed     int
		want          error
	}{
		{"empty class", 2, false, 0, nil},
		{"last seat", 2, false, 1, nil},
		{"full", 2, false, 2, ErrClassFull},
		{"over capacity", 2, false, 5, ErrClassFull},
		{"duplicate wins over full", 2, true, 2, ErrAlreadyBooked},
		{"duplicate with room", 20, true, 3, ErrAlreadyBooked},
		{"zero capacity", 0, false, 0, ErrClassFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.capacity, tt.alreadyBooked, tt.confirmed))
		})
	}
}

// Confirmed bookings of one occurrence never exceed capacity when every
// reservation goes through Decide in order.
func TestDecide_NeverExceedsCapacity(t *testing.T) {
	for capacity := 0; capacity <= 5; capacity++ {
		confirmed := 0
		for member := 0; member < 10; member++ {
			if Decide(capacity, false, confirmed) == nil {
				confirmed++
			}
		}
		assert.Equal(t, capacity, confirmed)
	}
}

func TestAvailability(t *testing.T) {
	a := availability(4, "2026-10-20", 2, 1)
	assert.Equal(t, 1, a.Available)
	assert.False(t, a.IsFull)

	a = availability(4, "2026-10-20", 2, 3)
	assert.Equal(t, 0, a.Available)
	assert.True(t, a.IsFull)
	assert.Equal(t, "2026-10-20", a.Date)
}
