package booking

import (
	"errors"

	"github.com/Omarzahran17/gym-flow-sub001/internal/class"
)

var (
	ErrScheduleNotFound = class.ErrScheduleNotFound
	ErrInvalidDate      = errors.New("booking date must be YYYY-MM-DD")
	ErrAlreadyBooked    = errors.New("you have already booked this class for this date")
	ErrClassFull        = errors.New("this class is full")
	ErrDateInPast       = errors.New("cannot book a class in the past")
	ErrWrongWeekday     = errors.New("class does not run on that date")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotBookingOwner  = errors.New("booking belongs to another member")
	ErrNotCancellable   = errors.New("booking is not confirmed")
)

// Decide applies the duplicate and capacity rules to one occurrence. It must
// see the occurrence as of the moment the booking is inserted, so callers run
// it under the schedule row lock.
func Decide(capacity int, alreadyBooked bool, confirmed int) error {
	if alreadyBooked {
		return ErrAlreadyBooked
	}
	if confirmed >= capacity {
		return ErrClassFull
	}
	return nil
}

func availability(scheduleID int, date string, capacity, confirmed int) Availability {
	available := capacity - confirmed
	if available < 0 {
		available = 0
	}
	return Availability{
		ScheduleID: scheduleID,
		Date:       date,
		Capacity:   capacity,
		Confirmed:  confirmed,
		Available:  available,
		IsFull:     available == 0,
	}
}
