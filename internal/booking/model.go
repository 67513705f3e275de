package booking

import "time"

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Booking struct {
	ID          int       `db:"id" json:"id"`
	MemberID    int       `db:"member_id" json:"member_id"`
	ScheduleID  int       `db:"schedule_id" json:"schedule_id"`
	BookingDate time.Time `db:"booking_date" json:"booking_date"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type BookingWithDetails struct {
	Booking
	ClassName string `db:"class_name" json:"class_name"`
	StartTime string `db:"start_time" json:"start_time"`
	Room      string `db:"room" json:"room"`
}

// RosterEntry is one confirmed attendee of an occurrence.
type RosterEntry struct {
	BookingID   int       `db:"booking_id" json:"booking_id"`
	MemberID    int       `db:"member_id" json:"member_id"`
	MemberName  string    `db:"member_name" json:"member_name"`
	MemberEmail string    `db:"member_email" json:"member_email"`
	BookedAt    time.Time `db:"booked_at" json:"booked_at"`
}

// Availability describes the seats of a single occurrence.
type Availability struct {
	ScheduleID int    `json:"schedule_id"`
	Date       string `json:"date"`
	Capacity   int    `json:"capacity"`
	Confirmed  int    `json:"confirmed"`
	Available  int    `json:"available"`
	IsFull     bool   `json:"is_full"`
}

type CreateBookingRequest struct {
	ScheduleID  int    `json:"schedule_id" validate:"required,gt=0"`
	BookingDate string `json:"booking_date" validate:"required,datetime=2006-01-02"`
}
