// Package events publishes domain events to RabbitMQ. Publishing is best
// effort: callers log a failure and carry on with the request.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	BookingConfirmed    = "booking.confirmed"
	BookingCancelled    = "booking.cancelled"
	AttendanceCheckedIn = "attendance.checked_in"
	SubscriptionChanged = "subscription.changed"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
	Close() error
}

// Envelope wraps every event on the wire.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func NewEnvelope(routingKey string, data any) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Type:       routingKey,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type BookingEvent struct {
	BookingID   int    `json:"booking_id"`
	MemberID    int    `json:"member_id"`
	ScheduleID  int    `json:"schedule_id"`
	ClassName   string `json:"class_name"`
	BookingDate string `json:"booking_date"`
}

type CheckInEvent struct {
	AttendanceID int       `json:"attendance_id"`
	MemberID     int       `json:"member_id"`
	CheckInTime  time.Time `json:"check_in_time"`
}

type SubscriptionEvent struct {
	MemberID       int    `json:"member_id"`
	SubscriptionID int    `json:"subscription_id"`
	PlanID         int    `json:"plan_id"`
	Status         string `json:"status"`
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }
