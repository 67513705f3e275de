package email

import (
	"context"
	"fmt"
	"time"
)

const signature = "\n\n- GymFlow Team"

func (s *Service) SendBookingConfirmation(ctx context.Context, to, name, className, room string, date time.Time, startTime string) error {
	subject := "Booking Confirmed - " + className
	body := fmt.Sprintf(`Hi %s,

Your spot is reserved.

Class: %s
Date: %s at %s
Room: %s

See you at the gym!`, name, className, date.Format("Mon, Jan 2 2006"), startTime, room)

	return s.Send(ctx, to, name, subject, body+signature)
}

func (s *Service) SendBookingCancellation(ctx context.Context, to, name, className string, date time.Time) error {
	subject := "Booking Cancelled - " + className
	body := fmt.Sprintf(`Hi %s,

Your booking for %s on %s has been cancelled.`, name, className, date.Format("Mon, Jan 2 2006"))

	return s.Send(ctx, to, name, subject, body+signature)
}

func (s *Service) SendPaymentFailed(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(`Hi %s,

We could not process your latest membership payment. Please update your
payment method to keep access to the gym.`, name)

	return s.Send(ctx, to, name, "Payment failed", body+signature)
}

func (s *Service) SendSubscriptionCanceled(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(`Hi %s,

Your membership has been cancelled. We hope to see you again soon.`, name)

	return s.Send(ctx, to, name, "Membership cancelled", body+signature)
}
