package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub001/internal/metrics"
	"github.com/Omarzahran17/gym-flow-sub001/internal/plan"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"

	"github.com/stripe/stripe-go/v75"
)

const (
	ResultProcessed = "processed"
	ResultIgnored   = "ignored"
	ResultDuplicate = "duplicate"
)

func (s *service) HandleEvent(ctx context.Context, ev stripe.Event) (string, error) {
	eventType := string(ev.Type)

	seen, err := s.Ledger.Processed(ctx, providerStripe, ev.ID)
	if err != nil {
		return "", err
	}
	if seen {
		metrics.RecordWebhookEvent(eventType, ResultDuplicate)
		return ResultDuplicate, nil
	}

	var raw json.RawMessage
	if ev.Data != nil {
		raw = ev.Data.Raw
	}

	result, err := s.dispatch(ctx, eventType, raw)
	if err != nil {
		metrics.RecordWebhookEvent(eventType, "error")
		return "", err
	}

	if result == ResultProcessed {
		if err := s.Ledger.MarkProcessed(ctx, providerStripe, ev.ID, eventType); err != nil {
			return "", err
		}
	}

	metrics.RecordWebhookEvent(eventType, result)
	logger.Info("stripe event handled", "event_id", ev.ID, "type", eventType, "result", result)
	return result, nil
}

func (s *service) dispatch(ctx context.Context, eventType string, raw json.RawMessage) (string, error) {
	switch eventType {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := decode(raw, &session); err != nil {
			return "", err
		}
		return s.checkoutCompleted(ctx, &session)

	case "invoice.paid", "invoice.payment_succeeded":
		var inv stripe.Invoice
		if err := decode(raw, &inv); err != nil {
			return "", err
		}
		return s.invoicePaid(ctx, &inv)

	case "invoice.payment_failed":
		var inv stripe.Invoice
		if err := decode(raw, &inv); err != nil {
			return "", err
		}
		return s.invoiceFailed(ctx, &inv)

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := decode(raw, &sub); err != nil {
			return "", err
		}
		return s.subscriptionUpdated(ctx, &sub)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := decode(raw, &sub); err != nil {
			return "", err
		}
		return s.subscriptionDeleted(ctx, &sub)

	default:
		return ResultIgnored, nil
	}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return ErrInvalidPayload
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func (s *service) checkoutCompleted(ctx context.Context, session *stripe.CheckoutSession) (string, error) {
	memberRef := session.Metadata["member_id"]
	if memberRef == "" {
		memberRef = session.ClientReferenceID
	}
	memberID, err := strconv.Atoi(memberRef)
	if err != nil {
		return "", fmt.Errorf("%w: member_id %q", ErrInvalidPayload, memberRef)
	}
	planID, err := strconv.Atoi(session.Metadata["plan_id"])
	if err != nil {
		return "", fmt.Errorf("%w: plan_id %q", ErrInvalidPayload, session.Metadata["plan_id"])
	}

	p, err := s.Plans.GetByID(ctx, planID)
	if err != nil {
		return "", err
	}

	var stripeSubID string
	if session.Subscription != nil {
		stripeSubID = session.Subscription.ID
	}

	previous, err := s.Subscriptions.GetActive(ctx, memberID)
	if err != nil && !errors.Is(err, subscription.ErrSubscriptionNotFound) {
		return "", err
	}

	start := s.now().UTC()
	sub, err := s.Subscriptions.Activate(ctx, subscription.Activation{
		MemberID:             memberID,
		PlanID:               p.ID,
		StripeSubscriptionID: stripeSubID,
		PeriodStart:          start,
		PeriodEnd:            nextPeriodEnd(start, p.Interval),
	})
	if err != nil {
		return "", err
	}

	if previous != nil && previous.StripeSubscriptionID.Valid && previous.StripeSubscriptionID.String != stripeSubID {
		if err := s.Gateway.CancelSubscription(ctx, previous.StripeSubscriptionID.String); err != nil {
			logger.WithError(err).Warn("cancel replaced stripe subscription failed", "subscription_id", previous.ID)
		}
	}

	if session.Customer != nil && session.Customer.ID != "" {
		if err := s.Members.SetStripeCustomerID(ctx, memberID, session.Customer.ID); err != nil {
			return "", err
		}
	}
	if err := s.syncMemberStatus(ctx, memberID); err != nil {
		return "", err
	}

	s.publish(ctx, sub)
	return ResultProcessed, nil
}

// invoicePeriod prefers the period of the first line, which is the
// subscription period the invoice pays for.
func invoicePeriod(inv *stripe.Invoice) (time.Time, time.Time) {
	if inv.Lines != nil && len(inv.Lines.Data) > 0 && inv.Lines.Data[0].Period != nil {
		p := inv.Lines.Data[0].Period
		return unix(p.Start), unix(p.End)
	}
	return unix(inv.PeriodStart), unix(inv.PeriodEnd)
}

func unix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func invoiceSubscriptionID(inv *stripe.Invoice) string {
	if inv.Subscription == nil {
		return ""
	}
	return inv.Subscription.ID
}

func (s *service) invoicePaid(ctx context.Context, inv *stripe.Invoice) (string, error) {
	stripeSubID := invoiceSubscriptionID(inv)
	if stripeSubID == "" {
		return ResultIgnored, nil
	}

	current, err := s.Subscriptions.GetByStripeID(ctx, stripeSubID)
	if errors.Is(err, subscription.ErrSubscriptionNotFound) {
		return ResultIgnored, nil
	}
	if err != nil {
		return "", err
	}

	start, end := invoicePeriod(inv)
	sub, err := s.Subscriptions.ApplyStripeUpdate(ctx, stripeSubID, subscription.StripeUpdate{
		Status:            subscription.StatusActive,
		PeriodStart:       start,
		PeriodEnd:         end,
		CancelAtPeriodEnd: current.CancelAtPeriodEnd,
	})
	if err != nil {
		return "", err
	}

	if err := s.syncMemberStatus(ctx, sub.MemberID); err != nil {
		return "", err
	}
	s.publish(ctx, sub)
	return ResultProcessed, nil
}

func (s *service) invoiceFailed(ctx context.Context, inv *stripe.Invoice) (string, error) {
	stripeSubID := invoiceSubscriptionID(inv)
	if stripeSubID == "" {
		return ResultIgnored, nil
	}

	current, err := s.Subscriptions.GetByStripeID(ctx, stripeSubID)
	if errors.Is(err, subscription.ErrSubscriptionNotFound) {
		return ResultIgnored, nil
	}
	if err != nil {
		return "", err
	}

	sub, err := s.Subscriptions.ApplyStripeUpdate(ctx, stripeSubID, subscription.StripeUpdate{
		Status:            subscription.StatusPastDue,
		CancelAtPeriodEnd: current.CancelAtPeriodEnd,
	})
	if err != nil {
		return "", err
	}

	if s.Notifier != nil {
		s.notify(ctx, sub.MemberID, s.Notifier.SendPaymentFailed)
	}
	s.publish(ctx, sub)
	return ResultProcessed, nil
}

func (s *service) subscriptionUpdated(ctx context.Context, ss *stripe.Subscription) (string, error) {
	current, err := s.Subscriptions.GetByStripeID(ctx, ss.ID)
	if errors.Is(err, subscription.ErrSubscriptionNotFound) {
		return ResultIgnored, nil
	}
	if err != nil {
		return "", err
	}

	status, ok := normalizeStatus(ss.Status)
	if !ok {
		status = current.Status
	}

	update := subscription.StripeUpdate{
		Status:            status,
		PeriodStart:       unix(ss.CurrentPeriodStart),
		PeriodEnd:         unix(ss.CurrentPeriodEnd),
		CancelAtPeriodEnd: ss.CancelAtPeriodEnd,
	}

	if priceID := subscriptionPriceID(ss); priceID != "" {
		p, err := s.Plans.GetByStripePriceID(ctx, priceID)
		switch {
		case err == nil:
			update.PlanID = p.ID
		case !errors.Is(err, plan.ErrPlanNotFound):
			return "", err
		}
	}

	sub, err := s.Subscriptions.ApplyStripeUpdate(ctx, ss.ID, update)
	if err != nil {
		return "", err
	}

	if err := s.syncMemberStatus(ctx, sub.MemberID); err != nil {
		return "", err
	}
	s.publish(ctx, sub)
	return ResultProcessed, nil
}

func subscriptionPriceID(ss *stripe.Subscription) string {
	if ss.Items == nil || len(ss.Items.Data) == 0 || ss.Items.Data[0].Price == nil {
		return ""
	}
	return ss.Items.Data[0].Price.ID
}

func (s *service) subscriptionDeleted(ctx context.Context, ss *stripe.Subscription) (string, error) {
	at := unix(ss.CanceledAt)
	if at.IsZero() {
		at = s.now().UTC()
	}

	sub, err := s.Subscriptions.MarkCanceled(ctx, ss.ID, at)
	if errors.Is(err, subscription.ErrSubscriptionNotFound) {
		return ResultIgnored, nil
	}
	if err != nil {
		return "", err
	}

	if err := s.syncMemberStatus(ctx, sub.MemberID); err != nil {
		return "", err
	}

	if s.Notifier != nil {
		s.notify(ctx, sub.MemberID, s.Notifier.SendSubscriptionCanceled)
	}
	s.publish(ctx, sub)
	return ResultProcessed, nil
}

func (s *service) notify(ctx context.Context, memberID int, send func(ctx context.Context, to, name string) error) {
	member, err := s.Members.FindByID(ctx, memberID)
	if err != nil {
		logger.WithError(err).Warn("billing email skipped", "member_id", memberID)
		return
	}
	if err := send(ctx, member.Email, member.Name); err != nil {
		logger.WithError(err).Warn("billing email failed", "member_id", memberID)
	}
}
