package billing

import (
	"strings"

	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"

	"github.com/stripe/stripe-go/v75"
)

// normalizeStatus maps a provider subscription status onto the three local
// ones. ok is false for statuses that should leave the local row alone.
func normalizeStatus(s stripe.SubscriptionStatus) (status string, ok bool) {
	switch strings.TrimSpace(string(s)) {
	case "active", "trialing":
		return subscription.StatusActive, true
	case "past_due", "unpaid", "incomplete":
		return subscription.StatusPastDue, true
	case "canceled", "incomplete_expired":
		return subscription.StatusCanceled, true
	default:
		return "", false
	}
}
