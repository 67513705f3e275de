package billing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/plan"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub001/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type fixture struct {
	gateway  *MockGateway
	ledger   *MockLedger
	subs     *MockSubscriptions
	plans    *MockPlans
	members  *MockMembers
	notifier *MockNotifier
	events   *MockPublisher
	svc      Service
}

func newFixture() *fixture {
	f := &fixture{
		gateway:  new(MockGateway),
		ledger:   new(MockLedger),
		subs:     new(MockSubscriptions),
		plans:    new(MockPlans),
		members:  new(MockMembers),
		notifier: new(MockNotifier),
		events:   new(MockPublisher),
	}
	f.events.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	s := NewService(Deps{
		Gateway:       f.gateway,
		Ledger:        f.ledger,
		Subscriptions: f.subs,
		Plans:         f.plans,
		Members:       f.members,
		Notifier:      f.notifier,
		Events:        f.events,
		AppURL:        "https://gym.example.com",
	}).(*service)
	s.now = func() time.Time { return testNow }
	f.svc = s
	return f
}

func event(id, typ, raw string) stripe.Event {
	var ev stripe.Event
	payload := fmt.Sprintf(`{"id":%q,"object":"event","type":%q,"data":{"object":%s}}`, id, typ, raw)
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		panic(err)
	}
	return ev
}

func activeSub(id, memberID int, stripeID string) *subscription.MemberSubscription {
	return &subscription.MemberSubscription{
		ID:                   id,
		MemberID:             memberID,
		PlanID:               1,
		Status:               subscription.StatusActive,
		StripeSubscriptionID: sql.NullString{String: stripeID, Valid: stripeID != ""},
	}
}

func premiumPlan() *plan.Plan {
	return &plan.Plan{
		ID:            2,
		Name:          "Premium",
		Interval:      plan.IntervalMonth,
		IsActive:      true,
		StripePriceID: sql.NullString{String: "price_premium", Valid: true},
	}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the customer once", func(t *testing.T) {
		f := newFixture()
		f.plans.On("GetByID", ctx, 2).Return(premiumPlan(), nil)
		f.members.On("FindByID", ctx, 4).Return(&user.User{ID: 4, Name: "Ana", Email: "ana@example.com"}, nil)
		f.gateway.On("CreateCustomer", ctx, "ana@example.com", "Ana", 4).Return("cus_1", nil)
		f.members.On("SetStripeCustomerID", ctx, 4, "cus_1").Return(nil)
		f.gateway.On("CreateCheckoutSession", ctx, CheckoutRequest{
			CustomerID: "cus_1",
			PriceID:    "price_premium",
			MemberID:   4,
			PlanID:     2,
			SuccessURL: "https://gym.example.com/account?checkout=success",
			CancelURL:  "https://gym.example.com/account?checkout=canceled",
		}).Return("https://checkout.stripe.com/cs_1", nil)

		url, err := f.svc.Checkout(ctx, 4, 2)
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.stripe.com/cs_1", url)
		f.gateway.AssertExpectations(t)
		f.members.AssertExpectations(t)
	})

	t.Run("reuses an existing customer", func(t *testing.T) {
		f := newFixture()
		f.plans.On("GetByID", ctx, 2).Return(premiumPlan(), nil)
		f.members.On("FindByID", ctx, 4).Return(&user.User{ID: 4, StripeCustomerID: sql.NullString{String: "cus_9", Valid: true}}, nil)
		f.gateway.On("CreateCheckoutSession", ctx, mock.MatchedBy(func(r CheckoutRequest) bool { return r.CustomerID == "cus_9" })).
			Return("https://checkout.stripe.com/cs_2", nil)

		_, err := f.svc.Checkout(ctx, 4, 2)
		require.NoError(t, err)
		f.gateway.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("plan without price", func(t *testing.T) {
		f := newFixture()
		f.plans.On("GetByID", ctx, 3).Return(&plan.Plan{ID: 3, IsActive: true}, nil)

		_, err := f.svc.Checkout(ctx, 4, 3)
		assert.ErrorIs(t, err, ErrPlanNotPurchasable)
	})
}

func TestCancelAtPeriodEnd(t *testing.T) {
	ctx := context.Background()

	t.Run("stripe managed", func(t *testing.T) {
		f := newFixture()
		f.subs.On("GetActive", ctx, 4).Return(activeSub(10, 4, "sub_1"), nil)
		f.gateway.On("SetCancelAtPeriodEnd", ctx, "sub_1", true).Return(nil)
		f.subs.On("SetCancelAtPeriodEnd", ctx, 10, true).Return(nil)

		sub, err := f.svc.CancelAtPeriodEnd(ctx, 4)
		require.NoError(t, err)
		assert.True(t, sub.CancelAtPeriodEnd)
		assert.Equal(t, subscription.StatusActive, sub.Status)
	})

	t.Run("provider failure leaves the row", func(t *testing.T) {
		f := newFixture()
		f.subs.On("GetActive", ctx, 4).Return(activeSub(10, 4, "sub_1"), nil)
		f.gateway.On("SetCancelAtPeriodEnd", ctx, "sub_1", true).Return(errors.New("stripe down"))

		_, err := f.svc.CancelAtPeriodEnd(ctx, 4)
		assert.Error(t, err)
		f.subs.AssertNotCalled(t, "SetCancelAtPeriodEnd", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nothing active", func(t *testing.T) {
		f := newFixture()
		f.subs.On("GetActive", ctx, 4).Return(nil, subscription.ErrSubscriptionNotFound)

		_, err := f.svc.CancelAtPeriodEnd(ctx, 4)
		assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)
	})
}

func TestHandleEvent_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.ledger.On("Processed", ctx, "stripe", "evt_1").Return(true, nil)

	result, err := f.svc.HandleEvent(ctx, event("evt_1", "invoice.paid", `{}`))
	require.NoError(t, err)
	assert.Equal(t, ResultDuplicate, result)
	f.subs.AssertNotCalled(t, "GetByStripeID", mock.Anything, mock.Anything)
}

func TestHandleEvent_Unknown(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.ledger.On("Processed", ctx, "stripe", "evt_2").Return(false, nil)

	result, err := f.svc.HandleEvent(ctx, event("evt_2", "customer.created", `{"id":"cus_1"}`))
	require.NoError(t, err)
	assert.Equal(t, ResultIgnored, result)
	f.ledger.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleEvent_CheckoutCompleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.ledger.On("Processed", ctx, "stripe", "evt_3").Return(false, nil)
	f.plans.On("GetByID", ctx, 2).Return(premiumPlan(), nil)
	f.subs.On("GetActive", ctx, 4).Return(activeSub(7, 4, "sub_old"), nil).Once()
	f.subs.On("Activate", ctx, subscription.Activation{
		MemberID:             4,
		PlanID:               2,
		StripeSubscriptionID: "sub_new",
		PeriodStart:          testNow,
		PeriodEnd:            testNow.AddDate(0, 1, 0),
	}).Return(activeSub(8, 4, "sub_new"), nil)
	f.gateway.On("CancelSubscription", ctx, "sub_old").Return(nil)
	f.members.On("SetStripeCustomerID", ctx, 4, "cus_1").Return(nil)
	f.subs.On("GetActive", ctx, 4).Return(activeSub(8, 4, "sub_new"), nil)
	f.members.On("SetStatus", ctx, 4, user.StatusActive).Return(nil)
	f.ledger.On("MarkProcessed", ctx, "stripe", "evt_3", "checkout.session.completed").Return(nil)

	raw := `{"id":"cs_1","customer":"cus_1","subscription":"sub_new","metadata":{"member_id":"4","plan_id":"2"}}`
	result, err := f.svc.HandleEvent(ctx, event("evt_3", "checkout.session.completed", raw))
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, result)

	f.subs.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
	f.members.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
}

func TestHandleEvent_CheckoutMissingMetadata(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.ledger.On("Processed", ctx, "stripe", "evt_4").Return(false, nil)

	_, err := f.svc.HandleEvent(ctx, event("evt_4", "checkout.session.completed", `{"id":"cs_1"}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestHandleEvent_InvoicePaid(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	start, end := int64(1760659200), int64(1763337600)
	current := activeSub(8, 4, "sub_1")
	current.Status = subscription.StatusPastDue
	current.CancelAtPeriodEnd = true

	f.ledger.On("Processed", ctx, "stripe", "evt_5").Return(false, nil)
	f.subs.On("GetByStripeID", ctx, "sub_1").Return(current, nil)
	f.subs.On("ApplyStripeUpdate", ctx, "sub_1", subscription.StripeUpdate{
		Status:            subscription.StatusActive,
		PeriodStart:       time.Unix(start, 0).UTC(),
		PeriodEnd:         time.Unix(end, 0).UTC(),
		CancelAtPeriodEnd: true,
	}).Return(activeSub(8, 4, "sub_1"), nil)
	f.subs.On("GetActive", ctx, 4).Return(activeSub(8, 4, "sub_1"), nil)
	f.members.On("SetStatus", ctx, 4, user.StatusActive).Return(nil)
	f.ledger.On("MarkProcessed", ctx, "stripe", "evt_5", "invoice.paid").Return(nil)

	raw := `{"id":"in_1","subscription":"sub_1","lines":{"object":"list","data":[{"id":"il_1","period":{"start":1760659200,"end":1763337600}}]}}`
	result, err := f.svc.HandleEvent(ctx, event("evt_5", "invoice.paid", raw))
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, result)
	f.subs.AssertExpectations(t)
}

func TestHandleEvent_InvoiceForUnknownSubscription(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.ledger.On("Processed", ctx, "stripe", "evt_6").Return(false, nil)
	f.subs.On("GetByStripeID", ctx, "sub_x").Return(nil, subscription.ErrSubscriptionNotFound)

	result, err := f.svc.HandleEvent(ctx, event("evt_6", "invoice.payment_succeeded", `{"id":"in_2","subscription":"sub_x"}`))
	require.NoError(t, err)
	assert.Equal(t, ResultIgnored, result)
}

func TestHandleEvent_PaymentFailed(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	pastDue := activeSub(8, 4, "sub_1")
	pastDue.Status = subscription.StatusPastDue

	f.ledger.On("Processed", ctx, "stripe", "evt_7").Return(false, nil)
	f.subs.On("GetByStripeID", ctx, "sub_1").Return(activeSub(8, 4, "sub_1"), nil)
	f.subs.On("ApplyStripeUpdate", ctx, "sub_1", subscription.StripeUpdate{Status: subscription.StatusPastDue}).Return(pastDue, nil)
	f.members.On("FindByID", ctx, 4).Return(&user.User{ID: 4, Name: "Ana", Email: "ana@example.com"}, nil)
	f.notifier.On("SendPaymentFailed", ctx, "ana@example.com", "Ana").Return(nil)
	f.ledger.On("MarkProcessed", ctx, "stripe", "evt_7", "invoice.payment_failed").Return(nil)

	result, err := f.svc.HandleEvent(ctx, event("evt_7", "invoice.payment_failed", `{"id":"in_3","subscription":"sub_1"}`))
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, result)
	f.notifier.AssertExpectations(t)
}

func TestHandleEvent_SubscriptionUpdated(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.ledger.On("Processed", ctx, "stripe", "evt_8").Return(false, nil)
	f.subs.On("GetByStripeID", ctx, "sub_1").Return(activeSub(8, 4, "sub_1"), nil)
	f.plans.On("GetByStripePriceID", ctx, "price_premium").Return(premiumPlan(), nil)
	f.subs.On("ApplyStripeUpdate", ctx, "sub_1", subscription.StripeUpdate{
		Status:            subscription.StatusActive,
		PeriodStart:       time.Unix(1760659200, 0).UTC(),
		PeriodEnd:         time.Unix(1763337600, 0).UTC(),
		CancelAtPeriodEnd: true,
		PlanID:            2,
	}).Return(activeSub(8, 4, "sub_1"), nil)
	f.subs.On("GetActive", ctx, 4).Return(activeSub(8, 4, "sub_1"), nil)
	f.members.On("SetStatus", ctx, 4, user.StatusActive).Return(nil)
	f.ledger.On("MarkProcessed", ctx, "stripe", "evt_8", "customer.subscription.updated").Return(nil)

	raw := `{"id":"sub_1","status":"trialing","current_period_start":1760659200,"current_period_end":1763337600,
		"cancel_at_period_end":true,"items":{"object":"list","data":[{"id":"si_1","price":{"id":"price_premium"}}]}}`
	result, err := f.svc.HandleEvent(ctx, event("evt_8", "customer.subscription.updated", raw))
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, result)
	f.subs.AssertExpectations(t)
}

func TestHandleEvent_SubscriptionDeleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	canceled := activeSub(8, 4, "sub_1")
	canceled.Status = subscription.StatusCanceled

	f.ledger.On("Processed", ctx, "stripe", "evt_9").Return(false, nil)
	f.subs.On("MarkCanceled", ctx, "sub_1", time.Unix(1760700000, 0).UTC()).Return(canceled, nil)
	f.subs.On("GetActive", ctx, 4).Return(nil, subscription.ErrSubscriptionNotFound)
	f.members.On("SetStatus", ctx, 4, user.StatusInactive).Return(nil)
	f.members.On("FindByID", ctx, 4).Return(&user.User{ID: 4, Name: "Ana", Email: "ana@example.com"}, nil)
	f.notifier.On("SendSubscriptionCanceled", ctx, "ana@example.com", "Ana").Return(nil)
	f.ledger.On("MarkProcessed", ctx, "stripe", "evt_9", "customer.subscription.deleted").Return(nil)

	result, err := f.svc.HandleEvent(ctx, event("evt_9", "customer.subscription.deleted", `{"id":"sub_1","status":"canceled","canceled_at":1760700000}`))
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, result)
	f.members.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestHandleEvent_DeletedOldSubscriptionKeepsMemberActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	old := activeSub(7, 4, "sub_old")
	old.Status = subscription.StatusCanceled

	f.ledger.On("Processed", ctx, "stripe", "evt_10").Return(false, nil)
	f.subs.On("MarkCanceled", ctx, "sub_old", testNow).Return(old, nil)
	f.subs.On("GetActive", ctx, 4).Return(activeSub(8, 4, "sub_new"), nil)
	f.members.On("SetStatus", ctx, 4, user.StatusActive).Return(nil)
	f.members.On("FindByID", ctx, 4).Return(nil, user.ErrUserNotFound)
	f.ledger.On("MarkProcessed", ctx, "stripe", "evt_10", "customer.subscription.deleted").Return(nil)

	_, err := f.svc.HandleEvent(ctx, event("evt_10", "customer.subscription.deleted", `{"id":"sub_old"}`))
	require.NoError(t, err)
	f.members.AssertCalled(t, "SetStatus", ctx, 4, user.StatusActive)
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   stripe.SubscriptionStatus
		want string
		ok   bool
	}{
		{"active", subscription.StatusActive, true},
		{"trialing", subscription.StatusActive, true},
		{"past_due", subscription.StatusPastDue, true},
		{"unpaid", subscription.StatusPastDue, true},
		{"canceled", subscription.StatusCanceled, true},
		{"incomplete_expired", subscription.StatusCanceled, true},
		{"paused", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := normalizeStatus(tt.in)
		assert.Equal(t, tt.want, got, string(tt.in))
		assert.Equal(t, tt.ok, ok, string(tt.in))
	}
}

func TestNextPeriodEnd(t *testing.T) {
	start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC), nextPeriodEnd(start, plan.IntervalWeek))
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), nextPeriodEnd(start, plan.IntervalYear))
	assert.Equal(t, start.AddDate(0, 1, 0), nextPeriodEnd(start, plan.IntervalMonth))
}
