package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/billing"
	"github.com/Omarzahran17/gym-flow-sub001/internal/booking"
	"github.com/Omarzahran17/gym-flow-sub001/internal/plan"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_CountsUsage(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	memberID := createMember(t, database, "counted@example.com")
	planID := createPlan(t, database, "Basic", intPtr(4), intPtr(1))
	subscribe(t, database, memberID, planID)

	scheduleID := createSchedule(t, database, 10, time.Wednesday)
	_, err := booking.NewRepository(database).Reserve(ctx, memberID, scheduleID, nextWeekday(time.Now(), time.Wednesday))
	require.NoError(t, err)

	_, err = database.Exec(`INSERT INTO attendance (member_id, check_in_time) VALUES ($1, NOW() - INTERVAL '1 second')`, memberID)
	require.NoError(t, err)

	plans := plan.NewService(plan.NewRepository(database))
	svc := subscription.NewService(subscription.NewRepository(database), plans, time.UTC)

	ent, err := svc.Evaluate(ctx, memberID)
	require.NoError(t, err)

	assert.True(t, ent.HasSubscription)
	require.NotNil(t, ent.ClassesRemaining)
	assert.Equal(t, 3, *ent.ClassesRemaining)
	assert.False(t, ent.CanCheckIn)
}

func TestEvaluate_NoSubscription(t *testing.T) {
	database := setupTestDB(t)
	memberID := createMember(t, database, "lapsed@example.com")

	plans := plan.NewService(plan.NewRepository(database))
	svc := subscription.NewService(subscription.NewRepository(database), plans, time.UTC)

	ent, err := svc.Evaluate(context.Background(), memberID)
	require.NoError(t, err)
	assert.False(t, ent.HasSubscription)
	assert.False(t, ent.CanCheckIn)
}

func TestActivate_KeepsSingleActive(t *testing.T) {
	database := setupTestDB(t)
	repo := subscription.NewRepository(database)
	ctx := context.Background()

	memberID := createMember(t, database, "upgrader@example.com")
	basic := createPlan(t, database, "Basic", intPtr(4), nil)
	premium := createPlan(t, database, "Premium", nil, nil)
	now := time.Now()

	_, err := repo.Activate(ctx, subscription.Activation{
		MemberID: memberID, PlanID: basic, StripeSubscriptionID: "sub_basic",
		PeriodStart: now, PeriodEnd: now.AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	_, err = repo.Activate(ctx, subscription.Activation{
		MemberID: memberID, PlanID: premium, StripeSubscriptionID: "sub_premium",
		PeriodStart: now, PeriodEnd: now.AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	active, err := repo.GetActive(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, premium, active.PlanID)

	var activeCount int
	require.NoError(t, database.Get(&activeCount,
		`SELECT COUNT(*) FROM member_subscriptions WHERE member_id = $1 AND status = 'active'`, memberID))
	assert.Equal(t, 1, activeCount)
}

func TestWebhookLedger(t *testing.T) {
	database := setupTestDB(t)
	ledger := billing.NewRepository(database)
	ctx := context.Background()

	seen, err := ledger.Processed(ctx, "stripe", "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, ledger.MarkProcessed(ctx, "stripe", "evt_1", "invoice.paid"))
	require.NoError(t, ledger.MarkProcessed(ctx, "stripe", "evt_1", "invoice.paid"))

	seen, err = ledger.Processed(ctx, "stripe", "evt_1")
	require.NoError(t, err)
	assert.True(t, seen)
}
