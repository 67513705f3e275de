package plan

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planRowColumns = []string{
	"id", "name", "tier", "price_cents", "currency", "billing_interval",
	"max_classes_per_month", "max_checkins_per_day",
	"trainer_access", "personal_training", "progress_tracking", "achievements",
	"stripe_price_id", "is_active", "created_at",
}

func setupPlanMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewRepository(sqlxDB), mock, func() { sqlxDB.Close() }
}

func TestListActive(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM subscription_plans WHERE is_active = TRUE")).
		WillReturnRows(sqlmock.NewRows(planRowColumns).
			AddRow(1, "Basic", "basic", 2900, "usd", "month", 8, 1, false, false, false, false, "price_basic", true, now).
			AddRow(2, "Elite", "elite", 9900, "usd", "month", nil, nil, true, true, true, true, nil, true, now))

	plans, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)

	require.NotNil(t, plans[0].MaxClassesPerMonth)
	assert.Equal(t, 8, *plans[0].MaxClassesPerMonth)
	assert.Equal(t, "price_basic", plans[0].StripePriceID.String)

	assert.Nil(t, plans[1].MaxClassesPerMonth, "NULL limit means unlimited")
	assert.Nil(t, plans[1].MaxCheckInsPerDay)
	assert.True(t, plans[1].Achievements)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM subscription_plans WHERE id = $1")).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestCreatePlan(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()

	limit := 12
	p := &Plan{Name: "Premium", Tier: TierPremium, PriceCents: 4900, Currency: "usd", Interval: IntervalMonth, MaxClassesPerMonth: &limit}

	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO subscription_plans")).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows(planRowColumns).
			AddRow(3, "Premium", "premium", 4900, "usd", "month", 12, nil, false, false, false, false, nil, true, time.Now()))

	created, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)
	assert.True(t, created.IsActive)

	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO subscription_plans")).
		ExpectQuery().
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = repo.Create(context.Background(), p)
	assert.ErrorIs(t, err, ErrDuplicateStripeID)
}
