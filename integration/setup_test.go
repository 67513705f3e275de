package integration_test

import (
	"os"
	"testing"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/auth"
	"github.com/Omarzahran17/gym-flow-sub001/internal/db"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_DSN, migrates it and empties every table.
// The test is skipped when no database is configured.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DSN")
	if dsn == "" {
		t.Skip("Skipping integration tests: TEST_DSN not set")
	}

	database, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: cannot connect to test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database, "../migrations"))
	cleanDatabase(t, database)
	return database
}

func cleanDatabase(t *testing.T, database *sqlx.DB) {
	_, err := database.Exec(`
		TRUNCATE webhook_events, member_achievements, attendance, class_bookings,
		         class_schedules, classes, member_subscriptions, subscription_plans, users
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Failed to clean tables")
}

func createMember(t *testing.T, database *sqlx.DB, email string) int {
	hashed, err := auth.HashPassword("password123")
	require.NoError(t, err)

	var id int
	err = database.QueryRow(`
		INSERT INTO users (name, email, password_hash, role, status)
		VALUES ($1, $2, $3, 'member', 'active')
		RETURNING id`, "Member "+email, email, hashed).Scan(&id)
	require.NoError(t, err)
	return id
}

func createPlan(t *testing.T, database *sqlx.DB, name string, maxClasses, maxCheckIns *int) int {
	var id int
	err := database.QueryRow(`
		INSERT INTO subscription_plans (name, tier, price_cents, billing_interval,
		                                max_classes_per_month, max_checkins_per_day, achievements)
		VALUES ($1, 'basic', 2900, 'month', $2, $3, TRUE)
		RETURNING id`, name, maxClasses, maxCheckIns).Scan(&id)
	require.NoError(t, err)
	return id
}

func subscribe(t *testing.T, database *sqlx.DB, memberID, planID int) {
	now := time.Now()
	_, err := database.Exec(`
		INSERT INTO member_subscriptions (member_id, plan_id, status, current_period_start, current_period_end)
		VALUES ($1, $2, 'active', $3, $4)`, memberID, planID, now.AddDate(0, 0, -1), now.AddDate(0, 1, 0))
	require.NoError(t, err)
}

// createSchedule adds a class with the given capacity and one weekly slot on
// weekday.
func createSchedule(t *testing.T, database *sqlx.DB, capacity int, weekday time.Weekday) int {
	var classID int
	err := database.QueryRow(`
		INSERT INTO classes (name, description, max_capacity)
		VALUES ('Yoga', 'Vinyasa flow', $1)
		RETURNING id`, capacity).Scan(&classID)
	require.NoError(t, err)

	var scheduleID int
	err = database.QueryRow(`
		INSERT INTO class_schedules (class_id, day_of_week, start_time, room)
		VALUES ($1, $2, '18:00', 'Studio A')
		RETURNING id`, classID, int(weekday)).Scan(&scheduleID)
	require.NoError(t, err)
	return scheduleID
}

func intPtr(v int) *int { return &v }
