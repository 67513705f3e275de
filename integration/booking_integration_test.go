package integration_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/booking"
	"github.com/Omarzahran17/gym-flow-sub001/internal/period"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextWeekday(from time.Time, wd time.Weekday) time.Time {
	d := period.DateOf(from, time.UTC).AddDate(0, 0, 1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestReserve_ConcurrentLastSeats(t *testing.T) {
	database := setupTestDB(t)
	repo := booking.NewRepository(database)
	ctx := context.Background()

	const capacity, contenders = 2, 8
	scheduleID := createSchedule(t, database, capacity, time.Tuesday)
	date := nextWeekday(time.Now(), time.Tuesday)

	members := make([]int, contenders)
	for i := range members {
		members[i] = createMember(t, database, fmt.Sprintf("racer%d@example.com", i))
	}

	var (
		wg             sync.WaitGroup
		mu             sync.Mutex
		booked, full   int
		unexpectedErrs []error
	)
	start := make(chan struct{})
	for _, memberID := range members {
		wg.Add(1)
		go func(memberID int) {
			defer wg.Done()
			<-start
			_, err := repo.Reserve(ctx, memberID, scheduleID, date)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case errors.Is(err, booking.ErrClassFull):
				full++
			default:
				unexpectedErrs = append(unexpectedErrs, err)
			}
		}(memberID)
	}
	close(start)
	wg.Wait()

	require.Empty(t, unexpectedErrs)
	assert.Equal(t, capacity, booked)
	assert.Equal(t, contenders-capacity, full)

	n, err := repo.CountConfirmed(ctx, scheduleID, date)
	require.NoError(t, err)
	assert.Equal(t, capacity, n)
}

func TestReserve_ConcurrentDuplicate(t *testing.T) {
	database := setupTestDB(t)
	repo := booking.NewRepository(database)
	ctx := context.Background()

	scheduleID := createSchedule(t, database, 20, time.Friday)
	date := nextWeekday(time.Now(), time.Friday)
	memberID := createMember(t, database, "twice@example.com")

	var wg sync.WaitGroup
	results := make([]error, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = repo.Reserve(ctx, memberID, scheduleID, date)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, booking.ErrAlreadyBooked)
	}
	assert.Equal(t, 1, ok)
}

func TestCancelFreesSeat(t *testing.T) {
	database := setupTestDB(t)
	repo := booking.NewRepository(database)
	ctx := context.Background()

	scheduleID := createSchedule(t, database, 1, time.Monday)
	date := nextWeekday(time.Now(), time.Monday)
	first := createMember(t, database, "first@example.com")
	second := createMember(t, database, "second@example.com")

	b, err := repo.Reserve(ctx, first, scheduleID, date)
	require.NoError(t, err)

	_, err = repo.Reserve(ctx, second, scheduleID, date)
	require.ErrorIs(t, err, booking.ErrClassFull)

	require.NoError(t, repo.Cancel(ctx, b.ID))

	_, err = repo.Reserve(ctx, second, scheduleID, date)
	require.NoError(t, err)

	// The cancelled member may book again once a seat is free.
	_, err = repo.Reserve(ctx, first, scheduleID, date)
	assert.ErrorIs(t, err, booking.ErrClassFull)
}

func TestReserve_RebookAfterCancel(t *testing.T) {
	database := setupTestDB(t)
	repo := booking.NewRepository(database)
	ctx := context.Background()

	scheduleID := createSchedule(t, database, 2, time.Wednesday)
	date := nextWeekday(time.Now(), time.Wednesday)
	member := createMember(t, database, "rebook@example.com")

	first, err := repo.Reserve(ctx, member, scheduleID, date)
	require.NoError(t, err)

	_, err = repo.Reserve(ctx, member, scheduleID, date)
	require.ErrorIs(t, err, booking.ErrAlreadyBooked)

	require.NoError(t, repo.Cancel(ctx, first.ID))

	second, err := repo.Reserve(ctx, member, scheduleID, date)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, booking.StatusConfirmed, second.Status)

	cancelled, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, cancelled.Status)
}
