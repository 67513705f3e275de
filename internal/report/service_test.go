package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ActiveByPlan(ctx context.Context) ([]PlanRevenue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PlanRevenue), args.Error(1)
}

func (m *MockRepository) CheckInsPerDay(ctx context.Context, from, to time.Time, zone string) ([]DailyCount, error) {
	args := m.Called(ctx, from, to, zone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DailyCount), args.Error(1)
}

func (m *MockRepository) BookingsPerDay(ctx context.Context, from, to time.Time) ([]DailyBookings, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DailyBookings), args.Error(1)
}

func newTestService(repo Repository, loc *time.Location) *service {
	s := NewService(repo, loc).(*service)
	s.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRevenue(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("ActiveByPlan", ctx).Return([]PlanRevenue{
		{PlanID: 1, PlanName: "Annual", Interval: "year", PriceCents: 12000, ActiveSubscriptions: 1},
		{PlanID: 2, PlanName: "Monthly", Interval: "month", PriceCents: 5000, ActiveSubscriptions: 3},
		{PlanID: 3, PlanName: "Weekly", Interval: "week", PriceCents: 1200, ActiveSubscriptions: 2},
	}, nil)

	report, err := newTestService(repo, nil).Revenue(ctx)
	require.NoError(t, err)

	// $120/year is $10/month.
	assert.Equal(t, int64(1000), report.ByPlan[0].MRRCents)
	assert.Equal(t, int64(15000), report.ByPlan[1].MRRCents)
	assert.Equal(t, int64(1200*52/12*2), report.ByPlan[2].MRRCents)
	assert.Equal(t, int64(1000+15000+10400), report.MRRCents)
	assert.Equal(t, 6, report.ActiveSubscriptions)
}

func TestAttendanceReport(t *testing.T) {
	ctx := context.Background()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	repo := new(MockRepository)
	lo := time.Date(2026, 10, 1, 0, 0, 0, 0, ny)
	hi := time.Date(2026, 10, 3, 0, 0, 0, 0, ny)
	repo.On("CheckInsPerDay", ctx, lo, hi, "America/New_York").
		Return([]DailyCount{{Date: "2026-10-01", Count: 4}, {Date: "2026-10-02", Count: 6}}, nil)

	report, err := newTestService(repo, ny).Attendance(ctx, "2026-10-01", "2026-10-02")
	require.NoError(t, err)
	assert.Equal(t, 10, report.Total)
	assert.Equal(t, "2026-10-01", report.From)
}

func TestBookingsReport_DefaultRange(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("BookingsPerDay", ctx, date(2026, 9, 18), date(2026, 10, 17)).
		Return([]DailyBookings{{Date: "2026-10-16", Confirmed: 5, Cancelled: 1}}, nil)

	report, err := newTestService(repo, nil).Bookings(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 5, report.Confirmed)
	assert.Equal(t, 1, report.Cancelled)
	assert.Equal(t, "2026-09-18", report.From)
	assert.Equal(t, "2026-10-17", report.To)
}

func TestDateRange_Invalid(t *testing.T) {
	s := newTestService(new(MockRepository), nil)

	tests := []struct{ from, to string }{
		{"2026-10-10", "2026-10-01"},
		{"yesterday", ""},
		{"", "17/10/2026"},
		{"2024-01-01", "2026-01-01"},
	}
	for _, tt := range tests {
		_, _, err := s.dateRange(tt.from, tt.to)
		assert.ErrorIs(t, err, ErrInvalidRange, tt.from+".."+tt.to)
	}
}
