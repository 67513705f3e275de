package report

import (
	"context"
	"errors"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/period"
	"github.com/Omarzahran17/gym-flow-sub001/internal/plan"
)

const (
	defaultRangeDays = 30
	maxRangeDays     = 366
)

var ErrInvalidRange = errors.New("invalid date range")

type Service interface {
	Revenue(ctx context.Context) (*RevenueReport, error)
	Attendance(ctx context.Context, from, to string) (*AttendanceReport, error)
	Bookings(ctx context.Context, from, to string) (*BookingsReport, error)
}

type service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, loc: loc, now: time.Now}
}

// Revenue normalizes every active subscription to a monthly amount.
func (s *service) Revenue(ctx context.Context) (*RevenueReport, error) {
	rows, err := s.repo.ActiveByPlan(ctx)
	if err != nil {
		return nil, err
	}

	report := &RevenueReport{ByPlan: rows}
	for i := range rows {
		rows[i].MRRCents = plan.MonthlyCents(rows[i].PriceCents, rows[i].Interval) * int64(rows[i].ActiveSubscriptions)
		report.MRRCents += rows[i].MRRCents
		report.ActiveSubscriptions += rows[i].ActiveSubscriptions
	}
	return report, nil
}

func (s *service) Attendance(ctx context.Context, from, to string) (*AttendanceReport, error) {
	start, end, err := s.dateRange(from, to)
	if err != nil {
		return nil, err
	}

	// Instants spanning the local calendar days start..end.
	lo := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.loc)
	hi := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1)

	days, err := s.repo.CheckInsPerDay(ctx, lo, hi, s.loc.String())
	if err != nil {
		return nil, err
	}

	report := &AttendanceReport{From: start.Format(period.DateLayout), To: end.Format(period.DateLayout), Days: days}
	for _, d := range days {
		report.Total += d.Count
	}
	return report, nil
}

func (s *service) Bookings(ctx context.Context, from, to string) (*BookingsReport, error) {
	start, end, err := s.dateRange(from, to)
	if err != nil {
		return nil, err
	}

	days, err := s.repo.BookingsPerDay(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &BookingsReport{From: start.Format(period.DateLayout), To: end.Format(period.DateLayout), Days: days}
	for _, d := range days {
		report.Confirmed += d.Confirmed
		report.Cancelled += d.Cancelled
	}
	return report, nil
}

// dateRange parses an inclusive range of canonical dates. Missing ends
// default to the last defaultRangeDays days up to today.
func (s *service) dateRange(from, to string) (time.Time, time.Time, error) {
	end := period.DateOf(s.now(), s.loc)
	if to != "" {
		d, err := period.ParseDate(to)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidRange
		}
		end = d
	}

	start := end.AddDate(0, 0, -(defaultRangeDays - 1))
	if from != "" {
		d, err := period.ParseDate(from)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidRange
		}
		start = d
	}

	if start.After(end) || end.Sub(start) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return start, end, nil
}
