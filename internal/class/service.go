package class

import (
	"context"
	"strings"
)

type Service interface {
	CreateClass(ctx context.Context, req CreateClassRequest) (*Class, error)
	ListClasses(ctx context.Context) ([]Class, error)
	CreateSchedule(ctx context.Context, classID int, req CreateScheduleRequest) (*Schedule, error)
	ListSchedules(ctx context.Context, classID int) ([]Schedule, error)
	GetSchedule(ctx context.Context, id int) (*ScheduleDetail, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateClass(ctx context.Context, req CreateClassRequest) (*Class, error) {
	return s.repo.CreateClass(ctx, strings.TrimSpace(req.Name), strings.TrimSpace(req.Description), req.TrainerID, req.MaxCapacity)
}

func (s *service) ListClasses(ctx context.Context) ([]Class, error) {
	return s.repo.ListClasses(ctx)
}

func (s *service) CreateSchedule(ctx context.Context, classID int, req CreateScheduleRequest) (*Schedule, error) {
	if _, err := s.repo.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	return s.repo.CreateSchedule(ctx, classID, *req.DayOfWeek, req.StartTime, strings.TrimSpace(req.Room))
}

func (s *service) ListSchedules(ctx context.Context, classID int) ([]Schedule, error) {
	if _, err := s.repo.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	return s.repo.ListSchedules(ctx, classID)
}

func (s *service) GetSchedule(ctx context.Context, id int) (*ScheduleDetail, error) {
	return s.repo.GetSchedule(ctx, id)
}
