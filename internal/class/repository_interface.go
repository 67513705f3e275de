package class

import "context"

type Repository interface {
	CreateClass(ctx context.Context, name, description string, trainerID *int, maxCapacity *int) (*Class, error)
	ListClasses(ctx context.Context) ([]Class, error)
	GetClass(ctx context.Context, id int) (*Class, error)
	CreateSchedule(ctx context.Context, classID, dayOfWeek int, startTime, room string) (*Schedule, error)
	ListSchedules(ctx context.Context, classID int) ([]Schedule, error)
	GetSchedule(ctx context.Context, id int) (*ScheduleDetail, error)
}
