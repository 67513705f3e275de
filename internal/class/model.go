package class

import (
	"database/sql"
	"time"
)

// DefaultCapacity applies to classes created without a seat limit.
const DefaultCapacity = 20

type Class struct {
	ID          int           `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	Description string        `db:"description" json:"description"`
	TrainerID   sql.NullInt64 `db:"trainer_id" json:"-"`
	MaxCapacity *int          `db:"max_capacity" json:"max_capacity"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// EffectiveCapacity is the seat limit of a class, falling back to
// DefaultCapacity when none is set.
func EffectiveCapacity(maxCapacity *int) int {
	if maxCapacity == nil {
		return DefaultCapacity
	}
	return *maxCapacity
}

// Schedule is a recurring weekly slot. DayOfWeek follows time.Weekday,
// 0 is Sunday.
type Schedule struct {
	ID        int       `db:"id" json:"id"`
	ClassID   int       `db:"class_id" json:"class_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	Room      string    `db:"room" json:"room"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (s *Schedule) Weekday() time.Weekday {
	return time.Weekday(s.DayOfWeek)
}

// ScheduleDetail is a schedule joined with the class it belongs to.
type ScheduleDetail struct {
	Schedule
	ClassName   string        `db:"class_name" json:"class_name"`
	TrainerID   sql.NullInt64 `db:"trainer_id" json:"-"`
	MaxCapacity *int          `db:"max_capacity" json:"max_capacity"`
}

func (d *ScheduleDetail) Capacity() int {
	return EffectiveCapacity(d.MaxCapacity)
}

type CreateClassRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=1000"`
	TrainerID   *int   `json:"trainer_id" validate:"omitempty,gt=0"`
	MaxCapacity *int   `json:"max_capacity" validate:"omitempty,gte=1,lte=500"`
}

type CreateScheduleRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required,gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	Room      string `json:"room" validate:"max=100"`
}
