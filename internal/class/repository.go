package class

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Omarzahran17/gym-flow-sub001/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrClassNotFound    = errors.New("class not found")
	ErrScheduleNotFound = errors.New("class schedule not found")
	ErrTrainerNotFound  = errors.New("trainer not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateClass(ctx context.Context, name, description string, trainerID *int, maxCapacity *int) (*Class, error) {
	query := `
		INSERT INTO classes (name, description, trainer_id, max_capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, trainer_id, max_capacity, created_at
	`

	var c Class
	if err := r.db.GetContext(ctx, &c, query, name, description, trainerID, maxCapacity); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrTrainerNotFound
		}
		return nil, fmt.Errorf("create class: %w", err)
	}
	return &c, nil
}

func (r *repository) ListClasses(ctx context.Context) ([]Class, error) {
	query := `
		SELECT id, name, description, trainer_id, max_capacity, created_at
		FROM classes
		ORDER BY name ASC
	`

	classes := []Class{}
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

func (r *repository) GetClass(ctx context.Context, id int) (*Class, error) {
	query := `
		SELECT id, name, description, trainer_id, max_capacity, created_at
		FROM classes
		WHERE id = $1
	`

	var c Class
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	return &c, nil
}

func (r *repository) CreateSchedule(ctx context.Context, classID, dayOfWeek int, startTime, room string) (*Schedule, error) {
	query := `
		INSERT INTO class_schedules (class_id, day_of_week, start_time, room)
		VALUES ($1, $2, $3, $4)
		RETURNING id, class_id, day_of_week, start_time, room, created_at
	`

	var s Schedule
	if err := r.db.GetContext(ctx, &s, query, classID, dayOfWeek, startTime, room); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return &s, nil
}

func (r *repository) ListSchedules(ctx context.Context, classID int) ([]Schedule, error) {
	query := `
		SELECT id, class_id, day_of_week, start_time, room, created_at
		FROM class_schedules
		WHERE class_id = $1
		ORDER BY day_of_week ASC, start_time ASC
	`

	schedules := []Schedule{}
	if err := r.db.SelectContext(ctx, &schedules, query, classID); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

func (r *repository) GetSchedule(ctx context.Context, id int) (*ScheduleDetail, error) {
	query := `
		SELECT s.id, s.class_id, s.day_of_week, s.start_time, s.room, s.created_at,
		       c.name AS class_name, c.trainer_id, c.max_capacity
		FROM class_schedules s
		JOIN classes c ON c.id = s.class_id
		WHERE s.id = $1
	`

	var d ScheduleDetail
	err := r.db.GetContext(ctx, &d, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return &d, nil
}
