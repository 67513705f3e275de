package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Omarzahran17/gym-flow-sub001/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, name, email, password_hash, role, status, stripe_customer_id, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var u User
	if err := r.db.GetContext(ctx, &u, query, name, email, passwordHash, role); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *repository) findOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *repository) SetStatus(ctx context.Context, id int, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("set user status: %w", err)
	}
	return nil
}

func (r *repository) SetStripeCustomerID(ctx context.Context, id int, customerID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET stripe_customer_id = $1 WHERE id = $2`, customerID, id)
	if err != nil {
		return fmt.Errorf("set stripe customer: %w", err)
	}
	return nil
}
