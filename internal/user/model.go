package user

import (
	"database/sql"
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type User struct {
	ID               int            `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Email            string         `db:"email" json:"email"`
	PasswordHash     string         `db:"password_hash" json:"-"`
	Role             string         `db:"role" json:"role"`
	Status           string         `db:"status" json:"status"`
	StripeCustomerID sql.NullString `db:"stripe_customer_id" json:"-"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
