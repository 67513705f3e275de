package user

import (
	"context"
	"errors"
	"strings"

	"github.com/Omarzahran17/gym-flow-sub001/internal/auth"
	"github.com/Omarzahran17/gym-flow-sub001/internal/logger"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.repo.Create(ctx, strings.TrimSpace(req.Name), email, passwordHash, auth.RoleMember)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	logger.Info("member registered", "user_id", user.ID)
	return user, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	claims, err := auth.ValidateRefreshToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", nil, ErrInvalidRefresh
	}

	// Role may have changed since the refresh token was issued.
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, err
	}

	accessToken, err := auth.GenerateAccessToken(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return accessToken, user, nil
}
