package user

import (
	"errors"
	"net/http"

	"github.com/Omarzahran17/gym-flow-sub001/internal/api"
	"github.com/Omarzahran17/gym-flow-sub001/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register godoc
// @Summary      Register new member
// @Description  Creates a member account and returns access & refresh tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Registration data"
// @Success      201      {object}  LoginResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	user, accessToken, refreshToken, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			api.Error(c, http.StatusConflict, "Email already registered")
			return
		}
		api.InternalError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
	})
}

// Login godoc
// @Summary      Login
// @Description  Authenticates a user by email and password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	user, accessToken, refreshToken, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			api.Error(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		api.InternalError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
	})
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token"
// @Success      200      {object}  RefreshResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	accessToken, user, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRefresh):
			api.Error(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		case errors.Is(err, ErrUserNotFound):
			api.Error(c, http.StatusNotFound, "User not found")
		default:
			api.InternalError(c, err, "Failed to refresh token")
		}
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{AccessToken: accessToken, User: *user})
}

// GetMe godoc
// @Summary      Current user
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  User
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			api.Error(c, http.StatusNotFound, "User not found")
			return
		}
		api.InternalError(c, err, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, user)
}
