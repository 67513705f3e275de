package attendance

import (
	"errors"
	"net/http"

	"github.com/Omarzahran17/gym-flow-sub001/internal/api"
	"github.com/Omarzahran17/gym-flow-sub001/internal/auth"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub001/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CheckIn godoc
// @Summary      Check in to the gym
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Success      201  {object}  Attendance
// @Failure      401  {object}  api.ErrorResponse
// @Failure      403  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /attendance/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	memberID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}
	h.checkIn(c, memberID)
}

// StaffCheckIn godoc
// @Summary      Check a member in at the front desk
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        memberID  path      int  true  "Member ID"
// @Success      201       {object}  Attendance
// @Failure      400       {object}  api.ErrorResponse
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Failure      500       {object}  api.ErrorResponse
// @Router       /staff/members/{memberID}/check-in [post]
func (h *Handler) StaffCheckIn(c *gin.Context) {
	memberID, ok := api.ParamID(c, "memberID")
	if !ok {
		api.Error(c, http.StatusBadRequest, "Invalid member ID")
		return
	}
	h.checkIn(c, memberID)
}

func (h *Handler) checkIn(c *gin.Context, memberID int) {
	a, err := h.service.CheckIn(c.Request.Context(), memberID)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, a)
	case errors.Is(err, user.ErrUserNotFound):
		api.Error(c, http.StatusNotFound, "Member not found")
	case errors.Is(err, subscription.ErrSubscriptionRequired):
		api.ErrorWithCode(c, http.StatusForbidden, "An active subscription is required to check in", api.CodeSubscriptionRequired)
	case errors.Is(err, subscription.ErrCheckInLimitReached):
		api.ErrorWithCode(c, http.StatusForbidden, "Daily check-in limit reached", api.CodeCheckInLimitReached)
	default:
		api.InternalError(c, err, "Failed to check in")
	}
}

// ListAttendance godoc
// @Summary      My check-ins
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Attendance
// @Failure      401  {object}  api.ErrorResponse
// @Router       /attendance [get]
func (h *Handler) ListAttendance(c *gin.Context) {
	memberID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	rows, err := h.service.History(c.Request.Context(), memberID)
	if err != nil {
		api.InternalError(c, err, "Failed to load attendance")
		return
	}
	c.JSON(http.StatusOK, rows)
}
