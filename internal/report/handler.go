package report

import (
	"errors"
	"net/http"

	"github.com/Omarzahran17/gym-flow-sub001/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetRevenue godoc
// @Summary      Monthly recurring revenue
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  RevenueReport
// @Failure      403  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /admin/reports/revenue [get]
func (h *Handler) GetRevenue(c *gin.Context) {
	report, err := h.service.Revenue(c.Request.Context())
	if err != nil {
		api.InternalError(c, err, "Failed to build revenue report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetAttendance godoc
// @Summary      Check-ins per day
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  false  "First day (YYYY-MM-DD)"
// @Param        to    query     string  false  "Last day (YYYY-MM-DD)"
// @Success      200   {object}  AttendanceReport
// @Failure      400   {object}  api.ErrorResponse
// @Router       /admin/reports/attendance [get]
func (h *Handler) GetAttendance(c *gin.Context) {
	report, err := h.service.Attendance(c.Request.Context(), c.Query("from"), c.Query("to"))
	if errors.Is(err, ErrInvalidRange) {
		api.Error(c, http.StatusBadRequest, "Invalid date range")
		return
	}
	if err != nil {
		api.InternalError(c, err, "Failed to build attendance report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetBookings godoc
// @Summary      Bookings per day
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  false  "First day (YYYY-MM-DD)"
// @Param        to    query     string  false  "Last day (YYYY-MM-DD)"
// @Success      200   {object}  BookingsReport
// @Failure      400   {object}  api.ErrorResponse
// @Router       /admin/reports/bookings [get]
func (h *Handler) GetBookings(c *gin.Context) {
	report, err := h.service.Bookings(c.Request.Context(), c.Query("from"), c.Query("to"))
	if errors.Is(err, ErrInvalidRange) {
		api.Error(c, http.StatusBadRequest, "Invalid date range")
		return
	}
	if err != nil {
		api.InternalError(c, err, "Failed to build bookings report")
		return
	}
	c.JSON(http.StatusOK, report)
}
