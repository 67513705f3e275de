package class

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
	return &Handler{
		service: service,
	}
}

// @Summary      Create a class
// @Description  Admin-only: create a class. max_capacity defaults to 20 seats when omitted.
// @Tags         admin,classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body class.CreateClassRequest true "Class payload"
// @Success      201 {object} class.Class
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/classes [post]
func (h *Handler) CreateClass(c *gin.Context) {
	var req CreateClassRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	cl, err := h.service.CreateClass(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrTrainerNotFound) {
			api.Error(c, http.StatusBadRequest, "Trainer not found")
			return
		}
		api.InternalError(c, err, "Failed to create class")
		return
	}

	c.JSON(http.StatusCreated, cl)
}

// @Summary      List classes
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} class.Class
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /classes [get]
func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.service.ListClasses(c.Request.Context())
	if err != nil {
		api.InternalError(c, err, "Failed to load classes")
		return
	}
	c.JSON(http.StatusOK, classes)
}

// @Summary      Add a weekly schedule to a class
// @Tags         admin,classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Param        request body class.CreateScheduleRequest true "Schedule payload"
// @Success      201 {object} class.Schedule
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/classes/{classID}/schedules [post]
func (h *Handler) CreateSchedule(c *gin.Context) {
	classID, ok := api.ParamID(c, "classID")
	if !ok {
		api.Error(c, http.StatusBadRequest, "Invalid class ID")
		return
	}

	var req CreateScheduleRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	s, err := h.service.CreateSchedule(c.Request.Context(), classID, req)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			api.Error(c, http.StatusNotFound, "Class not found")
			return
		}
		api.InternalError(c, err, "Failed to create schedule")
		return
	}

	c.JSON(http.StatusCreated, s)
}

// @Summary      List schedules of a class
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Success      200 {array} class.Schedule
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /classes/{classID}/schedules [get]
func (h *Handler) ListSchedules(c *gin.Context) {
	classID, ok := api.ParamID(c, "classID")
	if !ok {
		api.Error(c, http.StatusBadRequest, "Invalid class ID")
		return
	}

	schedules, err := h.service.ListSchedules(c.Request.Context(), classID)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			api.Error(c, http.StatusNotFound, "Class not found")
			return
		}
		api.InternalError(c, err, "Failed to load schedules")
		return
	}

	c.JSON(http.StatusOK, schedules)
}
