package booking

import (
	"errors"
	"net/http"

	"github.com/Omarzahran17/gym-flow-sub001/internal/api"
	"github.com/Omarzahran17/gym-flow-sub001/internal/auth"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"

	"github.com/gin-gonic/gin"
)

// ClassFullResponse tells the client the occurrence is full and a waitlist
// may be offered instead.
type ClassFullResponse struct {
	Error             string `json:"error" example:"This class is full"`
	Code              string `json:"code" example:"CLASS_FULL"`
	WaitlistAvailable bool   `json:"waitlistAvailable" example:"true"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateBooking godoc
// @Summary      Book a class occurrence
// @Description  Books the weekly schedule for one calendar date. Requires an active subscription with class quota left.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateBookingRequest  true  "Schedule and date"
// @Success      201      {object}  Booking
// @Failure      400      {object}  ClassFullResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	memberID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateBookingRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	b, err := h.service.Book(c.Request.Context(), memberID, req)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, subscription.ErrSubscriptionRequired):
		api.ErrorWithCode(c, http.StatusForbidden, "An active subscription is required to book classes", api.CodeSubscriptionRequired)
	case errors.Is(err, subscription.ErrClassLimitReached):
		api.ErrorWithCode(c, http.StatusForbidden, "You have reached your monthly class limit", api.CodeClassLimitReached)
	case errors.Is(err, ErrScheduleNotFound):
		api.Error(c, http.StatusNotFound, "Class schedule not found")
	case errors.Is(err, ErrClassFull):
		c.JSON(http.StatusBadRequest, ClassFullResponse{
			Error:             "This class is full",
			Code:              api.CodeClassFull,
			WaitlistAvailable: true,
		})
	case errors.Is(err, ErrAlreadyBooked):
		api.Error(c, http.StatusBadRequest, "You have already booked this class for this date")
	case errors.Is(err, ErrInvalidDate):
		api.Error(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	case errors.Is(err, ErrDateInPast):
		api.Error(c, http.StatusBadRequest, "Cannot book a class in the past")
	case errors.Is(err, ErrWrongWeekday):
		api.Error(c, http.StatusBadRequest, "This class does not run on the selected date")
	default:
		api.InternalError(c, err, "Failed to create booking")
	}
}

// CancelBooking godoc
// @Summary      Cancel booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  api.MessageResponse
// @Failure      400        {object}  api.ErrorResponse
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Failure      500        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	memberID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	bookingID, ok := api.ParamID(c, "bookingID")
	if !ok {
		api.Error(c, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	err := h.service.Cancel(c.Request.Context(), memberID, bookingID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, api.MessageResponse{Message: "Booking cancelled"})
	case errors.Is(err, ErrBookingNotFound):
		api.Error(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, ErrNotBookingOwner):
		api.Error(c, http.StatusForbidden, "You can only cancel your own bookings")
	case errors.Is(err, ErrNotCancellable):
		api.Error(c, http.StatusBadRequest, "Booking is already cancelled")
	default:
		api.InternalError(c, err, "Failed to cancel booking")
	}
}

// ListMyBookings godoc
// @Summary      My bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   BookingWithDetails
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	memberID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	bookings, err := h.service.ListMine(c.Request.Context(), memberID)
	if err != nil {
		api.InternalError(c, err, "Failed to load bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetAvailability godoc
// @Summary      Seats left for an occurrence
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        scheduleID  path      int     true  "Schedule ID"
// @Param        date        query     string  true  "Date (YYYY-MM-DD)"
// @Success      200         {object}  Availability
// @Failure      400         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Router       /schedules/{scheduleID}/availability [get]
func (h *Handler) GetAvailability(c *gin.Context) {
	scheduleID, ok := api.ParamID(c, "scheduleID")
	if !ok {
		api.Error(c, http.StatusBadRequest, "Invalid schedule ID")
		return
	}

	a, err := h.service.Availability(c.Request.Context(), scheduleID, c.Query("date"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// GetRoster godoc
// @Summary      Class roster
// @Description  Confirmed attendees of one occurrence. Trainers and admins only.
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        scheduleID  path      int     true  "Schedule ID"
// @Param        date        query     string  true  "Date (YYYY-MM-DD)"
// @Success      200         {array}   RosterEntry
// @Failure      400         {object}  api.ErrorResponse
// @Failure      403         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Router       /staff/schedules/{scheduleID}/bookings [get]
func (h *Handler) GetRoster(c *gin.Context) {
	scheduleID, ok := api.ParamID(c, "scheduleID")
	if !ok {
		api.Error(c, http.StatusBadRequest, "Invalid schedule ID")
		return
	}

	roster, err := h.service.Roster(c.Request.Context(), scheduleID, c.Query("date"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}
