package plan

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

// ListPlans godoc
// @Summary      List plans
// @Description  Returns the active plan catalog ordered by price.
// @Tags         plans
// @Produce      json
// @Success      200  {array}   Plan
// @Failure      500  {object}  api.ErrorResponse
// @Router       /plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		api.InternalError(c, err, "Failed to load plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// CreatePlan godoc
// @Summary      Create plan
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePlanRequest  true  "Plan"
// @Success      201      {object}  Plan
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /admin/plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrDuplicateStripeID) {
			api.Error(c, http.StatusConflict, "Stripe price is already used by another plan")
			return
		}
		api.InternalError(c, err, "Failed to create plan")
		return
	}

	c.JSON(http.StatusCreated, p)
}
