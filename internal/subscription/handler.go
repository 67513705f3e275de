package subscription

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

// GetEntitlement godoc
// @Summary      Current entitlement
// @Description  Access rights and remaining month/day quota of the authenticated member.
// @Tags         subscription
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Entitlement
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /me/entitlement [get]
func (h *Handler) GetEntitlement(c *gin.Context) {
	memberID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	e, err := h.service.Evaluate(c.Request.Context(), memberID)
	if err != nil {
		api.InternalError(c, err, "Failed to evaluate subscription")
		return
	}

	c.JSON(http.StatusOK, e)
}

// GetSubscription godoc
// @Summary      Current subscription
// @Tags         subscription
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  CurrentSubscription
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /me/subscription [get]
func (h *Handler) GetSubscription(c *gin.Context) {
	memberID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	sub, err := h.service.Current(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			api.Error(c, http.StatusNotFound, "No subscription found")
			return
		}
		api.InternalError(c, err, "Failed to load subscription")
		return
	}

	c.JSON(http.StatusOK, sub)
}
