package achievement

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

// ListAchievements godoc
// @Summary      My achievements
// @Description  Every achievement with the member's progress. Requires a plan with the achievements feature.
// @Tags         achievements
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Progress
// @Failure      401  {object}  api.ErrorResponse
// @Failure      403  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /me/achievements [get]
func (h *Handler) ListAchievements(c *gin.Context) {
	memberID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	progress, err := h.service.List(c.Request.Context(), memberID)
	if errors.Is(err, ErrFeatureNotAvailable) {
		api.ErrorWithCode(c, http.StatusForbidden, "Your plan does not include achievements", api.CodeFeatureNotAvailable)
		return
	}
	if err != nil {
		api.InternalError(c, err, "Failed to load achievements")
		return
	}
	c.JSON(http.StatusOK, progress)
}
