package billing

import (
	"errors"
	"io"
	"net/http"

	"github.com/Omarzahran17/gym-flow-sub001/internal/api"
	"github.com/Omarzahran17/gym-flow-sub001/internal/auth"
	"github.com/Omarzahran17/gym-flow-sub001/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub001/internal/plan"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub001/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75/webhook"
)

const maxWebhookBody = 65536

type CreateCheckoutRequest struct {
	PlanID int `json:"plan_id" validate:"required,gt=0"`
}

type CheckoutResponse struct {
	URL string `json:"url" example:"https://checkout.stripe.com/c/pay/cs_test_123"`
}

type WebhookResponse struct {
	Status string `json:"status" example:"processed"`
}

type Handler struct {
	service       Service
	webhookSecret string
}

func NewHandler(service Service, webhookSecret string) *Handler {
	return &Handler{service: service, webhookSecret: webhookSecret}
}

// CreateCheckout godoc
// @Summary      Start a subscription checkout
// @Tags         billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateCheckoutRequest  true  "Plan to buy"
// @Success      200      {object}  CheckoutResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /billing/checkout [post]
func (h *Handler) CreateCheckout(c *gin.Context) {
	memberID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateCheckoutRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	url, err := h.service.Checkout(c.Request.Context(), memberID, req.PlanID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, CheckoutResponse{URL: url})
	case errors.Is(err, plan.ErrPlanNotFound):
		api.Error(c, http.StatusNotFound, "Plan not found")
	case errors.Is(err, ErrPlanNotPurchasable):
		api.Error(c, http.StatusBadRequest, "Plan is not available for purchase")
	case errors.Is(err, user.ErrUserNotFound):
		api.Error(c, http.StatusNotFound, "User not found")
	default:
		api.InternalError(c, err, "Failed to create checkout session")
	}
}

// CancelSubscription godoc
// @Summary      Cancel at period end
// @Description  Keeps access until the end of the paid period, then the subscription ends.
// @Tags         subscription
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  subscription.MemberSubscription
// @Failure      404  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /me/subscription/cancel [post]
func (h *Handler) CancelSubscription(c *gin.Context) {
	memberID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	sub, err := h.service.CancelAtPeriodEnd(c.Request.Context(), memberID)
	if errors.Is(err, subscription.ErrSubscriptionNotFound) {
		api.Error(c, http.StatusNotFound, "No active subscription")
		return
	}
	if err != nil {
		api.InternalError(c, err, "Failed to cancel subscription")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// StripeWebhook godoc
// @Summary      Stripe webhook
// @Description  Verifies the Stripe-Signature header and applies the event once.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Success      200  {object}  WebhookResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /stripe/webhook [post]
func (h *Handler) StripeWebhook(c *gin.Context) {
	if h.webhookSecret == "" {
		api.Error(c, http.StatusInternalServerError, "Stripe webhook secret not configured")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		api.Error(c, http.StatusBadRequest, "Error reading request body")
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		logger.WithError(err).Warn("stripe signature verification failed")
		api.Error(c, http.StatusBadRequest, "Signature verification failed")
		return
	}

	result, err := h.service.HandleEvent(c.Request.Context(), event)
	if errors.Is(err, ErrInvalidPayload) {
		api.Error(c, http.StatusBadRequest, "Invalid event payload")
		return
	}
	if err != nil {
		api.InternalError(c, err, "Failed to process event")
		return
	}

	c.JSON(http.StatusOK, WebhookResponse{Status: result})
}
