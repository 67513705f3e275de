package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Machine-readable codes clients can switch on without matching messages.
const (
	CodeSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
	CodeCheckInLimitReached  = "CHECKIN_LIMIT_REACHED"
	CodeClassLimitReached    = "CLASS_LIMIT_REACHED"
	CodeClassFull            = "CLASS_FULL"
	CodeFeatureNotAvailable  = "FEATURE_NOT_AVAILABLE"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
	Code  string `json:"code,omitempty" example:"SUBSCRIPTION_REQUIRED"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorResponse{Error: msg})
}

func ErrorWithCode(c *gin.Context, status int, msg, code string) {
	c.JSON(status, ErrorResponse{Error: msg, Code: code})
}

// InternalError hides err from the client; the request logger records it
// through c.Error.
func InternalError(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msg})
}
