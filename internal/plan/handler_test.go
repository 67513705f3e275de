package plan

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHandler_ListAndCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockRepository)
	mockRepo.On("ListActive", mock.Anything).Return([]Plan{{ID: 1, Name: "Basic", Interval: IntervalMonth}}, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil, ErrDuplicateStripeID)

	h := NewHandler(NewService(mockRepo))
	r := gin.New()
	r.GET("/plans", h.ListPlans)
	r.POST("/admin/plans", h.CreatePlan)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/plans", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Basic"`)

	w = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/admin/plans", bytes.NewBufferString(`{"name":"Gold","interval":"daily"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/admin/plans", bytes.NewBufferString(`{"name":"Gold","interval":"month","price_cents":5000,"stripe_price_id":"price_dup"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}
