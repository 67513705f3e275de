package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Capacity int    `json:"capacity" validate:"gte=1,lte=200"`
	Interval string `json:"interval" validate:"required,oneof=week month year"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(sampleRequest{Email: "a@example.com", Capacity: 10, Interval: "month"})
	assert.Empty(t, errs)

	errs = ValidateStruct(sampleRequest{Email: "nope", Capacity: 0, Interval: "day"})
	require.Len(t, errs, 3)

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	assert.Equal(t, "email", byField["Email"].Tag)
	assert.Equal(t, "Capacity must be greater than or equal to 1", byField["Capacity"].Message)
	assert.Equal(t, "Interval must be one of: week month year", byField["Interval"].Message)
}

func TestBindAndValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantCode int
	}{
		{"valid", `{"email":"a@example.com","capacity":5,"interval":"year"}`, true, http.StatusOK},
		{"malformed", `{"email":`, false, http.StatusBadRequest},
		{"invalid fields", `{"email":"a@example.com","capacity":500,"interval":"year"}`, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req sampleRequest
			ok := BindAndValidate(c, &req)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Equal(t, tt.wantCode, w.Code)
			}
		})
	}
}

func TestErrorWithCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorWithCode(c, http.StatusForbidden, "Active subscription required", CodeSubscriptionRequired)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "SUBSCRIPTION_REQUIRED", body.Code)
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, tc := range []struct {
		raw  string
		id   int
		want bool
	}{
		{"12", 12, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: tc.raw}}
		id, ok := ParamID(c, "id")
		assert.Equal(t, tc.want, ok, tc.raw)
		assert.Equal(t, tc.id, id, tc.raw)
	}
}
