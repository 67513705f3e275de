package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidateStruct validates a struct and returns formatted errors
func ValidateStruct(s interface{}) []ValidationError {
	var errs []ValidationError

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Field: "", Tag: "invalid", Message: err.Error()}}
	}

	for _, fe := range verrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: getErrorMessage(fe),
		})
	}
	return errs
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return err.Field() + " must be a valid email address"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "gte":
		return err.Field() + " must be greater than or equal to " + err.Param()
	case "lte":
		return err.Field() + " must be less than or equal to " + err.Param()
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "datetime":
		return err.Field() + " must match format " + err.Param()
	default:
		return err.Field() + " is invalid"
	}
}

func RespondWithValidationErrors(c *gin.Context, errs []ValidationError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "validation failed",
		"details": errs,
	})
}

// BindAndValidate decodes the JSON body into req and runs struct validation.
// It writes the 400 response itself and reports whether the handler may continue.
func BindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if errs := ValidateStruct(req); len(errs) > 0 {
		RespondWithValidationErrors(c, errs)
		return false
	}
	return true
}

func ParamID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
