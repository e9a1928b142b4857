package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/edusponsor/internal/app/models/dto"
)

const msgInvalidRequestBody = "Invalid request body"

// BindJSON binds the request body into obj and runs its binding tags. On
// failure it writes a 400 and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		errorDetail := HandleValidationError(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(msgInvalidRequestBody, errorDetail))
		return false
	}
	return true
}

// HandleValidationError turns a bind error into an error detail listing the
// offending fields
func HandleValidationError(err error) *dto.ErrorDetail {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fieldErrors := dto.NewValidationErrors()
		for _, e := range validationErrors {
			fieldErrors.AddError(e.Field(), formatValidationError(e))
		}
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, msgInvalidRequestBody).
			WithDetails(fieldErrors.Errors)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return dto.NewErrorDetail(dto.ErrorCodeInvalidBody, msgInvalidRequestBody).WithDetails("malformed JSON")
	case errors.As(err, &typeErr):
		return dto.NewErrorDetail(dto.ErrorCodeInvalidBody, msgInvalidRequestBody).
			WithField(typeErr.Field).
			WithDetails("unexpected type " + typeErr.Value)
	}
	return dto.NewErrorDetail(dto.ErrorCodeInvalidBody, msgInvalidRequestBody).WithDetails(err.Error())
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "uuid":
		return e.Field() + " must be a valid UUID"
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
