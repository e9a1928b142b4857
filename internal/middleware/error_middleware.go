package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
	"github.com/yigit/edusponsor/internal/pkg/logger"
)

const msgInternalServerError = "Internal server error"

// errorMapping ties a sentinel to its HTTP status and error code
type errorMapping struct {
	target error
	status int
	code   dto.ErrorCode
	// fallback is used when the error carries no user facing message
	fallback string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "User with this email already exists"},
	{apperrors.ErrSchoolHasStudents, http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "School has associated students"},
	{apperrors.ErrAlreadySponsoring, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "You are already sponsoring this student"},
	{apperrors.ErrNotAStudent, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Selected user is not a student"},
	{apperrors.ErrSignatureInvalid, http.StatusBadRequest, dto.ErrorCodeSignatureInvalid, "Webhook signature verification failed"},
	{apperrors.ErrPaymentIncomplete, http.StatusBadRequest, dto.ErrorCodePaymentIncomplete, "Payment has not been completed"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeInvalidBody, "Bad request"},

	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrSchoolNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "School not found"},
	{apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student not found"},
	{apperrors.ErrSponsorshipNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Sponsorship not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},

	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},

	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid email or password"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, msgInvalidToken},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, msgInvalidToken},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, msgAuthRequired},

	{apperrors.ErrEventAlreadyHandled, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Payment event already processed"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Conflict"},

	{apperrors.ErrPaymentProvider, http.StatusInternalServerError, dto.ErrorCodePaymentFailed, "Failed to process payment"},
	{apperrors.ErrReconciliation, http.StatusInternalServerError, dto.ErrorCodeDatabaseError, msgInternalServerError},
}

// HandleAPIError writes the failure envelope for err. Unknown errors become a
// 500 with a generic message and are logged.
func HandleAPIError(c *gin.Context, err error) {
	status, errorDetail := ResolveError(err)

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Int("status", status).
		Msg("Request failed")

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(errorDetail.Message, errorDetail))
}

// ResolveError maps err onto a status code and error detail
func ResolveError(err error) (int, *dto.ErrorDetail) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			message := apperrors.MessageOf(err, m.fallback)
			return m.status, dto.NewErrorDetail(m.code, message)
		}
	}

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, msgInternalServerError).
		WithSeverity(dto.ErrorSeverityCritical)
	return http.StatusInternalServerError, errorDetail
}
