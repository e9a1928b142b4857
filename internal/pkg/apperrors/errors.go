package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Payment provider errors
	ErrPaymentProvider     = errors.New("payment provider error")
	ErrSignatureInvalid    = errors.New("webhook signature verification failed")
	ErrPaymentIncomplete   = errors.New("payment has not been completed")
	ErrEventAlreadyHandled = errors.New("payment event already processed")
	ErrReconciliation      = errors.New("payment reconciliation failed")
)

// Domain errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrSchoolNotFound      = errors.New("school not found")
	ErrSchoolHasStudents   = errors.New("school has associated students")
	ErrStudentNotFound     = errors.New("student not found")
	ErrSponsorshipNotFound = errors.New("sponsorship not found")
	ErrAlreadySponsoring   = errors.New("already sponsoring this student")
	ErrNotAStudent         = errors.New("selected user is not a student")
)

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// NewUnauthorizedError creates a 401 style error with a message
func NewUnauthorizedError(message string) error {
	return &CustomError{Err: ErrUnauthorized, Message: message}
}

// Wrap attaches a user facing message to err while keeping it matchable with errors.Is
func Wrap(err error, message string) error {
	return &CustomError{Err: err, Message: message}
}

// MessageOf returns the first CustomError message in the chain, or fallback
func MessageOf(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error {
	return e.Err
}
