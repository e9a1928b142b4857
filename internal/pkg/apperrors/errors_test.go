package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("service: %w", Wrap(ErrSchoolNotFound, "School not found"))

	assert.True(t, errors.Is(err, ErrSchoolNotFound))
	assert.False(t, errors.Is(err, ErrPermissionDenied))
	assert.Equal(t, "School not found", MessageOf(err, "fallback"))
}

func TestWrapKeepsDomainSentinel(t *testing.T) {
	err := Wrap(ErrEmailAlreadyExists, "User with this email already exists")

	assert.True(t, errors.Is(err, ErrEmailAlreadyExists))
	assert.Equal(t, "User with this email already exists", err.Error())
}

func TestMessageOfFallback(t *testing.T) {
	assert.Equal(t, "Internal server error", MessageOf(errors.New("db down"), "Internal server error"))
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
	assert.Equal(t, "validation failed", (&CustomError{Err: ErrValidationFailed}).Error())
}
