package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
	"github.com/yigit/edusponsor/internal/pkg/auth"
	"github.com/yigit/edusponsor/internal/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) dto.StructuredResponse {
	t.Helper()
	var body dto.StructuredResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJWTAuth(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", TokenExp: time.Hour})
	userID := uuid.New()
	token, err := jwtService.GenerateToken(userID)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", NewAuthMiddleware(jwtService).JWTAuth(), func(c *gin.Context) {
		id, ok := GetUserID(c)
		require.True(t, ok)
		c.String(http.StatusOK, id.String())
	})

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authentication required"},
		{"no bearer prefix", token, http.StatusUnauthorized, "Invalid or expired token"},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid", "Bearer " + token, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
				return
			}
			body := decode(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestResolveError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{apperrors.Wrap(apperrors.ErrEmailAlreadyExists, "User with this email already exists"), http.StatusBadRequest, "User with this email already exists"},
		{apperrors.NewBadRequestError("All fields are required"), http.StatusBadRequest, "All fields are required"},
		{fmt.Errorf("svc: %w", apperrors.Wrap(apperrors.ErrSchoolNotFound, "School not found")), http.StatusNotFound, "School not found"},
		{apperrors.ErrStudentNotFound, http.StatusNotFound, "Student not found"},
		{apperrors.NewForbiddenError("You are not authorized to view this sponsorship"), http.StatusForbidden, "You are not authorized to view this sponsorship"},
		{apperrors.Wrap(apperrors.ErrInvalidCredentials, "Invalid email or password"), http.StatusUnauthorized, "Invalid email or password"},
		{apperrors.ErrConflict, http.StatusConflict, "Conflict"},
		{apperrors.Wrap(fmt.Errorf("%w: timeout", apperrors.ErrPaymentProvider), "Failed to create checkout session"), http.StatusInternalServerError, "Failed to create checkout session"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		status, detail := ResolveError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.message, detail.Message, tt.err.Error())
	}
}

func TestResolveError_ReconciliationHidesCause(t *testing.T) {
	cause := apperrors.Wrap(apperrors.ErrEmailAlreadyExists, "User with this email already exists")
	err := fmt.Errorf("%w: creating placeholder sponsor: %v", apperrors.ErrReconciliation, cause)

	status, detail := ResolveError(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, dto.ErrorCodeDatabaseError, detail.Code)
	assert.Equal(t, "Internal server error", detail.Message)
}

func TestHandleAPIError_WritesEnvelope(t *testing.T) {
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		HandleAPIError(c, apperrors.Wrap(apperrors.ErrSchoolHasStudents, "Cannot delete school with associated students. Remove all students first."))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Cannot delete school with associated students. Remove all students first.", body.Message)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrorCodeResourceInvalid, body.Error.Code)
}

func TestBindJSON(t *testing.T) {
	type payload struct {
		ID string `json:"id" binding:"omitempty,uuid"`
	}
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var p payload
		if !BindJSON(c, &p) {
			return
		}
		c.String(http.StatusOK, "ok")
	})

	for body, status := range map[string]int{
		`{"id":"` + uuid.NewString() + `"}`: http.StatusOK,
		`{}`:                                http.StatusOK,
		`{"id":"nope"}`:                     http.StatusBadRequest,
		`{"id":`:                            http.StatusBadRequest,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(body)))
		assert.Equal(t, status, rec.Code, body)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/schools/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schools/42", nil))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	count, err := testutil.GatherAndCount(m.Registry(), "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
