package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/edusponsor/internal/app/models"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/app/services"
	"github.com/yigit/edusponsor/internal/middleware"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Stubs embed the service interfaces so each test only implements what it calls.

type stubAuthService struct {
	services.AuthService
	register func(dto.RegisterRequest) (*dto.AuthResponse, error)
}

func (s stubAuthService) Register(_ context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	return s.register(req)
}

type stubSchoolService struct {
	services.SchoolService
	err error
}

func (s stubSchoolService) Delete(context.Context, string) error { return s.err }

type stubStudentService struct {
	services.StudentService
	got [][]dto.CreateStudentRequest
}

func (s *stubStudentService) CreateMultiple(_ context.Context, reqs []dto.CreateStudentRequest) ([]*models.StudentProfile, error) {
	s.got = append(s.got, reqs)
	if len(reqs) == 0 {
		return nil, apperrors.NewBadRequestError(msgExpectedStudentArray)
	}
	out := make([]*models.StudentProfile, len(reqs))
	for i, r := range reqs {
		out[i] = &models.StudentProfile{Name: r.Name}
	}
	return out, nil
}

type stubSponsorshipService struct {
	services.SponsorshipService
	gotSponsor uuid.UUID
}

func (s *stubSponsorshipService) Create(_ context.Context, sponsorID uuid.UUID, _ dto.CreateSponsorshipRequest) (*models.Sponsorship, error) {
	s.gotSponsor = sponsorID
	return &models.Sponsorship{SponsorID: sponsorID}, nil
}

type stubPaymentService struct {
	services.PaymentService
	webhookPayload []byte
	webhookSig     string
	webhookErr     error
}

func (s *stubPaymentService) CompleteCheckout(_ context.Context, id string) (*dto.PaymentResult, error) {
	if id == "" {
		return nil, apperrors.NewBadRequestError("Session ID is required")
	}
	return &dto.PaymentResult{PaymentID: id, Amount: 12.5}, nil
}

func (s *stubPaymentService) HandleWebhook(_ context.Context, payload []byte, sig string) (*dto.WebhookAck, error) {
	s.webhookPayload, s.webhookSig = payload, sig
	if s.webhookErr != nil {
		return nil, s.webhookErr
	}
	return &dto.WebhookAck{Received: true}, nil
}

func (s *stubPaymentService) SimulateWebhook(_ context.Context, req dto.TestWebhookRequest) (*dto.WebhookAck, error) {
	return &dto.WebhookAck{Received: true, PaymentID: "pi_test_1"}, nil
}

func withUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, id)
		c.Next()
	}
}

func perform(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) dto.StructuredResponse {
	t.Helper()
	var body dto.StructuredResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthController_Register(t *testing.T) {
	userID := uuid.New()
	c := NewAuthController(stubAuthService{register: func(req dto.RegisterRequest) (*dto.AuthResponse, error) {
		if req.Email == "taken@example.org" {
			return nil, apperrors.Wrap(apperrors.ErrEmailAlreadyExists, "User with this email already exists")
		}
		return &dto.AuthResponse{Token: "tok", UserID: userID.String()}, nil
	}})
	r := gin.New()
	r.POST("/register", c.Register)

	rec := perform(r, http.MethodPost, "/register", `{"name":"A","age":"30","email":"a@example.org","password":"pw"}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "User registered successfully", body.Message)

	rec = perform(r, http.MethodPost, "/register", `{"name":"A","age":"30","email":"taken@example.org","password":"pw"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User with this email already exists", decode(t, rec).Message)

	rec = perform(r, http.MethodPost, "/register", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec).Message)
}

func TestSchoolController_DeleteWithStudents(t *testing.T) {
	msg := "Cannot delete school with associated students. Remove all students first."
	c := NewSchoolController(stubSchoolService{err: apperrors.Wrap(apperrors.ErrSchoolHasStudents, msg)})
	r := gin.New()
	r.DELETE("/schools/:id", c.DeleteSchool)

	rec := perform(r, http.MethodDelete, "/schools/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msg, decode(t, rec).Message)
}

func TestStudentController_CreateMultiple(t *testing.T) {
	svc := &stubStudentService{}
	r := gin.New()
	r.POST("/students/multiple", NewStudentController(svc).CreateMultipleStudents)

	t.Run("object body", func(t *testing.T) {
		rec := perform(r, http.MethodPost, "/students/multiple", `{"name":"x"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, msgExpectedStudentArray, decode(t, rec).Message)
	})

	t.Run("empty array", func(t *testing.T) {
		rec := perform(r, http.MethodPost, "/students/multiple", `[]`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, msgExpectedStudentArray, decode(t, rec).Message)
	})

	t.Run("array", func(t *testing.T) {
		rec := perform(r, http.MethodPost, "/students/multiple", `[{"name":"a"},{"name":"b"}]`, nil)
		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "Students created successfully", body.Message)
		assert.Len(t, body.Data, 2)
	})
}

func TestSponsorshipController_UsesCaller(t *testing.T) {
	svc := &stubSponsorshipService{}
	c := NewSponsorshipController(svc)
	caller := uuid.New()

	r := gin.New()
	r.POST("/sponsorships", withUser(caller), c.CreateSponsorship)
	r.POST("/anonymous", c.CreateSponsorship)

	rec := perform(r, http.MethodPost, "/sponsorships", `{"studentId":"`+uuid.NewString()+`","startDate":"2024-01-01"}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, caller, svc.gotSponsor)

	rec = perform(r, http.MethodPost, "/anonymous", `{}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", decode(t, rec).Message)
}

func TestPaymentController_PaymentSuccess(t *testing.T) {
	r := gin.New()
	r.GET("/payment-success", NewPaymentController(&stubPaymentService{}, nil).PaymentSuccess)

	rec := perform(r, http.MethodGet, "/payment-success?session_id=cs_1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Payment processed successfully", decode(t, rec).Message)

	rec = perform(r, http.MethodGet, "/payment-success?payment_id=cs_2", "", map[string]string{"Accept": "text/html,application/xhtml+xml"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/payment-complete.html?payment_id=cs_2&amount=12.5", rec.Header().Get("Location"))

	rec = perform(r, http.MethodGet, "/payment-success", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Session ID is required", decode(t, rec).Message)
}

func TestPaymentController_Webhook(t *testing.T) {
	svc := &stubPaymentService{}
	r := gin.New()
	r.POST("/webhook", NewPaymentController(svc, nil).Webhook)

	rec := perform(r, http.MethodPost, "/webhook", `{"id":"evt_1"}`, map[string]string{"Stripe-Signature": "t=1,v1=abc"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Equal(t, `{"id":"evt_1"}`, string(svc.webhookPayload))
	assert.Equal(t, "t=1,v1=abc", svc.webhookSig)

	rec = perform(r, http.MethodPost, "/webhook", strings.Repeat("x", maxWebhookBodyBytes+1), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	svc.webhookErr = apperrors.Wrap(apperrors.ErrSignatureInvalid, "Webhook signature verification failed")
	rec = perform(r, http.MethodPost, "/webhook", `{}`, map[string]string{"Stripe-Signature": "bad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Webhook signature verification failed", decode(t, rec).Message)
}

func TestPaymentController_TestWebhook(t *testing.T) {
	r := gin.New()
	r.POST("/test-webhook", NewPaymentController(&stubPaymentService{}, nil).TestWebhook)
	body := `{"type":"payment_intent.succeeded","sponsorId":"s","studentId":"t","amount":20}`

	rec := perform(r, http.MethodPost, "/test-webhook", body, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Test payment_intent.succeeded event processed successfully", decode(t, rec).Message)

	rec = perform(r, http.MethodPost, "/test-webhook", body, map[string]string{"Accept": "text/html"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/payment-complete.html?payment_id=pi_test_1&amount=20", rec.Header().Get("Location"))
}

func TestPaymentController_StaticPages(t *testing.T) {
	c := NewPaymentController(&stubPaymentService{}, nil)
	r := gin.New()
	r.GET("/test-success", c.TestSuccess)
	r.GET("/test-cancel", c.TestCancel)
	r.GET("/payment-methods", c.GetPaymentMethods)

	rec := perform(r, http.MethodGet, "/test-success", "", nil)
	assert.Contains(t, rec.Body.String(), "Payment Successful!")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = perform(r, http.MethodGet, "/test-cancel", "", nil)
	assert.Contains(t, rec.Body.String(), "Payment Cancelled")

	rec = perform(r, http.MethodGet, "/payment-methods", "", nil)
	body := decode(t, rec)
	assert.Equal(t, "Payment methods retrieved successfully", body.Message)
	assert.Equal(t, []interface{}{}, body.Data)
}
