package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/app/services"
	"github.com/yigit/edusponsor/internal/middleware"
)

const (
	maxWebhookBodyBytes = 1 << 20

	stripeSignatureHeader = "Stripe-Signature"
	paymentCompletePage   = "/payment-complete.html"

	testSuccessPage = `<html><body><h1>Payment Successful!</h1><p>Your test payment was successful.</p></body></html>`
	testCancelPage  = `<html><body><h1>Payment Cancelled</h1><p>Your test payment was cancelled.</p></body></html>`
)

// PaymentController serves donations and the Stripe payment flows
type PaymentController struct {
	paymentService  services.PaymentService
	donationService services.DonationService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService services.PaymentService, donationService services.DonationService) *PaymentController {
	return &PaymentController{paymentService: paymentService, donationService: donationService}
}

// CreateDonation records a manual donation on one of the caller's sponsorships
// @Summary Create donation
// @Tags donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDonationRequest true "Donation"
// @Success 201 {object} dto.StructuredResponse{data=models.Donation} "Donation created successfully"
// @Failure 400 {object} dto.StructuredResponse "Sponsorship ID and amount are required"
// @Failure 403 {object} dto.StructuredResponse "Not the sponsor"
// @Failure 404 {object} dto.StructuredResponse "Sponsorship not found"
// @Router /payments/donations [post]
func (c *PaymentController) CreateDonation(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateDonationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	donation, err := c.donationService.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, donation, "Donation created successfully")
}

// GetSponsorshipDonations lists donations of a sponsorship
// @Summary List donations of a sponsorship
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param sponsorshipId path string true "Sponsorship ID" Format(uuid)
// @Success 200 {object} dto.StructuredResponse{data=[]models.Donation} "Donations retrieved successfully"
// @Failure 403 {object} dto.StructuredResponse "Not a party to the sponsorship"
// @Failure 404 {object} dto.StructuredResponse "Sponsorship not found"
// @Router /payments/donations/sponsorship/{sponsorshipId} [get]
func (c *PaymentController) GetSponsorshipDonations(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	donations, err := c.donationService.ListBySponsorship(ctx.Request.Context(), userID, ctx.Param("sponsorshipId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, donations, "Donations retrieved successfully")
}

// GetSponsorDonations lists the caller's donations across all sponsorships
// @Summary List my donations
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]models.Donation} "Donations retrieved successfully"
// @Router /payments/donations/sponsor [get]
func (c *PaymentController) GetSponsorDonations(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	donations, err := c.donationService.ListForSponsor(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, donations, "Donations retrieved successfully")
}

// GetDonationStats summarises the caller's giving
// @Summary Donation statistics
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.DonationStats} "Donation statistics retrieved successfully"
// @Router /payments/donations/stats [get]
func (c *PaymentController) GetDonationStats(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	stats, err := c.donationService.Stats(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, stats, "Donation statistics retrieved successfully")
}

// GetAllDonations lists every donation
// @Summary List all donations
// @Tags donations
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=[]models.Donation} "All donations retrieved successfully"
// @Router /payments/donations/all [get]
func (c *PaymentController) GetAllDonations(ctx *gin.Context) {
	donations, err := c.donationService.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, donations, "All donations retrieved successfully")
}

// CreateTestPaymentIntent creates an intent that is not tied to any users
// @Summary Create test payment intent
// @Tags payments
// @Accept json
// @Produce json
// @Param request body dto.AmountRequest true "Amount in USD"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaymentIntentResponse}
// @Failure 400 {object} dto.StructuredResponse "Amount is required"
// @Failure 500 {object} dto.StructuredResponse "Failed to create test payment intent"
// @Router /payments/test-payment-intent [post]
func (c *PaymentController) CreateTestPaymentIntent(ctx *gin.Context) {
	var req dto.AmountRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.paymentService.CreateTestPaymentIntent(ctx.Request.Context(), req.Amount)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp, "Test payment intent created successfully")
}

// CreateTestCheckoutSession creates a hosted checkout that is not tied to any users
// @Summary Create test checkout session
// @Tags payments
// @Accept json
// @Produce json
// @Param request body dto.AmountRequest true "Amount in USD"
// @Success 200 {object} dto.StructuredResponse{data=dto.CheckoutSessionResponse}
// @Failure 400 {object} dto.StructuredResponse "Amount is required"
// @Router /payments/test-checkout-session [post]
func (c *PaymentController) CreateTestCheckoutSession(ctx *gin.Context) {
	var req dto.AmountRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.paymentService.CreateTestCheckoutSession(ctx.Request.Context(), req.Amount)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp, "Test checkout session created successfully")
}

// TestSuccess is the landing page of a completed test checkout
// @Summary Test checkout success page
// @Tags payments
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /payments/test-success [get]
func (c *PaymentController) TestSuccess(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(testSuccessPage))
}

// TestCancel is the landing page of a cancelled test checkout
// @Summary Test checkout cancel page
// @Tags payments
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /payments/test-cancel [get]
func (c *PaymentController) TestCancel(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(testCancelPage))
}

// CreatePaymentIntent creates an intent from the caller to a student
// @Summary Create payment intent
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePaymentIntentRequest true "Payment"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaymentIntentResponse}
// @Failure 400 {object} dto.StructuredResponse "Amount and student ID are required"
// @Failure 500 {object} dto.StructuredResponse "Failed to create payment intent"
// @Router /payments/create-payment-intent [post]
func (c *PaymentController) CreatePaymentIntent(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreatePaymentIntentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.paymentService.CreatePaymentIntent(ctx.Request.Context(), userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp, "Payment intent created successfully")
}

// ProcessPayment turns a succeeded payment intent into a donation
// @Summary Process payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProcessPaymentRequest true "Payment intent"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaymentResult} "Payment processed successfully"
// @Failure 400 {object} dto.StructuredResponse "Payment has not been completed"
// @Router /payments/process-payment [post]
func (c *PaymentController) ProcessPayment(ctx *gin.Context) {
	if _, ok := currentUser(ctx); !ok {
		return
	}

	var req dto.ProcessPaymentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.paymentService.ProcessPayment(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, result, "Payment processed successfully")
}

// GetPaymentMethods lists saved payment methods. None are stored.
// @Summary List payment methods
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse "Payment methods retrieved successfully"
// @Router /payments/payment-methods [get]
func (c *PaymentController) GetPaymentMethods(ctx *gin.Context) {
	respond(ctx, http.StatusOK, []interface{}{}, "Payment methods retrieved successfully")
}

// CreateCheckoutSession creates a hosted checkout from the caller to a student
// @Summary Create checkout session
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCheckoutSessionRequest true "Checkout"
// @Success 200 {object} dto.StructuredResponse{data=dto.CheckoutSessionResponse}
// @Failure 400 {object} dto.StructuredResponse "Student ID and amount are required"
// @Failure 500 {object} dto.StructuredResponse "Failed to create checkout session"
// @Router /payments/create-checkout-session [post]
func (c *PaymentController) CreateCheckoutSession(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateCheckoutSessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.paymentService.CreateCheckoutSession(ctx.Request.Context(), userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp, "Checkout session created successfully")
}

// PaymentSuccess is the checkout success_url. Browsers are redirected to the
// static completion page.
// @Summary Complete checkout
// @Tags payments
// @Produce json,html
// @Param session_id query string false "Checkout session ID"
// @Param payment_id query string false "Alias of session_id"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaymentResult} "Payment processed successfully"
// @Success 303 "Redirect to /payment-complete.html"
// @Failure 400 {object} dto.StructuredResponse "Session ID is required or payment not completed"
// @Router /payments/payment-success [get]
func (c *PaymentController) PaymentSuccess(ctx *gin.Context) {
	id := ctx.Query("session_id")
	if id == "" {
		id = ctx.Query("payment_id")
	}

	result, err := c.paymentService.CompleteCheckout(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if wantsHTML(ctx) {
		redirectToComplete(ctx, result.PaymentID, result.Amount)
		return
	}
	respond(ctx, http.StatusOK, result, "Payment processed successfully")
}

// Webhook receives Stripe events
// @Summary Stripe webhook
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string false "Stripe signature"
// @Success 200 {object} dto.WebhookAck
// @Failure 400 {object} dto.StructuredResponse "Webhook signature verification failed"
// @Failure 413 {object} dto.StructuredResponse "Payload too large"
// @Router /payments/webhook [post]
func (c *PaymentController) Webhook(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
				"Payload too large",
				dto.NewErrorDetail(dto.ErrorCodeInvalidBody, "Payload too large"),
			))
			return
		}
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
			"Invalid request body",
			dto.NewErrorDetail(dto.ErrorCodeInvalidBody, err.Error()),
		))
		return
	}

	ack, err := c.paymentService.HandleWebhook(ctx.Request.Context(), payload, ctx.GetHeader(stripeSignatureHeader))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ack)
}

// TestWebhook dispatches a simulated Stripe event
// @Summary Simulate webhook event
// @Tags payments
// @Accept json
// @Produce json,html
// @Param request body dto.TestWebhookRequest true "Event"
// @Success 200 {object} dto.StructuredResponse{data=dto.WebhookAck}
// @Success 303 "Redirect to /payment-complete.html"
// @Failure 400 {object} dto.StructuredResponse "Missing fields or invalid event type"
// @Router /payments/test-webhook [post]
func (c *PaymentController) TestWebhook(ctx *gin.Context) {
	var req dto.TestWebhookRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	ack, err := c.paymentService.SimulateWebhook(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if wantsHTML(ctx) {
		redirectToComplete(ctx, ack.PaymentID, req.Amount)
		return
	}
	respond(ctx, http.StatusOK, ack, "Test "+req.Type+" event processed successfully")
}

func wantsHTML(ctx *gin.Context) bool {
	return strings.Contains(ctx.GetHeader("Accept"), "text/html")
}

func redirectToComplete(ctx *gin.Context, paymentID string, amount float64) {
	location := fmt.Sprintf("%s?payment_id=%s&amount=%s",
		paymentCompletePage, url.QueryEscape(paymentID), strconv.FormatFloat(amount, 'f', -1, 64))
	ctx.Redirect(http.StatusSeeOther, location)
}
