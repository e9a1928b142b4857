package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/edusponsor/internal/app/models"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/app/repositories"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
	"github.com/yigit/edusponsor/internal/pkg/auth"
	"github.com/yigit/edusponsor/internal/pkg/metrics"
	"github.com/yigit/edusponsor/internal/pkg/payments"
	"gorm.io/datatypes"
)

const (
	msgAmountRequired           = "Amount is required"
	msgAmountAndStudentRequired = "Amount and student ID are required"
	msgIntentIDRequired         = "Payment intent ID is required"
	msgPaymentIncomplete        = "Payment has not been completed"
	msgStudentAndAmountRequired = "Student ID and amount are required"
	msgSessionIDRequired        = "Session ID is required"
	msgSignatureFailed          = "Webhook signature verification failed"
	msgInvalidWebhookPayload    = "Webhook processing failed"
	msgTestWebhookFields        = "Missing required fields: type, sponsorId, studentId, amount"
	msgInvalidEventType         = `Invalid event type. Must be "payment_intent.succeeded" or "checkout.session.completed"`

	msgTestIntentFailed   = "Failed to create test payment intent"
	msgTestCheckoutFailed = "Failed to create test checkout session"
	msgIntentFailed       = "Failed to create payment intent"
	msgProcessFailed      = "Failed to process payment"
	msgCheckoutFailed     = "Failed to create checkout session"
)

// Metadata keys attached to Stripe objects
const (
	metaSponsorID = "sponsorId"
	metaStudentID = "studentId"
	metaAmount    = "amount"
	metaTest      = "test"
)

const (
	productTestDonation    = "Test Donation"
	productStudentDonation = "Student Sponsorship Donation"

	webhookProcessed = "processed"
	webhookIgnored   = "ignored"
	webhookDuplicate = "duplicate"
	webhookFailed    = "failed"
)

// placeholder describes the user row created when a payment names a user
// that does not exist yet
type placeholder struct {
	kind string
	name string
	age  string
	role models.Role
}

var (
	placeholderSponsor = placeholder{kind: "sponsor", name: "Temporary Sponsor", age: "30", role: models.RoleSponsor}
	placeholderStudent = placeholder{kind: "student", name: "Temporary Student", age: "15", role: models.RoleStudent}
)

const placeholderPassword = "temporary"

// PaymentReconciliation names the parties and amount of a completed payment.
// Reference is the Stripe object id and makes reconciliation idempotent.
type PaymentReconciliation struct {
	SponsorID string
	StudentID string
	Amount    float64
	Reference string
	Source    string
}

// ReconcileResult is the donation a payment resolved to. Created is false
// when the payment had already been recorded.
type ReconcileResult struct {
	Donation    *models.Donation
	Sponsorship *models.Sponsorship
	Created     bool
}

// PaymentService talks to the payment provider and turns completed payments
// into donations
type PaymentService interface {
	CreateTestPaymentIntent(ctx context.Context, amount float64) (*dto.PaymentIntentResponse, error)
	CreateTestCheckoutSession(ctx context.Context, amount float64) (*dto.CheckoutSessionResponse, error)
	CreatePaymentIntent(ctx context.Context, sponsorID uuid.UUID, req dto.CreatePaymentIntentRequest) (*dto.PaymentIntentResponse, error)
	ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest) (*dto.PaymentResult, error)
	CreateCheckoutSession(ctx context.Context, sponsorID uuid.UUID, req dto.CreateCheckoutSessionRequest) (*dto.CheckoutSessionResponse, error)
	// CompleteCheckout accepts a checkout session id or a payment intent id
	CompleteCheckout(ctx context.Context, id string) (*dto.PaymentResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*dto.WebhookAck, error)
	SimulateWebhook(ctx context.Context, req dto.TestWebhookRequest) (*dto.WebhookAck, error)
	// ReconcilePayment returns nil when either party id is missing or malformed,
	// or when the amount is not positive
	ReconcilePayment(ctx context.Context, in PaymentReconciliation) (*ReconcileResult, error)
}

type paymentServiceImpl struct {
	repos    *repositories.Repositories
	gateway  payments.Gateway
	notifier DonationNotifier
	metrics  *metrics.Metrics
	urls     RedirectURLs
	logger   zerolog.Logger
	now      func() time.Time
}

func NewPaymentService(
	repos *repositories.Repositories,
	gateway payments.Gateway,
	notifier DonationNotifier,
	m *metrics.Metrics,
	urls RedirectURLs,
	logger zerolog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		repos:    repos,
		gateway:  gateway,
		notifier: notifier,
		metrics:  m,
		urls:     urls,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *paymentServiceImpl) CreateTestPaymentIntent(ctx context.Context, amount float64) (*dto.PaymentIntentResponse, error) {
	if amount <= 0 {
		return nil, apperrors.NewBadRequestError(msgAmountRequired)
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, payments.IntentParams{
		Amount:   payments.ToCents(amount),
		Metadata: map[string]string{metaTest: "true"},
	})
	if err != nil {
		return nil, providerError(err, msgTestIntentFailed)
	}
	return &dto.PaymentIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

func (s *paymentServiceImpl) CreateTestCheckoutSession(ctx context.Context, amount float64) (*dto.CheckoutSessionResponse, error) {
	if amount <= 0 {
		return nil, apperrors.NewBadRequestError(msgAmountRequired)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.SessionParams{
		Amount:      payments.ToCents(amount),
		ProductName: productTestDonation,
		SuccessURL:  joinURL(s.urls.Frontend, "/api/payments/test-success"),
		CancelURL:   joinURL(s.urls.Frontend, "/api/payments/test-cancel"),
		Metadata:    map[string]string{metaTest: "true"},
	})
	if err != nil {
		return nil, providerError(err, msgTestCheckoutFailed)
	}
	return &dto.CheckoutSessionResponse{SessionID: session.ID, URL: session.URL}, nil
}

func (s *paymentServiceImpl) CreatePaymentIntent(ctx context.Context, sponsorID uuid.UUID, req dto.CreatePaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	if req.Amount <= 0 || strings.TrimSpace(req.StudentID) == "" {
		return nil, apperrors.NewBadRequestError(msgAmountAndStudentRequired)
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, payments.IntentParams{
		Amount: payments.ToCents(req.Amount),
		Metadata: map[string]string{
			metaSponsorID: sponsorID.String(),
			metaStudentID: strings.TrimSpace(req.StudentID),
		},
	})
	if err != nil {
		return nil, providerError(err, msgIntentFailed)
	}
	return &dto.PaymentIntentResponse{ClientSecret: intent.ClientSecret, PaymentIntentID: intent.ID}, nil
}

// ProcessPayment records the donation for a succeeded payment intent
func (s *paymentServiceImpl) ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest) (*dto.PaymentResult, error) {
	intentID := strings.TrimSpace(req.PaymentIntentID)
	if intentID == "" {
		return nil, apperrors.NewBadRequestError(msgIntentIDRequired)
	}

	intent, err := s.gateway.GetPaymentIntent(ctx, intentID)
	if err != nil {
		return nil, providerError(err, msgProcessFailed)
	}
	if intent.Status != payments.IntentStatusSucceeded {
		return nil, apperrors.Wrap(apperrors.ErrPaymentIncomplete, msgPaymentIncomplete)
	}

	in := PaymentReconciliation{
		SponsorID: intent.Metadata[metaSponsorID],
		StudentID: intent.Metadata[metaStudentID],
		Amount:    payments.FromCents(intent.Amount),
		Reference: intent.ID,
		Source:    metrics.SourcePaymentIntent,
	}
	res, err := s.ReconcilePayment(ctx, in)
	if err != nil {
		return nil, err
	}
	return paymentResult(in, res), nil
}

func (s *paymentServiceImpl) CreateCheckoutSession(ctx context.Context, sponsorID uuid.UUID, req dto.CreateCheckoutSessionRequest) (*dto.CheckoutSessionResponse, error) {
	studentID := strings.TrimSpace(req.StudentID)
	if studentID == "" || req.Amount <= 0 {
		return nil, apperrors.NewBadRequestError(msgStudentAndAmountRequired)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.SessionParams{
		Amount:      payments.ToCents(req.Amount),
		ProductName: productStudentDonation,
		Description: "Donation for student " + studentID,
		SuccessURL:  joinURL(s.urls.Backend, "/api/payments/payment-success") + "?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   joinURL(s.urls.Backend, "/payment-cancel.html"),
		Metadata: map[string]string{
			metaSponsorID: sponsorID.String(),
			metaStudentID: studentID,
			metaAmount:    strconv.FormatFloat(req.Amount, 'f', -1, 64),
		},
	})
	if err != nil {
		return nil, providerError(err, msgCheckoutFailed)
	}
	return &dto.CheckoutSessionResponse{SessionID: session.ID, URL: session.URL}, nil
}

func (s *paymentServiceImpl) CompleteCheckout(ctx context.Context, id string) (*dto.PaymentResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewBadRequestError(msgSessionIDRequired)
	}
	if strings.HasPrefix(id, "pi_") {
		return s.ProcessPayment(ctx, dto.ProcessPaymentRequest{PaymentIntentID: id})
	}

	session, err := s.gateway.GetCheckoutSession(ctx, id)
	if err != nil {
		return nil, providerError(err, msgProcessFailed)
	}
	if session.PaymentStatus != payments.SessionStatusPaid {
		return nil, apperrors.Wrap(apperrors.ErrPaymentIncomplete, msgPaymentIncomplete)
	}

	in := PaymentReconciliation{
		SponsorID: session.Metadata[metaSponsorID],
		StudentID: session.Metadata[metaStudentID],
		Amount:    payments.FromCents(session.AmountTotal),
		Reference: session.ID,
		Source:    metrics.SourceCheckout,
	}
	res, err := s.ReconcilePayment(ctx, in)
	if err != nil {
		return nil, err
	}
	return paymentResult(in, res), nil
}

// HandleWebhook verifies and dispatches a provider event. Without a signature
// header or a configured secret the payload is trusted as is.
func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) (*dto.WebhookAck, error) {
	var (
		event *payments.Event
		err   error
	)

	if signature == "" || !s.gateway.HasWebhookSecret() {
		s.logger.Warn().Msg("Webhook accepted without signature verification (test mode)")
		event, err = s.gateway.ParseEvent(payload)
		if err != nil {
			return nil, apperrors.NewBadRequestError(msgInvalidWebhookPayload)
		}
	} else {
		event, err = s.gateway.VerifyEvent(payload, signature)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Webhook signature verification failed")
			return nil, apperrors.Wrap(apperrors.ErrSignatureInvalid, msgSignatureFailed)
		}
	}

	return s.dispatch(ctx, event, payload)
}

// SimulateWebhook builds a provider-shaped event from req and dispatches it
func (s *paymentServiceImpl) SimulateWebhook(ctx context.Context, req dto.TestWebhookRequest) (*dto.WebhookAck, error) {
	if req.MissingFields() {
		return nil, apperrors.NewBadRequestError(msgTestWebhookFields)
	}

	ms := s.now().UnixMilli()
	metadata := map[string]string{
		metaSponsorID: req.SponsorID,
		metaStudentID: req.StudentID,
		metaAmount:    strconv.FormatFloat(req.Amount, 'f', -1, 64),
	}

	var (
		object    map[string]interface{}
		paymentID string
	)
	switch req.Type {
	case payments.EventPaymentIntentSucceeded:
		paymentID = fmt.Sprintf("pi_test_%d", ms)
		object = map[string]interface{}{
			"id":       paymentID,
			"object":   "payment_intent",
			"amount":   payments.ToCents(req.Amount),
			"status":   payments.IntentStatusSucceeded,
			"metadata": metadata,
		}
	case payments.EventCheckoutSessionCompleted:
		paymentID = fmt.Sprintf("cs_test_%d", ms)
		object = map[string]interface{}{
			"id":             paymentID,
			"object":         "checkout.session",
			"amount_total":   payments.ToCents(req.Amount),
			"payment_status": payments.SessionStatusPaid,
			"metadata":       metadata,
		}
	default:
		return nil, apperrors.NewBadRequestError(msgInvalidEventType)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"id":     fmt.Sprintf("evt_test_%d", ms),
		"object": "event",
		"type":   req.Type,
		"data":   map[string]interface{}{"object": object},
	})
	if err != nil {
		return nil, err
	}

	event, err := s.gateway.ParseEvent(payload)
	if err != nil {
		return nil, err
	}
	ack, err := s.dispatch(ctx, event, payload)
	if err != nil {
		return nil, err
	}
	ack.PaymentID = paymentID
	return ack, nil
}

// dispatch records the event in the ledger and reconciles it in one
// transaction, so a replayed event id never produces a second donation
func (s *paymentServiceImpl) dispatch(ctx context.Context, event *payments.Event, payload []byte) (*dto.WebhookAck, error) {
	log := s.logger.With().Str("eventId", event.ID).Str("type", event.Type).Logger()
	ack := &dto.WebhookAck{Received: true, EventID: event.ID}

	in, handled, err := s.reconciliationFor(event, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to decode webhook event")
		s.metrics.WebhookEvent(event.Type, webhookFailed)
		return nil, apperrors.NewBadRequestError(msgInvalidWebhookPayload)
	}

	status := models.PaymentEventIgnored
	if handled {
		status = models.PaymentEventProcessed
	}

	var res *ReconcileResult
	err = retryOnDuplicateReference(func() error {
		return s.repos.Tx.WithinTransaction(ctx, func(repos *repositories.Repositories) error {
			if event.ID != "" {
				processedAt := s.now()
				record := &models.PaymentEvent{
					EventID:     event.ID,
					Provider:    models.PaymentProviderStripe,
					Type:        event.Type,
					Status:      status,
					Payload:     datatypes.JSON(payload),
					ProcessedAt: &processedAt,
				}
				if err := repos.PaymentEvents.Record(ctx, record); err != nil {
					return err
				}
			}
			if !handled {
				return nil
			}

			var err error
			res, err = s.reconcile(ctx, repos, in)
			return err
		})
	})

	switch {
	case errors.Is(err, apperrors.ErrEventAlreadyHandled):
		log.Info().Msg("Webhook event already processed")
		s.metrics.WebhookEvent(event.Type, webhookDuplicate)
		ack.Duplicate = true
		return ack, nil
	case err != nil:
		s.metrics.WebhookEvent(event.Type, webhookFailed)
		return nil, fmt.Errorf("error processing webhook event %s: %w", event.ID, err)
	}

	if handled {
		s.metrics.WebhookEvent(event.Type, webhookProcessed)
	} else {
		s.metrics.WebhookEvent(event.Type, webhookIgnored)
	}
	s.afterReconcile(ctx, res, in.Source)
	return ack, nil
}

// reconciliationFor maps an event onto a reconciliation. handled is false for
// event types that are only logged.
func (s *paymentServiceImpl) reconciliationFor(event *payments.Event, log zerolog.Logger) (PaymentReconciliation, bool, error) {
	switch event.Type {
	case payments.EventPaymentIntentSucceeded:
		intent, err := payments.DecodeIntent(event.Raw)
		if err != nil {
			return PaymentReconciliation{}, false, err
		}
		return PaymentReconciliation{
			SponsorID: intent.Metadata[metaSponsorID],
			StudentID: intent.Metadata[metaStudentID],
			Amount:    payments.FromCents(intent.Amount),
			Reference: intent.ID,
			Source:    metrics.SourcePaymentIntent,
		}, true, nil

	case payments.EventCheckoutSessionCompleted:
		session, err := payments.DecodeSession(event.Raw)
		if err != nil {
			return PaymentReconciliation{}, false, err
		}
		return PaymentReconciliation{
			SponsorID: session.Metadata[metaSponsorID],
			StudentID: session.Metadata[metaStudentID],
			Amount:    payments.FromCents(session.AmountTotal),
			Reference: session.ID,
			Source:    metrics.SourceCheckout,
		}, true, nil

	case payments.EventPaymentIntentFailed:
		log.Warn().Msg("Payment failed")
		return PaymentReconciliation{}, false, nil

	default:
		log.Info().Msg("Unhandled webhook event type")
		return PaymentReconciliation{}, false, nil
	}
}

func (s *paymentServiceImpl) ReconcilePayment(ctx context.Context, in PaymentReconciliation) (*ReconcileResult, error) {
	var res *ReconcileResult
	err := retryOnDuplicateReference(func() error {
		return s.repos.Tx.WithinTransaction(ctx, func(repos *repositories.Repositories) error {
			var err error
			res, err = s.reconcile(ctx, repos, in)
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error reconciling payment %s: %w", in.Reference, err)
	}

	s.afterReconcile(ctx, res, in.Source)
	return res, nil
}

// reconcile must run inside a transaction. Both user rows are locked so
// concurrent payments for the same pair are serialised.
func (s *paymentServiceImpl) reconcile(ctx context.Context, repos *repositories.Repositories, in PaymentReconciliation) (*ReconcileResult, error) {
	sponsorID, errSponsor := uuid.Parse(strings.TrimSpace(in.SponsorID))
	studentID, errStudent := uuid.Parse(strings.TrimSpace(in.StudentID))
	if errSponsor != nil || errStudent != nil {
		s.logger.Warn().
			Str("sponsorId", in.SponsorID).
			Str("studentId", in.StudentID).
			Str("reference", in.Reference).
			Msg("Payment metadata does not name a sponsor and a student, skipping")
		return nil, nil
	}
	if in.Amount <= 0 {
		s.logger.Warn().
			Str("reference", in.Reference).
			Float64("amount", in.Amount).
			Msg("Payment carries no amount, skipping")
		return nil, nil
	}

	if err := s.ensureUser(ctx, repos.Users, sponsorID, placeholderSponsor); err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, repos.Users, studentID, placeholderStudent); err != nil {
		return nil, err
	}

	sponsorship, err := repos.Sponsorships.FindByPair(ctx, sponsorID, studentID)
	if errors.Is(err, apperrors.ErrSponsorshipNotFound) {
		sponsorship = &models.Sponsorship{
			SponsorID: sponsorID,
			StudentID: studentID,
			StartDate: datatypes.Date(s.now()),
			Status:    models.SponsorshipStatusActive,
		}
		err = repos.Sponsorships.Create(ctx, sponsorship)
	}
	if err != nil {
		return nil, fmt.Errorf("error resolving sponsorship: %w", err)
	}

	if in.Reference != "" {
		existing, err := repos.Donations.GetByPaymentReference(ctx, in.Reference)
		if err == nil {
			return &ReconcileResult{Donation: existing, Sponsorship: sponsorship}, nil
		}
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, err
		}
	}

	donation := &models.Donation{
		SponsorshipID: sponsorship.ID,
		Amount:        in.Amount,
		DonatedAt:     s.now(),
	}
	if in.Reference != "" {
		ref := in.Reference
		donation.PaymentReference = &ref
	}
	if err := repos.Donations.Create(ctx, donation); err != nil {
		return nil, fmt.Errorf("error creating donation: %w", err)
	}

	s.logger.Info().
		Str("donationId", donation.ID.String()).
		Str("sponsorshipId", sponsorship.ID.String()).
		Str("reference", in.Reference).
		Float64("amount", in.Amount).
		Msg("Payment reconciled")
	return &ReconcileResult{Donation: donation, Sponsorship: sponsorship, Created: true}, nil
}

func (s *paymentServiceImpl) ensureUser(ctx context.Context, users repositories.UserRepository, id uuid.UUID, p placeholder) error {
	_, err := users.GetByIDForUpdate(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hashed, err := auth.HashPassword(placeholderPassword)
	if err != nil {
		return err
	}
	user := &models.User{
		ID:       id,
		Name:     p.name,
		Age:      p.age,
		Email:    models.PlaceholderEmail(p.kind, id),
		Password: hashed,
		Role:     p.role,
	}
	// Placeholder e-mails keep only the first 8 hex digits of the id, so two
	// unknown users sharing that prefix collide on the unique e-mail index.
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("%w: creating placeholder %s %s: %v", apperrors.ErrReconciliation, p.kind, id, err)
	}

	s.logger.Warn().Str("userId", id.String()).Str("role", string(p.role)).Msg("Created placeholder user for payment")
	return nil
}

// afterReconcile runs outside the transaction and only for new donations
func (s *paymentServiceImpl) afterReconcile(ctx context.Context, res *ReconcileResult, source string) {
	if res == nil || !res.Created {
		return
	}
	s.metrics.DonationRecorded(source, res.Donation.Amount)
	s.notifier.DonationRecorded(ctx, res.Donation, res.Sponsorship)
}

func paymentResult(in PaymentReconciliation, res *ReconcileResult) *dto.PaymentResult {
	out := &dto.PaymentResult{
		SponsorID: in.SponsorID,
		StudentID: in.StudentID,
		Amount:    in.Amount,
		PaymentID: in.Reference,
	}
	if res != nil && res.Donation != nil {
		out.DonationID = res.Donation.ID.String()
		out.Duplicate = !res.Created
	}
	return out
}

// retryOnDuplicateReference runs fn a second time when a concurrent request
// recorded the same payment reference first. The rolled back transaction
// cannot re-read the row, a fresh one finds it.
func retryOnDuplicateReference(fn func() error) error {
	err := fn()
	if errors.Is(err, repositories.ErrDuplicatePaymentReference) {
		return fn()
	}
	return err
}

func providerError(err error, message string) error {
	return apperrors.Wrap(fmt.Errorf("%w: %v", apperrors.ErrPaymentProvider, err), message)
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
