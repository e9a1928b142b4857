package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/edusponsor/internal/app/models"
	"github.com/yigit/edusponsor/internal/app/repositories"
	"github.com/yigit/edusponsor/internal/pkg/email"
	"github.com/yigit/edusponsor/internal/pkg/events"
)

const receiptSubject = "Thank you for your donation"

// DonationNotifier runs the side effects of a committed donation. It never
// fails the caller; problems are logged.
type DonationNotifier interface {
	DonationRecorded(ctx context.Context, donation *models.Donation, sponsorship *models.Sponsorship)
}

// NoopNotifier drops every notification
type NoopNotifier struct{}

func (NoopNotifier) DonationRecorded(context.Context, *models.Donation, *models.Sponsorship) {}

type donationNotifier struct {
	publisher events.Publisher
	mailer    email.Sender
	userRepo  repositories.UserRepository
	emailLogs repositories.EmailLogRepository
	logger    zerolog.Logger
}

// NewDonationNotifier publishes a donation.recorded event and sends the
// sponsor a receipt, keeping a copy in email_logs
func NewDonationNotifier(
	publisher events.Publisher,
	mailer email.Sender,
	userRepo repositories.UserRepository,
	emailLogs repositories.EmailLogRepository,
	logger zerolog.Logger,
) DonationNotifier {
	return &donationNotifier{
		publisher: publisher,
		mailer:    mailer,
		userRepo:  userRepo,
		emailLogs: emailLogs,
		logger:    logger,
	}
}

func (n *donationNotifier) DonationRecorded(ctx context.Context, donation *models.Donation, sponsorship *models.Sponsorship) {
	log := n.logger.With().
		Str("donationId", donation.ID.String()).
		Str("sponsorshipId", sponsorship.ID.String()).
		Logger()

	event := events.DonationRecorded{
		EventType:     events.EventDonationRecorded,
		DonationID:    donation.ID.String(),
		SponsorshipID: sponsorship.ID.String(),
		SponsorID:     sponsorship.SponsorID.String(),
		StudentID:     sponsorship.StudentID.String(),
		Amount:        donation.Amount,
		RecordedAt:    donation.DonatedAt,
	}
	if donation.PaymentReference != nil {
		event.PaymentReference = *donation.PaymentReference
	}
	if err := n.publisher.PublishDonationRecorded(ctx, event); err != nil {
		log.Error().Err(err).Msg("Failed to publish donation event")
	}

	sponsor, err := n.userRepo.GetByID(ctx, sponsorship.SponsorID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load sponsor for receipt")
		return
	}

	body := ReceiptBody(sponsor.Name, donation.Amount, donation.DonatedAt)
	if err := n.mailer.Send(ctx, sponsor.Email, receiptSubject, body); err != nil {
		log.Error().Err(err).Str("toEmail", sponsor.Email).Msg("Failed to send donation receipt")
		return
	}

	entry := &models.EmailLog{
		UserID:  sponsor.ID,
		Subject: receiptSubject,
		Content: body,
	}
	if err := n.emailLogs.Create(ctx, entry); err != nil {
		log.Error().Err(err).Msg("Failed to write email log")
	}
}

// ReceiptBody renders the HTML receipt sent to a sponsor
func ReceiptBody(name string, amount float64, donatedAt time.Time) string {
	return fmt.Sprintf(
		"<p>Dear %s,</p><p>Thank you for your donation of $%.2f on %s.</p><p>Your support keeps a student in school.</p>",
		html.EscapeString(name), amount, donatedAt.Format("January 2, 2006"),
	)
}
