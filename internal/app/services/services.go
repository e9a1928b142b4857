package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/edusponsor/internal/app/repositories"
	"github.com/yigit/edusponsor/internal/pkg/auth"
	"github.com/yigit/edusponsor/internal/pkg/metrics"
	"github.com/yigit/edusponsor/internal/pkg/payments"
)

// Services defined in this package:
// - AuthService: registration and login
// - SchoolService: school CRUD and the per-school student listing
// - StudentService: student profile CRUD, including bulk creation
// - SponsorshipService: sponsor/student links
// - DonationService: manual donations, listings and statistics
// - PaymentService: Stripe payments, webhooks and reconciliation
// - DonationNotifier: events and receipts after a donation is recorded
type Services struct {
	Auth         AuthService
	Schools      SchoolService
	Students     StudentService
	Sponsorships SponsorshipService
	Donations    DonationService
	Payments     PaymentService
}

// RedirectURLs are the public base URLs used to build checkout redirects
type RedirectURLs struct {
	Frontend string
	Backend  string
}

// Dependencies collects everything the services are built from
type Dependencies struct {
	Repos    *repositories.Repositories
	JWT      *auth.JWTService
	Gateway  payments.Gateway
	Notifier DonationNotifier
	Metrics  *metrics.Metrics
	URLs     RedirectURLs
	Logger   zerolog.Logger
}

// NewServices wires every service on top of the given dependencies
func NewServices(deps Dependencies) *Services {
	if deps.Notifier == nil {
		deps.Notifier = NoopNotifier{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	return &Services{
		Auth:         NewAuthService(deps.Repos.Users, deps.JWT, deps.Logger),
		Schools:      NewSchoolService(deps.Repos.Schools, deps.Repos.Students),
		Students:     NewStudentService(deps.Repos.Students, deps.Repos.Schools, deps.Repos.Tx),
		Sponsorships: NewSponsorshipService(deps.Repos.Sponsorships, deps.Repos.Users),
		Donations:    NewDonationService(deps.Repos.Donations, deps.Repos.Sponsorships, deps.Notifier, deps.Metrics),
		Payments:     NewPaymentService(deps.Repos, deps.Gateway, deps.Notifier, deps.Metrics, deps.URLs, deps.Logger),
	}
}
