package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/edusponsor/internal/app/models"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/app/repositories"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
	"github.com/yigit/edusponsor/internal/pkg/metrics"
)

const (
	msgDonationFieldsRequired  = "Sponsorship ID and amount are required"
	msgDonationCreateForbidden = "You are not authorized to make donations for this sponsorship"
	msgDonationViewForbidden   = "You are not authorized to view these donations"
)

// DonationService records and reports donations
type DonationService interface {
	Create(ctx context.Context, sponsorID uuid.UUID, req dto.CreateDonationRequest) (*models.Donation, error)
	ListBySponsorship(ctx context.Context, userID uuid.UUID, sponsorshipID string) ([]models.Donation, error)
	// ListForSponsor returns donations across every sponsorship of sponsorID
	ListForSponsor(ctx context.Context, sponsorID uuid.UUID) ([]models.Donation, error)
	Stats(ctx context.Context, sponsorID uuid.UUID) (*dto.DonationStats, error)
	ListAll(ctx context.Context) ([]models.Donation, error)
}

type donationServiceImpl struct {
	donationRepo    repositories.DonationRepository
	sponsorshipRepo repositories.SponsorshipRepository
	notifier        DonationNotifier
	metrics         *metrics.Metrics
}

func NewDonationService(
	donationRepo repositories.DonationRepository,
	sponsorshipRepo repositories.SponsorshipRepository,
	notifier DonationNotifier,
	m *metrics.Metrics,
) DonationService {
	return &donationServiceImpl{
		donationRepo:    donationRepo,
		sponsorshipRepo: sponsorshipRepo,
		notifier:        notifier,
		metrics:         m,
	}
}

func (s *donationServiceImpl) Create(ctx context.Context, sponsorID uuid.UUID, req dto.CreateDonationRequest) (*models.Donation, error) {
	if strings.TrimSpace(req.SponsorshipID) == "" || req.Amount <= 0 {
		return nil, apperrors.NewBadRequestError(msgDonationFieldsRequired)
	}

	sponsorship, err := s.sponsorship(ctx, req.SponsorshipID)
	if err != nil {
		return nil, err
	}
	if sponsorship.SponsorID != sponsorID {
		return nil, apperrors.NewForbiddenError(msgDonationCreateForbidden)
	}

	donation := &models.Donation{
		SponsorshipID: sponsorship.ID,
		Amount:        req.Amount,
	}
	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, fmt.Errorf("error creating donation: %w", err)
	}

	s.metrics.DonationRecorded(metrics.SourceManual, donation.Amount)
	s.notifier.DonationRecorded(ctx, donation, sponsorship)
	return donation, nil
}

func (s *donationServiceImpl) ListBySponsorship(ctx context.Context, userID uuid.UUID, sponsorshipID string) ([]models.Donation, error) {
	sponsorship, err := s.sponsorship(ctx, sponsorshipID)
	if err != nil {
		return nil, err
	}
	if !sponsorship.Involves(userID) {
		return nil, apperrors.NewForbiddenError(msgDonationViewForbidden)
	}
	return s.donationRepo.ListBySponsorship(ctx, sponsorship.ID)
}

func (s *donationServiceImpl) ListForSponsor(ctx context.Context, sponsorID uuid.UUID) ([]models.Donation, error) {
	ids, err := s.sponsorshipRepo.IDsBySponsor(ctx, sponsorID)
	if err != nil {
		return nil, err
	}
	return s.donationRepo.ListBySponsorshipIDs(ctx, ids)
}

// Stats sums the caller's donations; studentCount is the number of their sponsorships
func (s *donationServiceImpl) Stats(ctx context.Context, sponsorID uuid.UUID) (*dto.DonationStats, error) {
	totals, err := s.donationRepo.TotalsBySponsor(ctx, sponsorID)
	if err != nil {
		return nil, fmt.Errorf("error computing donation totals: %w", err)
	}
	ids, err := s.sponsorshipRepo.IDsBySponsor(ctx, sponsorID)
	if err != nil {
		return nil, err
	}
	return &dto.DonationStats{
		TotalAmount:   totals.Total,
		DonationCount: totals.Count,
		StudentCount:  int64(len(ids)),
	}, nil
}

func (s *donationServiceImpl) ListAll(ctx context.Context) ([]models.Donation, error) {
	return s.donationRepo.ListAllWithParties(ctx)
}

func (s *donationServiceImpl) sponsorship(ctx context.Context, id string) (*models.Sponsorship, error) {
	sponsorshipID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSponsorshipNotFound, msgSponsorshipNotFound)
	}
	sponsorship, err := s.sponsorshipRepo.GetByID(ctx, sponsorshipID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSponsorshipNotFound) {
			return nil, apperrors.Wrap(err, msgSponsorshipNotFound)
		}
		return nil, err
	}
	return sponsorship, nil
}
