package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/edusponsor/internal/app/models"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
	"github.com/yigit/edusponsor/internal/pkg/dberrors"
	"github.com/yigit/edusponsor/internal/pkg/logger"
	"gorm.io/gorm"
)

// ErrDuplicatePaymentReference is returned when a donation for the same
// payment already exists
var ErrDuplicatePaymentReference = errors.New("donation already recorded for payment")

// DonationTotals is the aggregate over a sponsor's donations
type DonationTotals struct {
	Total float64
	Count int64
}

// DonationRepository handles donation database operations
type DonationRepository interface {
	Create(ctx context.Context, d *models.Donation) error
	GetByPaymentReference(ctx context.Context, ref string) (*models.Donation, error)
	ListBySponsorship(ctx context.Context, sponsorshipID uuid.UUID) ([]models.Donation, error)
	ListBySponsorshipIDs(ctx context.Context, ids []uuid.UUID) ([]models.Donation, error)
	ListAllWithParties(ctx context.Context) ([]models.Donation, error)
	TotalsBySponsor(ctx context.Context, sponsorID uuid.UUID) (DonationTotals, error)
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, d *models.Donation) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.DonationsPaymentReferenceKey) {
			return ErrDuplicatePaymentReference
		}
		logger.Error().Err(err).Str("sponsorshipID", d.SponsorshipID.String()).Msg("Error creating donation")
		return fmt.Errorf("error creating donation: %w", err)
	}
	return nil
}

// GetByPaymentReference returns apperrors.ErrResourceNotFound when no donation carries ref
func (r *donationRepository) GetByPaymentReference(ctx context.Context, ref string) (*models.Donation, error) {
	var d models.Donation
	if err := r.db.WithContext(ctx).Where("payment_reference = ?", ref).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error getting donation by reference: %w", err)
	}
	return &d, nil
}

func (r *donationRepository) ListBySponsorship(ctx context.Context, sponsorshipID uuid.UUID) ([]models.Donation, error) {
	list := []models.Donation{}
	err := r.db.WithContext(ctx).
		Where("sponsorship_id = ?", sponsorshipID).
		Order("donated_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("error listing donations: %w", err)
	}
	return list, nil
}

func (r *donationRepository) ListBySponsorshipIDs(ctx context.Context, ids []uuid.UUID) ([]models.Donation, error) {
	list := []models.Donation{}
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("sponsorship_id IN ?", ids).
		Order("donated_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("error listing donations: %w", err)
	}
	return list, nil
}

func (r *donationRepository) ListAllWithParties(ctx context.Context) ([]models.Donation, error) {
	list := []models.Donation{}
	err := r.db.WithContext(ctx).
		Preload("Sponsorship.Sponsor").
		Preload("Sponsorship.Student").
		Order("donated_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("error listing all donations: %w", err)
	}
	return list, nil
}

func (r *donationRepository) TotalsBySponsor(ctx context.Context, sponsorID uuid.UUID) (DonationTotals, error) {
	var totals DonationTotals
	err := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Select("COALESCE(SUM(donations.amount), 0) AS total, COUNT(donations.id) AS count").
		Joins("JOIN sponsorships ON sponsorships.id = donations.sponsorship_id").
		Where("sponsorships.sponsor_id = ?", sponsorID).
		Scan(&totals).Error
	if err != nil {
		return DonationTotals{}, fmt.Errorf("error summing donations: %w", err)
	}
	return totals, nil
}
