package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/edusponsor/internal/app/models"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
	"github.com/yigit/edusponsor/internal/pkg/logger"
	"gorm.io/gorm"
)

// SponsorshipRepository handles sponsorship database operations
type SponsorshipRepository interface {
	Create(ctx context.Context, s *models.Sponsorship) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sponsorship, error)
	FindByPair(ctx context.Context, sponsorID, studentID uuid.UUID) (*models.Sponsorship, error)
	ListBySponsor(ctx context.Context, sponsorID uuid.UUID) ([]models.Sponsorship, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Sponsorship, error)
	IDsBySponsor(ctx context.Context, sponsorID uuid.UUID) ([]uuid.UUID, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type sponsorshipRepository struct {
	db *gorm.DB
}

func NewSponsorshipRepository(db *gorm.DB) SponsorshipRepository {
	return &sponsorshipRepository{db: db}
}

func (r *sponsorshipRepository) Create(ctx context.Context, s *models.Sponsorship) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		logger.Error().Err(err).
			Str("sponsorID", s.SponsorID.String()).
			Str("studentID", s.StudentID.String()).
			Msg("Error creating sponsorship")
		return fmt.Errorf("error creating sponsorship: %w", err)
	}
	return nil
}

func (r *sponsorshipRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Sponsorship, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByPair returns apperrors.ErrSponsorshipNotFound when the pair has no sponsorship
func (r *sponsorshipRepository) FindByPair(ctx context.Context, sponsorID, studentID uuid.UUID) (*models.Sponsorship, error) {
	return r.first(r.db.WithContext(ctx).Where("sponsor_id = ? AND student_id = ?", sponsorID, studentID))
}

func (r *sponsorshipRepository) ListBySponsor(ctx context.Context, sponsorID uuid.UUID) ([]models.Sponsorship, error) {
	list := []models.Sponsorship{}
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("sponsor_id = ?", sponsorID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("error listing sponsorships by sponsor: %w", err)
	}
	return list, nil
}

func (r *sponsorshipRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Sponsorship, error) {
	list := []models.Sponsorship{}
	err := r.db.WithContext(ctx).
		Preload("Sponsor").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("error listing sponsorships by student: %w", err)
	}
	return list, nil
}

func (r *sponsorshipRepository) IDsBySponsor(ctx context.Context, sponsorID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := r.db.WithContext(ctx).Model(&models.Sponsorship{}).Where("sponsor_id = ?", sponsorID).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("error listing sponsorship ids: %w", err)
	}
	return ids, nil
}

func (r *sponsorshipRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Sponsorship{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		logger.Error().Err(res.Error).Str("sponsorshipID", id.String()).Msg("Error updating sponsorship status")
		return fmt.Errorf("error updating sponsorship: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrSponsorshipNotFound
	}
	return nil
}

func (r *sponsorshipRepository) first(q *gorm.DB) (*models.Sponsorship, error) {
	var s models.Sponsorship
	if err := q.First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSponsorshipNotFound
		}
		return nil, fmt.Errorf("error getting sponsorship: %w", err)
	}
	return &s, nil
}
