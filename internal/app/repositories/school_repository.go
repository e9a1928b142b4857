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

// SchoolRepository handles school database operations
type SchoolRepository interface {
	Create(ctx context.Context, school *models.School) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.School, error)
	GetAll(ctx context.Context) ([]models.School, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type schoolRepository struct {
	db *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) Create(ctx context.Context, school *models.School) error {
	if err := r.db.WithContext(ctx).Create(school).Error; err != nil {
		logger.Error().Err(err).Msg("Error creating school")
		return fmt.Errorf("error creating school: %w", err)
	}
	return nil
}

func (r *schoolRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.School, error) {
	var school models.School
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&school).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSchoolNotFound
		}
		return nil, fmt.Errorf("error getting school by ID: %w", err)
	}
	return &school, nil
}

func (r *schoolRepository) GetAll(ctx context.Context) ([]models.School, error) {
	schools := []models.School{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&schools).Error; err != nil {
		return nil, fmt.Errorf("error listing schools: %w", err)
	}
	return schools, nil
}

func (r *schoolRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.School{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("error checking school: %w", err)
	}
	return count > 0, nil
}

func (r *schoolRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.School{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		logger.Error().Err(res.Error).Str("schoolID", id.String()).Msg("Error updating school")
		return fmt.Errorf("error updating school: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrSchoolNotFound
	}
	return nil
}

func (r *schoolRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.School{})
	if res.Error != nil {
		logger.Error().Err(res.Error).Str("schoolID", id.String()).Msg("Error deleting school")
		return fmt.Errorf("error deleting school: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrSchoolNotFound
	}
	return nil
}
