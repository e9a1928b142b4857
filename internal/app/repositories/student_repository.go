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

// StudentRepository handles student profile database operations
type StudentRepository interface {
	Create(ctx context.Context, student *models.StudentProfile) error
	CreateBatch(ctx context.Context, students []*models.StudentProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StudentProfile, error)
	GetAll(ctx context.Context) ([]models.StudentProfile, error)
	GetBySchoolID(ctx context.Context, schoolID uuid.UUID) ([]models.StudentProfile, error)
	CountBySchoolID(ctx context.Context, schoolID uuid.UUID) (int64, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.StudentProfile) error {
	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		logger.Error().Err(err).Msg("Error creating student")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

func (r *studentRepository) CreateBatch(ctx context.Context, students []*models.StudentProfile) error {
	if len(students) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&students).Error; err != nil {
		logger.Error().Err(err).Int("count", len(students)).Msg("Error creating students")
		return fmt.Errorf("error creating students: %w", err)
	}
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StudentProfile, error) {
	var student models.StudentProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return &student, nil
}

func (r *studentRepository) GetAll(ctx context.Context) ([]models.StudentProfile, error) {
	students := []models.StudentProfile{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	return students, nil
}

func (r *studentRepository) GetBySchoolID(ctx context.Context, schoolID uuid.UUID) ([]models.StudentProfile, error) {
	students := []models.StudentProfile{}
	if err := r.db.WithContext(ctx).Where("school_id = ?", schoolID).Order("created_at DESC").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("error listing students by school: %w", err)
	}
	return students, nil
}

func (r *studentRepository) CountBySchoolID(ctx context.Context, schoolID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StudentProfile{}).Where("school_id = ?", schoolID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

func (r *studentRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.StudentProfile{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		logger.Error().Err(res.Error).Str("studentID", id.String()).Msg("Error updating student")
		return fmt.Errorf("error updating student: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.StudentProfile{})
	if res.Error != nil {
		logger.Error().Err(res.Error).Str("studentID", id.String()).Msg("Error deleting student")
		return fmt.Errorf("error deleting student: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
