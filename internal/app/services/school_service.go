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
)

const (
	msgSchoolNotFound       = "School not found"
	msgSchoolFieldsRequired = "Name, description, and district are required"
	msgSchoolHasStudents    = "Cannot delete school with associated students. Remove all students first."
)

// SchoolService defines the interface for school-related operations
type SchoolService interface {
	GetAll(ctx context.Context) ([]models.School, error)
	GetByID(ctx context.Context, id string) (*models.School, error)
	Create(ctx context.Context, req dto.CreateSchoolRequest) (*models.School, error)
	Update(ctx context.Context, id string, req dto.UpdateSchoolRequest) (*models.School, error)
	Delete(ctx context.Context, id string) error
	GetStudents(ctx context.Context, id string) ([]models.StudentProfile, error)
}

type schoolServiceImpl struct {
	schoolRepo  repositories.SchoolRepository
	studentRepo repositories.StudentRepository
}

// NewSchoolService creates a new school service instance
func NewSchoolService(schoolRepo repositories.SchoolRepository, studentRepo repositories.StudentRepository) SchoolService {
	return &schoolServiceImpl{
		schoolRepo:  schoolRepo,
		studentRepo: studentRepo,
	}
}

func (s *schoolServiceImpl) GetAll(ctx context.Context) ([]models.School, error) {
	return s.schoolRepo.GetAll(ctx)
}

func (s *schoolServiceImpl) GetByID(ctx context.Context, id string) (*models.School, error) {
	schoolID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSchoolNotFound, msgSchoolNotFound)
	}
	school, err := s.schoolRepo.GetByID(ctx, schoolID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrSchoolNotFound, msgSchoolNotFound)
	}
	return school, nil
}

func (s *schoolServiceImpl) Create(ctx context.Context, req dto.CreateSchoolRequest) (*models.School, error) {
	if req.MissingFields() {
		return nil, apperrors.NewBadRequestError(msgSchoolFieldsRequired)
	}

	school := &models.School{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		District:    strings.TrimSpace(req.District),
		Status:      strings.TrimSpace(req.Status),
	}
	if err := s.schoolRepo.Create(ctx, school); err != nil {
		return nil, fmt.Errorf("error creating school: %w", err)
	}
	return school, nil
}

// Update merges the provided fields into the school
func (s *schoolServiceImpl) Update(ctx context.Context, id string, req dto.UpdateSchoolRequest) (*models.School, error) {
	school, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := req.Changes()
	if len(changes) == 0 {
		return school, nil
	}
	if err := s.schoolRepo.Update(ctx, school.ID, changes); err != nil {
		return nil, notFound(err, apperrors.ErrSchoolNotFound, msgSchoolNotFound)
	}
	return s.schoolRepo.GetByID(ctx, school.ID)
}

// Delete refuses to remove a school that still has students
func (s *schoolServiceImpl) Delete(ctx context.Context, id string) error {
	school, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.studentRepo.CountBySchoolID(ctx, school.ID)
	if err != nil {
		return fmt.Errorf("error counting students: %w", err)
	}
	if count > 0 {
		return apperrors.Wrap(apperrors.ErrSchoolHasStudents, msgSchoolHasStudents)
	}

	if err := s.schoolRepo.Delete(ctx, school.ID); err != nil {
		return notFound(err, apperrors.ErrSchoolNotFound, msgSchoolNotFound)
	}
	return nil
}

func (s *schoolServiceImpl) GetStudents(ctx context.Context, id string) ([]models.StudentProfile, error) {
	school, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.studentRepo.GetBySchoolID(ctx, school.ID)
}

// notFound attaches message to err when it is the given sentinel
func notFound(err, sentinel error, message string) error {
	if errors.Is(err, sentinel) {
		return apperrors.Wrap(err, message)
	}
	return err
}
