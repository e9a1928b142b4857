package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/edusponsor/internal/app/models"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/app/repositories"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
	"gorm.io/datatypes"
)

const (
	msgSponsorshipFieldsRequired = "Student ID and start date are required"
	msgInvalidStartDate          = "Invalid start date"
	msgNotAStudent               = "Selected user is not a student"
	msgAlreadySponsoring         = "You are already sponsoring this student"
	msgSponsorshipNotFound       = "Sponsorship not found"
	msgSponsorshipViewForbidden  = "You are not authorized to view this sponsorship"
	msgSponsorshipEditForbidden  = "You are not authorized to update this sponsorship"
	msgStatusRequired            = "Status is required"
)

// SponsorshipService manages sponsor to student links
type SponsorshipService interface {
	Create(ctx context.Context, sponsorID uuid.UUID, req dto.CreateSponsorshipRequest) (*models.Sponsorship, error)
	ListForSponsor(ctx context.Context, sponsorID uuid.UUID) ([]models.Sponsorship, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]models.Sponsorship, error)
	// GetForUser returns the sponsorship when userID is its sponsor or student
	GetForUser(ctx context.Context, userID uuid.UUID, id string) (*models.Sponsorship, error)
	// UpdateStatus may only be called by the owning sponsor
	UpdateStatus(ctx context.Context, userID uuid.UUID, id string, req dto.UpdateSponsorshipStatusRequest) (*models.Sponsorship, error)
}

type sponsorshipServiceImpl struct {
	sponsorshipRepo repositories.SponsorshipRepository
	userRepo        repositories.UserRepository
}

func NewSponsorshipService(sponsorshipRepo repositories.SponsorshipRepository, userRepo repositories.UserRepository) SponsorshipService {
	return &sponsorshipServiceImpl{
		sponsorshipRepo: sponsorshipRepo,
		userRepo:        userRepo,
	}
}

func (s *sponsorshipServiceImpl) Create(ctx context.Context, sponsorID uuid.UUID, req dto.CreateSponsorshipRequest) (*models.Sponsorship, error) {
	if req.MissingFields() {
		return nil, apperrors.NewBadRequestError(msgSponsorshipFieldsRequired)
	}

	startDate, err := ParseStartDate(req.StartDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError(msgInvalidStartDate)
	}

	studentID, err := uuid.Parse(strings.TrimSpace(req.StudentID))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStudentNotFound, msgStudentNotFound)
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrStudentNotFound, msgStudentNotFound)
		}
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, apperrors.Wrap(apperrors.ErrNotAStudent, msgNotAStudent)
	}

	_, err = s.sponsorshipRepo.FindByPair(ctx, sponsorID, studentID)
	switch {
	case err == nil:
		return nil, apperrors.Wrap(apperrors.ErrAlreadySponsoring, msgAlreadySponsoring)
	case !errors.Is(err, apperrors.ErrSponsorshipNotFound):
		return nil, fmt.Errorf("error checking existing sponsorship: %w", err)
	}

	sponsorship := &models.Sponsorship{
		SponsorID: sponsorID,
		StudentID: studentID,
		StartDate: datatypes.Date(startDate),
		Status:    models.SponsorshipStatusActive,
	}
	if err := s.sponsorshipRepo.Create(ctx, sponsorship); err != nil {
		return nil, fmt.Errorf("error creating sponsorship: %w", err)
	}
	return sponsorship, nil
}

func (s *sponsorshipServiceImpl) ListForSponsor(ctx context.Context, sponsorID uuid.UUID) ([]models.Sponsorship, error) {
	return s.sponsorshipRepo.ListBySponsor(ctx, sponsorID)
}

func (s *sponsorshipServiceImpl) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]models.Sponsorship, error) {
	return s.sponsorshipRepo.ListByStudent(ctx, studentID)
}

func (s *sponsorshipServiceImpl) GetForUser(ctx context.Context, userID uuid.UUID, id string) (*models.Sponsorship, error) {
	sponsorship, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sponsorship.Involves(userID) {
		return nil, apperrors.NewForbiddenError(msgSponsorshipViewForbidden)
	}
	return sponsorship, nil
}

func (s *sponsorshipServiceImpl) UpdateStatus(ctx context.Context, userID uuid.UUID, id string, req dto.UpdateSponsorshipStatusRequest) (*models.Sponsorship, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return nil, apperrors.NewBadRequestError(msgStatusRequired)
	}

	sponsorship, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sponsorship.SponsorID != userID {
		return nil, apperrors.NewForbiddenError(msgSponsorshipEditForbidden)
	}

	if err := s.sponsorshipRepo.UpdateStatus(ctx, sponsorship.ID, status); err != nil {
		return nil, notFound(err, apperrors.ErrSponsorshipNotFound, msgSponsorshipNotFound)
	}
	sponsorship.Status = status
	return sponsorship, nil
}

func (s *sponsorshipServiceImpl) get(ctx context.Context, id string) (*models.Sponsorship, error) {
	sponsorshipID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSponsorshipNotFound, msgSponsorshipNotFound)
	}
	sponsorship, err := s.sponsorshipRepo.GetByID(ctx, sponsorshipID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrSponsorshipNotFound, msgSponsorshipNotFound)
	}
	return sponsorship, nil
}

// ParseStartDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp
func ParseStartDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
