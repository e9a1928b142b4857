package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/edusponsor/internal/app/models"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/app/repositories"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
)

const (
	msgStudentNotFound          = "Student not found"
	msgInvalidStudentArray      = "Invalid input: Expected an array of students"
	msgAllFieldsForEachStudent  = "All fields are required for each student"
	msgSchoolNotFoundForStudent = "School not found for student: %s"
)

// StudentService defines the interface for student profile operations
type StudentService interface {
	GetAll(ctx context.Context) ([]models.StudentProfile, error)
	GetByID(ctx context.Context, id string) (*models.StudentProfile, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (*models.StudentProfile, error)
	// CreateMultiple validates every item before inserting any of them
	CreateMultiple(ctx context.Context, reqs []dto.CreateStudentRequest) ([]*models.StudentProfile, error)
	Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (*models.StudentProfile, error)
	Delete(ctx context.Context, id string) error
}

type studentServiceImpl struct {
	studentRepo repositories.StudentRepository
	schoolRepo  repositories.SchoolRepository
	tx          repositories.Transactor
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo repositories.StudentRepository, schoolRepo repositories.SchoolRepository, tx repositories.Transactor) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		schoolRepo:  schoolRepo,
		tx:          tx,
	}
}

func (s *studentServiceImpl) GetAll(ctx context.Context) ([]models.StudentProfile, error) {
	return s.studentRepo.GetAll(ctx)
}

func (s *studentServiceImpl) GetByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	studentID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStudentNotFound, msgStudentNotFound)
	}
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrStudentNotFound, msgStudentNotFound)
	}
	return student, nil
}

func (s *studentServiceImpl) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.StudentProfile, error) {
	if req.MissingFields() {
		return nil, apperrors.NewBadRequestError(msgAllFieldsRequired)
	}

	student, ok, err := s.buildStudent(ctx, req)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrSchoolNotFound, msgSchoolNotFound)
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	return student, nil
}

func (s *studentServiceImpl) CreateMultiple(ctx context.Context, reqs []dto.CreateStudentRequest) ([]*models.StudentProfile, error) {
	if len(reqs) == 0 {
		return nil, apperrors.NewBadRequestError(msgInvalidStudentArray)
	}

	for _, req := range reqs {
		if req.MissingFields() {
			return nil, apperrors.NewBadRequestError(msgAllFieldsForEachStudent)
		}
	}

	students := make([]*models.StudentProfile, 0, len(reqs))
	for _, req := range reqs {
		student, ok, err := s.buildStudent(ctx, req)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.Wrap(apperrors.ErrSchoolNotFound, fmt.Sprintf(msgSchoolNotFoundForStudent, req.Name))
		}
		students = append(students, student)
	}

	err := s.tx.WithinTransaction(ctx, func(repos *repositories.Repositories) error {
		return repos.Students.CreateBatch(ctx, students)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating students: %w", err)
	}
	return students, nil
}

// Update applies the provided fields. A new schoolId must point at an existing school.
func (s *studentServiceImpl) Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (*models.StudentProfile, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := req.Changes()
	if req.SchoolID != nil && strings.TrimSpace(*req.SchoolID) != "" {
		schoolID, ok, err := s.schoolExists(ctx, *req.SchoolID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.Wrap(apperrors.ErrSchoolNotFound, msgSchoolNotFound)
		}
		changes["school_id"] = schoolID
	}

	if len(changes) == 0 {
		return student, nil
	}
	if err := s.studentRepo.Update(ctx, student.ID, changes); err != nil {
		return nil, notFound(err, apperrors.ErrStudentNotFound, msgStudentNotFound)
	}
	return s.studentRepo.GetByID(ctx, student.ID)
}

func (s *studentServiceImpl) Delete(ctx context.Context, id string) error {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.studentRepo.Delete(ctx, student.ID); err != nil {
		return notFound(err, apperrors.ErrStudentNotFound, msgStudentNotFound)
	}
	return nil
}

// buildStudent maps req onto a profile; ok is false when the school does not exist
func (s *studentServiceImpl) buildStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.StudentProfile, bool, error) {
	schoolID, ok, err := s.schoolExists(ctx, req.SchoolID)
	if err != nil || !ok {
		return nil, ok, err
	}

	student := &models.StudentProfile{
		SchoolID:   schoolID,
		Name:       strings.TrimSpace(req.Name),
		Age:        req.Age.String(),
		Gender:     strings.TrimSpace(req.Gender),
		Address:    strings.TrimSpace(req.Address),
		Phone:      strings.TrimSpace(req.Phone),
		Email:      strings.TrimSpace(req.Email),
		ParentName: strings.TrimSpace(req.ParentName),
	}
	if userID, err := uuid.Parse(req.UserID); err == nil {
		student.UserID = &userID
	}
	return student, true, nil
}

func (s *studentServiceImpl) schoolExists(ctx context.Context, id string) (uuid.UUID, bool, error) {
	schoolID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, false, nil
	}
	ok, err := s.schoolRepo.Exists(ctx, schoolID)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("error checking school: %w", err)
	}
	return schoolID, ok, nil
}
