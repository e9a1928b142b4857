package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
)

func studentRequest(name, schoolID string) dto.CreateStudentRequest {
	return dto.CreateStudentRequest{
		Name: name, Age: "12", Gender: "Female", Address: "12 Lake Rd",
		Phone: "+254700000000", Email: "amani@example.org", ParentName: "Grace", SchoolID: schoolID,
	}
}

func TestStudentService_Create(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	school := env.addSchool()

	req := studentRequest("Amani", school.ID.String())
	req.Phone = ""
	_, err := env.services.Students.Create(ctx, req)
	assert.Equal(t, "All fields are required", err.Error())

	_, err = env.services.Students.Create(ctx, studentRequest("Amani", uuid.NewString()))
	assert.ErrorIs(t, err, apperrors.ErrSchoolNotFound)

	student, err := env.services.Students.Create(ctx, studentRequest("Amani", school.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, school.ID, student.SchoolID)
	assert.Nil(t, student.UserID)
}

func TestStudentService_CreateMultipleIsAllOrNothing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	school := env.addSchool()

	_, err := env.services.Students.CreateMultiple(ctx, nil)
	assert.Equal(t, "Invalid input: Expected an array of students", err.Error())

	incomplete := studentRequest("Baraka", school.ID.String())
	incomplete.Gender = ""
	_, err = env.services.Students.CreateMultiple(ctx, []dto.CreateStudentRequest{studentRequest("Amani", school.ID.String()), incomplete})
	assert.Equal(t, "All fields are required for each student", err.Error())

	_, err = env.services.Students.CreateMultiple(ctx, []dto.CreateStudentRequest{
		studentRequest("Amani", school.ID.String()),
		studentRequest("Baraka", uuid.NewString()),
	})
	assert.ErrorIs(t, err, apperrors.ErrSchoolNotFound)
	assert.Equal(t, "School not found for student: Baraka", err.Error())
	assert.Empty(t, env.store.students)

	created, err := env.services.Students.CreateMultiple(ctx, []dto.CreateStudentRequest{
		studentRequest("Amani", school.ID.String()),
		studentRequest("Baraka", school.ID.String()),
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Len(t, env.store.students, 2)
}

func TestStudentService_UpdateAndDelete(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	school := env.addSchool()
	other := env.addSchool()

	student, err := env.services.Students.Create(ctx, studentRequest("Amani", school.ID.String()))
	require.NoError(t, err)

	missing := uuid.NewString()
	_, err = env.services.Students.Update(ctx, student.ID.String(), dto.UpdateStudentRequest{SchoolID: &missing})
	assert.Equal(t, "School not found", err.Error())

	otherID := other.ID.String()
	age := dto.FlexString("13")
	updated, err := env.services.Students.Update(ctx, student.ID.String(), dto.UpdateStudentRequest{SchoolID: &otherID, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.SchoolID)
	assert.Equal(t, "13", updated.Age)

	require.NoError(t, env.services.Students.Delete(ctx, student.ID.String()))
	err = env.services.Students.Delete(ctx, student.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.Equal(t, "Student not found", err.Error())
}
