package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/edusponsor/internal/app/models"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
)

func TestSponsorshipService_Create(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	sponsor := env.addUser(models.RoleSponsor)
	student := env.addUser(models.RoleStudent)
	svc := env.services.Sponsorships

	tests := []struct {
		name    string
		req     dto.CreateSponsorshipRequest
		message string
	}{
		{"missing date", dto.CreateSponsorshipRequest{StudentID: student.ID.String()}, "Student ID and start date are required"},
		{"bad date", dto.CreateSponsorshipRequest{StudentID: student.ID.String(), StartDate: "next week"}, "Invalid start date"},
		{"unknown student", dto.CreateSponsorshipRequest{StudentID: uuid.NewString(), StartDate: "2024-01-01"}, "Student not found"},
		{"not a student", dto.CreateSponsorshipRequest{StudentID: sponsor.ID.String(), StartDate: "2024-01-01"}, "Selected user is not a student"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, sponsor.ID, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}

	created, err := svc.Create(ctx, sponsor.ID, dto.CreateSponsorshipRequest{StudentID: student.ID.String(), StartDate: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, models.SponsorshipStatusActive, created.Status)
	assert.Equal(t, "2024-01-01", time.Time(created.StartDate).Format(time.DateOnly))

	_, err = svc.Create(ctx, sponsor.ID, dto.CreateSponsorshipRequest{StudentID: student.ID.String(), StartDate: "2024-02-01T00:00:00Z"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadySponsoring)
	assert.Equal(t, "You are already sponsoring this student", err.Error())
}

func TestSponsorshipService_AccessRules(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	sponsor := env.addUser(models.RoleSponsor)
	student := env.addUser(models.RoleStudent)
	stranger := env.addUser(models.RoleSponsor)
	svc := env.services.Sponsorships

	s, err := svc.Create(ctx, sponsor.ID, dto.CreateSponsorshipRequest{StudentID: student.ID.String(), StartDate: "2024-01-01"})
	require.NoError(t, err)

	_, err = svc.GetForUser(ctx, student.ID, s.ID.String())
	require.NoError(t, err)

	_, err = svc.GetForUser(ctx, stranger.ID, s.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, "You are not authorized to view this sponsorship", err.Error())

	_, err = svc.GetForUser(ctx, sponsor.ID, uuid.NewString())
	assert.Equal(t, "Sponsorship not found", err.Error())

	_, err = svc.UpdateStatus(ctx, sponsor.ID, s.ID.String(), dto.UpdateSponsorshipStatusRequest{})
	assert.Equal(t, "Status is required", err.Error())

	_, err = svc.UpdateStatus(ctx, student.ID, s.ID.String(), dto.UpdateSponsorshipStatusRequest{Status: "Ended"})
	assert.Equal(t, "You are not authorized to update this sponsorship", err.Error())

	updated, err := svc.UpdateStatus(ctx, sponsor.ID, s.ID.String(), dto.UpdateSponsorshipStatusRequest{Status: "Paused"})
	require.NoError(t, err)
	assert.Equal(t, models.SponsorshipStatusPaused, updated.Status)

	asSponsor, err := svc.ListForSponsor(ctx, sponsor.ID)
	require.NoError(t, err)
	assert.Len(t, asSponsor, 1)

	asStudent, err := svc.ListForStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, asStudent, 1)
}

func TestParseStartDate(t *testing.T) {
	d, err := ParseStartDate("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.March, d.Month())

	_, err = ParseStartDate("2024-03-05T10:00:00+02:00")
	assert.NoError(t, err)

	_, err = ParseStartDate("05/03/2024")
	assert.Error(t, err)
}
