//go:build integration

package services_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/yigit/edusponsor/internal/app/migrations"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/app/repositories"
	"github.com/yigit/edusponsor/internal/app/services"
	"github.com/yigit/edusponsor/internal/config"
	"github.com/yigit/edusponsor/internal/db"
	"github.com/yigit/edusponsor/internal/pkg/auth"
	"github.com/yigit/edusponsor/internal/pkg/metrics"
	"github.com/yigit/edusponsor/internal/pkg/payments"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx      context.Context
	pgc      *postgres.PostgresContainer
	database *db.PostgresDB
	repos    *repositories.Repositories
	svc      *services.Services
}

func TestPostgresIntegration(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	pgc, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("edusponsor"),
		postgres.WithUsername("edusponsor"),
		postgres.WithPassword("edusponsor"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err, "could not start postgres container")
	s.pgc = pgc

	connStr, err := pgc.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	cfg := &config.Config{}
	cfg.Database.URL = connStr
	cfg.Database.MaxOpenConns = 5
	cfg.Database.MaxIdleConns = 1
	cfg.Database.ConnMaxLifetime = "1h"
	cfg.Database.SlowQuery = "1s"

	s.database, err = db.NewPostgresDB(cfg)
	s.Require().NoError(err)

	migrator := migrations.NewMigrator(s.database.Pool)
	s.Require().NoError(migrator.MigrateFromDirectory(s.ctx, filepath.Join("..", "..", "..", "migrations")))
	// a second run must be a no-op
	s.Require().NoError(migrator.MigrateFromDirectory(s.ctx, filepath.Join("..", "..", "..", "migrations")))

	s.repos = repositories.NewRepositories(s.database.Gorm)
	s.svc = services.NewServices(services.Dependencies{
		Repos:   s.repos,
		JWT:     auth.NewJWTService(auth.JWTConfig{SecretKey: "integration", TokenExp: time.Hour}),
		Gateway: payments.NewFakeGateway(),
		Metrics: metrics.New(),
		URLs:    services.RedirectURLs{Frontend: "http://front.test", Backend: "http://api.test"},
		Logger:  zerolog.Nop(),
	})
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.database != nil {
		s.database.Close()
	}
	if s.pgc != nil {
		s.NoError(testcontainers.TerminateContainer(s.pgc))
	}
}

func (s *PostgresIntegrationSuite) TestRegisterAndLogin() {
	reg, err := s.svc.Auth.Register(s.ctx, dto.RegisterRequest{
		Name: "Jane", Age: "34", Email: "jane@example.org", Password: "s3cret",
	})
	s.Require().NoError(err)
	s.NotEmpty(reg.Token)

	_, err = s.svc.Auth.Register(s.ctx, dto.RegisterRequest{
		Name: "Jane", Age: "34", Email: "jane@example.org", Password: "other",
	})
	s.EqualError(err, "User with this email already exists")

	login, err := s.svc.Auth.Login(s.ctx, dto.LoginRequest{Email: "jane@example.org", Password: "s3cret"})
	s.Require().NoError(err)
	s.Equal(reg.UserID, login.UserID)
	s.Equal("Sponsor", string(login.UserData.Role))
}

func (s *PostgresIntegrationSuite) TestReconcileIsIdempotentOnReference() {
	in := services.PaymentReconciliation{
		SponsorID: uuid.NewString(),
		StudentID: uuid.NewString(),
		Amount:    42.5,
		Reference: "pi_integration_1",
		Source:    metrics.SourcePaymentIntent,
	}

	first, err := s.svc.Payments.ReconcilePayment(s.ctx, in)
	s.Require().NoError(err)
	s.Require().NotNil(first)
	s.True(first.Created)

	second, err := s.svc.Payments.ReconcilePayment(s.ctx, in)
	s.Require().NoError(err)
	s.False(second.Created)
	s.Equal(first.Donation.ID, second.Donation.ID)

	sponsorID := uuid.MustParse(in.SponsorID)
	stats, err := s.svc.Donations.Stats(s.ctx, sponsorID)
	s.Require().NoError(err)
	s.Equal(42.5, stats.TotalAmount)
	s.EqualValues(1, stats.DonationCount)
	s.EqualValues(1, stats.StudentCount)
}

func (s *PostgresIntegrationSuite) TestWebhookReplayIsAcknowledgedAsDuplicate() {
	sponsorID, studentID := uuid.NewString(), uuid.NewString()
	payload := []byte(fmt.Sprintf(`{
		"id": "evt_integration_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_integration_2", "object": "payment_intent", "amount": 2500, "status": "succeeded",
			"metadata": {"sponsorId": %q, "studentId": %q}}}
	}`, sponsorID, studentID))

	ack, err := s.svc.Payments.HandleWebhook(s.ctx, payload, "")
	s.Require().NoError(err)
	s.True(ack.Received)
	s.False(ack.Duplicate)

	ack, err = s.svc.Payments.HandleWebhook(s.ctx, payload, "")
	s.Require().NoError(err)
	s.True(ack.Duplicate)

	donations, err := s.svc.Donations.ListForSponsor(s.ctx, uuid.MustParse(sponsorID))
	s.Require().NoError(err)
	s.Require().Len(donations, 1)
	s.Equal(25.0, donations[0].Amount)
}

func (s *PostgresIntegrationSuite) TestCreateMultipleStudentsIsAllOrNothing() {
	school, err := s.svc.Schools.Create(s.ctx, dto.CreateSchoolRequest{Name: "Lakeside", Description: "Primary", District: "Kisumu"})
	s.Require().NoError(err)

	valid := dto.CreateStudentRequest{
		Name: "Amani", Age: "12", Gender: "Female", Address: "1 Lake Rd", Phone: "+254700000000",
		Email: "amani@example.org", ParentName: "Grace", SchoolID: school.ID.String(),
	}
	orphan := valid
	orphan.Name = "Orphan"
	orphan.SchoolID = uuid.NewString()

	_, err = s.svc.Students.CreateMultiple(s.ctx, []dto.CreateStudentRequest{valid, orphan})
	s.EqualError(err, "School not found for student: Orphan")

	students, err := s.svc.Schools.GetStudents(s.ctx, school.ID.String())
	s.Require().NoError(err)
	s.Empty(students)

	created, err := s.svc.Students.CreateMultiple(s.ctx, []dto.CreateStudentRequest{valid, valid})
	s.Require().NoError(err)
	s.Len(created, 2)
}
