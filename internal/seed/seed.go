package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/edusponsor/internal/app/models"
	appRepos "github.com/yigit/edusponsor/internal/app/repositories"
	"github.com/yigit/edusponsor/internal/pkg/auth"
)

const (
	AdminEmail    = "admin@edusponsor.app"
	adminPassword = "Admin123!"
	adminName     = "System Administrator"
	adminAge      = "40"

	demoSchoolName = "Hillside Primary"
)

// CreateDefaultData creates the admin account and a demo school when they are
// missing. Errors are collected so one failure does not skip the rest.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (admin user, demo school)...")
	var finalErr error

	// --- Default Admin User --- //
	exists, err := repos.Users.EmailExists(ctx, AdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		lgr.Info().Msg("Creating default admin user...")

		hashedPassword, err := auth.HashPassword(adminPassword)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, err)
		} else {
			admin := &appModels.User{
				Name:     adminName,
				Age:      adminAge,
				Email:    AdminEmail,
				Password: hashedPassword,
				Role:     appModels.RoleAdmin,
			}
			if err := repos.Users.Create(ctx, admin); err != nil {
				lgr.Error().Err(err).Msg("Error creating admin user")
				finalErr = errors.Join(finalErr, err)
			} else {
				lgr.Info().Str("adminID", admin.ID.String()).Msg("Default admin user created successfully")
			}
		}
	} else {
		lgr.Info().Msg("Admin user already exists, skipping creation")
	}

	// --- Demo School --- //
	schools, err := repos.Schools.GetAll(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error listing schools")
		finalErr = errors.Join(finalErr, err)
	} else if len(schools) == 0 {
		school := &appModels.School{
			Name:        demoSchoolName,
			Description: "Rural primary school",
			District:    "Kisumu",
		}
		if err := repos.Schools.Create(ctx, school); err != nil {
			lgr.Error().Err(err).Msg("Error creating demo school")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Str("schoolID", school.ID.String()).Msg("Demo school created")
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
