package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/edusponsor/internal/app/models"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/app/repositories"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
	"github.com/yigit/edusponsor/internal/pkg/auth"
)

const (
	msgAllFieldsRequired   = "All fields are required"
	msgEmailExists         = "User with this email already exists"
	msgInvalidRole         = "Invalid role"
	msgCredentialsRequired = "Email and password are required"
	msgInvalidCredentials  = "Invalid email or password"
)

// AuthService handles registration and login
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authServiceImpl struct {
	userRepo   repositories.UserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a user and returns a token for it. The role defaults to Sponsor.
func (s *authServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.MissingFields() {
		return nil, apperrors.NewBadRequestError(msgAllFieldsRequired)
	}

	role := req.Role
	if role == "" {
		role = models.RoleSponsor
	}
	if !role.Valid() {
		return nil, apperrors.NewBadRequestError(msgInvalidRole)
	}

	email := strings.TrimSpace(req.Email)
	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.Wrap(apperrors.ErrEmailAlreadyExists, msgEmailExists)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Age:      req.Age.String(),
		Email:    email,
		Password: hashedPassword,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost the race with a concurrent registration
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.Wrap(err, msgEmailExists)
		}
		return nil, fmt.Errorf("user creation error: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("userId", user.ID.String()).Str("role", string(user.Role)).Msg("User registered")
	return &dto.AuthResponse{Token: token, UserID: user.ID.String()}, nil
}

// Login checks the credentials. Unknown email and wrong password fail identically.
func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.MissingFields() {
		return nil, apperrors.NewBadRequestError(msgCredentialsRequired)
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInvalidCredentials, msgInvalidCredentials)
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidCredentials, msgInvalidCredentials)
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:    token,
		UserID:   user.ID.String(),
		UserData: user.Snapshot(),
	}, nil
}
