package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/app/services"
	"github.com/yigit/edusponsor/internal/middleware"
)

// AuthController handles registration and login
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates an account and returns a JWT. Role defaults to Sponsor.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.StructuredResponse{data=dto.AuthResponse} "User registered successfully"
// @Failure 400 {object} dto.StructuredResponse "Missing fields, invalid role or duplicate email"
// @Failure 500 {object} dto.StructuredResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, resp, "User registered successfully")
}

// Login handles user login
// @Summary Log in
// @Description Exchanges email and password for a JWT and the user's profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.StructuredResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.StructuredResponse "Email and password are required"
// @Failure 401 {object} dto.StructuredResponse "Invalid email or password"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, resp, "Login successful")
}
