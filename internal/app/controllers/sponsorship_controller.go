package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/app/services"
	"github.com/yigit/edusponsor/internal/middleware"
)

const msgSponsorshipsRetrieved = "Sponsorships retrieved successfully"

// SponsorshipController handles sponsor to student links. Every route
// requires authentication.
type SponsorshipController struct {
	sponsorshipService services.SponsorshipService
}

// NewSponsorshipController creates a new SponsorshipController
func NewSponsorshipController(sponsorshipService services.SponsorshipService) *SponsorshipController {
	return &SponsorshipController{sponsorshipService: sponsorshipService}
}

// CreateSponsorship starts sponsoring a student
// @Summary Create sponsorship
// @Tags sponsorships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSponsorshipRequest true "Sponsorship"
// @Success 201 {object} dto.StructuredResponse{data=models.Sponsorship} "Sponsorship created successfully"
// @Failure 400 {object} dto.StructuredResponse "Missing fields, not a student or already sponsoring"
// @Failure 404 {object} dto.StructuredResponse "Student not found"
// @Router /sponsorships [post]
func (c *SponsorshipController) CreateSponsorship(ctx *gin.Context) {
	sponsorID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateSponsorshipRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	sponsorship, err := c.sponsorshipService.Create(ctx.Request.Context(), sponsorID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, sponsorship, "Sponsorship created successfully")
}

// GetSponsorSponsorships lists the caller's sponsorships as sponsor
// @Summary List my sponsorships (sponsor)
// @Tags sponsorships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]models.Sponsorship} "Sponsorships retrieved successfully"
// @Router /sponsorships/sponsor [get]
func (c *SponsorshipController) GetSponsorSponsorships(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	sponsorships, err := c.sponsorshipService.ListForSponsor(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, sponsorships, msgSponsorshipsRetrieved)
}

// GetStudentSponsorships lists the caller's sponsorships as student
// @Summary List my sponsorships (student)
// @Tags sponsorships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]models.Sponsorship} "Sponsorships retrieved successfully"
// @Router /sponsorships/student [get]
func (c *SponsorshipController) GetStudentSponsorships(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	sponsorships, err := c.sponsorshipService.ListForStudent(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, sponsorships, msgSponsorshipsRetrieved)
}

// GetSponsorshipByID returns one sponsorship to its sponsor or student
// @Summary Get sponsorship
// @Tags sponsorships
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sponsorship ID" Format(uuid)
// @Success 200 {object} dto.StructuredResponse{data=models.Sponsorship} "Sponsorship retrieved successfully"
// @Failure 403 {object} dto.StructuredResponse "Not a party to the sponsorship"
// @Failure 404 {object} dto.StructuredResponse "Sponsorship not found"
// @Router /sponsorships/{id} [get]
func (c *SponsorshipController) GetSponsorshipByID(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	sponsorship, err := c.sponsorshipService.GetForUser(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, sponsorship, "Sponsorship retrieved successfully")
}

// UpdateSponsorshipStatus changes the status of a sponsorship
// @Summary Update sponsorship status
// @Tags sponsorships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sponsorship ID" Format(uuid)
// @Param request body dto.UpdateSponsorshipStatusRequest true "New status"
// @Success 200 {object} dto.StructuredResponse{data=models.Sponsorship} "Sponsorship updated successfully"
// @Failure 400 {object} dto.StructuredResponse "Status is required"
// @Failure 403 {object} dto.StructuredResponse "Only the sponsor may update"
// @Failure 404 {object} dto.StructuredResponse "Sponsorship not found"
// @Router /sponsorships/{id}/status [patch]
func (c *SponsorshipController) UpdateSponsorshipStatus(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdateSponsorshipStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	sponsorship, err := c.sponsorshipService.UpdateStatus(ctx.Request.Context(), userID, ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, sponsorship, "Sponsorship updated successfully")
}
