package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/app/services"
	"github.com/yigit/edusponsor/internal/middleware"
)

// SchoolController handles school endpoints
type SchoolController struct {
	schoolService services.SchoolService
}

// NewSchoolController creates a new SchoolController
func NewSchoolController(schoolService services.SchoolService) *SchoolController {
	return &SchoolController{schoolService: schoolService}
}

// GetAllSchools lists schools
// @Summary List schools
// @Description Returns every school, newest first
// @Tags schools
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=[]models.School} "Schools retrieved successfully"
// @Failure 500 {object} dto.StructuredResponse "Internal server error"
// @Router /schools [get]
func (c *SchoolController) GetAllSchools(ctx *gin.Context) {
	schools, err := c.schoolService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, schools, "Schools retrieved successfully")
}

// GetSchoolByID retrieves a school
// @Summary Get school
// @Tags schools
// @Produce json
// @Param id path string true "School ID" Format(uuid)
// @Success 200 {object} dto.StructuredResponse{data=models.School} "School retrieved successfully"
// @Failure 404 {object} dto.StructuredResponse "School not found"
// @Router /schools/{id} [get]
func (c *SchoolController) GetSchoolByID(ctx *gin.Context) {
	school, err := c.schoolService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, school, "School retrieved successfully")
}

// CreateSchool creates a school
// @Summary Create school
// @Tags schools
// @Accept json
// @Produce json
// @Param request body dto.CreateSchoolRequest true "School"
// @Success 201 {object} dto.StructuredResponse{data=models.School} "School created successfully"
// @Failure 400 {object} dto.StructuredResponse "Name, description, and district are required"
// @Router /schools [post]
func (c *SchoolController) CreateSchool(ctx *gin.Context) {
	var req dto.CreateSchoolRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	school, err := c.schoolService.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, school, "School created successfully")
}

// UpdateSchool updates the provided fields of a school
// @Summary Update school
// @Tags schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "School ID" Format(uuid)
// @Param request body dto.UpdateSchoolRequest true "Fields to change"
// @Success 200 {object} dto.StructuredResponse{data=models.School} "School updated successfully"
// @Failure 401 {object} dto.StructuredResponse "Authentication required"
// @Failure 404 {object} dto.StructuredResponse "School not found"
// @Router /schools/{id} [put]
func (c *SchoolController) UpdateSchool(ctx *gin.Context) {
	var req dto.UpdateSchoolRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	school, err := c.schoolService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, school, "School updated successfully")
}

// DeleteSchool removes a school without students
// @Summary Delete school
// @Tags schools
// @Produce json
// @Security BearerAuth
// @Param id path string true "School ID" Format(uuid)
// @Success 200 {object} dto.StructuredResponse "School deleted successfully"
// @Failure 400 {object} dto.StructuredResponse "School still has students"
// @Failure 404 {object} dto.StructuredResponse "School not found"
// @Router /schools/{id} [delete]
func (c *SchoolController) DeleteSchool(ctx *gin.Context) {
	if err := c.schoolService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "School deleted successfully")
}

// GetSchoolStudents lists the students of a school
// @Summary List students of a school
// @Tags schools
// @Produce json
// @Param id path string true "School ID" Format(uuid)
// @Success 200 {object} dto.StructuredResponse{data=[]models.StudentProfile} "Students retrieved successfully"
// @Failure 404 {object} dto.StructuredResponse "School not found"
// @Router /schools/{id}/students [get]
func (c *SchoolController) GetSchoolStudents(ctx *gin.Context) {
	students, err := c.schoolService.GetStudents(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, students, "Students retrieved successfully")
}
