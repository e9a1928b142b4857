package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/app/services"
	"github.com/yigit/edusponsor/internal/middleware"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
)

const msgExpectedStudentArray = "Invalid input: Expected an array of students"

// StudentController handles student profile endpoints
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// GetAllStudents lists student profiles
// @Summary List students
// @Tags students
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=[]models.StudentProfile} "Students retrieved successfully"
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, students, "Students retrieved successfully")
}

// GetStudentByID retrieves a student profile
// @Summary Get student
// @Tags students
// @Produce json
// @Param id path string true "Student ID" Format(uuid)
// @Success 200 {object} dto.StructuredResponse{data=models.StudentProfile} "Student retrieved successfully"
// @Failure 404 {object} dto.StructuredResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	student, err := c.studentService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, student, "Student retrieved successfully")
}

// CreateStudent creates a student profile
// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student"
// @Success 201 {object} dto.StructuredResponse{data=models.StudentProfile} "Student created successfully"
// @Failure 400 {object} dto.StructuredResponse "All fields are required"
// @Failure 404 {object} dto.StructuredResponse "School not found"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, student, "Student created successfully")
}

// CreateMultipleStudents creates a batch of students in one transaction
// @Summary Create students in bulk
// @Description Validates every item first, then inserts all of them or none
// @Tags students
// @Accept json
// @Produce json
// @Param request body []dto.CreateStudentRequest true "Students"
// @Success 201 {object} dto.StructuredResponse{data=[]models.StudentProfile} "Students created successfully"
// @Failure 400 {object} dto.StructuredResponse "Invalid input or missing fields"
// @Failure 404 {object} dto.StructuredResponse "School not found for student"
// @Router /students/multiple [post]
func (c *StudentController) CreateMultipleStudents(ctx *gin.Context) {
	var reqs []dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&reqs); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError(msgExpectedStudentArray))
		return
	}

	students, err := c.studentService.CreateMultiple(ctx.Request.Context(), reqs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, students, "Students created successfully")
}

// UpdateStudent applies a partial update
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID" Format(uuid)
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.StructuredResponse{data=models.StudentProfile} "Student updated successfully"
// @Failure 404 {object} dto.StructuredResponse "Student or school not found"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, student, "Student updated successfully")
}

// DeleteStudent removes a student profile
// @Summary Delete student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID" Format(uuid)
// @Success 200 {object} dto.StructuredResponse "Student deleted successfully"
// @Failure 404 {object} dto.StructuredResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	if err := c.studentService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Student deleted successfully")
}
