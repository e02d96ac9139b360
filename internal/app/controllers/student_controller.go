package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/app/services"
	"github.com/edverse/registrar/internal/middleware"
)

// StudentController handles student profile endpoints
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// List returns student profiles, optionally filtered by name or student number
func (c *StudentController) List(ctx *gin.Context) {
	filter := dto.StudentFilter{
		Name:          queryString(ctx, "name"),
		StudentNumber: queryString(ctx, "studentNumber"),
	}

	students, err := c.studentService.GetAll(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(students))
}

// GetByID returns a single student profile
func (c *StudentController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// Create registers a new student together with its user identity
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(student))
}

// Update rewrites a student profile
func (c *StudentController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// Delete removes a student profile and its user identity
func (c *StudentController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Student deleted"}))
}
