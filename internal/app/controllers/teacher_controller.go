package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/app/services"
	"github.com/edverse/registrar/internal/middleware"
)

// TeacherController handles teacher profile endpoints
type TeacherController struct {
	teacherService *services.TeacherService
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(teacherService *services.TeacherService) *TeacherController {
	return &TeacherController{teacherService: teacherService}
}

// List returns teacher profiles, optionally filtered by name, degree or rank
func (c *TeacherController) List(ctx *gin.Context) {
	filter := dto.TeacherFilter{
		Name:   queryString(ctx, "name"),
		Degree: queryString(ctx, "degree"),
		Rank:   queryString(ctx, "academicRank"),
	}

	teachers, err := c.teacherService.GetAll(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(teachers))
}

// GetByID returns a single teacher profile
func (c *TeacherController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	teacher, err := c.teacherService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(teacher))
}

// Create registers a new teacher together with its user identity
func (c *TeacherController) Create(ctx *gin.Context) {
	var req dto.CreateTeacherRequest
	if !bindJSON(ctx, &req) {
		return
	}

	teacher, err := c.teacherService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(teacher))
}

// Update rewrites a teacher profile
func (c *TeacherController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTeacherRequest
	if !bindJSON(ctx, &req) {
		return
	}

	teacher, err := c.teacherService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(teacher))
}

// Delete removes a teacher profile and its user identity
func (c *TeacherController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.teacherService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Teacher deleted"}))
}
