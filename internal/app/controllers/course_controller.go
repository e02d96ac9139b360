package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/app/services"
	"github.com/edverse/registrar/internal/middleware"
)

// CourseController handles course endpoints
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// List returns the courses visible to the caller. Teachers are always pinned
// to their own courses; requesting another teacher's set is denied.
func (c *CourseController) List(ctx *gin.Context) {
	caller, ok := callerOrAbort(ctx)
	if !ok {
		return
	}

	semester, ok := queryInt64(ctx, "semester")
	if !ok {
		return
	}
	teacherID, ok := queryInt64(ctx, "teacherId")
	if !ok {
		return
	}

	filter := dto.CourseFilter{
		Title:     queryString(ctx, "title"),
		Semester:  semester,
		Programme: queryString(ctx, "programme"),
		TeacherID: teacherID,
	}

	courses, err := c.courseService.List(ctx, caller, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(courses))
}

// GetByID returns a single course
func (c *CourseController) GetByID(ctx *gin.Context) {
	caller, ok := callerOrAbort(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetByID(ctx, caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(course))
}

// Create adds a new course
func (c *CourseController) Create(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(course))
}

// Update rewrites course fields and optionally reconciles the roster
func (c *CourseController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(course))
}

// Delete removes a course and its enrollments
func (c *CourseController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Course deleted"}))
}

// Leave removes the calling teacher from the course's teaching slots
func (c *CourseController) Leave(ctx *gin.Context) {
	caller, ok := callerOrAbort(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.LeaveCourse(ctx, caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Left course"}))
}
