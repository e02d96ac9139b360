package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/app/services"
	"github.com/edverse/registrar/internal/middleware"
)

// EnrollmentController handles enrollment endpoints
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// List returns the enrollments visible to the caller. Students are always
// pinned to their own rows; other filters are denied for them.
func (c *EnrollmentController) List(ctx *gin.Context) {
	caller, ok := callerOrAbort(ctx)
	if !ok {
		return
	}

	courseID, ok := queryInt64(ctx, "courseId")
	if !ok {
		return
	}
	studentID, ok := queryInt64(ctx, "studentId")
	if !ok {
		return
	}
	year, ok := queryInt64(ctx, "year")
	if !ok {
		return
	}

	filter := dto.EnrollmentFilter{
		CourseID:  courseID,
		StudentID: studentID,
		Year:      year,
	}

	enrollments, err := c.enrollmentService.List(ctx, caller, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(enrollments))
}

// GetByID returns a single enrollment
func (c *EnrollmentController) GetByID(ctx *gin.Context) {
	caller, ok := callerOrAbort(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.GetByID(ctx, caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(enrollment))
}

// Create enrolls a student into a course
func (c *EnrollmentController) Create(ctx *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(enrollment))
}

// Update rewrites an enrollment's grading data
func (c *EnrollmentController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEnrollmentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(enrollment))
}

// Delete removes a single enrollment
func (c *EnrollmentController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Enrollment deleted"}))
}

// Feed serves the public read-only enrollment feed. The body is the bare
// item array, or JSON null when no course id is supplied; external consumers
// depend on that exact shape.
func (c *EnrollmentController) Feed(ctx *gin.Context) {
	courseID, ok := queryInt64(ctx, "courseId")
	if !ok {
		return
	}
	year, ok := queryInt64(ctx, "year")
	if !ok {
		return
	}

	items, err := c.enrollmentService.Feed(ctx, courseID, year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if items == nil {
		ctx.JSON(http.StatusOK, nil)
		return
	}

	ctx.JSON(http.StatusOK, items)
}
