package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appauth "github.com/edverse/registrar/internal/app/auth"
	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/app/services"
	"github.com/edverse/registrar/internal/middleware"
)

// Controllers holds all the controller instances
type Controllers struct {
	AuthController       *AuthController
	StudentController    *StudentController
	TeacherController    *TeacherController
	CourseController     *CourseController
	EnrollmentController *EnrollmentController
}

// NewControllers initializes all controllers
func NewControllers(svcs *services.Services) *Controllers {
	return &Controllers{
		AuthController:       NewAuthController(svcs.AuthService),
		StudentController:    NewStudentController(svcs.StudentService),
		TeacherController:    NewTeacherController(svcs.TeacherService),
		CourseController:     NewCourseController(svcs.CourseService),
		EnrollmentController: NewEnrollmentController(svcs.EnrollmentService),
	}
}

// bindJSON binds the request body into obj, writing a field-tagged validation
// error response on failure so the caller knows which input to correct
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// parseIDParam parses a path parameter as an id, writing the error response
// itself on failure
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid id").
			WithDetails("The " + name + " parameter must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// callerOrAbort retrieves the authenticated caller, aborting with 401 when
// the context carries none
func callerOrAbort(ctx *gin.Context) (appauth.Caller, bool) {
	caller, ok := middleware.CallerFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return appauth.Caller{}, false
	}
	return caller, true
}

// queryString returns a query parameter as a string pointer, nil when absent
func queryString(ctx *gin.Context, key string) *string {
	if value := ctx.Query(key); value != "" {
		return &value
	}
	return nil
}

// queryInt64 returns a query parameter as an int64 pointer, nil when absent.
// A malformed value reports ok=false after writing the error response.
func queryInt64(ctx *gin.Context, key string) (*int64, bool) {
	value := ctx.Query(key)
	if value == "" {
		return nil, true
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid query parameter").
			WithDetails("The " + key + " parameter must be a number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return &parsed, true
}
