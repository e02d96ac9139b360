package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/edverse/registrar/internal/app/controllers"
	"github.com/edverse/registrar/internal/app/models"
	"github.com/edverse/registrar/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrls *controllers.Controllers,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Legacy public feed, consumed by external dashboards
	router.GET("/api/enrollments", ctrls.EnrollmentController.Feed)

	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", ctrls.AuthController.Login)
		auth.POST("/refresh", ctrls.AuthController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", ctrls.AuthController.Logout)
		authenticated.GET("/auth/profile", ctrls.AuthController.GetProfile)

		adminOnly := authMiddleware.RolesRequired(models.RoleSuperAdmin, models.RoleAdmin)
		adminOrTeacher := authMiddleware.RolesRequired(
			models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher)

		// Student profiles, administrative only
		students := authenticated.Group("/students")
		students.Use(adminOnly)
		{
			students.GET("", ctrls.StudentController.List)
			students.GET("/:id", ctrls.StudentController.GetByID)
			students.POST("", ctrls.StudentController.Create)
			students.PUT("/:id", ctrls.StudentController.Update)
			students.DELETE("/:id", ctrls.StudentController.Delete)
		}

		// Teacher profiles, administrative only
		teachers := authenticated.Group("/teachers")
		teachers.Use(adminOnly)
		{
			teachers.GET("", ctrls.TeacherController.List)
			teachers.GET("/:id", ctrls.TeacherController.GetByID)
			teachers.POST("", ctrls.TeacherController.Create)
			teachers.PUT("/:id", ctrls.TeacherController.Update)
			teachers.DELETE("/:id", ctrls.TeacherController.Delete)
		}

		// Courses, listings visible to administrators and teachers with the
		// service layer narrowing teachers down to their own set
		courses := authenticated.Group("/courses")
		{
			coursesRead := courses.Group("")
			coursesRead.Use(adminOrTeacher)
			{
				coursesRead.GET("", ctrls.CourseController.List)
				coursesRead.GET("/:id", ctrls.CourseController.GetByID)
			}

			coursesTeacher := courses.Group("")
			coursesTeacher.Use(authMiddleware.RolesRequired(models.RoleTeacher))
			{
				coursesTeacher.POST("/:id/leave", ctrls.CourseController.Leave)
			}

			coursesAdmin := courses.Group("")
			coursesAdmin.Use(adminOnly)
			{
				coursesAdmin.POST("", ctrls.CourseController.Create)
				coursesAdmin.PUT("/:id", ctrls.CourseController.Update)
				coursesAdmin.DELETE("/:id", ctrls.CourseController.Delete)
			}
		}

		// Enrollments, every authenticated role may list with the service
		// layer pinning students to their own rows
		enrollments := authenticated.Group("/enrollments")
		{
			enrollments.GET("", ctrls.EnrollmentController.List)
			enrollments.GET("/:id", ctrls.EnrollmentController.GetByID)

			enrollmentsWrite := enrollments.Group("")
			enrollmentsWrite.Use(adminOrTeacher)
			{
				enrollmentsWrite.POST("", ctrls.EnrollmentController.Create)
				enrollmentsWrite.PUT("/:id", ctrls.EnrollmentController.Update)
				enrollmentsWrite.DELETE("/:id", ctrls.EnrollmentController.Delete)
			}
		}
	}
}
