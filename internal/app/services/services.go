package services

import (
	"context"
	"time"

	"github.com/edverse/registrar/internal/app/models"
	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/app/repositories"
	"github.com/edverse/registrar/internal/pkg/auth"
	"github.com/edverse/registrar/internal/pkg/logger"
)

// Store interfaces keep the services decoupled from the concrete pgx
// repositories, which also makes them straightforward to fake in tests.

type userStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
}

type tokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetUserIDByToken(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

type studentStore interface {
	Create(ctx context.Context, user *models.User, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
	GetAll(ctx context.Context, filter dto.StudentFilter) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
	StudentNumberExists(ctx context.Context, number string) (bool, error)
}

type teacherStore interface {
	Create(ctx context.Context, user *models.User, teacher *models.Teacher) error
	GetByID(ctx context.Context, id int64) (*models.Teacher, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error)
	GetAll(ctx context.Context, filter dto.TeacherFilter) ([]*models.Teacher, error)
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id int64) error
	HasCourses(ctx context.Context, teacherID int64) (bool, error)
}

type courseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetAll(ctx context.Context, filter dto.CourseFilter) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	DetachTeacher(ctx context.Context, courseID, teacherID int64) error
}

type enrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetAll(ctx context.Context, filter dto.EnrollmentFilter) ([]*models.Enrollment, error)
	Exists(ctx context.Context, studentID, courseID int64) (bool, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id int64) error
	ReconcileRoster(ctx context.Context, courseID int64, target []int64) error
	ListForFeed(ctx context.Context, courseID int64, year *int64) ([]dto.EnrollmentFeedItem, error)
}

// Services holds all the service instances
type Services struct {
	AuthService       *AuthService
	StudentService    *StudentService
	TeacherService    *TeacherService
	CourseService     *CourseService
	EnrollmentService *EnrollmentService
}

// NewServices initializes all services
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService) *Services {
	baseLogger := logger.WithField("layer", "service")

	return &Services{
		AuthService: NewAuthService(
			repos.UserRepository, repos.TokenRepository,
			repos.StudentRepository, repos.TeacherRepository,
			jwtService, baseLogger),
		StudentService: NewStudentService(
			repos.StudentRepository, repos.UserRepository, baseLogger),
		TeacherService: NewTeacherService(
			repos.TeacherRepository, repos.UserRepository, baseLogger),
		CourseService: NewCourseService(
			repos.CourseRepository, repos.TeacherRepository,
			repos.EnrollmentRepository, baseLogger),
		EnrollmentService: NewEnrollmentService(
			repos.EnrollmentRepository, repos.StudentRepository, baseLogger),
	}
}
