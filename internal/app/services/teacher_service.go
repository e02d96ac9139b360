package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edverse/registrar/internal/app/models"
	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/pkg/apperrors"
	"github.com/edverse/registrar/internal/pkg/auth"
)

// TeacherService handles teacher profile operations
type TeacherService struct {
	teacherRepo teacherStore
	userRepo    userStore
	logger      zerolog.Logger
}

// NewTeacherService creates a new TeacherService
func NewTeacherService(teacherRepo teacherStore, userRepo userStore, logger zerolog.Logger) *TeacherService {
	return &TeacherService{
		teacherRepo: teacherRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create registers a user identity together with its teacher profile
func (s *TeacherService) Create(ctx context.Context, req *dto.CreateTeacherRequest) (*models.Teacher, error) {
	exists, err := s.userRepo.EmailExists(ctx, req.User.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.User.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.User.Email,
		PasswordHash: hash,
		FirstName:    req.User.FirstName,
		LastName:     req.User.LastName,
	}
	teacher := &models.Teacher{
		Degree:       req.Degree,
		AcademicRank: req.AcademicRank,
		OfficeNumber: req.OfficeNumber,
		HireDate:     req.HireDate,
	}

	if err := s.teacherRepo.Create(ctx, user, teacher); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("teacherID", teacher.ID).Msg("Teacher created")
	return teacher, nil
}

// GetByID retrieves a single teacher profile
func (s *TeacherService) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	return s.teacherRepo.GetByID(ctx, id)
}

// GetAll lists teacher profiles for administrative views
func (s *TeacherService) GetAll(ctx context.Context, filter dto.TeacherFilter) ([]*models.Teacher, error) {
	return s.teacherRepo.GetAll(ctx, filter)
}

// Update rewrites a teacher profile using the row version the caller last saw
func (s *TeacherService) Update(ctx context.Context, id int64, req *dto.UpdateTeacherRequest) (*models.Teacher, error) {
	current, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	teacher := &models.Teacher{
		ID:           id,
		UserID:       current.UserID,
		Degree:       req.Degree,
		AcademicRank: req.AcademicRank,
		OfficeNumber: req.OfficeNumber,
		HireDate:     req.HireDate,
		RowVersion:   req.RowVersion,
		User: &models.User{
			ID:        current.UserID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		},
	}

	if err := s.teacherRepo.Update(ctx, teacher); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("teacherID", id).Msg("Teacher updated")
	return teacher, nil
}

// Delete removes a teacher profile and the owning user. Teachers still
// assigned to a course must be unassigned first.
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	assigned, err := s.teacherRepo.HasCourses(ctx, id)
	if err != nil {
		return err
	}
	if assigned {
		return apperrors.ErrTeacherAssigned
	}

	if err := s.teacherRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("teacherID", id).Msg("Teacher deleted")
	return nil
}
