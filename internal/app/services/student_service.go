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

// StudentService handles student profile operations
type StudentService struct {
	studentRepo studentStore
	userRepo    userStore
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(studentRepo studentStore, userRepo userStore, logger zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create registers a user identity together with its student profile
func (s *StudentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	exists, err := s.userRepo.EmailExists(ctx, req.User.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	taken, err := s.studentRepo.StudentNumberExists(ctx, req.StudentNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check student number: %w", err)
	}
	if taken {
		return nil, apperrors.ErrStudentNumberAlreadyTaken
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
	student := &models.Student{
		StudentNumber:   req.StudentNumber,
		EnrollmentDate:  req.EnrollmentDate,
		AcquiredCredits: req.AcquiredCredits,
		CurrentSemester: req.CurrentSemester,
		EducationLevel:  req.EducationLevel,
	}

	if err := s.studentRepo.Create(ctx, user, student); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", student.ID).Str("studentNumber", student.StudentNumber).
		Msg("Student created")
	return student, nil
}

// GetByID retrieves a single student profile
func (s *StudentService) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetAll lists student profiles for administrative views
func (s *StudentService) GetAll(ctx context.Context, filter dto.StudentFilter) ([]*models.Student, error) {
	return s.studentRepo.GetAll(ctx, filter)
}

// Update rewrites a student profile using the row version the caller last saw
func (s *StudentService) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	current, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StudentNumber != current.StudentNumber {
		taken, err := s.studentRepo.StudentNumberExists(ctx, req.StudentNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to check student number: %w", err)
		}
		if taken {
			return nil, apperrors.ErrStudentNumberAlreadyTaken
		}
	}

	student := &models.Student{
		ID:              id,
		UserID:          current.UserID,
		StudentNumber:   req.StudentNumber,
		EnrollmentDate:  req.EnrollmentDate,
		AcquiredCredits: req.AcquiredCredits,
		CurrentSemester: req.CurrentSemester,
		EducationLevel:  req.EducationLevel,
		RowVersion:      req.RowVersion,
		User: &models.User{
			ID:             current.UserID,
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			ProfilePicture: req.ProfilePicture,
		},
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", id).Msg("Student updated")
	return student, nil
}

// Delete removes a student profile, its enrollments and the owning user
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}
