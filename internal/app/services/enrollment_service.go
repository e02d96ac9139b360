package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	appauth "github.com/edverse/registrar/internal/app/auth"
	"github.com/edverse/registrar/internal/app/models"
	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/pkg/apperrors"
)

// EnrollmentService handles enrollment operations
type EnrollmentService struct {
	enrollmentRepo enrollmentStore
	studentRepo    studentStore
	logger         zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(enrollmentRepo enrollmentStore, studentRepo studentStore, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		studentRepo:    studentRepo,
		logger:         logger,
	}
}

// callerStudentID resolves the caller's own student profile id, nil when the
// caller owns no student profile
func (s *EnrollmentService) callerStudentID(ctx context.Context, caller appauth.Caller) (*int64, error) {
	student, err := s.studentRepo.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student.ID, nil
}

// List returns the enrollments the caller may see. Administrators and
// teachers see everything; students only ever see their own rows.
func (s *EnrollmentService) List(ctx context.Context, caller appauth.Caller, filter dto.EnrollmentFilter) ([]*models.Enrollment, error) {
	ownStudentID, err := s.callerStudentID(ctx, caller)
	if err != nil {
		return nil, err
	}

	scope, err := appauth.ScopeEnrollments(caller, ownStudentID, filter.StudentID, filter.CourseID)
	if err != nil {
		return nil, err
	}
	filter.StudentID = scope.StudentID
	filter.CourseID = scope.CourseID

	return s.enrollmentRepo.GetAll(ctx, filter)
}

// GetByID retrieves an enrollment, restricted for students to their own rows
func (s *EnrollmentService) GetByID(ctx context.Context, caller appauth.Caller, id int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if caller.IsAdministrative() || caller.HasRole(models.RoleTeacher) {
		return enrollment, nil
	}

	ownStudentID, err := s.callerStudentID(ctx, caller)
	if err != nil {
		return nil, err
	}
	if ownStudentID == nil || *ownStudentID != enrollment.StudentID {
		return nil, apperrors.ErrAccessDenied
	}

	return enrollment, nil
}

// Create enrolls a student into a course. The duplicate check runs before
// any other validation so a repeated pair always reports as a duplicate.
func (s *EnrollmentService) Create(ctx context.Context, req *dto.CreateEnrollmentRequest) (*models.Enrollment, error) {
	exists, err := s.enrollmentRepo.Exists(ctx, req.StudentID, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateEnrollment
	}

	enrollment := &models.Enrollment{
		CourseID:         req.CourseID,
		StudentID:        req.StudentID,
		Semester:         req.Semester,
		Year:             req.Year,
		Grade:            req.Grade,
		SeminalURL:       req.SeminalURL,
		ProjectURL:       req.ProjectURL,
		ExamPoints:       req.ExamPoints,
		SeminalPoints:    req.SeminalPoints,
		ProjectPoints:    req.ProjectPoints,
		AdditionalPoints: req.AdditionalPoints,
		FinishDate:       req.FinishDate,
	}

	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("enrollmentID", enrollment.ID).Int64("courseID", req.CourseID).
		Int64("studentID", req.StudentID).Msg("Enrollment created")
	return enrollment, nil
}

// Update rewrites an enrollment using the row version the caller last saw
func (s *EnrollmentService) Update(ctx context.Context, id int64, req *dto.UpdateEnrollmentRequest) (*models.Enrollment, error) {
	current, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Re-pointing the row at another student/course pair must not collide
	// with an existing enrollment
	if current.StudentID != req.StudentID || current.CourseID != req.CourseID {
		exists, err := s.enrollmentRepo.Exists(ctx, req.StudentID, req.CourseID)
		if err != nil {
			return nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
		if exists {
			return nil, apperrors.ErrDuplicateEnrollment
		}
	}

	enrollment := &models.Enrollment{
		ID:               id,
		CourseID:         req.CourseID,
		StudentID:        req.StudentID,
		Semester:         req.Semester,
		Year:             req.Year,
		Grade:            req.Grade,
		SeminalURL:       req.SeminalURL,
		ProjectURL:       req.ProjectURL,
		ExamPoints:       req.ExamPoints,
		SeminalPoints:    req.SeminalPoints,
		ProjectPoints:    req.ProjectPoints,
		AdditionalPoints: req.AdditionalPoints,
		FinishDate:       req.FinishDate,
		RowVersion:       req.RowVersion,
	}

	if err := s.enrollmentRepo.Update(ctx, enrollment); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("enrollmentID", id).Msg("Enrollment updated")
	return enrollment, nil
}

// Delete removes a single enrollment
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	if err := s.enrollmentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("enrollmentID", id).Msg("Enrollment deleted")
	return nil
}

// Feed returns the public read-only rows for a course. A missing course id
// yields no rows at all, the feed contract serializes that as JSON null.
func (s *EnrollmentService) Feed(ctx context.Context, courseID *int64, year *int64) ([]dto.EnrollmentFeedItem, error) {
	if courseID == nil {
		return nil, nil
	}
	return s.enrollmentRepo.ListForFeed(ctx, *courseID, year)
}
