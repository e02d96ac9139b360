package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	appauth "github.com/edverse/registrar/internal/app/auth"
	"github.com/edverse/registrar/internal/app/models"
	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/pkg/apperrors"
)

// CourseService handles course operations
type CourseService struct {
	courseRepo     courseStore
	teacherRepo    teacherStore
	enrollmentRepo enrollmentStore
	logger         zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo courseStore, teacherRepo teacherStore, enrollmentRepo enrollmentStore, logger zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo:     courseRepo,
		teacherRepo:    teacherRepo,
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

// callerTeacherID resolves the caller's own teacher profile id, nil when the
// caller owns no teacher profile
func (s *CourseService) callerTeacherID(ctx context.Context, caller appauth.Caller) (*int64, error) {
	teacher, err := s.teacherRepo.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTeacherNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &teacher.ID, nil
}

// List returns the courses the caller may see. Administrators see every
// course and may filter by any teacher; teachers only ever see their own.
func (s *CourseService) List(ctx context.Context, caller appauth.Caller, filter dto.CourseFilter) ([]*models.Course, error) {
	ownTeacherID, err := s.callerTeacherID(ctx, caller)
	if err != nil {
		return nil, err
	}

	scope, err := appauth.ScopeCourses(caller, ownTeacherID, filter.TeacherID)
	if err != nil {
		return nil, err
	}
	filter.TeacherID = scope.TeacherID

	return s.courseRepo.GetAll(ctx, filter)
}

// GetByID retrieves a course, restricted for teachers to their own courses
func (s *CourseService) GetByID(ctx context.Context, caller appauth.Caller, id int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if caller.IsAdministrative() {
		return course, nil
	}

	ownTeacherID, err := s.callerTeacherID(ctx, caller)
	if err != nil {
		return nil, err
	}
	if ownTeacherID == nil || !course.HasTeacher(*ownTeacherID) {
		return nil, apperrors.ErrAccessDenied
	}

	return course, nil
}

// Create adds a new course
func (s *CourseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	if err := validateTeacherSlots(req.FirstTeacherID, req.SecondTeacherID); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:           req.Title,
		Credits:         req.Credits,
		Semester:        req.Semester,
		Programme:       req.Programme,
		EducationLevel:  req.EducationLevel,
		FirstTeacherID:  req.FirstTeacherID,
		SecondTeacherID: req.SecondTeacherID,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", course.ID).Str("title", course.Title).Msg("Course created")
	return course, nil
}

// Update rewrites course fields and, when a non-empty roster target is
// supplied, reconciles the enrolled student set against it
func (s *CourseService) Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	if err := validateTeacherSlots(req.FirstTeacherID, req.SecondTeacherID); err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:              id,
		Title:           req.Title,
		Credits:         req.Credits,
		Semester:        req.Semester,
		Programme:       req.Programme,
		EducationLevel:  req.EducationLevel,
		FirstTeacherID:  req.FirstTeacherID,
		SecondTeacherID: req.SecondTeacherID,
		RowVersion:      req.RowVersion,
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	// An absent or empty target leaves the roster untouched
	if len(req.Students) > 0 {
		if err := s.enrollmentRepo.ReconcileRoster(ctx, id, req.Students); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Int64("courseID", id).Msg("Course updated")
	return course, nil
}

// Delete removes a course together with its enrollments
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

// LeaveCourse removes the calling teacher from a course's teaching slots
func (s *CourseService) LeaveCourse(ctx context.Context, caller appauth.Caller, courseID int64) error {
	ownTeacherID, err := s.callerTeacherID(ctx, caller)
	if err != nil {
		return err
	}
	if ownTeacherID == nil {
		return apperrors.ErrAccessDenied
	}

	if err := s.courseRepo.DetachTeacher(ctx, courseID, *ownTeacherID); err != nil {
		return err
	}

	s.logger.Info().Int64("courseID", courseID).Int64("teacherID", *ownTeacherID).
		Msg("Teacher left course")
	return nil
}

func validateTeacherSlots(first, second *int64) error {
	if first != nil && second != nil && *first == *second {
		return apperrors.NewValidationError("secondTeacherId", "both teaching slots reference the same teacher")
	}
	return nil
}
