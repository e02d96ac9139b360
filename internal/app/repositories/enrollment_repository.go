package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edverse/registrar/internal/app/models"
	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/pkg/apperrors"
	"github.com/edverse/registrar/internal/pkg/dberrors"
	"github.com/edverse/registrar/internal/pkg/logger"
)

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var enrollmentColumns = []string{
	"e.id", "e.course_id", "e.student_id", "e.semester", "e.year", "e.grade",
	"e.seminal_url", "e.project_url", "e.exam_points", "e.seminal_points",
	"e.project_points", "e.additional_points", "e.finish_date", "e.row_version",
	"c.title", "s.student_number", "u.first_name", "u.last_name",
}

func (r *EnrollmentRepository) selectEnrollments() squirrel.SelectBuilder {
	return r.sb.Select(enrollmentColumns...).
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Join("students s ON s.id = e.student_id").
		Join("users u ON u.id = s.user_id")
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{
		Course:  &models.Course{},
		Student: &models.Student{User: &models.User{}},
	}
	err := row.Scan(
		&enrollment.ID, &enrollment.CourseID, &enrollment.StudentID,
		&enrollment.Semester, &enrollment.Year, &enrollment.Grade,
		&enrollment.SeminalURL, &enrollment.ProjectURL,
		&enrollment.ExamPoints, &enrollment.SeminalPoints,
		&enrollment.ProjectPoints, &enrollment.AdditionalPoints,
		&enrollment.FinishDate, &enrollment.RowVersion,
		&enrollment.Course.Title, &enrollment.Student.StudentNumber,
		&enrollment.Student.User.FirstName, &enrollment.Student.User.LastName)
	if err != nil {
		return nil, err
	}
	enrollment.Course.ID = enrollment.CourseID
	enrollment.Student.ID = enrollment.StudentID
	return enrollment, nil
}

// Create inserts a new enrollment
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	sql, args, err := r.sb.Insert("enrollments").
		Columns("course_id", "student_id", "semester", "year", "grade",
			"seminal_url", "project_url", "exam_points", "seminal_points",
			"project_points", "additional_points", "finish_date", "row_version").
		Values(enrollment.CourseID, enrollment.StudentID, enrollment.Semester,
			enrollment.Year, enrollment.Grade, enrollment.SeminalURL, enrollment.ProjectURL,
			enrollment.ExamPoints, enrollment.SeminalPoints, enrollment.ProjectPoints,
			enrollment.AdditionalPoints, enrollment.FinishDate, 1).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&enrollment.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "enrollments_student_id_course_id_key") {
			return apperrors.ErrDuplicateEnrollment
		}
		if dberrors.IsForeignKeyViolation(err, "enrollments_course_id_fkey") {
			return apperrors.ErrCourseNotFound
		}
		if dberrors.IsForeignKeyViolation(err, "enrollments_student_id_fkey") {
			return apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("courseID", enrollment.CourseID).
			Int64("studentID", enrollment.StudentID).Msg("Error inserting enrollment row")
		return fmt.Errorf("error creating enrollment: %w", err)
	}
	enrollment.RowVersion = 1

	return nil
}

// GetByID retrieves an enrollment with course and student details
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	sql, args, err := r.selectEnrollments().
		Where(squirrel.Eq{"e.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error scanning enrollment row")
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return enrollment, nil
}

// GetAll lists enrollments matching the filter
func (r *EnrollmentRepository) GetAll(ctx context.Context, filter dto.EnrollmentFilter) ([]*models.Enrollment, error) {
	query := r.selectEnrollments().OrderBy("e.id")

	if filter.CourseID != nil {
		query = query.Where(squirrel.Eq{"e.course_id": *filter.CourseID})
	}
	if filter.StudentID != nil {
		query = query.Where(squirrel.Eq{"e.student_id": *filter.StudentID})
	}
	if filter.Year != nil {
		query = query.Where(squirrel.Eq{"e.year": *filter.Year})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying enrollments")
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return enrollments, nil
}

// Exists checks whether a student is already enrolled in a course
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("enrollments").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment exists query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking enrollment existence: %w", err)
	}

	return true, nil
}

// Update rewrites an enrollment's grading data, guarded by the row version
// the caller last saw
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	sql, args, err := r.sb.Update("enrollments").
		Set("course_id", enrollment.CourseID).
		Set("student_id", enrollment.StudentID).
		Set("semester", enrollment.Semester).
		Set("year", enrollment.Year).
		Set("grade", enrollment.Grade).
		Set("seminal_url", enrollment.SeminalURL).
		Set("project_url", enrollment.ProjectURL).
		Set("exam_points", enrollment.ExamPoints).
		Set("seminal_points", enrollment.SeminalPoints).
		Set("project_points", enrollment.ProjectPoints).
		Set("additional_points", enrollment.AdditionalPoints).
		Set("finish_date", enrollment.FinishDate).
		Set("row_version", enrollment.RowVersion+1).
		Where(squirrel.Eq{"id": enrollment.ID, "row_version": enrollment.RowVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update enrollment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "enrollments_student_id_course_id_key") {
			return apperrors.ErrDuplicateEnrollment
		}
		logger.Error().Err(err).Int64("enrollmentID", enrollment.ID).
			Msg("Error executing update enrollment query")
		return fmt.Errorf("error updating enrollment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		exists, err := r.exists(ctx, enrollment.ID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrEnrollmentNotFound
		}
		return apperrors.ErrConcurrencyConflict
	}

	enrollment.RowVersion++
	return nil
}

func (r *EnrollmentRepository) exists(ctx context.Context, id int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("enrollments").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment exists query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking enrollment existence: %w", err)
	}

	return true, nil
}

// Delete removes a single enrollment
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("enrollments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete enrollment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error executing delete enrollment query")
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// ListStudentIDsByCourse returns the ids of students currently enrolled in a
// course
func (r *EnrollmentRepository) ListStudentIDsByCourse(ctx context.Context, courseID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("student_id").
		From("enrollments").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("student_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list course students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing course students: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning student id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student id rows: %w", err)
	}

	return ids, nil
}

// ReconcileRoster brings a course's enrollments in line with the target
// student set in one atomic operation. Students missing from the target are
// unenrolled, new ones get fresh enrollments, and students present in both
// keep their existing rows with grades and points intact.
func (r *EnrollmentRepository) ReconcileRoster(ctx context.Context, courseID int64, target []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sql, args, err := r.sb.Select("student_id").
		From("enrollments").
		Where(squirrel.Eq{"course_id": courseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build current roster query: %w", err)
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error querying current roster: %w", err)
	}

	current := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning roster row: %w", err)
		}
		current[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating roster rows: %w", err)
	}

	wanted := make(map[int64]bool, len(target))
	for _, id := range target {
		wanted[id] = true
	}

	var toRemove []int64
	for id := range current {
		if !wanted[id] {
			toRemove = append(toRemove, id)
		}
	}

	if len(toRemove) > 0 {
		sql, args, err := r.sb.Delete("enrollments").
			Where(squirrel.Eq{"course_id": courseID, "student_id": toRemove}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build roster removal query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("courseID", courseID).Msg("Error removing roster students")
			return fmt.Errorf("error removing roster students: %w", err)
		}
	}

	for _, id := range target {
		if current[id] {
			continue
		}
		sql, args, err := r.sb.Insert("enrollments").
			Columns("course_id", "student_id", "row_version").
			Values(courseID, id, 1).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build roster insert query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsForeignKeyViolation(err, "enrollments_student_id_fkey") {
				return apperrors.ErrStudentNotFound
			}
			logger.Error().Err(err).Int64("courseID", courseID).Int64("studentID", id).
				Msg("Error enrolling roster student")
			return fmt.Errorf("error enrolling roster student: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListForFeed returns the read-only feed rows for a course, ordered by
// enrollment id
func (r *EnrollmentRepository) ListForFeed(ctx context.Context, courseID int64, year *int64) ([]dto.EnrollmentFeedItem, error) {
	query := r.sb.Select("e.id", "u.first_name", "u.last_name",
		"e.semester", "e.year", "e.grade", "e.finish_date").
		From("enrollments e").
		Join("students s ON s.id = e.student_id").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"e.course_id": courseID}).
		OrderBy("e.id")

	if year != nil {
		query = query.Where(squirrel.Eq{"e.year": *year})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build feed query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error querying enrollment feed")
		return nil, fmt.Errorf("error listing enrollment feed: %w", err)
	}
	defer rows.Close()

	items := []dto.EnrollmentFeedItem{}
	for rows.Next() {
		var item dto.EnrollmentFeedItem
		err := rows.Scan(&item.ID, &item.FirstName, &item.LastName,
			&item.Semester, &item.Year, &item.Grade, &item.FinishDate)
		if err != nil {
			return nil, fmt.Errorf("error scanning feed row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return items, nil
}
