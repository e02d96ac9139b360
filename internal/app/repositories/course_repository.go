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

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var courseColumns = []string{
	"c.id", "c.title", "c.credits", "c.semester", "c.programme", "c.education_level",
	"c.first_teacher_id", "c.second_teacher_id", "c.row_version",
	"u1.first_name", "u1.last_name",
	"u2.first_name", "u2.last_name",
}

func (r *CourseRepository) selectCourses() squirrel.SelectBuilder {
	return r.sb.Select(courseColumns...).
		From("courses c").
		LeftJoin("teachers t1 ON t1.id = c.first_teacher_id").
		LeftJoin("users u1 ON u1.id = t1.user_id").
		LeftJoin("teachers t2 ON t2.id = c.second_teacher_id").
		LeftJoin("users u2 ON u2.id = t2.user_id")
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	var firstFirst, firstLast, secondFirst, secondLast *string
	err := row.Scan(
		&course.ID, &course.Title, &course.Credits, &course.Semester,
		&course.Programme, &course.EducationLevel,
		&course.FirstTeacherID, &course.SecondTeacherID, &course.RowVersion,
		&firstFirst, &firstLast, &secondFirst, &secondLast)
	if err != nil {
		return nil, err
	}
	if course.FirstTeacherID != nil && firstFirst != nil {
		course.FirstTeacher = &models.Teacher{
			ID:   *course.FirstTeacherID,
			User: &models.User{FirstName: *firstFirst, LastName: *firstLast},
		}
	}
	if course.SecondTeacherID != nil && secondFirst != nil {
		course.SecondTeacher = &models.Teacher{
			ID:   *course.SecondTeacherID,
			User: &models.User{FirstName: *secondFirst, LastName: *secondLast},
		}
	}
	return course, nil
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("title", "credits", "semester", "programme", "education_level",
			"first_teacher_id", "second_teacher_id", "row_version").
		Values(course.Title, course.Credits, course.Semester, course.Programme,
			course.EducationLevel, course.FirstTeacherID, course.SecondTeacherID, 1).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "courses_first_teacher_id_fkey") ||
			dberrors.IsForeignKeyViolation(err, "courses_second_teacher_id_fkey") {
			return apperrors.ErrTeacherNotFound
		}
		logger.Error().Err(err).Str("title", course.Title).Msg("Error inserting course row")
		return fmt.Errorf("error creating course: %w", err)
	}
	course.RowVersion = 1

	return nil
}

// GetByID retrieves a course with both teaching slot details
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.selectCourses().
		Where(squirrel.Eq{"c.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return course, nil
}

// GetAll lists courses. A TeacherID filter matches either teaching slot.
func (r *CourseRepository) GetAll(ctx context.Context, filter dto.CourseFilter) ([]*models.Course, error) {
	query := r.selectCourses().OrderBy("c.title")

	if filter.Title != nil && *filter.Title != "" {
		query = query.Where(squirrel.ILike{"c.title": "%" + *filter.Title + "%"})
	}
	if filter.Semester != nil {
		query = query.Where(squirrel.Eq{"c.semester": *filter.Semester})
	}
	if filter.Programme != nil && *filter.Programme != "" {
		query = query.Where(squirrel.ILike{"c.programme": "%" + *filter.Programme + "%"})
	}
	if filter.TeacherID != nil {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"c.first_teacher_id": *filter.TeacherID},
			squirrel.Eq{"c.second_teacher_id": *filter.TeacherID},
		})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying courses")
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// Update rewrites course fields, guarded by the row version the caller last saw
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		Set("title", course.Title).
		Set("credits", course.Credits).
		Set("semester", course.Semester).
		Set("programme", course.Programme).
		Set("education_level", course.EducationLevel).
		Set("first_teacher_id", course.FirstTeacherID).
		Set("second_teacher_id", course.SecondTeacherID).
		Set("row_version", course.RowVersion+1).
		Where(squirrel.Eq{"id": course.ID, "row_version": course.RowVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "courses_first_teacher_id_fkey") ||
			dberrors.IsForeignKeyViolation(err, "courses_second_teacher_id_fkey") {
			return apperrors.ErrTeacherNotFound
		}
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		exists, err := r.exists(ctx, course.ID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrCourseNotFound
		}
		return apperrors.ErrConcurrencyConflict
	}

	course.RowVersion++
	return nil
}

func (r *CourseRepository) exists(ctx context.Context, courseID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("courses").
		Where(squirrel.Eq{"id": courseID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build course exists query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking course existence: %w", err)
	}

	return true, nil
}

// Delete removes a course and its enrollments in one atomic operation
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sql, args, err := r.sb.Delete("enrollments").
		Where(squirrel.Eq{"course_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete enrollments query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error deleting course enrollments")
		return fmt.Errorf("error deleting course enrollments: %w", err)
	}

	sql, args, err = r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DetachTeacher clears the teacher from the course's teaching slots. When the
// teacher occupies both slots only the first is cleared.
func (r *CourseRepository) DetachTeacher(ctx context.Context, courseID, teacherID int64) error {
	course, err := r.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	var slot string
	switch {
	case course.FirstTeacherID != nil && *course.FirstTeacherID == teacherID:
		slot = "first_teacher_id"
	case course.SecondTeacherID != nil && *course.SecondTeacherID == teacherID:
		slot = "second_teacher_id"
	default:
		return apperrors.ErrTeacherNotOnCourse
	}

	// Versioned write, a course edit committed after the read above must not
	// have its slot assignment silently overwritten
	sql, args, err := r.sb.Update("courses").
		Set(slot, nil).
		Set("row_version", course.RowVersion+1).
		Where(squirrel.Eq{"id": courseID, "row_version": course.RowVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build detach teacher query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("teacherID", teacherID).
			Msg("Error executing detach teacher query")
		return fmt.Errorf("error detaching teacher: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		exists, err := r.exists(ctx, courseID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrCourseNotFound
		}
		return apperrors.ErrConcurrencyConflict
	}

	return nil
}
