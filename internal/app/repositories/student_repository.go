package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edverse/registrar/internal/app/models"
	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/pkg/apperrors"
	"github.com/edverse/registrar/internal/pkg/dberrors"
	"github.com/edverse/registrar/internal/pkg/logger"
)

// StudentRepository handles student profile database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var studentColumns = []string{
	"s.id", "s.user_id", "s.student_number", "s.enrollment_date",
	"s.acquired_credits", "s.current_semester", "s.education_level", "s.row_version",
	"u.email", "u.first_name", "u.last_name", "u.profile_picture",
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	student := &models.Student{User: &models.User{}}
	err := row.Scan(
		&student.ID, &student.UserID, &student.StudentNumber, &student.EnrollmentDate,
		&student.AcquiredCredits, &student.CurrentSemester, &student.EducationLevel, &student.RowVersion,
		&student.User.Email, &student.User.FirstName, &student.User.LastName, &student.User.ProfilePicture)
	if err != nil {
		return nil, err
	}
	student.User.ID = student.UserID
	return student, nil
}

// Create inserts the user identity, its student role and the student profile
// as a single atomic operation
func (r *StudentRepository) Create(ctx context.Context, user *models.User, student *models.Student) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sql, args, err := r.sb.Insert("users").
		Columns("email", "password_hash", "first_name", "last_name", "created_at", "updated_at").
		Values(user.Email, user.PasswordHash, user.FirstName, user.LastName, time.Now(), time.Now()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = tx.QueryRow(ctx, sql, args...).Scan(&user.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error inserting user row")
		return fmt.Errorf("error creating user: %w", err)
	}

	sql, args, err = r.sb.Insert("user_roles").
		Columns("user_id", "role_id").
		Values(user.ID, squirrel.Expr("(SELECT id FROM roles WHERE name = ?)", string(models.RoleStudent))).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build assign role query: %w", err)
	}

	if _, err = tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error assigning student role: %w", err)
	}

	student.UserID = user.ID
	sql, args, err = r.sb.Insert("students").
		Columns("user_id", "student_number", "enrollment_date", "acquired_credits",
			"current_semester", "education_level", "row_version").
		Values(student.UserID, student.StudentNumber, student.EnrollmentDate,
			student.AcquiredCredits, student.CurrentSemester, student.EducationLevel, 1).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = tx.QueryRow(ctx, sql, args...).Scan(&student.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_number_key") {
			return apperrors.ErrStudentNumberAlreadyTaken
		}
		logger.Error().Err(err).Str("studentNumber", student.StudentNumber).Msg("Error inserting student row")
		return fmt.Errorf("error creating student: %w", err)
	}
	student.RowVersion = 1

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	user.Roles = append(user.Roles, models.RoleStudent)
	student.User = user
	return nil
}

// GetByID retrieves a student profile with its user identity
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students s").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"s.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetByUserID retrieves the student profile owned by a user, if any
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students s").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"s.user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student by user query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetAll lists student profiles, optionally filtered by name or student number
func (r *StudentRepository) GetAll(ctx context.Context, filter dto.StudentFilter) ([]*models.Student, error) {
	query := r.sb.Select(studentColumns...).
		From("students s").
		Join("users u ON u.id = s.user_id").
		OrderBy("u.last_name", "u.first_name")

	if filter.Name != nil && *filter.Name != "" {
		pattern := "%" + *filter.Name + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"u.first_name": pattern},
			squirrel.ILike{"u.last_name": pattern},
		})
	}
	if filter.StudentNumber != nil && *filter.StudentNumber != "" {
		query = query.Where(squirrel.ILike{"s.student_number": "%" + *filter.StudentNumber + "%"})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying students")
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// Update rewrites the student profile and its user's names, guarded by the
// row version the caller last saw
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sql, args, err := r.sb.Update("students").
		Set("student_number", student.StudentNumber).
		Set("enrollment_date", student.EnrollmentDate).
		Set("acquired_credits", student.AcquiredCredits).
		Set("current_semester", student.CurrentSemester).
		Set("education_level", student.EducationLevel).
		Set("row_version", student.RowVersion+1).
		Where(squirrel.Eq{"id": student.ID, "row_version": student.RowVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_number_key") {
			return apperrors.ErrStudentNumberAlreadyTaken
		}
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Distinguish a vanished row from a stale row version
		if err := r.resolveVersionMiss(ctx, tx, student.ID); err != nil {
			return err
		}
		return apperrors.ErrConcurrencyConflict
	}

	sql, args, err = r.sb.Update("users").
		Set("first_name", student.User.FirstName).
		Set("last_name", student.User.LastName).
		Set("profile_picture", student.User.ProfilePicture).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": student.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	if _, err = tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	student.RowVersion++
	return nil
}

func (r *StudentRepository) resolveVersionMiss(ctx context.Context, tx pgx.Tx, studentID int64) error {
	sql, args, err := r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{"id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build student exists query: %w", err)
	}

	var one int
	err = tx.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error checking student existence: %w", err)
	}

	return nil
}

// Delete removes the student profile, its enrollments, the role assignments
// and the owning user identity in one atomic operation
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sql, args, err := r.sb.Select("user_id").
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build get student user query: %w", err)
	}

	var userID int64
	err = tx.QueryRow(ctx, sql, args...).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error resolving student user: %w", err)
	}

	steps := []squirrel.DeleteBuilder{
		r.sb.Delete("enrollments").Where(squirrel.Eq{"student_id": id}),
		r.sb.Delete("students").Where(squirrel.Eq{"id": id}),
		r.sb.Delete("refresh_tokens").Where(squirrel.Eq{"user_id": userID}),
		r.sb.Delete("user_roles").Where(squirrel.Eq{"user_id": userID}),
		r.sb.Delete("users").Where(squirrel.Eq{"id": userID}),
	}
	for _, step := range steps {
		sql, args, err := step.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete student query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student step")
			return fmt.Errorf("error deleting student: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// StudentNumberExists checks whether a student number is already taken
func (r *StudentRepository) StudentNumberExists(ctx context.Context, number string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{"student_number": number}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build student number exists query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking student number existence: %w", err)
	}

	return true, nil
}
