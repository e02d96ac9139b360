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

// TeacherRepository handles teacher profile database operations
type TeacherRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTeacherRepository creates a new TeacherRepository
func NewTeacherRepository(db *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var teacherColumns = []string{
	"t.id", "t.user_id", "t.degree", "t.academic_rank",
	"t.office_number", "t.hire_date", "t.row_version",
	"u.email", "u.first_name", "u.last_name", "u.profile_picture",
}

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	teacher := &models.Teacher{User: &models.User{}}
	err := row.Scan(
		&teacher.ID, &teacher.UserID, &teacher.Degree, &teacher.AcademicRank,
		&teacher.OfficeNumber, &teacher.HireDate, &teacher.RowVersion,
		&teacher.User.Email, &teacher.User.FirstName, &teacher.User.LastName, &teacher.User.ProfilePicture)
	if err != nil {
		return nil, err
	}
	teacher.User.ID = teacher.UserID
	return teacher, nil
}

// Create inserts the user identity, its teacher role and the teacher profile
// as a single atomic operation
func (r *TeacherRepository) Create(ctx context.Context, user *models.User, teacher *models.Teacher) error {
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
		Values(user.ID, squirrel.Expr("(SELECT id FROM roles WHERE name = ?)", string(models.RoleTeacher))).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build assign role query: %w", err)
	}

	if _, err = tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error assigning teacher role: %w", err)
	}

	teacher.UserID = user.ID
	sql, args, err = r.sb.Insert("teachers").
		Columns("user_id", "degree", "academic_rank", "office_number", "hire_date", "row_version").
		Values(teacher.UserID, teacher.Degree, teacher.AcademicRank,
			teacher.OfficeNumber, teacher.HireDate, 1).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create teacher query: %w", err)
	}

	err = tx.QueryRow(ctx, sql, args...).Scan(&teacher.ID)
	if err != nil {
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Error inserting teacher row")
		return fmt.Errorf("error creating teacher: %w", err)
	}
	teacher.RowVersion = 1

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	user.Roles = append(user.Roles, models.RoleTeacher)
	teacher.User = user
	return nil
}

// GetByID retrieves a teacher profile with its user identity
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	sql, args, err := r.sb.Select(teacherColumns...).
		From("teachers t").
		Join("users u ON u.id = t.user_id").
		Where(squirrel.Eq{"t.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get teacher query: %w", err)
	}

	teacher, err := scanTeacher(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeacherNotFound
		}
		logger.Error().Err(err).Int64("teacherID", id).Msg("Error scanning teacher row")
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}

	return teacher, nil
}

// GetByUserID retrieves the teacher profile owned by a user, if any
func (r *TeacherRepository) GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error) {
	sql, args, err := r.sb.Select(teacherColumns...).
		From("teachers t").
		Join("users u ON u.id = t.user_id").
		Where(squirrel.Eq{"t.user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get teacher by user query: %w", err)
	}

	teacher, err := scanTeacher(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}

	return teacher, nil
}

// GetAll lists teacher profiles, optionally filtered by name, degree or rank
func (r *TeacherRepository) GetAll(ctx context.Context, filter dto.TeacherFilter) ([]*models.Teacher, error) {
	query := r.sb.Select(teacherColumns...).
		From("teachers t").
		Join("users u ON u.id = t.user_id").
		OrderBy("u.last_name", "u.first_name")

	if filter.Name != nil && *filter.Name != "" {
		pattern := "%" + *filter.Name + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"u.first_name": pattern},
			squirrel.ILike{"u.last_name": pattern},
		})
	}
	if filter.Degree != nil && *filter.Degree != "" {
		query = query.Where(squirrel.ILike{"t.degree": "%" + *filter.Degree + "%"})
	}
	if filter.Rank != nil && *filter.Rank != "" {
		query = query.Where(squirrel.ILike{"t.academic_rank": "%" + *filter.Rank + "%"})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list teachers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying teachers")
		return nil, fmt.Errorf("error listing teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*models.Teacher
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning teacher row: %w", err)
		}
		teachers = append(teachers, teacher)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teacher rows: %w", err)
	}

	return teachers, nil
}

// Update rewrites the teacher profile and its user's names, guarded by the
// row version the caller last saw
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sql, args, err := r.sb.Update("teachers").
		Set("degree", teacher.Degree).
		Set("academic_rank", teacher.AcademicRank).
		Set("office_number", teacher.OfficeNumber).
		Set("hire_date", teacher.HireDate).
		Set("row_version", teacher.RowVersion+1).
		Where(squirrel.Eq{"id": teacher.ID, "row_version": teacher.RowVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update teacher query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("teacherID", teacher.ID).Msg("Error executing update teacher query")
		return fmt.Errorf("error updating teacher: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		exists, err := r.existsInTx(ctx, tx, teacher.ID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrTeacherNotFound
		}
		return apperrors.ErrConcurrencyConflict
	}

	sql, args, err = r.sb.Update("users").
		Set("first_name", teacher.User.FirstName).
		Set("last_name", teacher.User.LastName).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": teacher.UserID}).
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

	teacher.RowVersion++
	return nil
}

func (r *TeacherRepository) existsInTx(ctx context.Context, tx pgx.Tx, teacherID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("teachers").
		Where(squirrel.Eq{"id": teacherID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build teacher exists query: %w", err)
	}

	var one int
	err = tx.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking teacher existence: %w", err)
	}

	return true, nil
}

// HasCourses reports whether any course still references the teacher in
// either teaching slot
func (r *TeacherRepository) HasCourses(ctx context.Context, teacherID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("courses").
		Where(squirrel.Or{
			squirrel.Eq{"first_teacher_id": teacherID},
			squirrel.Eq{"second_teacher_id": teacherID},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build teacher courses query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking teacher course assignments: %w", err)
	}

	return true, nil
}

// Delete removes the teacher profile, its role assignments and the owning
// user identity. Teachers still assigned to a course cannot be deleted.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sql, args, err := r.sb.Select("user_id").
		From("teachers").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build get teacher user query: %w", err)
	}

	var userID int64
	err = tx.QueryRow(ctx, sql, args...).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrTeacherNotFound
		}
		return fmt.Errorf("error resolving teacher user: %w", err)
	}

	sql, args, err = r.sb.Select("1").
		From("courses").
		Where(squirrel.Or{
			squirrel.Eq{"first_teacher_id": id},
			squirrel.Eq{"second_teacher_id": id},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build teacher courses query: %w", err)
	}

	var one int
	err = tx.QueryRow(ctx, sql, args...).Scan(&one)
	if err == nil {
		return apperrors.ErrTeacherAssigned
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("error checking teacher course assignments: %w", err)
	}

	steps := []squirrel.DeleteBuilder{
		r.sb.Delete("teachers").Where(squirrel.Eq{"id": id}),
		r.sb.Delete("refresh_tokens").Where(squirrel.Eq{"user_id": userID}),
		r.sb.Delete("user_roles").Where(squirrel.Eq{"user_id": userID}),
		r.sb.Delete("users").Where(squirrel.Eq{"id": userID}),
	}
	for _, step := range steps {
		sql, args, err := step.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete teacher query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsRestrictViolation(err) {
				return apperrors.ErrTeacherAssigned
			}
			logger.Error().Err(err).Int64("teacherID", id).Msg("Error executing delete teacher step")
			return fmt.Errorf("error deleting teacher: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
