package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edverse/registrar/internal/app/models"
	"github.com/edverse/registrar/internal/pkg/apperrors"
)

func ptr(v int64) *int64 { return &v }

func TestScopeCourses(t *testing.T) {
	tests := []struct {
		name            string
		roles           []models.RoleType
		callerTeacherID *int64
		requested       *int64
		wantTeacherID   *int64
		wantErr         error
	}{
		{
			name:  "admin unrestricted",
			roles: []models.RoleType{models.RoleAdmin},
		},
		{
			name:          "admin filter passes through",
			roles:         []models.RoleType{models.RoleAdmin},
			requested:     ptr(7),
			wantTeacherID: ptr(7),
		},
		{
			name:          "superadmin unrestricted",
			roles:         []models.RoleType{models.RoleSuperAdmin},
			requested:     ptr(3),
			wantTeacherID: ptr(3),
		},
		{
			name:            "teacher scoped to own courses",
			roles:           []models.RoleType{models.RoleTeacher},
			callerTeacherID: ptr(7),
			wantTeacherID:   ptr(7),
		},
		{
			name:            "teacher requesting own id allowed",
			roles:           []models.RoleType{models.RoleTeacher},
			callerTeacherID: ptr(7),
			requested:       ptr(7),
			wantTeacherID:   ptr(7),
		},
		{
			name:            "teacher requesting another teacher denied",
			roles:           []models.RoleType{models.RoleTeacher},
			callerTeacherID: ptr(7),
			requested:       ptr(9),
			wantErr:         apperrors.ErrAccessDenied,
		},
		{
			name:    "teacher role without teacher profile denied",
			roles:   []models.RoleType{models.RoleTeacher},
			wantErr: apperrors.ErrAccessDenied,
		},
		{
			name:    "student denied entirely",
			roles:   []models.RoleType{models.RoleStudent},
			wantErr: apperrors.ErrAccessDenied,
		},
		{
			name:            "admin who is also teacher stays unrestricted",
			roles:           []models.RoleType{models.RoleAdmin, models.RoleTeacher},
			callerTeacherID: ptr(7),
			requested:       ptr(9),
			wantTeacherID:   ptr(9),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := Caller{UserID: 1, Roles: tt.roles}
			scope, err := ScopeCourses(caller, tt.callerTeacherID, tt.requested)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTeacherID, scope.TeacherID)
		})
	}
}

func TestScopeEnrollments(t *testing.T) {
	tests := []struct {
		name            string
		roles           []models.RoleType
		callerStudentID *int64
		reqStudentID    *int64
		reqCourseID     *int64
		wantStudentID   *int64
		wantCourseID    *int64
		wantErr         error
	}{
		{
			name:  "admin unrestricted",
			roles: []models.RoleType{models.RoleAdmin},
		},
		{
			name:          "admin filters pass through",
			roles:         []models.RoleType{models.RoleAdmin},
			reqStudentID:  ptr(4),
			reqCourseID:   ptr(2),
			wantStudentID: ptr(4),
			wantCourseID:  ptr(2),
		},
		{
			name:         "teacher filters pass through",
			roles:        []models.RoleType{models.RoleTeacher},
			reqCourseID:  ptr(2),
			wantCourseID: ptr(2),
		},
		{
			name:            "student scoped to own rows",
			roles:           []models.RoleType{models.RoleStudent},
			callerStudentID: ptr(4),
			wantStudentID:   ptr(4),
		},
		{
			name:            "student requesting own id allowed",
			roles:           []models.RoleType{models.RoleStudent},
			callerStudentID: ptr(4),
			reqStudentID:    ptr(4),
			wantStudentID:   ptr(4),
		},
		{
			name:            "student requesting another student denied",
			roles:           []models.RoleType{models.RoleStudent},
			callerStudentID: ptr(4),
			reqStudentID:    ptr(5),
			wantErr:         apperrors.ErrAccessDenied,
		},
		{
			name:            "student filtering by course denied, not empty",
			roles:           []models.RoleType{models.RoleStudent},
			callerStudentID: ptr(4),
			reqCourseID:     ptr(2),
			wantErr:         apperrors.ErrAccessDenied,
		},
		{
			name:    "student role without student profile denied",
			roles:   []models.RoleType{models.RoleStudent},
			wantErr: apperrors.ErrAccessDenied,
		},
		{
			name:    "no recognized role denied",
			roles:   nil,
			wantErr: apperrors.ErrAccessDenied,
		},
		{
			name:            "student who is also admin stays unrestricted",
			roles:           []models.RoleType{models.RoleStudent, models.RoleAdmin},
			callerStudentID: ptr(4),
			reqStudentID:    ptr(5),
			reqCourseID:     ptr(2),
			wantStudentID:   ptr(5),
			wantCourseID:    ptr(2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := Caller{UserID: 1, Roles: tt.roles}
			scope, err := ScopeEnrollments(caller, tt.callerStudentID, tt.reqStudentID, tt.reqCourseID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStudentID, scope.StudentID)
			assert.Equal(t, tt.wantCourseID, scope.CourseID)
		})
	}
}
