package auth

import (
	"github.com/edverse/registrar/internal/app/models"
	"github.com/edverse/registrar/internal/pkg/apperrors"
)

// Caller identifies the authenticated principal of a request. It is passed
// explicitly into every scoped operation; nothing in this package reads
// ambient request state.
type Caller struct {
	UserID int64
	Roles  []models.RoleType
}

// HasRole reports whether the caller holds the given role.
func (c Caller) HasRole(role models.RoleType) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdministrative reports whether the caller holds an unrestricted role.
func (c Caller) IsAdministrative() bool {
	return c.HasRole(models.RoleSuperAdmin) || c.HasRole(models.RoleAdmin)
}

// CourseScope is the predicate a course listing must be intersected with.
// A nil TeacherID means no ownership restriction.
type CourseScope struct {
	TeacherID *int64
}

// EnrollmentScope is the predicate an enrollment listing must be intersected
// with. Nil fields mean no restriction on that axis.
type EnrollmentScope struct {
	StudentID *int64
	CourseID  *int64
}

// ScopeCourses decides which courses the caller may list. callerTeacherID is
// the caller's own teacher profile id, nil when the caller has none.
// requestedTeacherID is the teacherId filter the caller asked for, nil when
// absent.
//
// Administrative roles take precedence over Teacher, which takes precedence
// over Student. A forbidden request yields ErrAccessDenied, never a silently
// empty scope.
func ScopeCourses(caller Caller, callerTeacherID, requestedTeacherID *int64) (CourseScope, error) {
	switch {
	case caller.IsAdministrative():
		return adminCourseScope(requestedTeacherID), nil
	case caller.HasRole(models.RoleTeacher):
		return teacherCourseScope(callerTeacherID, requestedTeacherID)
	default:
		// Course listing is an admin/teacher surface.
		return CourseScope{}, apperrors.ErrAccessDenied
	}
}

// adminCourseScope passes any requested filter through unrestricted.
func adminCourseScope(requestedTeacherID *int64) CourseScope {
	return CourseScope{TeacherID: requestedTeacherID}
}

// teacherCourseScope pins the listing to the caller's own teacher id. An
// explicit filter for a different teacher is refused outright: the records
// exist, so the outcome is access-denied rather than not-found.
func teacherCourseScope(callerTeacherID, requestedTeacherID *int64) (CourseScope, error) {
	if callerTeacherID == nil {
		return CourseScope{}, apperrors.ErrAccessDenied
	}
	if requestedTeacherID != nil && *requestedTeacherID != *callerTeacherID {
		return CourseScope{}, apperrors.ErrAccessDenied
	}
	return CourseScope{TeacherID: callerTeacherID}, nil
}

// ScopeEnrollments decides which enrollments the caller may list.
// callerStudentID is the caller's own student profile id, nil when the
// caller has none. requestedStudentID and requestedCourseID are the filters
// the caller asked for, nil when absent.
func ScopeEnrollments(caller Caller, callerStudentID, requestedStudentID, requestedCourseID *int64) (EnrollmentScope, error) {
	switch {
	case caller.IsAdministrative(), caller.HasRole(models.RoleTeacher):
		return EnrollmentScope{StudentID: requestedStudentID, CourseID: requestedCourseID}, nil
	case caller.HasRole(models.RoleStudent):
		return studentEnrollmentScope(callerStudentID, requestedStudentID, requestedCourseID)
	default:
		return EnrollmentScope{}, apperrors.ErrAccessDenied
	}
}

// studentEnrollmentScope pins the listing to the caller's own student id.
// Filtering by another student, or by course at all, is refused.
func studentEnrollmentScope(callerStudentID, requestedStudentID, requestedCourseID *int64) (EnrollmentScope, error) {
	if callerStudentID == nil {
		return EnrollmentScope{}, apperrors.ErrAccessDenied
	}
	if requestedStudentID != nil && *requestedStudentID != *callerStudentID {
		return EnrollmentScope{}, apperrors.ErrAccessDenied
	}
	if requestedCourseID != nil {
		return EnrollmentScope{}, apperrors.ErrAccessDenied
	}
	return EnrollmentScope{StudentID: callerStudentID}, nil
}
