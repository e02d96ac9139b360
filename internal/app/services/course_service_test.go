package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appauth "github.com/edverse/registrar/internal/app/auth"
	"github.com/edverse/registrar/internal/app/models"
	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/pkg/apperrors"
)

func newCourseServiceForTest() (*CourseService, *fakeCourseStore, *fakeTeacherStore, *fakeEnrollmentStore) {
	courses := newFakeCourseStore()
	teachers := newFakeTeacherStore()
	enrollments := newFakeEnrollmentStore()
	svc := NewCourseService(courses, teachers, enrollments, zerolog.Nop())
	return svc, courses, teachers, enrollments
}

func seedTeacher(t *testing.T, teachers *fakeTeacherStore, email string) *models.Teacher {
	t.Helper()
	user := &models.User{Email: email, FirstName: "A", LastName: "B"}
	teacher := &models.Teacher{}
	require.NoError(t, teachers.Create(context.Background(), user, teacher))
	return teacher
}

func TestCourseList_TeacherSeesOnlyOwnCourses(t *testing.T) {
	svc, courses, teachers, _ := newCourseServiceForTest()
	ctx := context.Background()

	own := seedTeacher(t, teachers, "own@uni.edu")
	other := seedTeacher(t, teachers, "other@uni.edu")

	_, err := svc.Create(ctx, &dto.CreateCourseRequest{Title: "Algebra", FirstTeacherID: &own.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &dto.CreateCourseRequest{Title: "Physics", FirstTeacherID: &other.ID})
	require.NoError(t, err)
	require.Len(t, courses.courses, 2)

	caller := appauth.Caller{UserID: own.UserID, Roles: []models.RoleType{models.RoleTeacher}}

	got, err := svc.List(ctx, caller, dto.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Algebra", got[0].Title)
}

func TestCourseList_TeacherRequestingOtherTeacherIsDenied(t *testing.T) {
	svc, _, teachers, _ := newCourseServiceForTest()
	ctx := context.Background()

	own := seedTeacher(t, teachers, "own@uni.edu")
	other := seedTeacher(t, teachers, "other@uni.edu")

	caller := appauth.Caller{UserID: own.UserID, Roles: []models.RoleType{models.RoleTeacher}}

	_, err := svc.List(ctx, caller, dto.CourseFilter{TeacherID: &other.ID})
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

func TestCourseList_AdminMayFilterByAnyTeacher(t *testing.T) {
	svc, _, teachers, _ := newCourseServiceForTest()
	ctx := context.Background()

	teacher := seedTeacher(t, teachers, "t@uni.edu")
	_, err := svc.Create(ctx, &dto.CreateCourseRequest{Title: "Algebra", FirstTeacherID: &teacher.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &dto.CreateCourseRequest{Title: "Physics"})
	require.NoError(t, err)

	caller := appauth.Caller{UserID: 99, Roles: []models.RoleType{models.RoleAdmin}}

	got, err := svc.List(ctx, caller, dto.CourseFilter{TeacherID: &teacher.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Algebra", got[0].Title)

	all, err := svc.List(ctx, caller, dto.CourseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCourseGetByID_TeacherDeniedOnForeignCourse(t *testing.T) {
	svc, _, teachers, _ := newCourseServiceForTest()
	ctx := context.Background()

	own := seedTeacher(t, teachers, "own@uni.edu")
	other := seedTeacher(t, teachers, "other@uni.edu")

	course, err := svc.Create(ctx, &dto.CreateCourseRequest{Title: "Physics", FirstTeacherID: &other.ID})
	require.NoError(t, err)

	caller := appauth.Caller{UserID: own.UserID, Roles: []models.RoleType{models.RoleTeacher}}
	_, err = svc.GetByID(ctx, caller, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	ownerCaller := appauth.Caller{UserID: other.UserID, Roles: []models.RoleType{models.RoleTeacher}}
	got, err := svc.GetByID(ctx, ownerCaller, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, got.ID)
}

func TestCourseCreate_SameTeacherInBothSlotsRejected(t *testing.T) {
	svc, _, teachers, _ := newCourseServiceForTest()
	ctx := context.Background()

	teacher := seedTeacher(t, teachers, "t@uni.edu")

	_, err := svc.Create(ctx, &dto.CreateCourseRequest{
		Title:           "Algebra",
		FirstTeacherID:  &teacher.ID,
		SecondTeacherID: &teacher.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "secondTeacherId", apperrors.FieldOf(err))
}

func TestCourseUpdate_RosterReconciliationPreservesRetainedRows(t *testing.T) {
	svc, _, _, enrollments := newCourseServiceForTest()
	ctx := context.Background()

	course, err := svc.Create(ctx, &dto.CreateCourseRequest{Title: "Algebra"})
	require.NoError(t, err)

	grade := int64(9)
	require.NoError(t, enrollments.Create(ctx, &models.Enrollment{
		CourseID: course.ID, StudentID: 1, Grade: &grade,
	}))
	require.NoError(t, enrollments.Create(ctx, &models.Enrollment{
		CourseID: course.ID, StudentID: 2,
	}))

	// Keep student 1, drop student 2, add student 3
	_, err = svc.Update(ctx, course.ID, &dto.UpdateCourseRequest{
		Title:      "Algebra",
		Students:   []int64{1, 3},
		RowVersion: course.RowVersion,
	})
	require.NoError(t, err)

	rows, err := enrollments.GetAll(ctx, dto.EnrollmentFilter{CourseID: &course.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byStudent := make(map[int64]*models.Enrollment)
	for _, e := range rows {
		byStudent[e.StudentID] = e
	}
	require.Contains(t, byStudent, int64(1))
	require.Contains(t, byStudent, int64(3))
	assert.NotContains(t, byStudent, int64(2))

	// The retained row keeps its grade
	require.NotNil(t, byStudent[1].Grade)
	assert.Equal(t, int64(9), *byStudent[1].Grade)
	assert.Nil(t, byStudent[3].Grade)
}

func TestCourseUpdate_EmptyRosterTargetLeavesEnrollmentsAlone(t *testing.T) {
	svc, _, _, enrollments := newCourseServiceForTest()
	ctx := context.Background()

	course, err := svc.Create(ctx, &dto.CreateCourseRequest{Title: "Algebra"})
	require.NoError(t, err)

	require.NoError(t, enrollments.Create(ctx, &models.Enrollment{CourseID: course.ID, StudentID: 1}))
	require.NoError(t, enrollments.Create(ctx, &models.Enrollment{CourseID: course.ID, StudentID: 2}))

	_, err = svc.Update(ctx, course.ID, &dto.UpdateCourseRequest{
		Title:      "Algebra II",
		Students:   []int64{},
		RowVersion: course.RowVersion,
	})
	require.NoError(t, err)

	rows, err := enrollments.GetAll(ctx, dto.EnrollmentFilter{CourseID: &course.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCourseUpdate_StaleRowVersionConflicts(t *testing.T) {
	svc, _, _, _ := newCourseServiceForTest()
	ctx := context.Background()

	course, err := svc.Create(ctx, &dto.CreateCourseRequest{Title: "Algebra"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, course.ID, &dto.UpdateCourseRequest{
		Title:      "Algebra II",
		RowVersion: course.RowVersion,
	})
	require.NoError(t, err)

	// Second writer still holds the original version
	_, err = svc.Update(ctx, course.ID, &dto.UpdateCourseRequest{
		Title:      "Algebra III",
		RowVersion: course.RowVersion,
	})
	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
}

func TestCourseUpdate_VanishedCourseIsNotFound(t *testing.T) {
	svc, _, _, _ := newCourseServiceForTest()
	ctx := context.Background()

	_, err := svc.Update(ctx, 42, &dto.UpdateCourseRequest{Title: "Ghost", RowVersion: 1})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestLeaveCourse_ClearsOnlyCallersSlot(t *testing.T) {
	svc, courses, teachers, _ := newCourseServiceForTest()
	ctx := context.Background()

	first := seedTeacher(t, teachers, "first@uni.edu")
	second := seedTeacher(t, teachers, "second@uni.edu")

	course, err := svc.Create(ctx, &dto.CreateCourseRequest{
		Title:           "Algebra",
		FirstTeacherID:  &first.ID,
		SecondTeacherID: &second.ID,
	})
	require.NoError(t, err)

	caller := appauth.Caller{UserID: second.UserID, Roles: []models.RoleType{models.RoleTeacher}}
	require.NoError(t, svc.LeaveCourse(ctx, caller, course.ID))

	got, err := courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FirstTeacherID)
	assert.Equal(t, first.ID, *got.FirstTeacherID)
	assert.Nil(t, got.SecondTeacherID)
}

func TestLeaveCourse_ConcurrentEditConflicts(t *testing.T) {
	svc, courses, teachers, _ := newCourseServiceForTest()
	ctx := context.Background()

	teacher := seedTeacher(t, teachers, "t@uni.edu")
	course, err := svc.Create(ctx, &dto.CreateCourseRequest{
		Title:          "Algebra",
		FirstTeacherID: &teacher.ID,
	})
	require.NoError(t, err)

	// A course edit lands between the slot read and the detach write
	courses.detachErr = apperrors.ErrConcurrencyConflict

	caller := appauth.Caller{UserID: teacher.UserID, Roles: []models.RoleType{models.RoleTeacher}}
	err = svc.LeaveCourse(ctx, caller, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
}

func TestLeaveCourse_NotOnCourse(t *testing.T) {
	svc, _, teachers, _ := newCourseServiceForTest()
	ctx := context.Background()

	outsider := seedTeacher(t, teachers, "outsider@uni.edu")

	course, err := svc.Create(ctx, &dto.CreateCourseRequest{Title: "Algebra"})
	require.NoError(t, err)

	caller := appauth.Caller{UserID: outsider.UserID, Roles: []models.RoleType{models.RoleTeacher}}
	err = svc.LeaveCourse(ctx, caller, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrTeacherNotOnCourse)
}
