package services

import (
	"context"
	"time"

	"github.com/edverse/registrar/internal/app/models"
	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/pkg/apperrors"
)

// In-memory fakes for the store interfaces. They keep just enough state to
// drive the service logic under test.

type fakeUserStore struct {
	users map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, _ int64) error { return nil }

type fakeTokenStore struct {
	tokens  map[string]int64
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]int64), revoked: make(map[string]bool)}
}

func (f *fakeTokenStore) CreateToken(_ context.Context, token string, userID int64, _ time.Time) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenStore) GetUserIDByToken(_ context.Context, token string) (int64, error) {
	if f.revoked[token] {
		return 0, apperrors.ErrTokenRevoked
	}
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return 0, apperrors.ErrTokenNotFound
}

func (f *fakeTokenStore) RevokeToken(_ context.Context, token string) error {
	if _, ok := f.tokens[token]; !ok {
		return apperrors.ErrTokenNotFound
	}
	f.revoked[token] = true
	return nil
}

func (f *fakeTokenStore) RevokeAllUserTokens(_ context.Context, userID int64) error {
	for token, id := range f.tokens {
		if id == userID {
			f.revoked[token] = true
		}
	}
	return nil
}

type fakeStudentStore struct {
	students map[int64]*models.Student
	nextID   int64
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: make(map[int64]*models.Student), nextID: 1}
}

func (f *fakeStudentStore) Create(_ context.Context, user *models.User, student *models.Student) error {
	for _, s := range f.students {
		if s.StudentNumber == student.StudentNumber {
			return apperrors.ErrStudentNumberAlreadyTaken
		}
	}
	user.ID = f.nextID
	student.ID = f.nextID
	student.UserID = user.ID
	student.RowVersion = 1
	student.User = user
	f.students[student.ID] = student
	f.nextID++
	return nil
}

func (f *fakeStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	if s, ok := f.students[id]; ok {
		return s, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) GetByUserID(_ context.Context, userID int64) (*models.Student, error) {
	for _, s := range f.students {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) GetAll(_ context.Context, _ dto.StudentFilter) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range f.students {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStudentStore) Update(_ context.Context, student *models.Student) error {
	current, ok := f.students[student.ID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if current.RowVersion != student.RowVersion {
		return apperrors.ErrConcurrencyConflict
	}
	student.RowVersion++
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudentStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.students, id)
	return nil
}

func (f *fakeStudentStore) StudentNumberExists(_ context.Context, number string) (bool, error) {
	for _, s := range f.students {
		if s.StudentNumber == number {
			return true, nil
		}
	}
	return false, nil
}

type fakeTeacherStore struct {
	teachers map[int64]*models.Teacher
	assigned map[int64]bool
	nextID   int64
}

func newFakeTeacherStore() *fakeTeacherStore {
	return &fakeTeacherStore{
		teachers: make(map[int64]*models.Teacher),
		assigned: make(map[int64]bool),
		nextID:   1,
	}
}

func (f *fakeTeacherStore) Create(_ context.Context, user *models.User, teacher *models.Teacher) error {
	user.ID = f.nextID
	teacher.ID = f.nextID
	teacher.UserID = user.ID
	teacher.RowVersion = 1
	teacher.User = user
	f.teachers[teacher.ID] = teacher
	f.nextID++
	return nil
}

func (f *fakeTeacherStore) GetByID(_ context.Context, id int64) (*models.Teacher, error) {
	if t, ok := f.teachers[id]; ok {
		return t, nil
	}
	return nil, apperrors.ErrTeacherNotFound
}

func (f *fakeTeacherStore) GetByUserID(_ context.Context, userID int64) (*models.Teacher, error) {
	for _, t := range f.teachers {
		if t.UserID == userID {
			return t, nil
		}
	}
	return nil, apperrors.ErrTeacherNotFound
}

func (f *fakeTeacherStore) GetAll(_ context.Context, _ dto.TeacherFilter) ([]*models.Teacher, error) {
	var out []*models.Teacher
	for _, t := range f.teachers {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTeacherStore) Update(_ context.Context, teacher *models.Teacher) error {
	current, ok := f.teachers[teacher.ID]
	if !ok {
		return apperrors.ErrTeacherNotFound
	}
	if current.RowVersion != teacher.RowVersion {
		return apperrors.ErrConcurrencyConflict
	}
	teacher.RowVersion++
	f.teachers[teacher.ID] = teacher
	return nil
}

func (f *fakeTeacherStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.teachers[id]; !ok {
		return apperrors.ErrTeacherNotFound
	}
	if f.assigned[id] {
		return apperrors.ErrTeacherAssigned
	}
	delete(f.teachers, id)
	return nil
}

func (f *fakeTeacherStore) HasCourses(_ context.Context, teacherID int64) (bool, error) {
	return f.assigned[teacherID], nil
}

type fakeCourseStore struct {
	courses   map[int64]*models.Course
	detachErr error
	nextID    int64
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[int64]*models.Course), nextID: 1}
}

func (f *fakeCourseStore) Create(_ context.Context, course *models.Course) error {
	course.ID = f.nextID
	course.RowVersion = 1
	f.courses[course.ID] = course
	f.nextID++
	return nil
}

func (f *fakeCourseStore) GetByID(_ context.Context, id int64) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeCourseStore) GetAll(_ context.Context, filter dto.CourseFilter) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range f.courses {
		if filter.TeacherID != nil && !c.HasTeacher(*filter.TeacherID) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourseStore) Update(_ context.Context, course *models.Course) error {
	current, ok := f.courses[course.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	if current.RowVersion != course.RowVersion {
		return apperrors.ErrConcurrencyConflict
	}
	course.RowVersion++
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseStore) DetachTeacher(_ context.Context, courseID, teacherID int64) error {
	if f.detachErr != nil {
		return f.detachErr
	}
	course, ok := f.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	switch {
	case course.FirstTeacherID != nil && *course.FirstTeacherID == teacherID:
		course.FirstTeacherID = nil
	case course.SecondTeacherID != nil && *course.SecondTeacherID == teacherID:
		course.SecondTeacherID = nil
	default:
		return apperrors.ErrTeacherNotOnCourse
	}
	course.RowVersion++
	return nil
}

type fakeEnrollmentStore struct {
	enrollments map[int64]*models.Enrollment
	nextID      int64
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{enrollments: make(map[int64]*models.Enrollment), nextID: 1}
}

func (f *fakeEnrollmentStore) Create(_ context.Context, enrollment *models.Enrollment) error {
	for _, e := range f.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return apperrors.ErrDuplicateEnrollment
		}
	}
	enrollment.ID = f.nextID
	enrollment.RowVersion = 1
	f.enrollments[enrollment.ID] = enrollment
	f.nextID++
	return nil
}

func (f *fakeEnrollmentStore) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	if e, ok := f.enrollments[id]; ok {
		return e, nil
	}
	return nil, apperrors.ErrEnrollmentNotFound
}

func (f *fakeEnrollmentStore) GetAll(_ context.Context, filter dto.EnrollmentFilter) ([]*models.Enrollment, error) {
	var out []*models.Enrollment
	for _, e := range f.enrollments {
		if filter.CourseID != nil && e.CourseID != *filter.CourseID {
			continue
		}
		if filter.StudentID != nil && e.StudentID != *filter.StudentID {
			continue
		}
		if filter.Year != nil && (e.Year == nil || *e.Year != *filter.Year) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEnrollmentStore) Exists(_ context.Context, studentID, courseID int64) (bool, error) {
	for _, e := range f.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentStore) Update(_ context.Context, enrollment *models.Enrollment) error {
	current, ok := f.enrollments[enrollment.ID]
	if !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	if current.RowVersion != enrollment.RowVersion {
		return apperrors.ErrConcurrencyConflict
	}
	enrollment.RowVersion++
	f.enrollments[enrollment.ID] = enrollment
	return nil
}

func (f *fakeEnrollmentStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.enrollments[id]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	delete(f.enrollments, id)
	return nil
}

func (f *fakeEnrollmentStore) ReconcileRoster(_ context.Context, courseID int64, target []int64) error {
	wanted := make(map[int64]bool, len(target))
	for _, id := range target {
		wanted[id] = true
	}

	current := make(map[int64]bool)
	for id, e := range f.enrollments {
		if e.CourseID != courseID {
			continue
		}
		if !wanted[e.StudentID] {
			delete(f.enrollments, id)
			continue
		}
		current[e.StudentID] = true
	}

	for _, studentID := range target {
		if current[studentID] {
			continue
		}
		f.enrollments[f.nextID] = &models.Enrollment{
			ID:         f.nextID,
			CourseID:   courseID,
			StudentID:  studentID,
			RowVersion: 1,
		}
		f.nextID++
	}

	return nil
}

func (f *fakeEnrollmentStore) ListForFeed(_ context.Context, courseID int64, year *int64) ([]dto.EnrollmentFeedItem, error) {
	items := []dto.EnrollmentFeedItem{}
	for _, e := range f.enrollments {
		if e.CourseID != courseID {
			continue
		}
		if year != nil && (e.Year == nil || *e.Year != *year) {
			continue
		}
		item := dto.EnrollmentFeedItem{
			ID:         e.ID,
			Semester:   e.Semester,
			Year:       e.Year,
			Grade:      e.Grade,
			FinishDate: e.FinishDate,
		}
		if e.Student != nil && e.Student.User != nil {
			item.FirstName = e.Student.User.FirstName
			item.LastName = e.Student.User.LastName
		}
		items = append(items, item)
	}
	return items, nil
}
