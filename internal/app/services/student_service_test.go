package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/pkg/apperrors"
)

func newStudentServiceForTest() (*StudentService, *fakeStudentStore, *fakeUserStore) {
	students := newFakeStudentStore()
	users := newFakeUserStore()
	svc := NewStudentService(students, users, zerolog.Nop())
	return svc, students, users
}

func createStudentReq(email, number string) *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		User: dto.NewUserInput{
			FirstName: "Ana",
			LastName:  "Petrova",
			Email:     email,
			Password:  "secret-pass",
		},
		StudentNumber: number,
	}
}

func TestStudentCreate(t *testing.T) {
	svc, _, _ := newStudentServiceForTest()
	ctx := context.Background()

	student, err := svc.Create(ctx, createStudentReq("ana@uni.edu", "1001"))
	require.NoError(t, err)
	assert.NotZero(t, student.ID)
	assert.Equal(t, "1001", student.StudentNumber)
	assert.Equal(t, int64(1), student.RowVersion)
	require.NotNil(t, student.User)
	assert.NotEqual(t, "secret-pass", student.User.PasswordHash)
}

func TestStudentCreate_DuplicateStudentNumber(t *testing.T) {
	svc, _, _ := newStudentServiceForTest()
	ctx := context.Background()

	_, err := svc.Create(ctx, createStudentReq("ana@uni.edu", "1001"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createStudentReq("ivan@uni.edu", "1001"))
	assert.ErrorIs(t, err, apperrors.ErrStudentNumberAlreadyTaken)
}

func TestStudentCreate_DuplicateEmail(t *testing.T) {
	svc, _, users := newStudentServiceForTest()
	ctx := context.Background()

	student, err := svc.Create(ctx, createStudentReq("ana@uni.edu", "1001"))
	require.NoError(t, err)
	users.users[student.UserID] = student.User

	_, err = svc.Create(ctx, createStudentReq("ana@uni.edu", "1002"))
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestStudentUpdate_StaleRowVersionConflicts(t *testing.T) {
	svc, _, _ := newStudentServiceForTest()
	ctx := context.Background()

	student, err := svc.Create(ctx, createStudentReq("ana@uni.edu", "1001"))
	require.NoError(t, err)

	req := &dto.UpdateStudentRequest{
		FirstName:     "Ana",
		LastName:      "Petrova",
		StudentNumber: "1001",
		RowVersion:    student.RowVersion,
	}
	_, err = svc.Update(ctx, student.ID, req)
	require.NoError(t, err)

	_, err = svc.Update(ctx, student.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
}

func TestStudentDelete_Missing(t *testing.T) {
	svc, _, _ := newStudentServiceForTest()

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}
