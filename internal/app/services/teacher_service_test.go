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

func newTeacherServiceForTest() (*TeacherService, *fakeTeacherStore, *fakeUserStore) {
	teachers := newFakeTeacherStore()
	users := newFakeUserStore()
	svc := NewTeacherService(teachers, users, zerolog.Nop())
	return svc, teachers, users
}

func createTeacherReq(email string) *dto.CreateTeacherRequest {
	return &dto.CreateTeacherRequest{
		User: dto.NewUserInput{
			FirstName: "Petar",
			LastName:  "Ivanov",
			Email:     email,
			Password:  "secret-pass",
		},
	}
}

func TestTeacherCreate(t *testing.T) {
	svc, _, _ := newTeacherServiceForTest()

	teacher, err := svc.Create(context.Background(), createTeacherReq("petar@uni.edu"))
	require.NoError(t, err)
	assert.NotZero(t, teacher.ID)
	assert.Equal(t, int64(1), teacher.RowVersion)
}

func TestTeacherDelete_StillAssignedToCourse(t *testing.T) {
	svc, teachers, _ := newTeacherServiceForTest()
	ctx := context.Background()

	teacher, err := svc.Create(ctx, createTeacherReq("petar@uni.edu"))
	require.NoError(t, err)

	teachers.assigned[teacher.ID] = true

	err = svc.Delete(ctx, teacher.ID)
	assert.ErrorIs(t, err, apperrors.ErrTeacherAssigned)

	// Once unassigned the delete goes through
	teachers.assigned[teacher.ID] = false
	require.NoError(t, svc.Delete(ctx, teacher.ID))

	_, err = svc.GetByID(ctx, teacher.ID)
	assert.ErrorIs(t, err, apperrors.ErrTeacherNotFound)
}

func TestTeacherUpdate_StaleRowVersionConflicts(t *testing.T) {
	svc, _, _ := newTeacherServiceForTest()
	ctx := context.Background()

	teacher, err := svc.Create(ctx, createTeacherReq("petar@uni.edu"))
	require.NoError(t, err)

	req := &dto.UpdateTeacherRequest{
		FirstName:  "Petar",
		LastName:   "Ivanov",
		RowVersion: teacher.RowVersion,
	}
	_, err = svc.Update(ctx, teacher.ID, req)
	require.NoError(t, err)

	_, err = svc.Update(ctx, teacher.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
}
