package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edverse/registrar/internal/app/models"
	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/pkg/apperrors"
	"github.com/edverse/registrar/internal/pkg/auth"
)

func newAuthServiceForTest(t *testing.T) (*AuthService, *fakeUserStore, *fakeTokenStore) {
	t.Helper()

	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	students := newFakeStudentStore()
	teachers := newFakeTeacherStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "registrar.test",
	})

	svc := NewAuthService(users, tokens, students, teachers, jwtService, zerolog.Nop())
	return svc, users, tokens
}

func seedUser(t *testing.T, users *fakeUserStore, id int64, email, password string, roles ...models.RoleType) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Maria",
		LastName:     "Georgieva",
		Roles:        roles,
	}
	users.users[id] = user
	return user
}

func TestLogin(t *testing.T) {
	svc, users, tokens := newAuthServiceForTest(t)
	seedUser(t, users, 1, "maria@uni.edu", "correct-pass", models.RoleAdmin)

	got, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "maria@uni.edu",
		Password: "correct-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.AccessToken)
	assert.NotEmpty(t, got.RefreshToken)
	assert.Equal(t, "Bearer", got.TokenType)
	assert.Equal(t, int64(1), tokens.tokens[got.RefreshToken])
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	svc, users, _ := newAuthServiceForTest(t)
	seedUser(t, users, 1, "maria@uni.edu", "correct-pass", models.RoleAdmin)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "maria@uni.edu",
		Password: "wrong-pass",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@uni.edu",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshToken_RotatesAndRevokesOld(t *testing.T) {
	svc, users, tokens := newAuthServiceForTest(t)
	seedUser(t, users, 1, "maria@uni.edu", "correct-pass", models.RoleAdmin)

	first, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "maria@uni.edu",
		Password: "correct-pass",
	})
	require.NoError(t, err)

	second, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: first.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.True(t, tokens.revoked[first.RefreshToken])

	// The spent token is unusable
	_, err = svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: first.RefreshToken,
	})
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestRefreshToken_Unknown(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	_, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: "never-issued",
	})
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestGetProfile_LinksOwnedProfiles(t *testing.T) {
	svc, users, _ := newAuthServiceForTest(t)
	user := seedUser(t, users, 1, "maria@uni.edu", "correct-pass",
		models.RoleAdmin, models.RoleTeacher)

	// Link a teacher profile to the same user
	teachers := svc.teacherRepo.(*fakeTeacherStore)
	teacher := &models.Teacher{ID: 10, UserID: user.ID, RowVersion: 1, User: user}
	teachers.teachers[teacher.ID] = teacher

	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Georgieva", profile.FullName)
	assert.ElementsMatch(t, []string{"ADMIN", "TEACHER"}, profile.Roles)
	require.NotNil(t, profile.TeacherID)
	assert.Equal(t, teacher.ID, *profile.TeacherID)
	assert.Nil(t, profile.StudentID)
}
