package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edverse/registrar/internal/app/models"
	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/pkg/apperrors"
	"github.com/edverse/registrar/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo    userStore
	tokenRepo   tokenStore
	studentRepo studentStore
	teacherRepo teacherStore
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo userStore,
	tokenRepo tokenStore,
	studentRepo studentStore,
	teacherRepo teacherStore,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		studentRepo: studentRepo,
		teacherRepo: teacherRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Same error as a wrong password, login must not leak which
			// part of the credentials failed
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Int64("userID", user.ID).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds, the stamp is informational
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login")
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return tokens, nil
}

// RefreshToken rotates a refresh token into a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	userID, err := s.tokenRepo.GetUserIDByToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// Rotation, the old token is dead once exchanged
	if err := s.tokenRepo.RevokeToken(ctx, req.RefreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes every active refresh token of the user
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", userID).Msg("User logged out")
	return nil
}

// GetProfile assembles the caller's own account view, including any linked
// student or teacher profile id
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &dto.UserProfile{
		ID:             user.ID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		FullName:       user.FullName(),
		ProfilePicture: user.ProfilePicture,
		Roles:          make([]string, 0, len(user.Roles)),
	}
	for _, role := range user.Roles {
		profile.Roles = append(profile.Roles, string(role))
	}

	if student, err := s.studentRepo.GetByUserID(ctx, userID); err == nil {
		profile.StudentID = &student.ID
	} else if !errors.Is(err, apperrors.ErrStudentNotFound) {
		return nil, err
	}

	if teacher, err := s.teacherRepo.GetByUserID(ctx, userID); err == nil {
		profile.TeacherID = &teacher.ID
	} else if !errors.Is(err, apperrors.ErrTeacherNotFound) {
		return nil, err
	}

	return profile, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	expiry := s.jwtService.GetRefreshTokenExpiry()
	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, expiry); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
	}, nil
}
