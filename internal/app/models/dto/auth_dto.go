package dto

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType"`
	ExpiresIn        int    `json:"expiresIn"`
	RefreshExpiresIn int    `json:"refreshExpiresIn"`
}

// UserProfile is the authenticated caller's own view of their account
type UserProfile struct {
	ID             int64    `json:"id"`
	Email          string   `json:"email"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	FullName       string   `json:"fullName"`
	ProfilePicture *string  `json:"profilePicture,omitempty"`
	Roles          []string `json:"roles"`
	StudentID      *int64   `json:"studentId,omitempty"`
	TeacherID      *int64   `json:"teacherId,omitempty"`
}
