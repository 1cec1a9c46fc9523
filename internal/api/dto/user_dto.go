package dto

import (
	"time"

	"github.com/spec-kit/movierec-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username           string `json:"username"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	PreferredGenres    string `json:"preferred_genres"`
	PreferredLanguages string `json:"preferred_languages"`
	MinRating          int    `json:"min_rating"`
	MaxRuntime         *int   `json:"max_runtime"`
	IncludeAdult       bool   `json:"include_adult"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileUpdateRequest payload for partial profile changes.
type ProfileUpdateRequest struct {
	Username           *string `json:"username"`
	Email              *string `json:"email"`
	PreferredGenres    *string `json:"preferred_genres"`
	PreferredLanguages *string `json:"preferred_languages"`
	MinRating          *int    `json:"min_rating"`
	MaxRuntime         *int    `json:"max_runtime"`
	IncludeAdult       *bool   `json:"include_adult"`
}

// TokenResponse standard response for login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
}

// APIKeyResponse returns a freshly issued API key.
type APIKeyResponse struct {
	APIKey    string    `json:"api_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the external view of an account. The password hash and API
// key never leave the service.
type UserResponse struct {
	ID                 int64      `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	PreferredGenres    string     `json:"preferred_genres,omitempty"`
	PreferredLanguages string     `json:"preferred_languages,omitempty"`
	MinRating          int        `json:"min_rating"`
	MaxRuntime         *int       `json:"max_runtime,omitempty"`
	IncludeAdult       bool       `json:"include_adult"`
	IsActive           bool       `json:"is_active"`
	IsVerified         bool       `json:"is_verified"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
}

// NewUserResponse maps a domain user to its external view.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		PreferredGenres:    u.PreferredGenres,
		PreferredLanguages: u.PreferredLanguages,
		MinRating:          u.MinRating,
		MaxRuntime:         u.MaxRuntime,
		IncludeAdult:       u.IncludeAdult,
		IsActive:           u.IsActive,
		IsVerified:         u.IsVerified,
		CreatedAt:          u.CreatedAt,
		LastLogin:          u.LastLogin,
	}
}
