package domain

import "time"

// User is the domain model for registered accounts.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string

	// Recommendation preferences.
	PreferredGenres    string
	PreferredLanguages string
	MinRating          int
	MaxRuntime         *int
	IncludeAdult       bool

	IsActive   bool
	IsVerified bool

	// Machine-client credential, distinct trust path from login tokens.
	APIKey          *string
	APIKeyExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	LastLogin *time.Time
}

// APIKeyValid reports whether the user holds a non-expired API key.
func (u *User) APIKeyValid(now time.Time) bool {
	if u.APIKey == nil || *u.APIKey == "" {
		return false
	}
	if u.APIKeyExpiresAt != nil && now.After(*u.APIKeyExpiresAt) {
		return false
	}
	return true
}
