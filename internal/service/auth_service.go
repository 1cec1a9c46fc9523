package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/movierec-service/internal/auth"
	"github.com/spec-kit/movierec-service/internal/config"
	"github.com/spec-kit/movierec-service/internal/domain"
	"github.com/spec-kit/movierec-service/internal/repository"
	apperrors "github.com/spec-kit/movierec-service/pkg/util"
)

// RegisterInput carries validated registration fields.
type RegisterInput struct {
	Username           string
	Email              string
	Password           string
	PreferredGenres    string
	PreferredLanguages string
	MinRating          int
	MaxRuntime         *int
	IncludeAdult       bool
}

// ProfileUpdateInput carries optional profile changes; nil fields are untouched.
type ProfileUpdateInput struct {
	Username           *string
	Email              *string
	PreferredGenres    *string
	PreferredLanguages *string
	MinRating          *int
	MaxRuntime         *int
	IncludeAdult       *bool
}

// AuthService coordinates registration, login and API key flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	apiKeyTTL  time.Duration
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes, logger),
		bcryptCost: cfg.BcryptCost,
		apiKeyTTL:  cfg.APIKeyTTL(),
		logger:     logger,
	}
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperrors.NewValidationError("username already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.NewInternalError(err)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.NewValidationError("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:           in.Username,
		Email:              in.Email,
		PasswordHash:       hash,
		PreferredGenres:    in.PreferredGenres,
		PreferredLanguages: in.PreferredLanguages,
		MinRating:          in.MinRating,
		MaxRuntime:         in.MaxRuntime,
		IncludeAdult:       in.IncludeAdult,
		IsActive:           true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// Login authenticates by username and password, touches last login and
// issues an access token. Wrong username, wrong password and disabled
// accounts are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if err != pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewInternalError(err)
		}
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("incorrect username or password")
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("incorrect username or password")
	}
	if !user.IsActive {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("incorrect username or password")
	}

	now := time.Now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.Int64("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLogin = &now
	}

	token, exp, err := s.tokenMgr.Issue(user.Username, user.ID, 0)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// IssueAPIKey generates a fresh long-lived key for machine clients,
// replacing any previous one.
func (s *AuthService) IssueAPIKey(ctx context.Context, user *domain.User) (string, time.Time, error) {
	key := "sk_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	expiresAt := time.Now().Add(s.apiKeyTTL)

	user.APIKey = &key
	user.APIKeyExpiresAt = &expiresAt
	if err := s.users.Update(ctx, user); err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return key, expiresAt, nil
}

// UpdateProfile applies partial profile changes, enforcing username/email
// uniqueness.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if in.Username != nil && *in.Username != user.Username {
		if existing, err := s.users.GetByUsername(ctx, *in.Username); err == nil && existing.ID != userID {
			return nil, apperrors.NewValidationError("username already taken", nil)
		} else if err != nil && err != pgx.ErrNoRows {
			return nil, apperrors.NewInternalError(err)
		}
		user.Username = *in.Username
	}
	if in.Email != nil && *in.Email != user.Email {
		if existing, err := s.users.GetByEmail(ctx, *in.Email); err == nil && existing.ID != userID {
			return nil, apperrors.NewValidationError("email already taken", nil)
		} else if err != nil && err != pgx.ErrNoRows {
			return nil, apperrors.NewInternalError(err)
		}
		user.Email = *in.Email
	}
	if in.PreferredGenres != nil {
		user.PreferredGenres = *in.PreferredGenres
	}
	if in.PreferredLanguages != nil {
		user.PreferredLanguages = *in.PreferredLanguages
	}
	if in.MinRating != nil {
		user.MinRating = *in.MinRating
	}
	if in.MaxRuntime != nil {
		user.MaxRuntime = in.MaxRuntime
	}
	if in.IncludeAdult != nil {
		user.IncludeAdult = *in.IncludeAdult
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
