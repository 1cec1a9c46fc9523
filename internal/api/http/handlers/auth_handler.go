package handlers

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/movierec-service/internal/api/dto"
	"github.com/spec-kit/movierec-service/internal/auth"
	"github.com/spec-kit/movierec-service/internal/service"
	apperrors "github.com/spec-kit/movierec-service/pkg/util"
)

// AuthHandler exposes registration, login and API key endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateRegistration(req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Context(), service.RegisterInput{
		Username:           req.Username,
		Email:              req.Email,
		Password:           req.Password,
		PreferredGenres:    req.PreferredGenres,
		PreferredLanguages: req.PreferredLanguages,
		MinRating:          req.MinRating,
		MaxRuntime:         req.MaxRuntime,
		IncludeAdult:       req.IncludeAdult,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   exp,
		UserID:      user.ID,
		Username:    user.Username,
	}})
}

// IssueAPIKey handles POST /api/v1/auth/api-key.
func (h *AuthHandler) IssueAPIKey(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	key, exp, err := h.auth.IssueAPIKey(c.Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.APIKeyResponse{APIKey: key, ExpiresAt: exp}})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateProfile handles PUT /api/v1/auth/me.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, err := h.auth.UpdateProfile(c.Context(), user.ID, service.ProfileUpdateInput{
		Username:           req.Username,
		Email:              req.Email,
		PreferredGenres:    req.PreferredGenres,
		PreferredLanguages: req.PreferredLanguages,
		MinRating:          req.MinRating,
		MaxRuntime:         req.MaxRuntime,
		IncludeAdult:       req.IncludeAdult,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(updated)})
}

// Logout handles POST /api/v1/auth/logout. Tokens are stateless, so there is
// nothing to revoke; clients discard the token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "successfully logged out"}})
}

func validateRegistration(req dto.RegisterRequest) error {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("username, email, password required", nil)
	}
	if len(req.Username) < 3 || len(req.Username) > 50 {
		return apperrors.NewValidationError("username must be 3-50 characters", nil)
	}
	if !strings.Contains(req.Email, "@") {
		return apperrors.NewValidationError("invalid email", nil)
	}
	return validatePassword(req.Password)
}

func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 128 {
		return apperrors.NewValidationError("password must be 8-128 characters", nil)
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return apperrors.NewValidationError("password must contain upper and lower case letters and a digit", nil)
	}
	return nil
}
