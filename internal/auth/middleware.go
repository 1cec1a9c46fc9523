package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/movierec-service/internal/domain"
	"github.com/spec-kit/movierec-service/internal/ratelimit"
	"github.com/spec-kit/movierec-service/internal/repository"
	apperrors "github.com/spec-kit/movierec-service/pkg/util"
)

const principalKey = "auth_principal"

// Via records which credential path resolved the principal.
type Via string

const (
	ViaToken  Via = "token"
	ViaAPIKey Via = "api_key"
)

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
	Via  Via
}

// Middleware resolves request credentials into a principal and enforces
// rate limits. Resolution never rejects by itself; the Require* handlers do.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	logger *zap.Logger
}

// NewMiddleware constructs the auth pipeline.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{tokens: tokens, users: users, logger: logger}
}

// Identify attempts both credential paths and stores the result in request
// locals. Both paths are tried whenever their header is present; when both
// resolve, the token identity wins. Never rejects.
func (m *Middleware) Identify(c *fiber.Ctx) error {
	tokenUser := m.resolveToken(c)
	apiUser := m.resolveAPIKey(c)

	switch {
	case tokenUser != nil:
		c.Locals(principalKey, &Principal{User: tokenUser, Via: ViaToken})
	case apiUser != nil:
		c.Locals(principalKey, &Principal{User: apiUser, Via: ViaAPIKey})
	}
	return c.Next()
}

// resolveToken resolves a bearer token into an active user. Verification
// failures, missing users and storage errors all yield no identity.
func (m *Middleware) resolveToken(c *fiber.Ctx) *domain.User {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}

	claims := m.tokens.Verify(parts[1])
	if claims == nil {
		return nil
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if err != pgx.ErrNoRows {
			m.logger.Warn("user lookup failed during token auth", zap.Error(err))
		}
		return nil
	}
	if !user.IsActive {
		return nil
	}
	return user
}

// resolveAPIKey resolves the X-API-Key header into an active user holding a
// non-expired key. Lookup errors are swallowed into no identity.
func (m *Middleware) resolveAPIKey(c *fiber.Ctx) *domain.User {
	apiKey := c.Get("X-API-Key")
	if apiKey == "" {
		return nil
	}

	user, err := m.users.GetByAPIKey(c.Context(), apiKey)
	if err != nil {
		if err != pgx.ErrNoRows {
			m.logger.Warn("user lookup failed during api key auth", zap.Error(err))
		}
		return nil
	}
	if !user.APIKeyValid(time.Now()) || !user.IsActive {
		return nil
	}
	return user
}

// RequireAuth rejects requests with no resolved principal.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		return c.Next()
	}
}

// RequireActiveUser rejects unauthenticated requests with 401 and
// authenticated-but-disabled accounts with 400.
func (m *Middleware) RequireActiveUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		if !principal.User.IsActive {
			return apperrors.NewInactiveAccount()
		}
		return c.Next()
	}
}

// RateLimit counts the request against the resolved identity's bucket and
// rejects once the budget is exceeded. The key ordering is the contract:
// session identity, then API-key identity, then caller address, so anonymous
// abuse lands in per-IP buckets instead of shared ones. The increment that
// causes the overage still counts, so exactly limit requests per window
// succeed.
func (m *Middleware) RateLimit(limiter *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		if principal, ok := PrincipalFromContext(c); ok {
			switch principal.Via {
			case ViaToken:
				key = fmt.Sprintf("user:%d", principal.User.ID)
			case ViaAPIKey:
				key = fmt.Sprintf("api:%d", principal.User.ID)
			}
		}

		count := limiter.Increment(c.Context(), key)
		if count > int64(limiter.Limit()) {
			return apperrors.NewRateLimited(limiter.Limit())
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// UserFromContext is a convenience for handlers with optional auth.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return nil, false
	}
	return principal.User, true
}
