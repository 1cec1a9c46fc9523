package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// TokenManager handles issuing and validating JWT access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int, logger *zap.Logger) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		logger: logger,
	}
}

// Claims describes the JWT payload: subject username, account id, iat, exp.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Username returns the token subject.
func (c *Claims) Username() string {
	return c.Subject
}

// Issue builds and signs a token for the user. A non-positive ttl falls back
// to the configured default.
func (tm *TokenManager) Issue(username string, userID int64, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = tm.ttl
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates a token and returns its claims, or nil when the token is
// forged, malformed or expired. Callers must treat nil uniformly as
// unauthenticated; the distinction is only logged.
func (tm *TokenManager) Verify(tokenStr string) *Claims {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		tm.logger.Warn("token rejected", zap.Error(err))
		return nil
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		tm.logger.Warn("token rejected", zap.String("reason", "invalid claims"))
		return nil
	}
	return claims
}
