package auth_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/movierec-service/internal/api/http"
	"github.com/spec-kit/movierec-service/internal/auth"
	"github.com/spec-kit/movierec-service/internal/domain"
	"github.com/spec-kit/movierec-service/internal/observability"
	"github.com/spec-kit/movierec-service/internal/ratelimit"
)

type fakeUserRepo struct {
	byID     map[int64]*domain.User
	byAPIKey map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		byID:     make(map[int64]*domain.User),
		byAPIKey: make(map[string]*domain.User),
	}
	for _, u := range users {
		repo.byID[u.ID] = u
		if u.APIKey != nil {
			repo.byAPIKey[*u.APIKey] = u
		}
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, _ *domain.User) error { return nil }
func (r *fakeUserRepo) Update(_ context.Context, _ *domain.User) error { return nil }

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByAPIKey(_ context.Context, apiKey string) (*domain.User, error) {
	if u, ok := r.byAPIKey[apiKey]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, _ int64, _ time.Time) error { return nil }

func activeUser(id int64, username string) *domain.User {
	return &domain.User{ID: id, Username: username, IsActive: true}
}

func withAPIKey(u *domain.User, key string, expiresAt time.Time) *domain.User {
	u.APIKey = &key
	u.APIKeyExpiresAt = &expiresAt
	return u
}

type pipelineFixture struct {
	app *fiber.App
	mr  *miniredis.Miniredis
	tm  *auth.TokenManager
}

func newPipeline(t *testing.T, limit int, users ...*domain.User) *pipelineFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := ratelimit.NewLimiter(ratelimit.NewRedisCounterStore(client), limit, time.Minute, nil)
	tm := auth.NewTokenManager("test-secret", 30, nil)
	mw := auth.NewMiddleware(tm, newFakeUserRepo(users...), nil)

	app := fiber.New(fiber.Config{ProxyHeader: "X-Forwarded-For"})
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Use(mw.Identify, mw.RateLimit(limiter))

	app.Get("/open", func(c *fiber.Ctx) error {
		if user, ok := auth.UserFromContext(c); ok {
			return c.JSON(fiber.Map{"user": user.Username})
		}
		return c.JSON(fiber.Map{"user": nil})
	})
	app.Get("/protected", mw.RequireAuth(), func(c *fiber.Ctx) error {
		principal, _ := auth.PrincipalFromContext(c)
		return c.JSON(fiber.Map{"user": principal.User.Username, "via": string(principal.Via)})
	})
	app.Get("/active", mw.RequireActiveUser(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return &pipelineFixture{app: app, mr: mr, tm: tm}
}

func TestRequireAuth_MissingCredentials(t *testing.T) {
	f := newPipeline(t, 100)

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
}

func TestRequireAuth_ValidToken(t *testing.T) {
	f := newPipeline(t, 100, activeUser(7, "alice"))

	token, _, err := f.tm.Issue("alice", 7, 0)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuth_InactiveUserTokenRejected(t *testing.T) {
	inactive := &domain.User{ID: 3, Username: "bob", IsActive: false}
	f := newPipeline(t, 100, inactive)

	token, _, err := f.tm.Issue("bob", 3, 0)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuth_GarbageTokenRejected(t *testing.T) {
	f := newPipeline(t, 100, activeUser(7, "alice"))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
}

func TestRequireAuth_ValidAPIKey(t *testing.T) {
	user := withAPIKey(activeUser(9, "carol"), "sk_machine", time.Now().Add(time.Hour))
	f := newPipeline(t, 100, user)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-API-Key", "sk_machine")
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuth_ExpiredAPIKeyRejected(t *testing.T) {
	user := withAPIKey(activeUser(9, "carol"), "sk_stale", time.Now().Add(-time.Hour))
	f := newPipeline(t, 100, user)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-API-Key", "sk_stale")
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIdentify_TokenWinsOverAPIKey(t *testing.T) {
	tokenOwner := activeUser(7, "alice")
	keyOwner := withAPIKey(activeUser(9, "carol"), "sk_machine", time.Now().Add(time.Hour))
	f := newPipeline(t, 100, tokenOwner, keyOwner)

	token, _, err := f.tm.Issue("alice", 7, 0)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-API-Key", "sk_machine")
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Token identity owns the request, so its bucket absorbs the hit.
	assert.True(t, f.mr.Exists("user:7"))
	assert.False(t, f.mr.Exists("api:9"))
}

func TestRateLimit_KeyDerivation(t *testing.T) {
	tokenOwner := activeUser(7, "alice")
	keyOwner := withAPIKey(activeUser(8, "carol"), "sk_machine", time.Now().Add(time.Hour))
	f := newPipeline(t, 100, tokenOwner, keyOwner)

	token, _, err := f.tm.Issue("alice", 7, 0)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	_, err = f.app.Test(req)
	require.NoError(t, err)
	assert.True(t, f.mr.Exists("user:7"))

	req = httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("X-API-Key", "sk_machine")
	_, err = f.app.Test(req)
	require.NoError(t, err)
	assert.True(t, f.mr.Exists("api:8"))

	req = httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.5")
	_, err = f.app.Test(req)
	require.NoError(t, err)
	assert.True(t, f.mr.Exists("ip:10.0.0.5"))
}

func TestRateLimit_ExactBudgetThenReject(t *testing.T) {
	f := newPipeline(t, 3, activeUser(7, "alice"))

	token, _, err := f.tm.Issue("alice", 7, 0)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		req := httptest.NewRequest("GET", "/open", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "request %d should pass", i)
	}

	req := httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
}

func TestRateLimit_FailsOpenWhenCounterStoreDown(t *testing.T) {
	f := newPipeline(t, 1, activeUser(7, "alice"))
	f.mr.Close()

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/open", nil)
		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func TestRateLimit_AnonymousAndAuthenticatedUseSeparateBuckets(t *testing.T) {
	f := newPipeline(t, 2, activeUser(7, "alice"))

	token, _, err := f.tm.Issue("alice", 7, 0)
	require.NoError(t, err)

	// Exhaust the anonymous bucket.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/open", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.5")
		_, err := f.app.Test(req)
		require.NoError(t, err)
	}

	// The authenticated caller still has budget.
	req := httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireActiveUser_Unauthenticated(t *testing.T) {
	f := newPipeline(t, 100)

	req := httptest.NewRequest("GET", "/active", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
