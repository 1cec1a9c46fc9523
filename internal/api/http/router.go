package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/movierec-service/internal/api/http/handlers"
	"github.com/spec-kit/movierec-service/internal/auth"
	"github.com/spec-kit/movierec-service/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Movies  *handlers.MoviesHandler
	Ratings *handlers.RatingsHandler

	AuthMiddleware *auth.Middleware
	Limiter        *ratelimit.Limiter
}

// RegisterRoutes wires HTTP routes. Every /api/v1 route resolves identity
// first and then counts against the caller's rate bucket, whether or not
// authentication is required.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1",
		cfg.AuthMiddleware.Identify,
		cfg.AuthMiddleware.RateLimit(cfg.Limiter),
	)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/api-key", cfg.AuthMiddleware.RequireAuth(), cfg.Auth.IssueAPIKey)
	authGroup.Get("/me", cfg.AuthMiddleware.RequireAuth(), cfg.Auth.Me)
	authGroup.Put("/me", cfg.AuthMiddleware.RequireActiveUser(), cfg.Auth.UpdateProfile)

	movies := api.Group("/movies")
	// Static segments are registered before /:id so they are not shadowed.
	movies.Get("/search", cfg.Movies.Search)
	movies.Get("/trending", cfg.Movies.Trending)
	movies.Get("/recommendations/genre/:genre", cfg.Movies.ByGenre)
	movies.Get("/recommendations/director/:director", cfg.Movies.ByDirector)
	movies.Get("/", cfg.Movies.Popular)
	movies.Get("/:id", cfg.Movies.Get)
	movies.Get("/:id/similar", cfg.Movies.Similar)
	movies.Post("/", cfg.AuthMiddleware.RequireAuth(), cfg.Movies.Create)
	movies.Put("/:id", cfg.AuthMiddleware.RequireAuth(), cfg.Movies.Update)

	ratings := api.Group("/users/me/ratings", cfg.AuthMiddleware.RequireActiveUser())
	ratings.Post("/", cfg.Ratings.Rate)
	ratings.Get("/", cfg.Ratings.List)
	ratings.Delete("/:movieID", cfg.Ratings.Remove)
}
