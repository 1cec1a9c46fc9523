package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/movierec-service/internal/api/dto"
	"github.com/spec-kit/movierec-service/internal/repository"
	"github.com/spec-kit/movierec-service/internal/service"
	apperrors "github.com/spec-kit/movierec-service/pkg/util"
)

// MoviesHandler exposes catalog and recommendation endpoints.
type MoviesHandler struct {
	movies *service.MovieService
}

// NewMoviesHandler constructs handler.
func NewMoviesHandler(movieService *service.MovieService) *MoviesHandler {
	return &MoviesHandler{movies: movieService}
}

// Popular handles GET /api/v1/movies.
func (h *MoviesHandler) Popular(c *fiber.Ctx) error {
	limit, err := boundedQueryInt(c, "limit", 20, 1, 100)
	if err != nil {
		return err
	}
	offset, err := boundedQueryInt(c, "offset", 0, 0, 1<<30)
	if err != nil {
		return err
	}

	movies, err := h.movies.Popular(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMovieListResponse(movies)})
}

// Search handles GET /api/v1/movies/search.
func (h *MoviesHandler) Search(c *fiber.Ctx) error {
	filter, err := parseMovieFilter(c)
	if err != nil {
		return err
	}

	movies, err := h.movies.Search(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMovieListResponse(movies)})
}

// Trending handles GET /api/v1/movies/trending.
func (h *MoviesHandler) Trending(c *fiber.Ctx) error {
	limit, err := boundedQueryInt(c, "limit", 10, 1, 50)
	if err != nil {
		return err
	}

	movies, err := h.movies.Trending(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMovieListResponse(movies)})
}

// Get handles GET /api/v1/movies/:id.
func (h *MoviesHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	movie, err := h.movies.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMovieResponse(*movie)})
}

// Similar handles GET /api/v1/movies/:id/similar.
func (h *MoviesHandler) Similar(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	limit, err := boundedQueryInt(c, "limit", 10, 1, 50)
	if err != nil {
		return err
	}

	recs, err := h.movies.Similar(c.Context(), id, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRecommendationListResponse(recs)})
}

// ByGenre handles GET /api/v1/movies/recommendations/genre/:genre.
func (h *MoviesHandler) ByGenre(c *fiber.Ctx) error {
	genre := strings.TrimSpace(c.Params("genre"))
	if genre == "" {
		return apperrors.NewValidationError("genre required", nil)
	}
	limit, err := boundedQueryInt(c, "limit", 10, 1, 50)
	if err != nil {
		return err
	}

	recs, err := h.movies.RecommendByGenre(c.Context(), genre, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRecommendationListResponse(recs)})
}

// ByDirector handles GET /api/v1/movies/recommendations/director/:director.
func (h *MoviesHandler) ByDirector(c *fiber.Ctx) error {
	director := strings.TrimSpace(c.Params("director"))
	if director == "" {
		return apperrors.NewValidationError("director required", nil)
	}
	limit, err := boundedQueryInt(c, "limit", 10, 1, 50)
	if err != nil {
		return err
	}

	recs, err := h.movies.RecommendByDirector(c.Context(), director, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRecommendationListResponse(recs)})
}

// Create handles POST /api/v1/movies.
func (h *MoviesHandler) Create(c *fiber.Ctx) error {
	var req dto.MovieCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperrors.NewValidationError("title required", nil)
	}

	movie := req.ToDomain()
	if err := h.movies.Create(c.Context(), movie); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMovieResponse(*movie)})
}

// Update handles PUT /api/v1/movies/:id.
func (h *MoviesHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.MovieUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	movie, err := h.movies.Get(c.Context(), id)
	if err != nil {
		return err
	}
	req.Apply(movie)

	if err := h.movies.Update(c.Context(), movie); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMovieResponse(*movie)})
}

func parseMovieFilter(c *fiber.Ctx) (repository.MovieFilter, error) {
	var filter repository.MovieFilter

	filter.Query = strings.TrimSpace(c.Query("query"))
	if genres := strings.TrimSpace(c.Query("genres")); genres != "" {
		filter.Genres = strings.Split(genres, ",")
	}
	if raw := c.Query("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 10 {
			return filter, apperrors.NewValidationError("min_rating must be between 0 and 10", nil)
		}
		filter.MinRating = &v
	}
	if raw := c.Query("max_runtime"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter, apperrors.NewValidationError("max_runtime must be non-negative", nil)
		}
		filter.MaxRuntime = &v
	}

	var err error
	if filter.YearFrom, err = boundedQueryInt(c, "year_from", 0, 0, 2030); err != nil {
		return filter, err
	}
	if filter.YearTo, err = boundedQueryInt(c, "year_to", 0, 0, 2030); err != nil {
		return filter, err
	}
	if filter.YearFrom > 0 && filter.YearTo > 0 && filter.YearTo < filter.YearFrom {
		return filter, apperrors.NewValidationError("year_to must not precede year_from", nil)
	}

	filter.IncludeAdult = c.QueryBool("include_adult", false)
	if filter.Limit, err = boundedQueryInt(c, "limit", 20, 1, 100); err != nil {
		return filter, err
	}
	if filter.Offset, err = boundedQueryInt(c, "offset", 0, 0, 1<<30); err != nil {
		return filter, err
	}
	return filter, nil
}

func boundedQueryInt(c *fiber.Ctx, name string, def, min, max int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, apperrors.NewValidationError(name+" out of range", map[string]any{"min": min, "max": max})
	}
	return v, nil
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}
