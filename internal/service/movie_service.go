package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/movierec-service/internal/cache"
	"github.com/spec-kit/movierec-service/internal/domain"
	"github.com/spec-kit/movierec-service/internal/recommend"
	"github.com/spec-kit/movierec-service/internal/repository"
	apperrors "github.com/spec-kit/movierec-service/pkg/util"
)

const (
	movieCacheTTL   = time.Hour
	popularCacheTTL = 30 * time.Minute
	genreCacheTTL   = time.Hour
)

// MovieService coordinates catalog reads, writes and recommendations.
type MovieService struct {
	movies repository.MovieRepository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewMovieService builds the service. The cache may be nil.
func NewMovieService(movies repository.MovieRepository, c *cache.Cache, logger *zap.Logger) *MovieService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MovieService{movies: movies, cache: c, logger: logger}
}

// Get loads a movie by id, serving repeat lookups from cache.
func (s *MovieService) Get(ctx context.Context, id int64) (*domain.Movie, error) {
	cacheKey := fmt.Sprintf("movie:%d", id)

	var cached domain.Movie
	if s.cache.GetJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("movie", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.cache.SetJSON(ctx, cacheKey, movie, movieCacheTTL)
	return movie, nil
}

// Search filters the catalog; results come back ordered by popularity.
func (s *MovieService) Search(ctx context.Context, filter repository.MovieFilter) ([]domain.Movie, error) {
	movies, err := s.movies.Search(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return movies, nil
}

// Popular returns the most popular titles, cached per page.
func (s *MovieService) Popular(ctx context.Context, limit, offset int) ([]domain.Movie, error) {
	cacheKey := fmt.Sprintf("popular_movies:%d:%d", limit, offset)

	var cached []domain.Movie
	if s.cache.GetJSON(ctx, cacheKey, &cached) {
		return cached, nil
	}

	movies, err := s.movies.Popular(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(movies) > 0 {
		s.cache.SetJSON(ctx, cacheKey, movies, popularCacheTTL)
	}
	return movies, nil
}

// Trending returns recent high-popularity titles.
func (s *MovieService) Trending(ctx context.Context, limit int) ([]domain.Movie, error) {
	movies, err := s.movies.Trending(ctx, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return movies, nil
}

// Create inserts a new catalog entry.
func (s *MovieService) Create(ctx context.Context, movie *domain.Movie) error {
	if err := s.movies.Create(ctx, movie); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Update modifies an existing entry and drops its cached copy.
func (s *MovieService) Update(ctx context.Context, movie *domain.Movie) error {
	if err := s.movies.Update(ctx, movie); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("movie", map[string]any{"id": movie.ID})
		}
		return apperrors.NewInternalError(err)
	}
	s.cache.Delete(ctx, fmt.Sprintf("movie:%d", movie.ID))
	return nil
}

// RecommendByGenre returns scored genre picks, cached per genre and limit.
func (s *MovieService) RecommendByGenre(ctx context.Context, genre string, limit int) ([]recommend.Recommendation, error) {
	cacheKey := fmt.Sprintf("genre_recommendations:%s:%d", genre, limit)

	var cached []recommend.Recommendation
	if s.cache.GetJSON(ctx, cacheKey, &cached) {
		return cached, nil
	}

	movies, err := s.movies.ByGenre(ctx, genre, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	reason := fmt.Sprintf("Popular %s movie with high ratings", genre)
	recs := recommend.Rank(movies, reason, time.Now())
	if len(recs) > 0 {
		s.cache.SetJSON(ctx, cacheKey, recs, genreCacheTTL)
	}
	return recs, nil
}

// RecommendByDirector returns scored picks from a director's filmography.
func (s *MovieService) RecommendByDirector(ctx context.Context, director string, limit int) ([]recommend.Recommendation, error) {
	movies, err := s.movies.ByDirector(ctx, director, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	reason := fmt.Sprintf("Directed by %s", director)
	return recommend.Rank(movies, reason, time.Now()), nil
}

// Similar returns scored movies sharing genres with the given one.
func (s *MovieService) Similar(ctx context.Context, movieID int64, limit int) ([]recommend.Recommendation, error) {
	movie, err := s.Get(ctx, movieID)
	if err != nil {
		return nil, err
	}

	movies, err := s.movies.SimilarTo(ctx, movie, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	reason := fmt.Sprintf("Similar to '%s' (same genres)", movie.Title)
	return recommend.Rank(movies, reason, time.Now()), nil
}
