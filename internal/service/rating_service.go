package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/movierec-service/internal/domain"
	"github.com/spec-kit/movierec-service/internal/repository"
	apperrors "github.com/spec-kit/movierec-service/pkg/util"
)

// RatingService coordinates user movie ratings.
type RatingService struct {
	ratings repository.RatingRepository
	movies  repository.MovieRepository
}

// NewRatingService builds the service.
func NewRatingService(ratings repository.RatingRepository, movies repository.MovieRepository) *RatingService {
	return &RatingService{ratings: ratings, movies: movies}
}

// Rate creates or replaces the user's rating for a movie.
func (s *RatingService) Rate(ctx context.Context, userID, movieID int64, score int, review string) (*domain.Rating, error) {
	if score < 1 || score > 10 {
		return nil, apperrors.NewValidationError("score must be between 1 and 10", nil)
	}

	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("movie", map[string]any{"id": movieID})
		}
		return nil, apperrors.NewInternalError(err)
	}

	rating := &domain.Rating{
		UserID:  userID,
		MovieID: movieID,
		Score:   score,
		Review:  review,
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return rating, nil
}

// List returns the user's ratings, newest first.
func (s *RatingService) List(ctx context.Context, userID int64, limit, offset int) ([]domain.Rating, error) {
	ratings, err := s.ratings.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return ratings, nil
}

// Remove deletes the user's rating for a movie.
func (s *RatingService) Remove(ctx context.Context, userID, movieID int64) error {
	if err := s.ratings.Delete(ctx, userID, movieID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("rating", map[string]any{"movie_id": movieID})
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}
