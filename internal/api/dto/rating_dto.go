package dto

import (
	"time"

	"github.com/spec-kit/movierec-service/internal/domain"
)

// RatingRequest payload for creating or replacing a rating.
type RatingRequest struct {
	MovieID int64  `json:"movie_id"`
	Score   int    `json:"score"`
	Review  string `json:"review"`
}

// RatingResponse is the external view of a rating.
type RatingResponse struct {
	ID        int64     `json:"id"`
	MovieID   int64     `json:"movie_id"`
	Score     int       `json:"score"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRatingResponse maps a domain rating to its external view.
func NewRatingResponse(r domain.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		MovieID:   r.MovieID,
		Score:     r.Score,
		Review:    r.Review,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// NewRatingListResponse maps a slice of ratings.
func NewRatingListResponse(ratings []domain.Rating) []RatingResponse {
	out := make([]RatingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, NewRatingResponse(r))
	}
	return out
}
