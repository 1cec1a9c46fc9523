package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/movierec-service/internal/domain"
)

// RatingRepository defines persistence access for user movie ratings.
type RatingRepository interface {
	Upsert(ctx context.Context, rating *domain.Rating) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Rating, error)
	Delete(ctx context.Context, userID, movieID int64) error
}

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository returns a Postgres-backed implementation.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *domain.Rating) error {
	const query = `
        INSERT INTO user_ratings (user_id, movie_id, score, review)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, movie_id)
        DO UPDATE SET score = EXCLUDED.score, review = EXCLUDED.review, updated_at = NOW()
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		rating.UserID,
		rating.MovieID,
		rating.Score,
		rating.Review,
	).Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)
}

func (r *ratingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Rating, error) {
	const query = `
        SELECT id, user_id, movie_id, score, review, created_at, updated_at
        FROM user_ratings WHERE user_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []domain.Rating
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(
			&rating.ID,
			&rating.UserID,
			&rating.MovieID,
			&rating.Score,
			&rating.Review,
			&rating.CreatedAt,
			&rating.UpdatedAt,
		); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

func (r *ratingRepository) Delete(ctx context.Context, userID, movieID int64) error {
	const query = `DELETE FROM user_ratings WHERE user_id=$1 AND movie_id=$2`

	cmd, err := r.pool.Exec(ctx, query, userID, movieID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
