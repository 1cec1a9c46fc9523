package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/movierec-service/internal/domain"
)

// MovieFilter is the predicate set for catalog searches. Zero values mean
// "no constraint".
type MovieFilter struct {
	Query        string
	Genres       []string
	MinRating    *float64
	MaxRuntime   *int
	YearFrom     int
	YearTo       int
	IncludeAdult bool
	Limit        int
	Offset       int
}

// MovieRepository defines persistence access for the movie catalog. Results
// are always ordered by popularity descending.
type MovieRepository interface {
	Create(ctx context.Context, movie *domain.Movie) error
	Update(ctx context.Context, movie *domain.Movie) error
	GetByID(ctx context.Context, id int64) (*domain.Movie, error)
	Search(ctx context.Context, filter MovieFilter) ([]domain.Movie, error)
	Popular(ctx context.Context, limit, offset int) ([]domain.Movie, error)
	Trending(ctx context.Context, limit int) ([]domain.Movie, error)
	ByGenre(ctx context.Context, genre string, limit int) ([]domain.Movie, error)
	ByDirector(ctx context.Context, director string, limit int) ([]domain.Movie, error)
	SimilarTo(ctx context.Context, movie *domain.Movie, limit int) ([]domain.Movie, error)
}

type movieRepository struct {
	pool *pgxpool.Pool
}

// NewMovieRepository returns a Postgres-backed implementation.
func NewMovieRepository(pool *pgxpool.Pool) MovieRepository {
	return &movieRepository{pool: pool}
}

const movieColumns = `
        id, title, original_title, overview, tagline,
        release_date, runtime,
        vote_average, vote_count, popularity,
        budget, revenue, status, original_language,
        genres, production_companies, production_countries, director, movie_cast,
        adult, video, created_at, updated_at`

func (r *movieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	const query = `
        INSERT INTO movies (
            title, original_title, overview, tagline,
            release_date, runtime,
            vote_average, vote_count, popularity,
            budget, revenue, status, original_language,
            genres, production_companies, production_countries, director, movie_cast,
            adult, video)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
                $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		movie.Title,
		movie.OriginalTitle,
		movie.Overview,
		movie.Tagline,
		movie.ReleaseDate,
		movie.Runtime,
		movie.VoteAverage,
		movie.VoteCount,
		movie.Popularity,
		movie.Budget,
		movie.Revenue,
		movie.Status,
		movie.OriginalLanguage,
		movie.Genres,
		movie.ProductionCompanies,
		movie.ProductionCountries,
		movie.Director,
		movie.Cast,
		movie.Adult,
		movie.Video,
	).Scan(&movie.ID, &movie.CreatedAt, &movie.UpdatedAt)
}

func (r *movieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	const query = `
        UPDATE movies SET
            title=$1, original_title=$2, overview=$3, tagline=$4,
            release_date=$5, runtime=$6,
            vote_average=$7, vote_count=$8, popularity=$9,
            budget=$10, revenue=$11, status=$12, original_language=$13,
            genres=$14, production_companies=$15, production_countries=$16,
            director=$17, movie_cast=$18, adult=$19, video=$20, updated_at=NOW()
        WHERE id=$21`

	cmd, err := r.pool.Exec(ctx, query,
		movie.Title,
		movie.OriginalTitle,
		movie.Overview,
		movie.Tagline,
		movie.ReleaseDate,
		movie.Runtime,
		movie.VoteAverage,
		movie.VoteCount,
		movie.Popularity,
		movie.Budget,
		movie.Revenue,
		movie.Status,
		movie.OriginalLanguage,
		movie.Genres,
		movie.ProductionCompanies,
		movie.ProductionCountries,
		movie.Director,
		movie.Cast,
		movie.Adult,
		movie.Video,
		movie.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *movieRepository) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id=$1`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	movies, err := scanMovies(rows)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &movies[0], nil
}

func (r *movieRepository) Search(ctx context.Context, filter MovieFilter) ([]domain.Movie, error) {
	conditions := make([]string, 0, 8)
	args := make([]any, 0, 8)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Query != "" {
		term := arg("%" + filter.Query + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE %[1]s OR overview ILIKE %[1]s OR movie_cast ILIKE %[1]s OR director ILIKE %[1]s)", term))
	}
	for _, genre := range filter.Genres {
		genre = strings.TrimSpace(genre)
		if genre == "" {
			continue
		}
		conditions = append(conditions, "genres ILIKE "+arg("%"+genre+"%"))
	}
	if filter.MinRating != nil {
		conditions = append(conditions, "vote_average >= "+arg(*filter.MinRating))
	}
	if filter.MaxRuntime != nil {
		conditions = append(conditions, "runtime <= "+arg(*filter.MaxRuntime))
	}
	if filter.YearFrom > 0 {
		conditions = append(conditions, "release_date >= "+arg(fmt.Sprintf("%04d-01-01", filter.YearFrom)))
	}
	if filter.YearTo > 0 {
		conditions = append(conditions, "release_date <= "+arg(fmt.Sprintf("%04d-12-31", filter.YearTo)))
	}
	if !filter.IncludeAdult {
		conditions = append(conditions, "adult = FALSE")
	}

	query := `SELECT ` + movieColumns + ` FROM movies`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY popularity DESC"
	query += " LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanMovies(rows)
}

func (r *movieRepository) Popular(ctx context.Context, limit, offset int) ([]domain.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies
        WHERE adult = FALSE
        ORDER BY popularity DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanMovies(rows)
}

func (r *movieRepository) Trending(ctx context.Context, limit int) ([]domain.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies
        WHERE adult = FALSE AND release_date IS NOT NULL AND popularity > 10
        ORDER BY popularity DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return scanMovies(rows)
}

func (r *movieRepository) ByGenre(ctx context.Context, genre string, limit int) ([]domain.Movie, error) {
	// Minimum vote count keeps low-signal titles out of recommendations.
	query := `SELECT ` + movieColumns + ` FROM movies
        WHERE genres ILIKE $1 AND adult = FALSE AND vote_count >= 100
        ORDER BY popularity DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, "%"+genre+"%", limit)
	if err != nil {
		return nil, err
	}
	return scanMovies(rows)
}

func (r *movieRepository) ByDirector(ctx context.Context, director string, limit int) ([]domain.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies
        WHERE director ILIKE $1 AND adult = FALSE
        ORDER BY popularity DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, "%"+director+"%", limit)
	if err != nil {
		return nil, err
	}
	return scanMovies(rows)
}

func (r *movieRepository) SimilarTo(ctx context.Context, movie *domain.Movie, limit int) ([]domain.Movie, error) {
	genres := movie.GenreList()
	if len(genres) > 3 {
		genres = genres[:3]
	}
	if len(genres) == 0 {
		return nil, nil
	}

	args := []any{movie.ID}
	genreConds := make([]string, 0, len(genres))
	for _, genre := range genres {
		args = append(args, "%"+genre+"%")
		genreConds = append(genreConds, fmt.Sprintf("genres ILIKE $%d", len(args)))
	}
	args = append(args, limit)

	query := `SELECT ` + movieColumns + ` FROM movies
        WHERE (` + strings.Join(genreConds, " OR ") + `) AND id != $1 AND adult = FALSE
        ORDER BY popularity DESC LIMIT ` + fmt.Sprintf("$%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanMovies(rows)
}

func scanMovies(rows pgx.Rows) ([]domain.Movie, error) {
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(
			&m.ID,
			&m.Title,
			&m.OriginalTitle,
			&m.Overview,
			&m.Tagline,
			&m.ReleaseDate,
			&m.Runtime,
			&m.VoteAverage,
			&m.VoteCount,
			&m.Popularity,
			&m.Budget,
			&m.Revenue,
			&m.Status,
			&m.OriginalLanguage,
			&m.Genres,
			&m.ProductionCompanies,
			&m.ProductionCountries,
			&m.Director,
			&m.Cast,
			&m.Adult,
			&m.Video,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}
