package dto

import (
	"time"

	"github.com/spec-kit/movierec-service/internal/domain"
	"github.com/spec-kit/movierec-service/internal/recommend"
)

// MovieCreateRequest payload for new catalog entries.
type MovieCreateRequest struct {
	Title               string     `json:"title"`
	OriginalTitle       string     `json:"original_title"`
	Overview            string     `json:"overview"`
	Tagline             string     `json:"tagline"`
	ReleaseDate         *time.Time `json:"release_date"`
	Runtime             *int       `json:"runtime"`
	VoteAverage         float64    `json:"vote_average"`
	VoteCount           int        `json:"vote_count"`
	Popularity          float64    `json:"popularity"`
	Budget              int64      `json:"budget"`
	Revenue             int64      `json:"revenue"`
	Status              string     `json:"status"`
	OriginalLanguage    string     `json:"original_language"`
	Genres              string     `json:"genres"`
	ProductionCompanies string     `json:"production_companies"`
	ProductionCountries string     `json:"production_countries"`
	Director            string     `json:"director"`
	Cast                string     `json:"cast"`
	Adult               bool       `json:"adult"`
	Video               bool       `json:"video"`
}

// ToDomain converts the payload into a domain movie.
func (r MovieCreateRequest) ToDomain() *domain.Movie {
	return &domain.Movie{
		Title:               r.Title,
		OriginalTitle:       r.OriginalTitle,
		Overview:            r.Overview,
		Tagline:             r.Tagline,
		ReleaseDate:         r.ReleaseDate,
		Runtime:             r.Runtime,
		VoteAverage:         r.VoteAverage,
		VoteCount:           r.VoteCount,
		Popularity:          r.Popularity,
		Budget:              r.Budget,
		Revenue:             r.Revenue,
		Status:              r.Status,
		OriginalLanguage:    r.OriginalLanguage,
		Genres:              r.Genres,
		ProductionCompanies: r.ProductionCompanies,
		ProductionCountries: r.ProductionCountries,
		Director:            r.Director,
		Cast:                r.Cast,
		Adult:               r.Adult,
		Video:               r.Video,
	}
}

// MovieUpdateRequest payload for partial catalog updates; nil fields are
// untouched.
type MovieUpdateRequest struct {
	Title               *string    `json:"title"`
	OriginalTitle       *string    `json:"original_title"`
	Overview            *string    `json:"overview"`
	Tagline             *string    `json:"tagline"`
	ReleaseDate         *time.Time `json:"release_date"`
	Runtime             *int       `json:"runtime"`
	VoteAverage         *float64   `json:"vote_average"`
	VoteCount           *int       `json:"vote_count"`
	Popularity          *float64   `json:"popularity"`
	Budget              *int64     `json:"budget"`
	Revenue             *int64     `json:"revenue"`
	Status              *string    `json:"status"`
	OriginalLanguage    *string    `json:"original_language"`
	Genres              *string    `json:"genres"`
	ProductionCompanies *string    `json:"production_companies"`
	ProductionCountries *string    `json:"production_countries"`
	Director            *string    `json:"director"`
	Cast                *string    `json:"cast"`
	Adult               *bool      `json:"adult"`
	Video               *bool      `json:"video"`
}

// Apply copies set fields onto the movie.
func (r MovieUpdateRequest) Apply(m *domain.Movie) {
	if r.Title != nil {
		m.Title = *r.Title
	}
	if r.OriginalTitle != nil {
		m.OriginalTitle = *r.OriginalTitle
	}
	if r.Overview != nil {
		m.Overview = *r.Overview
	}
	if r.Tagline != nil {
		m.Tagline = *r.Tagline
	}
	if r.ReleaseDate != nil {
		m.ReleaseDate = r.ReleaseDate
	}
	if r.Runtime != nil {
		m.Runtime = r.Runtime
	}
	if r.VoteAverage != nil {
		m.VoteAverage = *r.VoteAverage
	}
	if r.VoteCount != nil {
		m.VoteCount = *r.VoteCount
	}
	if r.Popularity != nil {
		m.Popularity = *r.Popularity
	}
	if r.Budget != nil {
		m.Budget = *r.Budget
	}
	if r.Revenue != nil {
		m.Revenue = *r.Revenue
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
	if r.OriginalLanguage != nil {
		m.OriginalLanguage = *r.OriginalLanguage
	}
	if r.Genres != nil {
		m.Genres = *r.Genres
	}
	if r.ProductionCompanies != nil {
		m.ProductionCompanies = *r.ProductionCompanies
	}
	if r.ProductionCountries != nil {
		m.ProductionCountries = *r.ProductionCountries
	}
	if r.Director != nil {
		m.Director = *r.Director
	}
	if r.Cast != nil {
		m.Cast = *r.Cast
	}
	if r.Adult != nil {
		m.Adult = *r.Adult
	}
	if r.Video != nil {
		m.Video = *r.Video
	}
}

// MovieResponse is the external view of a catalog entry.
type MovieResponse struct {
	ID                  int64      `json:"id"`
	Title               string     `json:"title"`
	OriginalTitle       string     `json:"original_title,omitempty"`
	Overview            string     `json:"overview,omitempty"`
	Tagline             string     `json:"tagline,omitempty"`
	ReleaseDate         *time.Time `json:"release_date,omitempty"`
	Runtime             *int       `json:"runtime,omitempty"`
	VoteAverage         float64    `json:"vote_average"`
	VoteCount           int        `json:"vote_count"`
	Popularity          float64    `json:"popularity"`
	Budget              int64      `json:"budget"`
	Revenue             int64      `json:"revenue"`
	Status              string     `json:"status,omitempty"`
	OriginalLanguage    string     `json:"original_language,omitempty"`
	Genres              string     `json:"genres,omitempty"`
	ProductionCompanies string     `json:"production_companies,omitempty"`
	ProductionCountries string     `json:"production_countries,omitempty"`
	Director            string     `json:"director,omitempty"`
	Cast                string     `json:"cast,omitempty"`
	Adult               bool       `json:"adult"`
	Video               bool       `json:"video"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// NewMovieResponse maps a domain movie to its external view.
func NewMovieResponse(m domain.Movie) MovieResponse {
	return MovieResponse{
		ID:                  m.ID,
		Title:               m.Title,
		OriginalTitle:       m.OriginalTitle,
		Overview:            m.Overview,
		Tagline:             m.Tagline,
		ReleaseDate:         m.ReleaseDate,
		Runtime:             m.Runtime,
		VoteAverage:         m.VoteAverage,
		VoteCount:           m.VoteCount,
		Popularity:          m.Popularity,
		Budget:              m.Budget,
		Revenue:             m.Revenue,
		Status:              m.Status,
		OriginalLanguage:    m.OriginalLanguage,
		Genres:              m.Genres,
		ProductionCompanies: m.ProductionCompanies,
		ProductionCountries: m.ProductionCountries,
		Director:            m.Director,
		Cast:                m.Cast,
		Adult:               m.Adult,
		Video:               m.Video,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// NewMovieListResponse maps a slice of domain movies.
func NewMovieListResponse(movies []domain.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, NewMovieResponse(m))
	}
	return out
}

// RecommendationResponse is a scored, annotated candidate.
type RecommendationResponse struct {
	Movie  MovieResponse `json:"movie"`
	Score  float64       `json:"score"`
	Reason string        `json:"reason"`
}

// NewRecommendationListResponse maps scored recommendations.
func NewRecommendationListResponse(recs []recommend.Recommendation) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, RecommendationResponse{
			Movie:  NewMovieResponse(r.Movie),
			Score:  r.Score,
			Reason: r.Reason,
		})
	}
	return out
}
