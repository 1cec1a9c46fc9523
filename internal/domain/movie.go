package domain

import (
	"strings"
	"time"
)

// Movie is the domain model for catalog entries.
type Movie struct {
	ID            int64
	Title         string
	OriginalTitle string
	Overview      string
	Tagline       string

	ReleaseDate *time.Time
	Runtime     *int

	VoteAverage float64
	VoteCount   int
	Popularity  float64

	Budget  int64
	Revenue int64

	Status           string
	OriginalLanguage string

	// Comma-separated lists, mirroring the catalog import format.
	Genres              string
	ProductionCompanies string
	ProductionCountries string
	Director            string
	Cast                string

	Adult bool
	Video bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GenreList splits the comma-separated genres field into trimmed names.
func (m *Movie) GenreList() []string {
	if m.Genres == "" {
		return nil
	}
	parts := strings.Split(m.Genres, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}
