// Package recommend computes popularity-derived scores used to rank and
// annotate candidate movies. Scoring never decides inclusion, only ordering
// and the displayed score.
package recommend

import (
	"time"

	"github.com/spec-kit/movierec-service/internal/domain"
)

// Recommendation is a candidate movie annotated with its score and the
// rationale for surfacing it. Ephemeral, recomputed per request.
type Recommendation struct {
	Movie  domain.Movie
	Score  float64
	Reason string
}

// Score derives a ranking score from a movie's rating, recency and financial
// attributes. Absent inputs default to neutral values; there are no error
// conditions.
func Score(m domain.Movie, now time.Time) float64 {
	base := m.Popularity

	voteWeight := float64(m.VoteCount) / 1000
	if voteWeight > 1 {
		voteWeight = 1
	}
	voteComponent := m.VoteAverage * voteWeight

	recencyBonus := 0.5
	if m.ReleaseDate != nil {
		yearsOld := now.Sub(*m.ReleaseDate).Hours() / 24 / 365
		recencyBonus = 1 - yearsOld/10
		if recencyBonus < 0 {
			recencyBonus = 0
		}
	}

	financialBonus := 0.0
	if m.Budget > 0 && m.Revenue > 0 {
		roi := float64(m.Revenue-m.Budget) / float64(m.Budget)
		financialBonus = roi / 10
		if financialBonus > 1 {
			financialBonus = 1
		}
	}

	return base + voteComponent + recencyBonus*0.5 + financialBonus*0.3
}

// Rank annotates movies with scores and a shared reason, ordered as given.
func Rank(movies []domain.Movie, reason string, now time.Time) []Recommendation {
	recs := make([]Recommendation, 0, len(movies))
	for _, m := range movies {
		recs = append(recs, Recommendation{Movie: m, Score: Score(m, now), Reason: reason})
	}
	return recs
}
