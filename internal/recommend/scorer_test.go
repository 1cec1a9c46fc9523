package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/movierec-service/internal/domain"
)

func TestScore_NoReleaseDateExactValue(t *testing.T) {
	m := domain.Movie{
		Popularity:  12.5,
		VoteAverage: 8.0,
		VoteCount:   500,
	}

	// vote component: 8.0 * (500/1000) = 4.0; recency: 0.5 * 0.5 = 0.25;
	// no financial data.
	got := Score(m, time.Now())
	assert.InDelta(t, 12.5+4.0+0.25, got, 1e-9)
}

func TestScore_VoteCountCappedAtThousand(t *testing.T) {
	now := time.Now()
	m := domain.Movie{VoteAverage: 7.0, VoteCount: 50000}

	assert.InDelta(t, 7.0+0.25, Score(m, now), 1e-9)
}

func TestScore_MonotonicInPopularity(t *testing.T) {
	now := time.Now()
	base := domain.Movie{VoteAverage: 7.0, VoteCount: 800}

	prev := Score(base, now)
	for _, pop := range []float64{0.5, 1, 10, 100} {
		m := base
		m.Popularity = pop
		next := Score(m, now)
		assert.GreaterOrEqual(t, next, prev)
		prev = next
	}
}

func TestScore_MonotonicInVoteAverage(t *testing.T) {
	now := time.Now()
	base := domain.Movie{Popularity: 5, VoteCount: 800}

	prev := Score(base, now)
	for _, avg := range []float64{1, 4, 7, 10} {
		m := base
		m.VoteAverage = avg
		next := Score(m, now)
		assert.GreaterOrEqual(t, next, prev)
		prev = next
	}
}

func TestScore_RecencyDecay(t *testing.T) {
	now := time.Now()

	recent := now.AddDate(-1, 0, 0)
	old := now.AddDate(-9, 0, 0)
	ancient := now.AddDate(-30, 0, 0)

	fresh := domain.Movie{ReleaseDate: &recent}
	aged := domain.Movie{ReleaseDate: &old}
	decayed := domain.Movie{ReleaseDate: &ancient}

	assert.Greater(t, Score(fresh, now), Score(aged, now))
	// Past ten years the bonus bottoms out at zero.
	assert.InDelta(t, 0.0, Score(decayed, now), 1e-9)
}

func TestScore_FinancialBonus(t *testing.T) {
	now := time.Now()

	breakeven := domain.Movie{Budget: 100, Revenue: 100}
	blockbuster := domain.Movie{Budget: 100, Revenue: 100_000}
	unknown := domain.Movie{Budget: 0, Revenue: 100}

	// A 10x-plus return caps the bonus at 1.0 (weighted 0.3).
	assert.InDelta(t, 0.25+0.3, Score(blockbuster, now), 1e-9)
	assert.InDelta(t, 0.25, Score(breakeven, now), 1e-9)
	assert.InDelta(t, 0.25, Score(unknown, now), 1e-9)
}

func TestRank_AnnotatesWithoutFiltering(t *testing.T) {
	movies := []domain.Movie{
		{ID: 1, Title: "First", Popularity: 30},
		{ID: 2, Title: "Second", Popularity: 20},
	}

	recs := Rank(movies, "Popular Action movie with high ratings", time.Now())
	assert.Len(t, recs, len(movies))
	for i, rec := range recs {
		assert.Equal(t, movies[i].ID, rec.Movie.ID)
		assert.Equal(t, "Popular Action movie with high ratings", rec.Reason)
		assert.Greater(t, rec.Score, 0.0)
	}
}
