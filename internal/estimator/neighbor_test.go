package estimator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/permit-odds/internal/models"
)

// scriptedQuery returns one canned result per round and records the windows it saw.
type scriptedQuery struct {
	rounds  [][]models.Candidate
	windows [][]models.Window
}

func (q *scriptedQuery) query(_ context.Context, w []models.Window) ([]models.Candidate, error) {
	q.windows = append(q.windows, append([]models.Window(nil), w...))
	i := len(q.windows) - 1
	if i >= len(q.rounds) {
		return q.rounds[len(q.rounds)-1], nil
	}
	return q.rounds[i], nil
}

func candidates(n int, odds float64) []models.Candidate {
	out := make([]models.Candidate, n)
	for i := range out {
		out[i] = models.Candidate{Legs: []float64{0.4, 0.5}, AvgOdds: odds}
	}
	return out
}

func TestNeighborSearchSingleMatch(t *testing.T) {
	q := &scriptedQuery{rounds: [][]models.Candidate{candidates(1, 0.33)}}

	res, err := NewNeighborSearch(DefaultNeighborConfig()).Search(context.Background(), []float64{0.4, 0.5}, secondChoiceTolerances, q.query)
	require.NoError(t, err)
	assert.Equal(t, NeighborResult{Odds: 0.33, Rounds: 1, Candidates: 1, Kind: SearchSingle}, res)
	assert.Equal(t, []models.Window{models.Around(0.4, 0.02), models.Around(0.5, 0.01)}, q.windows[0])
}

func TestNeighborSearchTiebreakPicksFirstClosest(t *testing.T) {
	set := []models.Candidate{
		{Legs: []float64{0.41, 0.50}, AvgOdds: 0.10},
		{Legs: []float64{0.40, 0.50}, AvgOdds: 0.20},
		{Legs: []float64{0.40, 0.50}, AvgOdds: 0.30},
		{Legs: []float64{0.40, 0.51}, AvgOdds: 0.40},
	}
	search := NewNeighborSearch(DefaultNeighborConfig())

	for i := 0; i < 3; i++ {
		q := &scriptedQuery{rounds: [][]models.Candidate{set}}
		res, err := search.Search(context.Background(), []float64{0.4, 0.5}, secondChoiceTolerances, q.query)
		require.NoError(t, err)
		assert.Equal(t, 0.20, res.Odds)
		assert.Equal(t, SearchTiebreak, res.Kind)
		assert.Equal(t, 4, res.Candidates)
	}
}

func TestNeighborSearchWidensOnEmpty(t *testing.T) {
	q := &scriptedQuery{rounds: [][]models.Candidate{nil, nil, candidates(1, 0.12)}}

	res, err := NewNeighborSearch(DefaultNeighborConfig()).Search(context.Background(), []float64{0.4, 0.5}, secondChoiceTolerances, q.query)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rounds)

	require.Len(t, q.windows, 3)
	assert.InDelta(t, 0.4-0.02*1.5*1.5, q.windows[2][0].Low, 1e-12)
	assert.InDelta(t, 0.5+0.01*1.5*1.5, q.windows[2][1].High, 1e-12)
}

func TestNeighborSearchShrinksOnTooMany(t *testing.T) {
	q := &scriptedQuery{rounds: [][]models.Candidate{candidates(31, 0.5), candidates(1, 0.25)}}

	res, err := NewNeighborSearch(DefaultNeighborConfig()).Search(context.Background(), []float64{0.4, 0.5}, secondChoiceTolerances, q.query)
	require.NoError(t, err)
	assert.Equal(t, 0.25, res.Odds)
	assert.Equal(t, 2, res.Rounds)
	assert.InDelta(t, 0.4-0.01, q.windows[1][0].Low, 1e-12)
	assert.InDelta(t, 0.5+0.005, q.windows[1][1].High, 1e-12)
}

func TestNeighborSearchFallsBackToSmallestSet(t *testing.T) {
	big := candidates(40, 0.5)
	smaller := append(candidates(34, 0.2), candidates(1, 0.9)...)
	q := &scriptedQuery{rounds: [][]models.Candidate{big, smaller, nil, big}}

	res, err := NewNeighborSearch(DefaultNeighborConfig()).Search(context.Background(), []float64{0.4, 0.5}, secondChoiceTolerances, q.query)
	require.NoError(t, err)
	assert.Equal(t, SearchFallback, res.Kind)
	assert.Equal(t, 10, res.Rounds)
	assert.Equal(t, 35, res.Candidates)
	assert.InDelta(t, (34*0.2+0.9)/35, res.Odds, 1e-12)
	assert.Len(t, q.windows, 10)
}

func TestNeighborSearchNoMatch(t *testing.T) {
	q := &scriptedQuery{rounds: [][]models.Candidate{nil}}

	_, err := NewNeighborSearch(DefaultNeighborConfig()).Search(context.Background(), []float64{0.1, 0.2, 0.3}, thirdChoiceTolerances, q.query)
	assert.ErrorIs(t, err, models.ErrNoMatch)
	assert.Len(t, q.windows, 10)
}

func TestNeighborSearchQueryError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewNeighborSearch(DefaultNeighborConfig()).Search(context.Background(), []float64{0.4, 0.5}, secondChoiceTolerances,
		func(context.Context, []models.Window) ([]models.Candidate, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestNeighborSearchRejectsMismatchedTolerances(t *testing.T) {
	q := &scriptedQuery{rounds: [][]models.Candidate{nil}}
	_, err := NewNeighborSearch(DefaultNeighborConfig()).Search(context.Background(), []float64{0.4}, secondChoiceTolerances, q.query)
	assert.Error(t, err)
	assert.Empty(t, q.windows)
}

func TestNeighborSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := &scriptedQuery{rounds: [][]models.Candidate{nil}}
	_, err := NewNeighborSearch(DefaultNeighborConfig()).Search(ctx, []float64{0.4, 0.5}, secondChoiceTolerances, q.query)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, q.windows)
}

func TestNeighborSearchDoesNotMutateTolerances(t *testing.T) {
	moes := []float64{0.02, 0.01}
	q := &scriptedQuery{rounds: [][]models.Candidate{nil}}
	_, _ = NewNeighborSearch(DefaultNeighborConfig()).Search(context.Background(), []float64{0.4, 0.5}, moes, q.query)
	assert.Equal(t, []float64{0.02, 0.01}, moes)
}
