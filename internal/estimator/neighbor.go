package estimator

import (
	"context"
	"fmt"
	"math"

	"github.com/yourusername/permit-odds/internal/config"
	"github.com/yourusername/permit-odds/internal/metrics"
	"github.com/yourusername/permit-odds/internal/models"
)

// How a neighbor search resolved.
const (
	SearchSingle   = "single"
	SearchTiebreak = "tiebreak"
	SearchFallback = "fallback"
	SearchNoMatch  = "no_match"
)

// Initial tolerances. Second choice: (first choice odds, second as first).
// Third choice: (first choice odds, first+second set odds, third as first).
var (
	secondChoiceTolerances = []float64{0.02, 0.01}
	thirdChoiceTolerances  = []float64{0.01, 0.01, 0.01}
)

// NeighborConfig bounds the adaptive tolerance search
type NeighborConfig struct {
	MaxRounds     int
	MaxCandidates int
	ShrinkFactor  float64
	WidenFactor   float64
	DistanceScale float64
}

// DefaultNeighborConfig returns the standard search bounds
func DefaultNeighborConfig() NeighborConfig {
	return NeighborConfig{
		MaxRounds:     10,
		MaxCandidates: 30,
		ShrinkFactor:  0.5,
		WidenFactor:   1.5,
		DistanceScale: 1000,
	}
}

// NeighborConfigFrom converts loaded estimation settings
func NeighborConfigFrom(cfg *config.EstimationConfig) NeighborConfig {
	if cfg == nil {
		return DefaultNeighborConfig()
	}
	return NeighborConfig{
		MaxRounds:     cfg.MaxRounds,
		MaxCandidates: cfg.MaxCandidates,
		ShrinkFactor:  cfg.ShrinkFactor,
		WidenFactor:   cfg.WidenFactor,
		DistanceScale: cfg.DistanceScale,
	}
}

// CandidateQuery returns historical choice sets whose legs fall inside
// windows, one window per target dimension, in a stable order.
type CandidateQuery func(ctx context.Context, windows []models.Window) ([]models.Candidate, error)

// NeighborResult is an accepted neighbor search estimate.
type NeighborResult struct {
	Odds       float64
	Rounds     int
	Candidates int
	Kind       string
}

// NeighborSearch estimates missing choice-set odds from historically similar sets.
type NeighborSearch struct {
	config NeighborConfig
}

// NewNeighborSearch creates a search with the given bounds
func NewNeighborSearch(cfg NeighborConfig) *NeighborSearch {
	return &NeighborSearch{config: cfg}
}

// Config returns the search bounds
func (s *NeighborSearch) Config() NeighborConfig {
	return s.config
}

// Search runs up to MaxRounds tolerance rounds around targets. One candidate
// is accepted outright; up to MaxCandidates are decided by squared distance;
// more shrinks every tolerance, none widens them. If no round is accepted the
// mean of the smallest non-empty candidate set is returned.
func (s *NeighborSearch) Search(ctx context.Context, targets, tolerances []float64, query CandidateQuery) (NeighborResult, error) {
	if len(targets) == 0 || len(targets) != len(tolerances) {
		return NeighborResult{}, fmt.Errorf("neighbor search needs one tolerance per target, got %d and %d", len(targets), len(tolerances))
	}

	moes := append([]float64(nil), tolerances...)
	windows := make([]models.Window, len(targets))
	var smallest []models.Candidate

	for round := 1; round <= s.config.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return NeighborResult{}, err
		}
		for i, t := range targets {
			windows[i] = models.Around(t, moes[i])
		}

		candidates, err := query(ctx, windows)
		if err != nil {
			return NeighborResult{}, fmt.Errorf("neighbor search round %d: %w", round, err)
		}
		if len(candidates) > 0 && (smallest == nil || len(candidates) < len(smallest)) {
			smallest = candidates
		}

		switch n := len(candidates); {
		case n == 1:
			return s.accept(NeighborResult{Odds: candidates[0].AvgOdds, Rounds: round, Candidates: 1, Kind: SearchSingle}), nil
		case n > 1 && n <= s.config.MaxCandidates:
			best := s.closest(targets, candidates)
			return s.accept(NeighborResult{Odds: best.AvgOdds, Rounds: round, Candidates: n, Kind: SearchTiebreak}), nil
		case n > s.config.MaxCandidates:
			scaleAll(moes, s.config.ShrinkFactor)
		default:
			scaleAll(moes, s.config.WidenFactor)
		}
	}

	if smallest == nil {
		metrics.RecordNeighborSearch(SearchNoMatch, s.config.MaxRounds)
		return NeighborResult{}, fmt.Errorf("after %d rounds: %w", s.config.MaxRounds, models.ErrNoMatch)
	}

	var sum float64
	for _, c := range smallest {
		sum += c.AvgOdds
	}
	return s.accept(NeighborResult{
		Odds:       sum / float64(len(smallest)),
		Rounds:     s.config.MaxRounds,
		Candidates: len(smallest),
		Kind:       SearchFallback,
	}), nil
}

func (s *NeighborSearch) accept(r NeighborResult) NeighborResult {
	metrics.RecordNeighborSearch(r.Kind, r.Rounds)
	return r
}

// closest returns the first candidate with the lowest distance to targets.
func (s *NeighborSearch) closest(targets []float64, candidates []models.Candidate) models.Candidate {
	best := candidates[0]
	bestDist := s.distance(targets, best)
	for _, c := range candidates[1:] {
		if d := s.distance(targets, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// distance is the rounded sum of squared scaled leg differences.
func (s *NeighborSearch) distance(targets []float64, c models.Candidate) float64 {
	var sum float64
	for i, t := range targets {
		if i >= len(c.Legs) {
			break
		}
		d := (t - c.Legs[i]) * s.config.DistanceScale
		sum += d * d
	}
	return math.Round(sum)
}

func scaleAll(values []float64, factor float64) {
	for i := range values {
		values[i] *= factor
	}
}
