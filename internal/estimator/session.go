package estimator

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/permit-odds/internal/logger"
	"github.com/yourusername/permit-odds/internal/models"
	"github.com/yourusername/permit-odds/internal/repository"
)

// Session is one open data year: its store connection and core zone id.
// A session belongs to a single call path and is closed when it ends.
type Session struct {
	repo       repository.WinsRepository
	year       int
	coreZoneID int64
	search     *NeighborSearch
	logger     *logger.EstimationLogger
}

// NewSession wraps an open repository for one data year
func NewSession(repo repository.WinsRepository, year int, coreZoneID int64, search *NeighborSearch, log *logger.EstimationLogger) *Session {
	if search == nil {
		search = NewNeighborSearch(DefaultNeighborConfig())
	}
	return &Session{
		repo:       repo,
		year:       year,
		coreZoneID: coreZoneID,
		search:     search,
		logger:     log,
	}
}

// Year returns the session's data year
func (s *Session) Year() int {
	return s.year
}

// CoreZoneID returns the data year's core zone id
func (s *Session) CoreZoneID() int64 {
	return s.coreZoneID
}

// Close releases the store connection
func (s *Session) Close() error {
	return s.repo.Close()
}

// ResolveSlot resolves a choice's zone and a comparable date to store ids.
func (s *Session) ResolveSlot(ctx context.Context, c models.Choice, compDate string) (models.Slot, error) {
	zoneID, err := s.repo.ResolveZone(ctx, c.Zone)
	if err != nil {
		return models.Slot{}, err
	}
	dateID, err := s.repo.ResolveDate(ctx, compDate)
	if err != nil {
		return models.Slot{}, err
	}
	return models.Slot{ZoneID: zoneID, DateID: dateID, GroupSize: c.GroupSize}, nil
}

// CoreOdds estimates the core zone's single-choice odds at a date and group size.
func (s *Session) CoreOdds(ctx context.Context, dateID int64, groupSize int) (float64, error) {
	odds, _, err := s.coreOdds(ctx, dateID, groupSize)
	return odds, err
}

func (s *Session) coreOdds(ctx context.Context, dateID int64, groupSize int) (float64, bool, error) {
	records, err := s.repo.FetchCoreSingle(ctx, s.coreZoneID, dateID)
	if err != nil {
		return 0, false, err
	}
	odds, err := CoreOdds(records, groupSize)
	if err != nil {
		return 0, false, err
	}
	for _, r := range records {
		if r.GroupSize == groupSize {
			return odds, true, nil
		}
	}
	return odds, false, nil
}

// SingleChoiceOdds returns a slot's odds as a first choice: the core curve
// for the core zone, the exact single-choice record otherwise.
func (s *Session) SingleChoiceOdds(ctx context.Context, slot models.Slot) (float64, error) {
	odds, _, err := s.singleChoice(ctx, slot)
	return odds, err
}

func (s *Session) singleChoice(ctx context.Context, slot models.Slot) (float64, bool, error) {
	if slot.ZoneID == s.coreZoneID {
		return s.coreOdds(ctx, slot.DateID, slot.GroupSize)
	}
	odds, err := s.exact(ctx, slot)
	if err != nil {
		return 0, false, err
	}
	return odds, true, nil
}

// exact returns the odds of a choice set only when exactly one record matches.
func (s *Session) exact(ctx context.Context, slots ...models.Slot) (float64, error) {
	odds, err := s.repo.FindExact(ctx, slots, s.coreZoneID)
	if err != nil {
		return 0, err
	}
	if len(odds) != 1 {
		return 0, fmt.Errorf("%d-choice set matched %d records in %d: %w", len(slots), len(odds), s.year, models.ErrNoRecord)
	}
	return odds[0], nil
}

func isMiss(err error) bool {
	return errors.Is(err, models.ErrNoRecord)
}

// SecondChoiceOdds returns the odds of second given first ranked ahead of it.
// The exact 2-choice record is used when there is one; otherwise the set is
// estimated from neighbors near (firstOdds, second's own first-choice odds).
// The boolean reports an exact record.
func (s *Session) SecondChoiceOdds(ctx context.Context, first, second models.Slot, firstOdds float64) (float64, bool, error) {
	if odds, err := s.exact(ctx, first, second); err == nil {
		return odds, true, nil
	} else if !isMiss(err) {
		return 0, false, err
	}

	asFirst, err := s.SingleChoiceOdds(ctx, second)
	if err != nil {
		return 0, false, fmt.Errorf("second choice as first: %w", err)
	}

	res, err := s.search.Search(ctx, []float64{firstOdds, asFirst}, secondChoiceTolerances,
		func(ctx context.Context, w []models.Window) ([]models.Candidate, error) {
			return s.repo.FindSecondChoiceCandidates(ctx, w[0], w[1])
		})
	s.logSearch(2, res, err)
	if err != nil {
		return 0, false, err
	}
	return res.Odds, false, nil
}

// ThirdChoiceOdds returns the odds of third given first and second ranked
// ahead of it, searching near (firstOdds, secondOdds, third's own
// first-choice odds) when no exact 3-choice record exists.
func (s *Session) ThirdChoiceOdds(ctx context.Context, first, second, third models.Slot, firstOdds, secondOdds float64) (float64, bool, error) {
	if odds, err := s.exact(ctx, first, second, third); err == nil {
		return odds, true, nil
	} else if !isMiss(err) {
		return 0, false, err
	}

	asFirst, err := s.SingleChoiceOdds(ctx, third)
	if err != nil {
		return 0, false, fmt.Errorf("third choice as first: %w", err)
	}

	res, err := s.search.Search(ctx, []float64{firstOdds, secondOdds, asFirst}, thirdChoiceTolerances,
		func(ctx context.Context, w []models.Window) ([]models.Candidate, error) {
			return s.repo.FindThirdChoiceCandidates(ctx, w[0], w[1], w[2])
		})
	s.logSearch(3, res, err)
	if err != nil {
		return 0, false, err
	}
	return res.Odds, false, nil
}

// RankedOdds chains the per-rank estimates of an ordered choice set.
func (s *Session) RankedOdds(ctx context.Context, slots []models.Slot) (*models.RankedOdds, error) {
	if len(slots) < 1 || len(slots) > models.MaxChoices {
		return nil, fmt.Errorf("ranked choice set must have 1..%d choices, got %d", models.MaxChoices, len(slots))
	}

	out := &models.RankedOdds{Year: s.year}

	first, exact, err := s.singleChoice(ctx, slots[0])
	if err != nil {
		return nil, fmt.Errorf("first choice: %w", err)
	}
	out.Odds = append(out.Odds, first)
	out.Exact = append(out.Exact, exact)
	if len(slots) == 1 {
		return out, nil
	}

	second, exact, err := s.SecondChoiceOdds(ctx, slots[0], slots[1], first)
	if err != nil {
		return nil, fmt.Errorf("second choice: %w", err)
	}
	out.Odds = append(out.Odds, second)
	out.Exact = append(out.Exact, exact)
	if len(slots) == 2 {
		return out, nil
	}

	third, exact, err := s.ThirdChoiceOdds(ctx, slots[0], slots[1], slots[2], first, second)
	if err != nil {
		return nil, fmt.Errorf("third choice: %w", err)
	}
	out.Odds = append(out.Odds, third)
	out.Exact = append(out.Exact, exact)
	return out, nil
}

func (s *Session) logSearch(rank int, res NeighborResult, err error) {
	if s.logger == nil {
		return
	}
	if err != nil {
		s.logger.LogNeighborSearch(rank, s.search.Config().MaxRounds, 0, SearchNoMatch, 0)
		return
	}
	s.logger.LogNeighborSearch(rank, res.Rounds, res.Candidates, res.Kind, res.Odds)
}
