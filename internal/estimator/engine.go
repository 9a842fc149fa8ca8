package estimator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/permit-odds/internal/cache"
	"github.com/yourusername/permit-odds/internal/logger"
	"github.com/yourusername/permit-odds/internal/metrics"
	"github.com/yourusername/permit-odds/internal/models"
	"github.com/yourusername/permit-odds/internal/repository"
)

// Year lookup outcomes, used as metric labels and log fields.
const (
	OutcomeOK               = "ok"
	OutcomeStoreUnavailable = "store_unavailable"
	OutcomeNotFound         = "not_found"
	OutcomeNoData           = "no_data"
	OutcomeNoRecord         = "no_record"
	OutcomeNoMatch          = "no_match"
	OutcomeInvalidDate      = "invalid_date"
	OutcomeError            = "error"
)

// Engine turns requested choices into per-year odds estimates.
type Engine struct {
	provider  repository.Provider
	coreZones CoreZones
	search    *NeighborSearch
	cache     *cache.EstimateCache
	logger    *logger.EstimationLogger
}

// Option configures optional engine collaborators
type Option func(*Engine)

// WithCache serves repeated requests from an in-memory result cache.
func WithCache(c *cache.EstimateCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithNeighborSearch overrides the default neighbor search bounds.
func WithNeighborSearch(s *NeighborSearch) Option {
	return func(e *Engine) {
		if s != nil {
			e.search = s
		}
	}
}

// NewEngine creates a new estimation engine
func NewEngine(provider repository.Provider, coreZones CoreZones, log *logrus.Logger, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("repository provider is required")
	}
	if log == nil {
		log = logrus.New()
	}

	e := &Engine{
		provider:  provider,
		coreZones: coreZones,
		search:    NewNeighborSearch(DefaultNeighborConfig()),
		logger:    logger.NewEstimationLogger(log),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// OpenSession opens the record store for a data year. The caller must Close it.
func (e *Engine) OpenSession(ctx context.Context, year int) (*Session, error) {
	repo, err := e.provider.Open(ctx, year)
	if err != nil {
		return nil, err
	}
	return NewSession(repo, year, e.coreZones.For(year), e.search, e.logger), nil
}

// EstimateOddsForChoiceSet estimates each choice independently as a first
// choice in every data year.
func (e *Engine) EstimateOddsForChoiceSet(ctx context.Context, permitYear int, choices []models.Choice, dataYears []int) *models.EstimateResult {
	return e.Estimate(ctx, models.EstimateRequest{PermitYear: permitYear, Choices: choices, DataYears: dataYears})
}

// Estimate always returns a fully shaped result. A failed (choice, year)
// lookup yields 0.0 for that pair only.
func (e *Engine) Estimate(ctx context.Context, req models.EstimateRequest) *models.EstimateResult {
	start := time.Now()
	log := e.logger.WithRequest(uuid.New().String())
	log.LogEstimateStarted(req.PermitYear, len(req.Choices), req.DataYears)

	var key cache.Key
	if e.cache != nil {
		key = cache.KeyFor(req)
		if cached, ok := e.cache.Get(key); ok {
			log.LogEstimateCompleted(len(req.Choices), 0, 0, msSince(start), true)
			return cached
		}
	}

	result := &models.EstimateResult{
		Years:   append([]int{}, req.DataYears...),
		Choices: make([]models.ChoiceResult, 0, len(req.Choices)),
	}

	var lookups, failures int
	for i, c := range req.Choices {
		cr := models.ChoiceResult{
			Index:           i + 1,
			Zone:            c.Zone,
			Month:           c.Month,
			Day:             c.Day,
			GroupSize:       c.GroupSize,
			DisplayDate:     c.DisplayDate(req.PermitYear),
			OddsByYear:      make(map[int]float64, len(req.DataYears)),
			CompDatesByYear: make(map[int]*string, len(req.DataYears)),
		}

		if c.IsMalformed() {
			for _, year := range req.DataYears {
				cr.OddsByYear[year] = 0
				cr.CompDatesByYear[year] = nil
			}
			result.Choices = append(result.Choices, cr)
			continue
		}

		for _, year := range req.DataYears {
			lookups++
			odds, compDate, core, err := e.estimateYear(ctx, c, req.PermitYear, year)
			outcome := lookupOutcome(err)
			if err != nil {
				failures++
				odds = 0
				log.LogYearFailure(cr.Index, year, c.Zone, outcome, err)
			} else {
				log.LogYearLookup(cr.Index, year, c.Zone, derefDate(compDate), core, odds)
			}
			metrics.RecordYearLookup(outcome)
			cr.OddsByYear[year] = odds
			cr.CompDatesByYear[year] = compDate
		}
		result.Choices = append(result.Choices, cr)
	}

	if e.cache != nil {
		e.cache.Set(key, result)
	}

	metrics.RecordEstimate(time.Since(start).Seconds())
	log.LogEstimateCompleted(len(req.Choices), lookups, failures, msSince(start), false)
	return result
}

// estimateYear computes one choice's first-choice odds in one data year.
// compDate is set as soon as it is known and survives later failures.
func (e *Engine) estimateYear(ctx context.Context, c models.Choice, permitYear, year int) (odds float64, compDate *string, core bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			odds = 0
			err = fmt.Errorf("lookup for %d panicked: %v", year, r)
		}
	}()

	sess, err := e.OpenSession(ctx, year)
	if err != nil {
		return 0, nil, false, err
	}
	defer sess.Close()

	permit, err := PermitDate(permitYear, c.Month, c.Day)
	if err != nil {
		return 0, nil, false, err
	}
	date := FormatDate(ComparableDate(permit, year))
	compDate = &date

	slot, err := sess.ResolveSlot(ctx, c, date)
	if err != nil {
		return 0, compDate, false, err
	}
	core = slot.ZoneID == sess.CoreZoneID()

	odds, err = sess.SingleChoiceOdds(ctx, slot)
	return odds, compDate, core, err
}

// RankedOdds chains an ordered choice set through one data year: first
// choice odds, then second and third given the choices ranked ahead.
func (e *Engine) RankedOdds(ctx context.Context, permitYear, dataYear int, choices []models.Choice) (*models.RankedOdds, error) {
	if len(choices) < 1 || len(choices) > models.MaxChoices {
		return nil, fmt.Errorf("ranked choice set must have 1..%d choices, got %d", models.MaxChoices, len(choices))
	}
	for i, c := range choices {
		if c.IsMalformed() {
			return nil, fmt.Errorf("choice %d is malformed: zone %q month %d day %d", i+1, c.Zone, c.Month, c.Day)
		}
	}

	log := e.logger.WithRequest(uuid.New().String())
	sess, err := e.OpenSession(ctx, dataYear)
	if err != nil {
		return nil, err
	}
	defer sess.Close()
	sess.logger = log

	slots := make([]models.Slot, len(choices))
	for i, c := range choices {
		permit, err := PermitDate(permitYear, c.Month, c.Day)
		if err != nil {
			return nil, fmt.Errorf("choice %d: %w", i+1, err)
		}
		slots[i], err = sess.ResolveSlot(ctx, c, FormatDate(ComparableDate(permit, dataYear)))
		if err != nil {
			return nil, fmt.Errorf("choice %d: %w", i+1, err)
		}
	}

	return sess.RankedOdds(ctx, slots)
}

func lookupOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, models.ErrStoreUnavailable):
		return OutcomeStoreUnavailable
	case errors.Is(err, models.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, models.ErrNoData):
		return OutcomeNoData
	case errors.Is(err, models.ErrNoRecord):
		return OutcomeNoRecord
	case errors.Is(err, models.ErrNoMatch):
		return OutcomeNoMatch
	case errors.Is(err, models.ErrInvalidDate):
		return OutcomeInvalidDate
	default:
		return OutcomeError
	}
}

func derefDate(d *string) string {
	if d == nil {
		return ""
	}
	return *d
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
