// Package logger provides estimation-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// EstimationLogger provides dedicated logging for odds estimation.
type EstimationLogger struct {
	*logrus.Entry
}

// NewEstimationLogger creates a new estimation logger.
func NewEstimationLogger(baseLogger *logrus.Logger) *EstimationLogger {
	return &EstimationLogger{
		Entry: baseLogger.WithField("component", "estimator"),
	}
}

// WithRequest scopes the logger to a single estimate request.
func (el *EstimationLogger) WithRequest(requestID string) *EstimationLogger {
	return &EstimationLogger{Entry: el.WithField("request_id", requestID)}
}

// LogEstimateStarted logs the shape of an incoming estimate request.
func (el *EstimationLogger) LogEstimateStarted(permitYear, choices int, dataYears []int) {
	el.WithFields(logrus.Fields{
		"permit_year": permitYear,
		"choices":     choices,
		"data_years":  dataYears,
	}).Debug("Estimate started")
}

// LogYearLookup logs a successful per-year lookup.
func (el *EstimationLogger) LogYearLookup(choiceIndex, year int, zone, compDate string, coreZone bool, odds float64) {
	el.WithFields(logrus.Fields{
		"choice_index": choiceIndex,
		"data_year":    year,
		"zone":         zone,
		"comp_date":    compDate,
		"core_zone":    coreZone,
		"odds":         odds,
	}).Debug("Year lookup completed")
}

// LogYearFailure logs a per-year lookup that was defaulted to zero odds.
func (el *EstimationLogger) LogYearFailure(choiceIndex, year int, zone, outcome string, err error) {
	el.WithFields(logrus.Fields{
		"choice_index": choiceIndex,
		"data_year":    year,
		"zone":         zone,
		"outcome":      outcome,
	}).WithError(err).Info("Year lookup defaulted to zero odds")
}

// LogNeighborSearch logs the outcome of a nearest-neighbor search.
func (el *EstimationLogger) LogNeighborSearch(rank, rounds, candidates int, result string, odds float64) {
	el.WithFields(logrus.Fields{
		"rank":       rank,
		"rounds":     rounds,
		"candidates": candidates,
		"result":     result,
		"odds":       odds,
	}).Debug("Neighbor search finished")
}

// LogEstimateCompleted logs request completion.
func (el *EstimationLogger) LogEstimateCompleted(choices, lookups, failures int, durationMs float64, cacheHit bool) {
	el.WithFields(logrus.Fields{
		"choices":     choices,
		"lookups":     lookups,
		"failures":    failures,
		"duration_ms": durationMs,
		"cache_hit":   cacheHit,
	}).Info("Estimate completed")
}
