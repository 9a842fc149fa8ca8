package estimator

import (
	"fmt"

	"github.com/yourusername/permit-odds/internal/models"
)

// Observed group sizes outside (noLowerGroup, noUpperGroup) never anchor the curve.
const (
	noLowerGroup = 0
	noUpperGroup = 9
)

// CoreOdds estimates core zone odds at the requested group size from the
// single-choice records observed for one date. An exact group size wins;
// otherwise the nearest observed sizes on either side are interpolated, and
// with only one side present the scaling table extrapolates from it. When
// several records share a group size the first one is used.
func CoreOdds(records []models.GroupOdds, requested int) (float64, error) {
	lowerGS, upperGS := noLowerGroup, noUpperGroup
	var lowerOdds, upperOdds float64

	for _, r := range records {
		switch {
		case r.GroupSize == requested:
			return r.AvgOdds, nil
		case r.GroupSize < requested && r.GroupSize > lowerGS:
			lowerGS, lowerOdds = r.GroupSize, r.AvgOdds
		case r.GroupSize > requested && r.GroupSize < upperGS:
			upperGS, upperOdds = r.GroupSize, r.AvgOdds
		}
	}

	hasLower, hasUpper := lowerGS != noLowerGroup, upperGS != noUpperGroup
	switch {
	case hasLower && hasUpper:
		step := (lowerOdds - upperOdds) / float64(upperGS-lowerGS)
		return upperOdds + step*float64(upperGS-requested), nil

	case hasUpper:
		odds := upperOdds
		for g := upperGS; g > requested; g-- {
			f, err := ScaleFactor(g - 1)
			if err != nil {
				return 0, err
			}
			odds *= f
		}
		return clampOdds(odds), nil

	case hasLower:
		odds := lowerOdds
		for g := lowerGS; g < requested; g++ {
			f, err := ScaleFactor(g)
			if err != nil {
				return 0, err
			}
			odds /= f
		}
		return clampOdds(odds), nil
	}

	return 0, fmt.Errorf("group size %d with %d records: %w", requested, len(records), models.ErrNoData)
}

func clampOdds(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
