package estimator

import (
	"fmt"
)

// coreZoneScaling holds the empirical odds ratio between adjacent core zone
// group sizes: odds(g) ≈ odds(g+1) * coreZoneScaling[g].
var coreZoneScaling = map[int]float64{
	1: 4.64,
	2: 1.41,
	3: 1.15,
	4: 1.18,
	5: 1.07,
	6: 1.20,
	7: 1.03,
}

// ScaleFactor returns the scaling table entry for a group size.
func ScaleFactor(groupSize int) (float64, error) {
	f, ok := coreZoneScaling[groupSize]
	if !ok {
		return 0, fmt.Errorf("no core zone scaling factor for group size %d", groupSize)
	}
	return f, nil
}
