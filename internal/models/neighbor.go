package models

// Window is an open odds interval (Low, High) used by the neighbor search.
type Window struct {
	Low  float64
	High float64
}

// Around returns the open window target ± moe.
func Around(target, moe float64) Window {
	return Window{Low: target - moe, High: target + moe}
}

// Contains reports whether v lies strictly inside the window.
func (w Window) Contains(v float64) bool {
	return v > w.Low && v < w.High
}

// Candidate is a historical choice set found by the neighbor search. Legs
// holds the constituent odds in the same order as the search targets.
type Candidate struct {
	Legs    []float64
	AvgOdds float64
}
