package models

// EstimateRequest is the input to a choice-set estimate.
type EstimateRequest struct {
	PermitYear int      `json:"permit_year"`
	Choices    []Choice `json:"choices"`
	DataYears  []int    `json:"data_years"`
}

// ChoiceResult holds the per-year estimates for one requested choice.
type ChoiceResult struct {
	Index           int             `json:"index"`
	Zone            string          `json:"zone"`
	Month           int             `json:"month"`
	Day             int             `json:"day"`
	GroupSize       int             `json:"group_size"`
	DisplayDate     string          `json:"display_date"`
	OddsByYear      map[int]float64 `json:"odds_by_year"`
	CompDatesByYear map[int]*string `json:"comp_dates_by_year"`
}

// EstimateResult is the fully shaped response for a choice-set estimate.
type EstimateResult struct {
	Years   []int          `json:"years"`
	Choices []ChoiceResult `json:"choices"`
}

// CompDate returns the comparable date for a year, or "" when absent.
func (r ChoiceResult) CompDate(year int) string {
	if d := r.CompDatesByYear[year]; d != nil {
		return *d
	}
	return ""
}

// RankedOdds holds the chained per-rank odds of a ranked choice set in one
// data year.
type RankedOdds struct {
	Year  int       `json:"year"`
	Odds  []float64 `json:"odds"`
	Exact []bool    `json:"exact"`
}
