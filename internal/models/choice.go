package models

import "fmt"

// DateLayout is the MM-DD-YYYY format used by record stores and results.
const DateLayout = "01-02-2006"

// MaxChoices is the largest ranked choice set an applicant may submit.
const MaxChoices = 3

// Choice is one requested zone/date/group size pick in the permit year.
type Choice struct {
	Zone      string `json:"zone" validate:"required"`
	Month     int    `json:"month" validate:"min=1,max=12"`
	Day       int    `json:"day" validate:"min=1,max=31"`
	GroupSize int    `json:"group_size" validate:"min=1,max=8"`
}

// IsMalformed reports whether the choice fails the basic shape checks that
// short-circuit every lookup.
func (c Choice) IsMalformed() bool {
	return c.Zone == "" || c.Month < 1 || c.Month > 12 || c.Day < 1 || c.Day > 31
}

// DisplayDate formats the choice's month and day in the given permit year.
func (c Choice) DisplayDate(permitYear int) string {
	return fmt.Sprintf("%02d-%02d-%d", c.Month, c.Day, permitYear)
}

// Slot identifies one ranked choice inside a single year's record store.
type Slot struct {
	ZoneID    int64
	DateID    int64
	GroupSize int
}

// GroupOdds is one observed core zone single-choice record.
type GroupOdds struct {
	GroupSize int
	AvgOdds   float64
}
