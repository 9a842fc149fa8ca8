package estimator

import (
	"fmt"
	"time"

	"github.com/yourusername/permit-odds/internal/models"
)

// PermitDate builds the requested calendar date, rejecting days that do not
// exist in that month (Feb 30, Apr 31).
func PermitDate(year, month, day int) (time.Time, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%02d-%02d-%d: %w", month, day, year, models.ErrInvalidDate)
	}
	return t, nil
}

// ComparableDate maps a permit date onto dataYear: same day-of-year, pulled
// back into the permit date's month, then moved to the nearest day sharing
// the permit date's weekday. Ties go to the earlier day.
func ComparableDate(permit time.Time, dataYear int) time.Time {
	base := time.Date(dataYear, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, permit.YearDay()-1)
	base = alignMonth(base, dataYear, permit.Month())

	back, backDays := nearestWeekday(base, permit.Weekday(), -1)
	fwd, fwdDays := nearestWeekday(base, permit.Weekday(), 1)
	if backDays <= fwdDays {
		return back
	}
	return fwd
}

// alignMonth steps d a day at a time until it falls in month of year.
func alignMonth(d time.Time, year int, month time.Month) time.Time {
	target := year*12 + int(month)
	for {
		cur := d.Year()*12 + int(d.Month())
		switch {
		case cur < target:
			d = d.AddDate(0, 0, 1)
		case cur > target:
			d = d.AddDate(0, 0, -1)
		default:
			return d
		}
	}
}

func nearestWeekday(d time.Time, wd time.Weekday, step int) (time.Time, int) {
	days := 0
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, step)
		days++
	}
	return d, days
}

// WeekdayInMonth reports which occurrence of its weekday d is within its
// month, and how many of that weekday the month has.
func WeekdayInMonth(d time.Time) (ordinal, count int) {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	last := first.AddDate(0, 1, -1).Day()
	for day := 1; day <= last; day++ {
		if first.AddDate(0, 0, day-1).Weekday() != d.Weekday() {
			continue
		}
		count++
		if day == d.Day() {
			ordinal = count
		}
	}
	return ordinal, count
}

// FormatDate renders a date as MM-DD-YYYY.
func FormatDate(d time.Time) string {
	return d.Format(models.DateLayout)
}
