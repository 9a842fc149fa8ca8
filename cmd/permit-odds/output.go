package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/yourusername/permit-odds/internal/estimator"
	"github.com/yourusername/permit-odds/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	formatJSON  = "json"
	formatTable = "table"
)

func writeJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// percent renders odds in [0,1] as a one-decimal percentage.
func percent(odds float64) string {
	return decimal.NewFromFloat(odds).Shift(2).StringFixed(1) + "%"
}

// weekdayLabel renders e.g. "2nd Tuesday of 4".
func weekdayLabel(compDate string) string {
	d, err := time.Parse(models.DateLayout, compDate)
	if err != nil {
		return ""
	}
	ordinal, count := estimator.WeekdayInMonth(d)
	return fmt.Sprintf("%s %s of %d", humanize.Ordinal(ordinal), d.Weekday(), count)
}

func writeEstimateTable(w io.Writer, result *models.EstimateResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, c := range result.Choices {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "Choice %d: %s on %s, group of %d\n", c.Index, c.Zone, c.DisplayDate, c.GroupSize)
		fmt.Fprintln(tw, "YEAR\tCOMPARABLE DATE\tWEEKDAY\tODDS")
		for _, year := range result.Years {
			date := c.CompDate(year)
			label := weekdayLabel(date)
			if date == "" {
				date, label = "-", "-"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", year, date, label, percent(c.OddsByYear[year]))
		}
	}
	return tw.Flush()
}

func writeRankedTable(w io.Writer, choices []models.Choice, ranked *models.RankedOdds) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Ranked odds from %d records\n", ranked.Year)
	fmt.Fprintln(tw, "RANK\tCHOICE\tODDS\tSOURCE")
	for i, odds := range ranked.Odds {
		source := "estimated"
		if i < len(ranked.Exact) && ranked.Exact[i] {
			source = "record"
		}
		var label string
		if i < len(choices) {
			c := choices[i]
			label = strings.TrimSpace(fmt.Sprintf("%s %02d-%02d (%d)", c.Zone, c.Month, c.Day, c.GroupSize))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", humanize.Ordinal(i+1), label, percent(odds), source)
	}
	return tw.Flush()
}
