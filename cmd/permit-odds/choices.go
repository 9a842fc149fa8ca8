package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/permit-odds/internal/models"
)

// parseChoice parses "zone:month:day:group_size". The zone may itself
// contain colons; the last three fields are always numeric.
func parseChoice(s string) (models.Choice, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 4 {
		return models.Choice{}, fmt.Errorf("choice %q: want zone:month:day:group_size", s)
	}
	n := len(parts)

	nums := make([]int, 3)
	for i, field := range []string{"month", "day", "group_size"} {
		v, err := strconv.Atoi(strings.TrimSpace(parts[n-3+i]))
		if err != nil {
			return models.Choice{}, fmt.Errorf("choice %q: invalid %s: %w", s, field, err)
		}
		nums[i] = v
	}

	return models.Choice{
		Zone:      strings.TrimSpace(strings.Join(parts[:n-3], ":")),
		Month:     nums[0],
		Day:       nums[1],
		GroupSize: nums[2],
	}, nil
}

func parseChoices(raw []string) ([]models.Choice, error) {
	if len(raw) > models.MaxChoices {
		return nil, fmt.Errorf("at most %d choices, got %d", models.MaxChoices, len(raw))
	}
	choices := make([]models.Choice, 0, len(raw))
	for _, s := range raw {
		c, err := parseChoice(s)
		if err != nil {
			return nil, err
		}
		choices = append(choices, c)
	}
	return choices, nil
}

// parseYears parses a comma separated year list such as "2022,2023,2024".
func parseYears(s string) ([]int, error) {
	var years []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		y, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", field, err)
		}
		years = append(years, y)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no years in %q", s)
	}
	return years, nil
}
