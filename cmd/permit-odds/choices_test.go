package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/permit-odds/internal/models"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Choice
		wantErr bool
	}{
		{in: "Zone A:8:12:4", want: models.Choice{Zone: "Zone A", Month: 8, Day: 12, GroupSize: 4}},
		{in: " Core Enchantment : 7 : 4 : 2", want: models.Choice{Zone: "Core Enchantment", Month: 7, Day: 4, GroupSize: 2}},
		{in: "Lake: North:8:1:3", want: models.Choice{Zone: "Lake: North", Month: 8, Day: 1, GroupSize: 3}},
		{in: "Zone A:13:1:4", want: models.Choice{Zone: "Zone A", Month: 13, Day: 1, GroupSize: 4}},
		{in: "Zone A:8:12", wantErr: true},
		{in: "Zone A:aug:12:4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseChoice(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChoicesLimit(t *testing.T) {
	_, err := parseChoices([]string{"a:1:1:1", "b:1:1:1", "c:1:1:1", "d:1:1:1"})
	assert.Error(t, err)

	got, err := parseChoices(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseYears(t *testing.T) {
	got, err := parseYears("2022, 2023,2024,")
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2023, 2024}, got)

	_, err = parseYears("2022,twenty")
	assert.Error(t, err)

	_, err = parseYears(" , ")
	assert.Error(t, err)
}
