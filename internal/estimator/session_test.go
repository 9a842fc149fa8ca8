package estimator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/permit-odds/internal/models"
)

func TestSessionCoreZone(t *testing.T) {
	sess := openTestSession(t)
	assert.Equal(t, fixtureYear, sess.Year())
	assert.Equal(t, coreZone, sess.CoreZoneID())
}

func TestSessionResolveSlot(t *testing.T) {
	sess := openTestSession(t)
	ctx := context.Background()

	got, err := sess.ResolveSlot(ctx, models.Choice{Zone: "Zone A", Month: 8, Day: 12, GroupSize: 4}, "08-13-2024")
	require.NoError(t, err)
	assert.Equal(t, slot(zoneA, aug13, 4), got)

	_, err = sess.ResolveSlot(ctx, models.Choice{Zone: "Zone A", Month: 8, Day: 12, GroupSize: 4}, "08-20-2024")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSessionSingleChoiceOdds(t *testing.T) {
	sess := openTestSession(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		slot    models.Slot
		want    float64
		wantErr error
	}{
		{name: "non-core exact", slot: slot(zoneA, aug13, 7), want: 0.42},
		{name: "core exact group size", slot: slot(coreZone, aug13, 4), want: 0.10},
		{name: "core interpolated", slot: slot(coreZone, aug13, 3), want: 0.20},
		{name: "core without records", slot: slot(coreZone, aug14, 3), wantErr: models.ErrNoData},
		{name: "non-core without record", slot: slot(zoneA, aug14, 4), wantErr: models.ErrNoRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sess.SingleChoiceOdds(ctx, tt.slot)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSessionSecondChoiceExact(t *testing.T) {
	sess := openTestSession(t)

	odds, exact, err := sess.SecondChoiceOdds(context.Background(), slot(zoneA, aug13, 4), slot(snowLakes, aug14, 4), 0.42)
	require.NoError(t, err)
	assert.True(t, exact)
	assert.Equal(t, 0.21, odds)
}

func TestSessionSecondChoiceFromNeighbors(t *testing.T) {
	sess := openTestSession(t)

	// Colchuck as a first choice is 0.60; the widening search reaches the
	// Zone A / Snow Lakes set (0.42, 0.55) on the fifth round.
	odds, exact, err := sess.SecondChoiceOdds(context.Background(), slot(zoneA, aug13, 4), slot(colchuck, aug14, 4), 0.42)
	require.NoError(t, err)
	assert.False(t, exact)
	assert.Equal(t, 0.21, odds)
}

func TestSessionThirdChoiceFromNeighbors(t *testing.T) {
	sess := openTestSession(t)

	// core zone at group size 3 interpolates to 0.20; both core records at
	// that date tie on distance and belong to the same 0.07 set.
	odds, exact, err := sess.ThirdChoiceOdds(context.Background(),
		slot(zoneA, aug13, 4), slot(snowLakes, aug14, 4), slot(coreZone, aug13, 3), 0.42, 0.21)
	require.NoError(t, err)
	assert.False(t, exact)
	assert.Equal(t, 0.07, odds)
}

func TestSessionThirdChoiceExact(t *testing.T) {
	sess := openTestSession(t)

	odds, exact, err := sess.ThirdChoiceOdds(context.Background(),
		slot(zoneA, aug13, 1), slot(snowLakes, aug14, 1), slot(coreZone, aug13, 2), 0.42, 0.21)
	require.NoError(t, err)
	assert.True(t, exact)
	assert.Equal(t, 0.07, odds)
}

func TestSessionRankedOdds(t *testing.T) {
	sess := openTestSession(t)
	ctx := context.Background()

	got, err := sess.RankedOdds(ctx, []models.Slot{slot(zoneA, aug13, 4), slot(snowLakes, aug14, 4)})
	require.NoError(t, err)
	assert.Equal(t, &models.RankedOdds{Year: fixtureYear, Odds: []float64{0.42, 0.21}, Exact: []bool{true, true}}, got)

	got, err = sess.RankedOdds(ctx, []models.Slot{slot(zoneA, aug13, 4), slot(snowLakes, aug14, 4), slot(coreZone, aug13, 3)})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.42, 0.21, 0.07}, got.Odds)
	assert.Equal(t, []bool{true, true, false}, got.Exact)

	got, err = sess.RankedOdds(ctx, []models.Slot{slot(coreZone, aug13, 3)})
	require.NoError(t, err)
	assert.InDelta(t, 0.20, got.Odds[0], 1e-9)
	assert.Equal(t, []bool{false}, got.Exact)

	_, err = sess.RankedOdds(ctx, nil)
	assert.Error(t, err)

	_, err = sess.RankedOdds(ctx, []models.Slot{slot(zoneA, aug14, 4)})
	assert.ErrorIs(t, err, models.ErrNoRecord)
}
