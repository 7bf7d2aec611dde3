package sequence

import (
	"testing"

	"ChromaFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayEntries() []Entry {
	return []Entry{
		{TrackID: "a", Color: model.RGB{R: 0, G: 0, B: 0}},
		{TrackID: "b", Color: model.RGB{R: 80, G: 80, B: 80}},
		{TrackID: "c", Color: model.RGB{R: 160, G: 160, B: 160}},
		{TrackID: "d", Color: model.RGB{R: 255, G: 255, B: 255}},
	}
}

func trackIDs(plan *model.AssignmentPlan) []string {
	ids := make([]string, len(plan.Slots))
	for i, s := range plan.Slots {
		ids[i] = s.TrackID
	}
	return ids
}

func TestOrderEmpty(t *testing.T) {
	plan := Order(nil, model.StartMinHue)
	assert.Empty(t, plan.Slots)
	assert.Equal(t, 0.0, plan.TotalCost)
}

func TestOrderSingleEntry(t *testing.T) {
	plan := Order([]Entry{{TrackID: "only", Color: model.RGB{R: 10}}}, model.StartMinHue)
	require.Len(t, plan.Slots, 1)
	assert.Equal(t, "only", plan.Slots[0].TrackID)
	assert.Equal(t, 0, plan.Slots[0].Index)
	assert.Equal(t, 0.0, plan.TotalCost)
}

func TestOrderGrayscaleRamp(t *testing.T) {
	// All grays share hue 0, so min_hue ties and the smallest track ID
	// starts; nearest neighbor then walks the ramp monotonically.
	plan := Order(grayEntries(), model.StartMinHue)
	assert.Equal(t, []string{"a", "b", "c", "d"}, trackIDs(plan))
	assert.Greater(t, plan.TotalCost, 0.0)
}

func TestOrderStartDarkest(t *testing.T) {
	plan := Order(grayEntries(), model.StartDarkest)
	assert.Equal(t, []string{"a", "b", "c", "d"}, trackIDs(plan))
}

func TestOrderStartLightest(t *testing.T) {
	plan := Order(grayEntries(), model.StartLightest)
	assert.Equal(t, []string{"d", "c", "b", "a"}, trackIDs(plan))
}

func TestOrderIgnoresInputOrder(t *testing.T) {
	entries := grayEntries()
	reversed := []Entry{entries[3], entries[1], entries[2], entries[0]}

	first := Order(entries, model.StartDarkest)
	second := Order(reversed, model.StartDarkest)

	assert.Equal(t, trackIDs(first), trackIDs(second))
	assert.Equal(t, first.TotalCost, second.TotalCost)
}

func TestOrderSlotIndexes(t *testing.T) {
	plan := Order(grayEntries(), model.StartMinHue)
	for i, slot := range plan.Slots {
		assert.Equal(t, i, slot.Index)
	}
}

func TestOrderCostIsConsecutiveDistanceSum(t *testing.T) {
	entries := []Entry{
		{TrackID: "x", Color: model.RGB{R: 0, G: 0, B: 0}},
		{TrackID: "y", Color: model.RGB{R: 255, G: 255, B: 255}},
	}
	plan := Order(entries, model.StartDarkest)
	require.Len(t, plan.Slots, 2)

	// Black to white in Lab is a lightness jump of 100.
	assert.InDelta(t, 100.0, plan.TotalCost, 0.01)
}
