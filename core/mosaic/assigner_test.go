package mosaic

import (
	"image"
	imgcolor "image/color"
	"testing"

	"ChromaFM/core/color"
	"ChromaFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetGridUniformImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, imgcolor.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	grid, err := TargetGrid(img, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, grid.Width)
	assert.Equal(t, 2, grid.Height)
	require.Len(t, grid.Cells, 4)
	for _, cell := range grid.Cells {
		assert.Equal(t, model.RGB{R: 200, G: 30, B: 30}, cell)
	}
}

func TestTargetGridQuadrants(t *testing.T) {
	// Four solid quadrants must survive a 2x2 downsample exactly.
	// Quadrant order: top left, top right, bottom left, bottom right.
	quads := []imgcolor.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, A: 255},
	}
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			q := 0
			if x >= 5 {
				q++
			}
			if y >= 5 {
				q += 2
			}
			img.SetRGBA(x, y, quads[q])
		}
	}

	grid, err := TargetGrid(img, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []model.RGB{
		{R: 255}, {G: 255}, {B: 255}, {R: 255, G: 255},
	}, grid.Cells)
}

func TestTargetGridTransparentCellFallsBackToGray(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	grid, err := TargetGrid(img, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RGB{R: 128, G: 128, B: 128}, grid.Cells[0])
}

func TestTargetGridRejectsInvalidDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	_, err := TargetGrid(img, 0, 2)
	assert.Error(t, err)
	_, err = TargetGrid(img, 2, -1)
	assert.Error(t, err)
}

func TestAssignInsufficientPool(t *testing.T) {
	grid := &Grid{Width: 5, Height: 1, Cells: make([]model.RGB, 5)}
	pool := []Candidate{
		{TrackID: "a"}, {TrackID: "b"}, {TrackID: "c"},
	}

	_, err := Assign(grid, pool)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientPool)
	assert.Contains(t, err.Error(), "5")
	assert.Contains(t, err.Error(), "3")
}

func TestAssignExactColorMatch(t *testing.T) {
	grid := &Grid{Width: 2, Height: 2, Cells: []model.RGB{
		{R: 255}, {G: 255}, {B: 255}, {R: 255, G: 255, B: 255},
	}}
	pool := []Candidate{
		{TrackID: "white", Color: model.RGB{R: 255, G: 255, B: 255}},
		{TrackID: "green", Color: model.RGB{G: 255}},
		{TrackID: "red", Color: model.RGB{R: 255}},
		{TrackID: "blue", Color: model.RGB{B: 255}},
	}

	plan, err := Assign(grid, pool)
	require.NoError(t, err)
	require.Len(t, plan.Slots, 4)

	assert.Equal(t, []string{"red", "green", "blue", "white"}, plan.TrackIDs())
	assert.InDelta(t, 0.0, plan.TotalCost, 1e-9)
	for i, slot := range plan.Slots {
		assert.Equal(t, i, slot.Index)
	}
}

func TestAssignPicksBestSubsetOfLargerPool(t *testing.T) {
	grid := &Grid{Width: 2, Height: 1, Cells: []model.RGB{
		{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255},
	}}
	pool := []Candidate{
		{TrackID: "nearBlack", Color: model.RGB{R: 10, G: 10, B: 10}},
		{TrackID: "nearWhite", Color: model.RGB{R: 245, G: 245, B: 245}},
		{TrackID: "gray", Color: model.RGB{R: 128, G: 128, B: 128}},
		{TrackID: "red", Color: model.RGB{R: 255}},
	}

	plan, err := Assign(grid, pool)
	require.NoError(t, err)
	assert.Equal(t, []string{"nearBlack", "nearWhite"}, plan.TrackIDs())
}

func TestAssignTotalCostIsMinimal(t *testing.T) {
	grid := &Grid{Width: 2, Height: 1, Cells: []model.RGB{
		{R: 100, G: 100, B: 100}, {R: 90, G: 90, B: 90},
	}}
	pool := []Candidate{
		{TrackID: "g60", Color: model.RGB{R: 60, G: 60, B: 60}},
		{TrackID: "g95", Color: model.RGB{R: 95, G: 95, B: 95}},
	}

	plan, err := Assign(grid, pool)
	require.NoError(t, err)

	// Check against the true minimum over both possible bijections.
	costA := color.Distance(grid.Cells[0], pool[0].Color) + color.Distance(grid.Cells[1], pool[1].Color)
	costB := color.Distance(grid.Cells[0], pool[1].Color) + color.Distance(grid.Cells[1], pool[0].Color)
	want := costA
	if costB < costA {
		want = costB
	}
	assert.InDelta(t, want, plan.TotalCost, 1e-9)
}

func TestAssignEmptyGrid(t *testing.T) {
	plan, err := Assign(&Grid{}, nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Slots)
}
