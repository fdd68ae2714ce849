package optimizer

import (
	"errors"
	"testing"
)

func TestCanFit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		x, y, w, h int
		want       bool
	}{
		{name: "TopLeftCorner", x: 0, y: 0, w: 2, h: 2, want: true},
		{name: "ExactGridFit", x: 0, y: 0, w: DefaultWidth, h: DefaultHeight, want: true},
		{name: "BottomRightCorner", x: 11, y: 4, w: 1, h: 1, want: true},
		{name: "OverflowsRight", x: 11, y: 0, w: 2, h: 1, want: false},
		{name: "OverflowsBottom", x: 0, y: 4, w: 1, h: 2, want: false},
		{name: "NegativeAnchorX", x: -1, y: 0, w: 1, h: 1, want: false},
		{name: "NegativeAnchorY", x: 0, y: -1, w: 1, h: 1, want: false},
		{name: "ZeroWidth", x: 0, y: 0, w: 0, h: 1, want: false},
		{name: "NegativeHeight", x: 0, y: 0, w: 1, h: -1, want: false},
		{name: "WiderThanGrid", x: 0, y: 0, w: DefaultWidth + 1, h: 1, want: false},
		{name: "TallerThanGrid", x: 0, y: 0, w: 1, h: DefaultHeight + 1, want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			grid := NewGrid(DefaultWidth, DefaultHeight, nil)
			if got := grid.CanFit(tc.x, tc.y, tc.w, tc.h); got != tc.want {
				t.Fatalf("expected CanFit(%d,%d,%d,%d)=%v, got %v", tc.x, tc.y, tc.w, tc.h, tc.want, got)
			}
		})
	}
}

func TestCanFitRejectsOccupiedAndIgnoredCells(t *testing.T) {
	t.Parallel()

	mask, err := MaskFromCells(DefaultWidth, DefaultHeight, []Cell{{X: 5, Y: 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	grid := NewGrid(DefaultWidth, DefaultHeight, mask)
	grid.Place(0, 0, 2, 2)

	if grid.CanFit(1, 1, 2, 2) {
		t.Fatalf("expected overlap with occupied cells to be rejected")
	}
	if grid.CanFit(4, 0, 2, 1) {
		t.Fatalf("expected overlap with ignored cell to be rejected")
	}
	if !grid.CanFit(2, 0, 2, 2) {
		t.Fatalf("expected adjacent free rectangle to fit")
	}
}

func TestPlaceMarksEveryCoveredCell(t *testing.T) {
	t.Parallel()

	grid := NewGrid(DefaultWidth, DefaultHeight, nil)
	grid.Place(3, 1, 2, 3)

	for y := 1; y < 4; y++ {
		for x := 3; x < 5; x++ {
			if grid.CanFit(x, y, 1, 1) {
				t.Fatalf("expected cell (%d,%d) to be occupied", x, y)
			}
		}
	}
	if !grid.CanFit(5, 1, 1, 1) {
		t.Fatalf("expected cell outside the placed rectangle to stay free")
	}
}

func TestPlaceExisting(t *testing.T) {
	t.Parallel()

	t.Run("SeedsOccupancy", func(t *testing.T) {
		grid := NewGrid(DefaultWidth, DefaultHeight, nil)
		err := grid.PlaceExisting([]Placement{
			{X: 0, Y: 0, Width: 4, Height: 2},
			{X: 10, Y: 3, Width: 2, Height: 2},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if grid.CanFit(0, 0, 1, 1) || grid.CanFit(11, 4, 1, 1) {
			t.Fatalf("expected seeded rectangles to occupy their cells")
		}
		if !grid.CanFit(4, 0, 1, 1) {
			t.Fatalf("expected cells outside seeded rectangles to stay free")
		}
	})

	t.Run("EmptySequenceLeavesGridFree", func(t *testing.T) {
		grid := NewGrid(DefaultWidth, DefaultHeight, nil)
		if err := grid.PlaceExisting(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !grid.CanFit(0, 0, DefaultWidth, DefaultHeight) {
			t.Fatalf("expected a fully free grid after empty seeding")
		}
	})

	t.Run("RejectsOutOfBoundsRectangles", func(t *testing.T) {
		invalid := []Placement{
			{X: 11, Y: 0, Width: 2, Height: 1},
			{X: -1, Y: 0, Width: 1, Height: 1},
			{X: 0, Y: 0, Width: 0, Height: 1},
		}
		for _, p := range invalid {
			grid := NewGrid(DefaultWidth, DefaultHeight, nil)
			if err := grid.PlaceExisting([]Placement{p}); !errors.Is(err, ErrInvalidPlacement) {
				t.Fatalf("expected ErrInvalidPlacement for %+v, got %v", p, err)
			}
		}
	})
}

func TestFindFirstFitScansRowMajor(t *testing.T) {
	t.Parallel()

	grid := NewGrid(DefaultWidth, DefaultHeight, nil)

	x, y, ok := grid.FindFirstFit(2, 2)
	if !ok || x != 0 || y != 0 {
		t.Fatalf("expected first fit at (0,0), got (%d,%d) ok=%v", x, y, ok)
	}

	grid.Place(0, 0, 2, 2)
	x, y, ok = grid.FindFirstFit(2, 2)
	if !ok || x != 2 || y != 0 {
		t.Fatalf("expected next fit at (2,0), got (%d,%d) ok=%v", x, y, ok)
	}

	// Fill the remainder of the top rows and confirm the scan drops down.
	grid.Place(2, 0, 10, 2)
	x, y, ok = grid.FindFirstFit(2, 2)
	if !ok || x != 0 || y != 2 {
		t.Fatalf("expected fit on the next free row at (0,2), got (%d,%d) ok=%v", x, y, ok)
	}

	if _, _, ok := grid.FindFirstFit(DefaultWidth+1, 1); ok {
		t.Fatalf("expected no fit for a rectangle wider than the grid")
	}
}

func TestCloneIsolatesOccupancy(t *testing.T) {
	t.Parallel()

	mask, err := MaskFromCells(DefaultWidth, DefaultHeight, []Cell{{X: 0, Y: 4}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := NewGrid(DefaultWidth, DefaultHeight, mask)
	base.Place(0, 0, 3, 1)

	clone := base.Clone()
	clone.Place(6, 0, 3, 1)

	if !base.CanFit(6, 0, 3, 1) {
		t.Fatalf("expected placement on the clone to leave the original untouched")
	}
	if clone.CanFit(0, 0, 1, 1) {
		t.Fatalf("expected the clone to inherit occupancy from the original")
	}
	if clone.CanFit(0, 4, 1, 1) {
		t.Fatalf("expected the clone to share the ignored mask")
	}
}

func TestMaskFromCells(t *testing.T) {
	t.Parallel()

	t.Run("EmptyListYieldsNilMask", func(t *testing.T) {
		mask, err := MaskFromCells(DefaultWidth, DefaultHeight, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mask != nil {
			t.Fatalf("expected nil mask for empty cell list, got %v", mask)
		}
	})

	t.Run("MarksListedCells", func(t *testing.T) {
		mask, err := MaskFromCells(DefaultWidth, DefaultHeight, []Cell{{X: 1, Y: 2}, {X: 11, Y: 4}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !mask[2][1] || !mask[4][11] {
			t.Fatalf("expected listed cells to be marked")
		}
		if mask[0][0] {
			t.Fatalf("expected unlisted cells to stay unmarked")
		}
	})

	t.Run("RejectsOutOfBoundsCells", func(t *testing.T) {
		outOfBounds := []Cell{
			{X: DefaultWidth, Y: 0},
			{X: 0, Y: DefaultHeight},
			{X: -1, Y: 0},
		}
		for _, cell := range outOfBounds {
			if _, err := MaskFromCells(DefaultWidth, DefaultHeight, []Cell{cell}); !errors.Is(err, ErrInvalidCell) {
				t.Fatalf("expected ErrInvalidCell for %+v, got %v", cell, err)
			}
		}
	})
}
