package optimizer

import "errors"

var (
	// ErrInvalidLayout is returned when a layout has nonpositive dimensions or
	// an ignored mask whose shape does not match them.
	ErrInvalidLayout = errors.New("layout dimensions must be positive and match the ignored mask shape")
	// ErrInvalidPlacement is returned when an existing placement does not lie
	// fully inside the grid.
	ErrInvalidPlacement = errors.New("existing placement must lie fully inside the grid")
	// ErrInvalidCell is returned when a reserved cell falls outside the grid.
	ErrInvalidCell = errors.New("reserved cell must lie inside the grid")
)
