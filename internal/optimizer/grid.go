package optimizer

import "fmt"

// Default destination grid dimensions: the 12-column, 5-row inventory the
// original overlay host operates on.
const (
	DefaultWidth  = 12
	DefaultHeight = 5
)

// Grid tracks cell occupancy for one fixed-size destination grid. A cell is
// placeable only while it is neither occupied nor ignored. The ignored mask
// is immutable for the lifetime of the grid; Clone shares it instead of
// copying it.
type Grid struct {
	width    int
	height   int
	occupied [][]bool
	ignored  [][]bool
}

// NewGrid allocates an empty grid. ignored may be nil; otherwise it must
// hold height rows of width columns and must not be mutated afterwards.
func NewGrid(width, height int, ignored [][]bool) *Grid {
	occupied := make([][]bool, height)
	for y := range occupied {
		occupied[y] = make([]bool, width)
	}
	return &Grid{width: width, height: height, occupied: occupied, ignored: ignored}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Cells returns the total number of cells in the grid.
func (g *Grid) Cells() int { return g.width * g.height }

// CanFit reports whether a w by h rectangle anchored at (x, y) lies fully
// inside the grid with every covered cell unoccupied and not ignored.
// Nonpositive dimensions fit nowhere.
func (g *Grid) CanFit(x, y, w, h int) bool {
	if w < 1 || h < 1 {
		return false
	}
	if x < 0 || y < 0 || x+w > g.width || y+h > g.height {
		return false
	}
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			if g.occupied[y+dy][x+dx] {
				return false
			}
			if g.ignored != nil && g.ignored[y+dy][x+dx] {
				return false
			}
		}
	}
	return true
}

// Place marks every cell of the w by h rectangle anchored at (x, y) occupied.
// It does not re-validate: the caller must have checked CanFit for the same
// rectangle first, otherwise the occupancy invariant is corrupted.
func (g *Grid) Place(x, y, w, h int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			g.occupied[y+dy][x+dx] = true
		}
	}
}

// PlaceExisting seeds the grid with rectangles already resident in the
// destination, before any candidate is considered. Every rectangle must lie
// fully inside the grid; overlap between rectangles is tolerated. An empty
// sequence leaves the grid untouched.
func (g *Grid) PlaceExisting(existing []Placement) error {
	for _, p := range existing {
		if p.Width < 1 || p.Height < 1 || p.X < 0 || p.Y < 0 ||
			p.X+p.Width > g.width || p.Y+p.Height > g.height {
			return fmt.Errorf("%w: (%d,%d) %dx%d", ErrInvalidPlacement, p.X, p.Y, p.Width, p.Height)
		}
		g.Place(p.X, p.Y, p.Width, p.Height)
	}
	return nil
}

// FindFirstFit scans rows top to bottom and columns left to right, returning
// the first anchor where a w by h rectangle fits. The scan order is the stable
// tie-break used throughout this package; it is not a best-fit search.
func (g *Grid) FindFirstFit(w, h int) (int, int, bool) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.CanFit(x, y, w, h) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// Clone returns a grid with a deep copy of the occupancy matrix. The clone
// shares the ignored mask with the original; neither ever writes to it.
func (g *Grid) Clone() *Grid {
	occupied := make([][]bool, g.height)
	for y := range occupied {
		occupied[y] = make([]bool, g.width)
		copy(occupied[y], g.occupied[y])
	}
	return &Grid{width: g.width, height: g.height, occupied: occupied, ignored: g.ignored}
}

// MaskFromCells expands a reserved-cell list into the Height by Width ignored
// mask consumed by NewGrid. An empty list yields a nil mask so callers can
// skip the allocation entirely.
func MaskFromCells(width, height int, cells []Cell) ([][]bool, error) {
	if len(cells) == 0 {
		return nil, nil
	}

	mask := make([][]bool, height)
	for y := range mask {
		mask[y] = make([]bool, width)
	}
	for _, c := range cells {
		if c.X < 0 || c.Y < 0 || c.X >= width || c.Y >= height {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrInvalidCell, c.X, c.Y)
		}
		mask[c.Y][c.X] = true
	}
	return mask, nil
}
