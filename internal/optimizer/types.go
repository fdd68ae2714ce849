package optimizer

// Item is a movable inventory entity with a rectangular cell footprint.
// ID is the stable identifier hosts use to act on the returned selection;
// the optimizer itself tracks items by candidate index, never by ID.
// StackSize values below 1 are read as 1, matching hosts that only report a
// stack size for stackable items.
type Item struct {
	ID        string
	Width     int
	Height    int
	StackSize int
}

// area returns the number of cells the item covers.
func (i Item) area() int {
	return i.Width * i.Height
}

// stackWeight returns the stack size with the non-stackable default applied.
func (i Item) stackWeight() int {
	if i.StackSize < 1 {
		return 1
	}
	return i.StackSize
}

// Placement locates a rectangle already resident in the destination grid.
type Placement struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Cell addresses a single grid cell by column and row.
type Cell struct {
	X int
	Y int
}

// Layout describes the destination grid for a single optimization pass.
// Ignored marks cells permanently excluded from placement; it may be nil
// (nothing excluded) or exactly Height rows of Width columns. The optimizer
// never mutates it.
type Layout struct {
	Width   int
	Height  int
	Ignored [][]bool
}

// Optimizer describes the behaviour required from a placement optimizer.
// Optimize returns the chosen items in placement order; an empty list means
// no candidate combination could be placed and is not an error.
type Optimizer interface {
	Optimize(layout Layout, candidates []Item, existing []Placement) ([]Item, error)
}
