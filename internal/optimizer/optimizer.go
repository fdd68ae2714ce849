package optimizer

import "fmt"

// DefaultSeedCandidates bounds how many of the largest-area groups anchor a
// placement trial. Three keeps the search linear in the candidate count while
// still letting the dominant footprints compete for the seed slot.
const DefaultSeedCandidates = 3

type greedyOptimizer struct {
	seedCandidates int
}

// Option configures the optimizer returned by New.
type Option func(*greedyOptimizer)

// WithSeedCandidates overrides how many of the top area-ranked groups are
// tried as trial seeds. Values below 1 keep the default.
func WithSeedCandidates(n int) Option {
	return func(o *greedyOptimizer) {
		if n >= 1 {
			o.seedCandidates = n
		}
	}
}

// New creates an Optimizer based on seeded greedy placement: each of the
// largest footprint groups anchors one trial on a copy of the grid, the
// remaining space is filled to a fixed point, and the item list of the
// highest-scoring trial wins.
func New(opts ...Option) Optimizer {
	o := &greedyOptimizer{seedCandidates: DefaultSeedCandidates}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *greedyOptimizer) Optimize(layout Layout, candidates []Item, existing []Placement) ([]Item, error) {
	if err := validateLayout(layout); err != nil {
		return nil, err
	}

	base := NewGrid(layout.Width, layout.Height, layout.Ignored)
	if err := base.PlaceExisting(existing); err != nil {
		return nil, err
	}

	groups := groupByFootprint(candidates)
	seeds := o.seedCandidates
	if seeds > len(groups) {
		seeds = len(groups)
	}

	var best []int
	bestScore := 0.0

	for _, seedGroup := range groups[:seeds] {
		placed := runTrial(base, groups, seedGroup, candidates)
		if placed == nil {
			continue
		}
		// Strictly greater: a tie keeps the earlier trial.
		if score := scoreIndices(candidates, placed, base.Cells()); score > bestScore {
			bestScore = score
			best = placed
		}
	}

	result := make([]Item, 0, len(best))
	for _, idx := range best {
		result = append(result, candidates[idx])
	}
	return result, nil
}

// runTrial seeds a cloned grid with the group's first member, then greedily
// fills the remaining space. It returns the placed candidate indices in
// placement order, or nil when the seed itself does not fit anywhere.
func runTrial(base *Grid, groups []*itemGroup, seedGroup *itemGroup, candidates []Item) []int {
	work := base.Clone()

	seed := seedGroup.members[0]
	if !tryPlace(work, candidates[seed]) {
		return nil
	}

	placed := []int{seed}
	inTrial := map[int]bool{seed: true}

	// Fixed-point fill: sweep groups in rank order and members in input
	// order until a full sweep places nothing new. Placements are never
	// undone, so at most one sweep per candidate can make progress.
	for {
		progressed := false
		for _, group := range groups {
			for _, idx := range group.members {
				if inTrial[idx] {
					continue
				}
				if tryPlace(work, candidates[idx]) {
					inTrial[idx] = true
					placed = append(placed, idx)
					progressed = true
				}
			}
		}
		if !progressed {
			return placed
		}
	}
}

// tryPlace is the single placement primitive shared by seeding and fill:
// locate the first free anchor, mark it, report success. The grid is left
// unchanged on failure.
func tryPlace(g *Grid, it Item) bool {
	x, y, ok := g.FindFirstFit(it.Width, it.Height)
	if !ok {
		return false
	}
	g.Place(x, y, it.Width, it.Height)
	return true
}

func scoreIndices(candidates []Item, placed []int, gridCells int) float64 {
	items := make([]Item, 0, len(placed))
	for _, idx := range placed {
		items = append(items, candidates[idx])
	}
	return Score(items, gridCells)
}

func validateLayout(layout Layout) error {
	if layout.Width < 1 || layout.Height < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidLayout, layout.Width, layout.Height)
	}
	if layout.Ignored == nil {
		return nil
	}
	if len(layout.Ignored) != layout.Height {
		return fmt.Errorf("%w: mask has %d rows for height %d", ErrInvalidLayout, len(layout.Ignored), layout.Height)
	}
	for y, row := range layout.Ignored {
		if len(row) != layout.Width {
			return fmt.Errorf("%w: mask row %d has %d columns for width %d", ErrInvalidLayout, y, len(row), layout.Width)
		}
	}
	return nil
}
