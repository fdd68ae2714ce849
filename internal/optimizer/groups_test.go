package optimizer

import "testing"

func TestGroupByFootprint(t *testing.T) {
	t.Parallel()

	candidates := []Item{
		{ID: "coin", Width: 1, Height: 1, StackSize: 40},
		{ID: "sword", Width: 2, Height: 3},
		{ID: "gem", Width: 1, Height: 1, StackSize: 10},
		{ID: "axe", Width: 2, Height: 3, StackSize: 1},
		{ID: "shield", Width: 2, Height: 2},
	}

	groups := groupByFootprint(candidates)

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	// Ranked by area descending: 2x3 (6), 2x2 (4), 1x1 (1).
	if groups[0].width != 2 || groups[0].height != 3 || groups[0].area != 6 {
		t.Fatalf("expected 2x3 group first, got %dx%d", groups[0].width, groups[0].height)
	}
	if groups[1].area != 4 || groups[2].area != 1 {
		t.Fatalf("expected areas 4 and 1 after the top group, got %d and %d", groups[1].area, groups[2].area)
	}

	if want := []int{1, 3}; len(groups[0].members) != 2 || groups[0].members[0] != want[0] || groups[0].members[1] != want[1] {
		t.Fatalf("expected 2x3 members %v in input order, got %v", want, groups[0].members)
	}
	if want := []int{0, 2}; groups[2].members[0] != want[0] || groups[2].members[1] != want[1] {
		t.Fatalf("expected 1x1 members %v in input order, got %v", want, groups[2].members)
	}
}

func TestGroupByFootprintAggregatesStackSizes(t *testing.T) {
	t.Parallel()

	candidates := []Item{
		{ID: "a", Width: 1, Height: 1, StackSize: 40},
		{ID: "b", Width: 1, Height: 1, StackSize: 10},
		{ID: "c", Width: 1, Height: 1}, // unset stack size counts as 1
	}

	groups := groupByFootprint(candidates)
	if len(groups) != 1 {
		t.Fatalf("expected a single group, got %d", len(groups))
	}
	if groups[0].stackSize != 51 {
		t.Fatalf("expected aggregate stack size 51, got %d", groups[0].stackSize)
	}
}

func TestGroupByFootprintKeepsEqualAreaEncounterOrder(t *testing.T) {
	t.Parallel()

	candidates := []Item{
		{ID: "wide", Width: 3, Height: 2},
		{ID: "tall", Width: 2, Height: 3},
	}

	groups := groupByFootprint(candidates)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].width != 3 || groups[0].height != 2 {
		t.Fatalf("expected the first-encountered footprint to stay first on ties, got %dx%d", groups[0].width, groups[0].height)
	}
}

func TestGroupByFootprintEmptyCandidates(t *testing.T) {
	t.Parallel()

	if groups := groupByFootprint(nil); len(groups) != 0 {
		t.Fatalf("expected no groups for empty candidates, got %d", len(groups))
	}
}
