package optimizer

// Score weights. The area and stack shares are normalized by the grid cell
// count; the count share is flat for any non-empty selection.
const (
	areaShareWeight  = 0.4
	countShareWeight = 0.3
	stackShareWeight = 0.3
)

// Score computes the desirability of a realized selection on a grid with
// gridCells cells. An empty selection, or a degenerate grid, scores exactly
// 0. The count term reduces to selected/selected and therefore contributes a
// constant countShareWeight for every non-empty selection; the empty case is
// handled up front instead of dividing by zero.
func Score(placed []Item, gridCells int) float64 {
	if len(placed) == 0 || gridCells <= 0 {
		return 0
	}

	totalArea := 0
	stackBonus := 0
	for _, it := range placed {
		totalArea += it.area()
		stackBonus += it.stackWeight() * it.area()
	}

	cells := float64(gridCells)
	return areaShareWeight*(float64(totalArea)/cells) +
		countShareWeight +
		stackShareWeight*(float64(stackBonus)/cells)
}
