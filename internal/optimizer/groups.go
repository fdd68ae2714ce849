package optimizer

import "sort"

// footprint is the grouping key: the (width, height) pair of an item.
type footprint struct {
	w int
	h int
}

// itemGroup accumulates the candidates sharing one footprint. members holds
// candidate indices in input encounter order; stackSize is the summed stack
// weight of the members.
type itemGroup struct {
	width     int
	height    int
	area      int
	stackSize int
	members   []int
}

// groupByFootprint partitions candidates by (width, height) in a single pass
// and ranks the groups by area, descending. The sort is stable, so groups
// with equal area keep their first-encounter order.
func groupByFootprint(candidates []Item) []*itemGroup {
	byFootprint := make(map[footprint]*itemGroup, len(candidates))
	groups := make([]*itemGroup, 0, len(candidates))

	for idx, it := range candidates {
		key := footprint{w: it.Width, h: it.Height}
		group, ok := byFootprint[key]
		if !ok {
			group = &itemGroup{width: it.Width, height: it.Height, area: it.Width * it.Height}
			byFootprint[key] = group
			groups = append(groups, group)
		}
		group.stackSize += it.stackWeight()
		group.members = append(group.members, idx)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].area > groups[j].area
	})

	return groups
}
