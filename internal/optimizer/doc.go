// Package optimizer decides which subset of candidate items fits a small
// fixed-size destination grid. It models cell occupancy, groups candidates by
// footprint, runs a bounded number of seeded first-fit placement trials on
// grid copies, and returns the item list of the highest-scoring trial in
// placement order. Each call is self-contained and deterministic: it builds
// its own grid from the supplied layout and occupancy snapshot and shares no
// mutable state with other calls.
package optimizer
