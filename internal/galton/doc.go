// Package galton implements the concurrent Galton board simulation core.
//
// A Simulator drops a number of balls (trials) through a board with
// binCount-1 rows of pins. Each trial is a fixed-length random binary walk
// that lands in one of binCount bins. Trials are dispatched to a bounded pool
// of goroutines whose width is the number of hardware execution contexts, and
// each completed trial atomically increments one counter of a BinStore.
//
// A BinStore moves through three states:
//
//	Empty -> Filling -> Sealed
//
// It is only readable once Sealed, which happens after the Simulator has
// observed that every dispatched trial completed within the time budget. A
// run that exceeds its budget, or whose caller is canceled while waiting,
// returns an error and no store.
package galton
