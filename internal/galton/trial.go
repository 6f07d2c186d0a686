package galton

import (
	"math/bits"
	"math/rand/v2"
)

// NewSource returns a fresh random source for one trial. Sources are never
// shared between trials; the seed is drawn from the runtime's global
// generator, so runs are not reproducible.
func NewSource() rand.Source {
	return rand.NewPCG(rand.Uint64(), rand.Uint64())
}

// Trial drops one ball through a board with bins-1 rows of pins and returns
// the landing bin.
//
// The index starts at bins-1 and every row is a fair coin flip that either
// decrements it or leaves it unchanged. One 64-bit draw from src supplies up
// to 64 flips, one per bit. The result is always in [0, bins-1].
func Trial(src rand.Source, bins int) int {
	index := bins - 1
	for rows := bins - 1; rows > 0; rows -= 64 {
		word := src.Uint64()
		if rows < 64 {
			word &= (uint64(1) << rows) - 1
		}
		index -= bits.OnesCount64(word)
	}
	return index
}
