package search

import (
	"math"

	"github.com/blackbriarchess/corvid/board"
)

const MaxDepth = 64

// lmrTable[d][n] = floor(1 + log(d)*log(n)*0.5), precomputed once at
// process start. Row/column 0 are unused by the caller (reductions are
// only looked up for d>2, n>0) but are filled with log(0) treated as 0
// so an accidental lookup doesn't panic or return nonsense.
var lmrTable [MaxDepth][board.MaxMoves]int

func init() {
	for d := 0; d < MaxDepth; d++ {
		for n := 0; n < len(lmrTable[d]); n++ {
			lmrTable[d][n] = lmrValue(d, n)
		}
	}
}

func lmrValue(d, n int) int {
	ld, ln := 0.0, 0.0
	if d > 0 {
		ld = math.Log(float64(d))
	}
	if n > 0 {
		ln = math.Log(float64(n))
	}
	return int(1 + ld*ln*0.5)
}

func lmrReduction(depth, moveIndex int) int {
	d := depth
	if d >= MaxDepth {
		d = MaxDepth - 1
	}
	n := moveIndex
	if n >= len(lmrTable[0]) {
		n = len(lmrTable[0]) - 1
	}
	return lmrTable[d][n]
}
