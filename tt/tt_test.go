package tt

import (
	"testing"

	"github.com/blackbriarchess/corvid/board"
)

func TestProbeIsIdempotent(t *testing.T) {
	table := New(1)
	table.Store(0x1234, 10, 123, BoundExact, board.NewMove(board.SquareE2, board.SquareE4, 0), 0)

	first := table.Probe(0x1234, 0)
	second := table.Probe(0x1234, 0)

	if first != second {
		t.Fatalf("repeated probe of an unchanged entry diverged: %+v vs %+v", first, second)
	}
	if !first.Found || first.Score != 123 || first.Bound != BoundExact {
		t.Fatalf("unexpected probe result: %+v", first)
	}
}

func TestMateScoreRoundTrip(t *testing.T) {
	const mateIn3 = 30000 - 3

	table := New(1)
	move := board.NewMove(board.SquareD1, board.SquareH5, 0)

	// store at ply 2 (score is ply-relative internally), probe at ply 2.
	table.Store(0xabcd, 5, mateIn3, BoundExact, move, 2)
	got := table.Probe(0xabcd, 2)

	if !got.Found {
		t.Fatal("expected entry to be found")
	}
	if got.Score != mateIn3 {
		t.Fatalf("mate score did not round-trip: stored %d, got %d", mateIn3, got.Score)
	}
}

func TestStoreReplacesShallowerSameKeyEntry(t *testing.T) {
	table := New(1) // 1MB rounds down to a small power-of-two entry count.
	move := board.NewMove(board.SquareG1, board.SquareF3, 0)

	table.Store(0x1111, 4, 10, BoundExact, move, 0)
	// A second store of the same key at greater depth goes through the
	// same-key branch of the replacement policy and must replace the entry.
	table.Store(0x1111, 8, 20, BoundLower, move, 0)

	got := table.Probe(0x1111, 0)
	if !got.Found || got.Depth != 8 || got.Score != 20 {
		t.Fatalf("expected deeper store to replace shallower entry, got %+v", got)
	}
}

func TestHashFullZeroOnFreshTable(t *testing.T) {
	table := New(1)
	if hf := table.HashFull(); hf != 0 {
		t.Fatalf("expected hashfull 0 on a fresh table, got %d", hf)
	}
}
