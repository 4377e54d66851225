package board

import "testing"

// perft counts leaf positions at depth by exhaustively applying every
// legal move, the standard move-generation/make-move correctness check.
func perft(pos Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var count uint64
	for _, m := range pos.GenerateLegalMoves() {
		child, ok := pos.MakeMove(m)
		if !ok {
			continue
		}
		count += perft(child, depth-1)
	}
	return count
}

func TestPerftInitialPosition(t *testing.T) {
	pos, err := NewPositionFromFEN(InitialPositionFEN)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
	}
	for _, c := range cases {
		if got := perft(pos, c.depth); got != c.want {
			t.Errorf("perft(%d) = %d, want %d", c.depth, got, c.want)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos, err := NewPositionFromFEN(kiwipete)
	if err != nil {
		t.Fatal(err)
	}

	if got := perft(pos, 1); got != 48 {
		t.Errorf("perft(1) on Kiwipete = %d, want 48", got)
	}
	if got := perft(pos, 2); got != 2039 {
		t.Errorf("perft(2) on Kiwipete = %d, want 2039", got)
	}
}

func TestMakeMoveRejectsMoveIntoCheck(t *testing.T) {
	// White king on e1 is in check from the black rook on e2; stepping
	// to d2 stays on the rook's rank and must be rejected by MakeMove.
	pos, err := NewPositionFromFEN("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.InCheck() {
		t.Fatal("expected position to have white in check")
	}
	illegal := NewMove(SquareE1, SquareD2, FlagQuiet)
	if _, ok := pos.MakeMove(illegal); ok {
		t.Fatal("expected Kd2 to remain illegal (still attacked along rank 2 by the rook on e2)")
	}
}

func TestFENRoundTrip(t *testing.T) {
	for _, fen := range []string{
		InitialPositionFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/8/8/8/8/8/6k1/4K2R w K - 0 1",
	} {
		pos, err := NewPositionFromFEN(fen)
		if err != nil {
			t.Fatalf("parsing %q: %v", fen, err)
		}
		if got := pos.String(); got != fen {
			t.Fatalf("String() = %q, want %q", got, fen)
		}
	}
}
