package eval

import (
	"testing"

	"github.com/blackbriarchess/corvid/board"
)

func TestEvaluateIsNearLevelInSymmetricOpening(t *testing.T) {
	pos, err := board.NewPositionFromFEN("r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	if err != nil {
		t.Fatal(err)
	}

	e := NewEvaluator()
	score := e.Evaluate(&pos)

	// A roughly symmetric, developing position evaluated from the side
	// to move's perspective should be close to level; this is a loose
	// sanity bound, not an exact material check.
	if score > 150 || score < -150 {
		t.Errorf("expected a roughly level evaluation for a symmetric opening position, got %d", score)
	}
}

func TestEvaluateFavorsMaterialAdvantage(t *testing.T) {
	pos, err := board.NewPositionFromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	e := NewEvaluator()
	if score := e.Evaluate(&pos); score <= 0 {
		t.Errorf("expected white (up a rook) to have a positive evaluation, got %d", score)
	}
}

func TestPhaseIsZeroWithNoNonPawnMaterial(t *testing.T) {
	pos, err := board.NewPositionFromFEN("4k3/4p3/8/8/8/8/4P3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := Phase(&pos); got != 0 {
		t.Errorf("expected phase 0 with only kings and pawns on the board, got %d", got)
	}
}

func TestScorePackingRoundTrips(t *testing.T) {
	s := S(125, -40)
	if s.Mg() != 125 {
		t.Errorf("Mg() = %d, want 125", s.Mg())
	}
	if s.Eg() != -40 {
		t.Errorf("Eg() = %d, want -40", s.Eg())
	}
}
