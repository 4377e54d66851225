package search

import (
	"context"
	"testing"
	"time"

	"github.com/blackbriarchess/corvid/board"
	"github.com/blackbriarchess/corvid/eval"
	"github.com/blackbriarchess/corvid/tt"
)

func searchDepth(t *testing.T, fen string, depth int) SearchInfo {
	t.Helper()
	pos, err := board.NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parsing %q: %v", fen, err)
	}

	engine := NewEngine(16)
	engine.Prepare()
	return engine.Search(context.Background(), SearchParams{
		Positions: []board.Position{pos},
		Limits:    LimitsType{Depth: depth},
	})
}

func TestSearchIsDeterministic(t *testing.T) {
	const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

	first := searchDepth(t, kiwipete, 6)
	second := searchDepth(t, kiwipete, 6)

	if first.BestMove() != second.BestMove() {
		t.Errorf("search was not deterministic: %v vs %v", first.BestMove(), second.BestMove())
	}
	if first.Score != second.Score {
		t.Errorf("search score was not deterministic: %+v vs %+v", first.Score, second.Score)
	}
}

func TestMateInTwoWithCastling(t *testing.T) {
	const fen = "8/8/8/8/8/8/6k1/4K2R w K - 0 1"
	result := searchDepth(t, fen, 5)

	if result.Score.Mate != 2 {
		t.Fatalf("expected mate in 2, got score %+v (best move %v)", result.Score, result.BestMove())
	}
}

func TestFindsMateAfterQxf7(t *testing.T) {
	const fen = "r1b1kbnr/pppp1ppp/2n5/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 0 1"
	result := searchDepth(t, fen, 7)

	if result.Score.Mate == 0 {
		t.Fatalf("expected a mating score, got %+v (best move %v)", result.Score, result.BestMove())
	}
}

func TestLaskerReichhelmKb5Stable(t *testing.T) {
	const fen = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	pos, err := board.NewPositionFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(32)
	engine.Prepare()

	var firstMoves []board.Move
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	engine.Search(ctx, SearchParams{
		Positions: []board.Position{pos},
		Limits:    LimitsType{Depth: 16},
		Progress: func(si SearchInfo) {
			firstMoves = append(firstMoves, si.BestMove())
		},
	})

	if len(firstMoves) < 3 {
		t.Skip("not enough completed iterations to judge PV stability in this environment")
	}
	last3 := firstMoves[len(firstMoves)-3:]
	for _, m := range last3 {
		if m != last3[0] {
			t.Errorf("PV first move was not stable over the last three iterations: %v", last3)
		}
	}

	wantKb5 := board.NewMove(board.SquareA5, board.SquareB5, board.FlagQuiet)
	if got := last3[len(last3)-1]; got != wantKb5 {
		t.Errorf("expected Kb5 (%v) as the settled best move, got %v", wantKb5, got)
	}
}

func TestPVIsLegalSequence(t *testing.T) {
	pos, err := board.NewPositionFromFEN(board.InitialPositionFEN)
	if err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(8)
	engine.Prepare()
	result := engine.Search(context.Background(), SearchParams{
		Positions: []board.Position{pos},
		Limits:    LimitsType{Depth: 5},
	})

	cur := pos
	for i, m := range result.MainLine {
		next, ok := cur.MakeMove(m)
		if !ok {
			t.Fatalf("PV move %d (%v) was illegal in the position it was played from", i, m)
		}
		cur = next
	}
}

func TestPVSNodeCountIsMonotoneAcrossDepth(t *testing.T) {
	pos, err := board.NewPositionFromFEN(board.InitialPositionFEN)
	if err != nil {
		t.Fatal(err)
	}

	eng := NewEngine(8)
	eng.Prepare()

	var nodesAtDepth []int64
	eng.Search(context.Background(), SearchParams{
		Positions: []board.Position{pos},
		Limits:    LimitsType{Depth: 4},
		Progress: func(si SearchInfo) {
			nodesAtDepth = append(nodesAtDepth, si.Nodes)
		},
	})

	for i := 1; i < len(nodesAtDepth); i++ {
		if nodesAtDepth[i] < nodesAtDepth[i-1] {
			t.Errorf("node count was not monotone across depths: %v", nodesAtDepth)
		}
	}
}

// sanity check that the helper constructors used across this file agree
// with the package's own types, guarding against accidental signature
// drift between search and its eval/tt collaborators.
func TestEngineConstructsCollaborators(t *testing.T) {
	eng := NewEngine(4)
	if eng.TT == nil || eng.Eval == nil || eng.History == nil {
		t.Fatal("NewEngine left a collaborator nil")
	}
	var _ *tt.Table = eng.TT
	var _ *eval.Evaluator = eng.Eval
}
