package search

import (
	"testing"

	"github.com/blackbriarchess/corvid/board"
)

func TestHistoryStaysWithinBound(t *testing.T) {
	h := &HistoryTables{}
	move := board.NewMove(board.SquareE2, board.SquareE4, board.FlagQuiet)
	piece := board.MakePiece(board.White, board.Pawn)

	ctx := HistoryContext{Cont1Idx: -1, Cont2Idx: -1}
	quiets := []quietTried{{move: move, piece: piece}}
	var killers [2]board.Move

	// Repeatedly apply the largest possible bonus (depth 64 saturates
	// historyBonus at MaxHistory) and confirm the gravity formula keeps
	// the stored value from ever exceeding the documented bound.
	for i := 0; i < 1000; i++ {
		h.Update(ctx, board.White, quiets, move, 64, 0, &killers, board.NoPiece, 0)
		if got := h.Butterfly(board.White, board.SquareE2, board.SquareE4); got > MaxHistory || got < -MaxHistory {
			t.Fatalf("iteration %d: butterfly history %d exceeded bound %d", i, got, MaxHistory)
		}
	}
}

func TestHistoryBonusUpdatesKillerAndCounter(t *testing.T) {
	h := &HistoryTables{}
	best := board.NewMove(board.SquareG1, board.SquareF3, board.FlagQuiet)
	miss := board.NewMove(board.SquareB1, board.SquareC3, board.FlagQuiet)
	piece := board.MakePiece(board.White, board.Knight)

	ctx := HistoryContext{Cont1Idx: -1, Cont2Idx: -1}
	quiets := []quietTried{
		{move: miss, piece: piece},
		{move: best, piece: piece},
	}
	var killers [2]board.Move

	prevPiece := board.MakePiece(board.Black, board.Pawn)
	prevTo := board.SquareD5

	h.Update(ctx, board.White, quiets, best, 4, 0, &killers, prevPiece, prevTo)

	if killers[0] != best {
		t.Errorf("expected killers[0] to be the cutting move, got %v", killers[0])
	}
	if got := h.CounterMove(prevPiece, prevTo); got != best {
		t.Errorf("expected counter-move table to record the cutting move, got %v", got)
	}

	bonus := h.Butterfly(board.White, best.From(), best.To())
	malus := h.Butterfly(board.White, miss.From(), miss.To())
	if bonus <= 0 {
		t.Errorf("expected the cutting move to receive a positive bonus, got %d", bonus)
	}
	if malus >= 0 {
		t.Errorf("expected the non-cutting move to receive a negative malus, got %d", malus)
	}
}

func TestAgeHistoryHalves(t *testing.T) {
	h := &HistoryTables{}
	move := board.NewMove(board.SquareE2, board.SquareE4, board.FlagQuiet)
	piece := board.MakePiece(board.White, board.Pawn)
	ctx := HistoryContext{Cont1Idx: -1, Cont2Idx: -1}
	var killers [2]board.Move

	h.Update(ctx, board.White, []quietTried{{move: move, piece: piece}}, move, 10, 0, &killers, board.NoPiece, 0)
	before := h.Butterfly(board.White, board.SquareE2, board.SquareE4)

	h.AgeHistory()
	after := h.Butterfly(board.White, board.SquareE2, board.SquareE4)

	if after != before/2 {
		t.Errorf("AgeHistory did not halve the table: before=%d after=%d", before, after)
	}
}
