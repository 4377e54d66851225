package search

import "github.com/blackbriarchess/corvid/board"

// Move-ordering score tiers. Higher sorts first. A dedicated
// counter-move tier sits between killers and quiet history so a
// position's established reply to the opponent's last move gets
// searched before generic quiet-history ordering takes over.
const (
	scoreTT              = 9_000_000
	scoreQueenPromoCap    = 1_500_000
	scoreKnightPromoCap   = 1_400_000
	scoreGoodCaptureBase  = 1_200_000
	scoreQueenPromo       = 1_100_000
	scoreKnightPromo      = 1_000_000
	scoreKiller0          = 900_000
	scoreKiller1          = 800_000
	scoreCounterMove      = 700_000
	scoreBadCaptureBase   = -900_000
	scoreUnderpromotion   = -1_500_000
)

// ScoreMoves assigns an int32 sort key to every move in moves.
func ScoreMoves(pos *board.Position, moves []board.OrderedMove, ttMove board.Move,
	killers [2]board.Move, counter board.Move, hist *HistoryTables, histCtx HistoryContext) {

	side := pos.SideToMove
	for i := range moves {
		moves[i].Key = int32(scoreMove(pos, moves[i].Move, side, ttMove, killers, counter, hist, histCtx))
	}
}

func scoreMove(pos *board.Position, m board.Move, side board.Color, ttMove board.Move,
	killers [2]board.Move, counter board.Move, hist *HistoryTables, histCtx HistoryContext) int {

	if m == ttMove {
		return scoreTT
	}

	switch m.PromotionType() {
	case board.Queen:
		if m.IsCapture() {
			return scoreQueenPromoCap
		}
		return scoreQueenPromo
	case board.Knight:
		if m.IsCapture() {
			return scoreKnightPromoCap
		}
		return scoreKnightPromo
	case board.Rook, board.Bishop:
		return scoreUnderpromotion
	}

	if m.IsCapture() {
		victim := victimType(pos, m)
		attacker := pos.PieceOn(m.From()).Type()
		mvvlva := 10*board.PieceValue[victim] - board.PieceValue[attacker]
		if See(pos, m, -98) {
			return scoreGoodCaptureBase + mvvlva
		}
		return scoreBadCaptureBase + mvvlva
	}

	if m == killers[0] {
		return scoreKiller0
	}
	if m == killers[1] {
		return scoreKiller1
	}
	if counter != board.MoveEmpty && m == counter {
		return scoreCounterMove
	}

	movingPiece := pos.PieceOn(m.From())
	return SeeValue(pos, m) + hist.ReadTotal(histCtx, side, m, movingPiece)
}

func victimType(pos *board.Position, m board.Move) board.PieceType {
	if m.IsEnPassant() {
		return board.Pawn
	}
	return pos.PieceOn(m.To()).Type()
}

// GetNextBest performs a partial selection sort: find the highest-
// keyed move in moves[i:], swap it to position i, and return it.
// Ordering cost then scales with how many moves are actually searched
// rather than with the full move count.
func GetNextBest(moves []board.OrderedMove, i int) board.Move {
	best := i
	for j := i + 1; j < len(moves); j++ {
		if moves[j].Key > moves[best].Key {
			best = j
		}
	}
	if best != i {
		moves[i], moves[best] = moves[best], moves[i]
	}
	return moves[i].Move
}
