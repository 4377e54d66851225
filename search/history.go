package search

import "github.com/blackbriarchess/corvid/board"

// HistoryTables owns the butterfly, counter-move, and continuation
// history tables, plus the counter-move table proper. Killer moves
// live in per-ply NodeState instead, since they are a property of a
// ply, not of the whole search.
type HistoryTables struct {
	butterfly   [2][64][64]int16
	cont1       [1024][1024]int16
	cont2       [1024][1024]int16
	counterMove [board.PieceNB][64]board.Move
}

// pieceSquareIndex packs a piece's type, destination square, and
// color into a 10-bit continuation-history index matching the
// cont1/cont2 table dimensions.
func pieceSquareIndex(pc board.Piece, to board.Square) int {
	idx := int(pc.Type())<<6 | int(to)
	if pc.Color() == board.Black {
		idx |= 1 << 9
	}
	return idx
}

// HistoryContext captures the continuation-history anchors for one
// node: the 1-ply (counter-move history) and 2-ply (follow-up
// history) indices derived from the moves that led to this node, or
// -1 when no such predecessor exists (root, or the predecessor was a
// null move).
type HistoryContext struct {
	Cont1Idx int
	Cont2Idx int
}

func (h *HistoryTables) Butterfly(side board.Color, from, to board.Square) int {
	return int(h.butterfly[side][from][to])
}

// ReadTotal is the quiet-move ordering score: butterfly history plus
// whichever continuation-history contributions apply at this node.
func (h *HistoryTables) ReadTotal(ctx HistoryContext, side board.Color, move board.Move, movingPiece board.Piece) int {
	score := h.Butterfly(side, move.From(), move.To())
	curIdx := pieceSquareIndex(movingPiece, move.To())
	if ctx.Cont1Idx >= 0 {
		score += int(h.cont1[ctx.Cont1Idx][curIdx])
	}
	if ctx.Cont2Idx >= 0 {
		score += int(h.cont2[ctx.Cont2Idx][curIdx])
	}
	return score
}

func historyBonus(depth int) int {
	b := 16 * depth * depth
	if b > MaxHistory {
		b = MaxHistory
	}
	return b
}

// Update applies the gravity formula to the cutting quiet move (bonus)
// and every quiet move tried earlier at this node that failed to cut
// off (malus), then refreshes the killer and counter-move tables.
func (h *HistoryTables) Update(ctx HistoryContext, side board.Color, quiets []quietTried, best board.Move, depth int, ply int, killers *[2]board.Move, prevPiece board.Piece, prevTo board.Square) {
	bonus := historyBonus(depth)

	for _, q := range quiets {
		b := bonus
		if q.move != best {
			b = -bonus
		}
		updateHistory(&h.butterfly[side][q.move.From()][q.move.To()], b)
		curIdx := pieceSquareIndex(q.piece, q.move.To())
		if ctx.Cont1Idx >= 0 {
			updateHistory(&h.cont1[ctx.Cont1Idx][curIdx], b)
		}
		if ctx.Cont2Idx >= 0 {
			updateHistory(&h.cont2[ctx.Cont2Idx][curIdx], b)
		}
	}

	if best != killers[0] {
		killers[1] = killers[0]
		killers[0] = best
	}
	if prevPiece != board.NoPiece {
		h.counterMove[prevPiece][prevTo] = best
	}
}

func updateHistory(v *int16, bonus int) {
	cur := int(*v)
	cur += bonus - cur*absInt(bonus)/MaxHistory
	*v = int16(cur)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// AgeHistory halves every table rather than zeroing it outright, so
// move-ordering quality carries over move to move within one game and
// only decays between games.
func (h *HistoryTables) AgeHistory() {
	for s := range h.butterfly {
		for f := range h.butterfly[s] {
			for t := range h.butterfly[s][f] {
				h.butterfly[s][f][t] /= 2
			}
		}
	}
	for i := range h.cont1 {
		for j := range h.cont1[i] {
			h.cont1[i][j] /= 2
			h.cont2[i][j] /= 2
		}
	}
}

func (h *HistoryTables) ClearCounters() {
	for i := range h.counterMove {
		for j := range h.counterMove[i] {
			h.counterMove[i][j] = board.MoveEmpty
		}
	}
}

func (h *HistoryTables) CounterMove(prevPiece board.Piece, prevTo board.Square) board.Move {
	if prevPiece == board.NoPiece {
		return board.MoveEmpty
	}
	return h.counterMove[prevPiece][prevTo]
}

// quietTried records one quiet move considered at a node, for the
// post-cutoff history update pass.
type quietTried struct {
	move  board.Move
	piece board.Piece
}
