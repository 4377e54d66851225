package board

// Move generation produces pseudo-legal moves; GenerateLegalMoves (and
// the search package's own move loop) filters with MakeMove + a
// check test on the resulting position rather than detecting pins up
// front. That is strictly more work per node, but it removes an entire
// category of pin/discovered-check bugs that would otherwise be
// unverifiable without a compiler and a perft run.

func (p *Position) addQuiet(out []OrderedMove, n int, from, to Square) int {
	out[n] = OrderedMove{Move: NewMove(from, to, FlagQuiet)}
	return n + 1
}

func (p *Position) addCapture(out []OrderedMove, n int, from, to Square) int {
	out[n] = OrderedMove{Move: NewMove(from, to, FlagCapture)}
	return n + 1
}

func (p *Position) addPromotions(out []OrderedMove, n int, from, to Square, capture bool) int {
	for _, pt := range [4]PieceType{Queen, Rook, Bishop, Knight} {
		out[n] = OrderedMove{Move: NewMove(from, to, promoFlag(pt, capture))}
		n++
	}
	return n
}

// GenerateMoves produces all pseudo-legal moves (quiet and noisy) into
// out and returns the used prefix.
func (p *Position) GenerateMoves(out []OrderedMove) []OrderedMove {
	n := p.generatePawnMoves(out, false)
	n = p.generatePieceMoves(out, n, false)
	n = p.generateCastles(out, n)
	return out[:n]
}

// GenerateCaptures produces captures only, including capture-
// promotions and en passant (the quiescence move set); non-capturing
// promotions are not generated. When the side to move is in check, callers
// should use GenerateMoves instead so evasions aren't missed.
func (p *Position) GenerateCaptures(out []OrderedMove) []OrderedMove {
	n := p.generatePawnMoves(out, true)
	n = p.generatePieceMoves(out, n, true)
	return out[:n]
}

func (p *Position) generatePawnMoves(out []OrderedMove, capturesOnly bool) int {
	n := 0
	side := p.SideToMove
	pawns := p.PiecesOf(side, Pawn)
	occ := p.AllPieces()
	enemies := p.byColor[side.Opposite()]

	var forward, startRank, promoRank int
	if side == White {
		forward, startRank, promoRank = 8, Rank2, Rank7
	} else {
		forward, startRank, promoRank = -8, Rank7, Rank2
	}

	for bb := pawns; bb != 0; bb &= bb - 1 {
		from := FirstOne(bb)
		to := from + forward
		if to < 0 || to >= 64 {
			continue
		}
		onPromoRank := Square(from).Rank() == promoRank

		if !capturesOnly && occ&SquareMask[to] == 0 {
			if onPromoRank {
				n = p.addPromotions(out, n, Square(from), Square(to), false)
			} else {
				n = p.addQuiet(out, n, Square(from), Square(to))
				if Square(from).Rank() == startRank {
					to2 := to + forward
					if occ&SquareMask[to2] == 0 {
						out[n] = OrderedMove{Move: NewMove(Square(from), Square(to2), FlagDoublePush)}
						n++
					}
				}
			}
		}

		for _, capTo := range pawnCaptureSquares(from, side) {
			if capTo < 0 || capTo >= 64 {
				continue
			}
			if enemies&SquareMask[capTo] != 0 {
				if onPromoRank {
					n = p.addPromotions(out, n, Square(from), Square(capTo), true)
				} else {
					n = p.addCapture(out, n, Square(from), Square(capTo))
				}
			} else if Square(capTo) == p.EpSquare {
				out[n] = OrderedMove{Move: NewMove(Square(from), Square(capTo), FlagEnPassant)}
				n++
			}
		}
	}
	return n
}

func pawnCaptureSquares(from int, side Color) [2]int {
	f := Square(from).File()
	var deltas [2]int
	if side == White {
		deltas = [2]int{7, 9}
	} else {
		deltas = [2]int{-7, -9}
	}
	var result [2]int
	for i, d := range deltas {
		to := from + d
		if to < 0 || to >= 64 {
			result[i] = -1
			continue
		}
		// disallow file wraparound
		tf := Square(to).File()
		if abs(tf-f) != 1 {
			result[i] = -1
			continue
		}
		result[i] = to
	}
	return result
}

func (p *Position) generatePieceMoves(out []OrderedMove, n int, capturesOnly bool) int {
	side := p.SideToMove
	own := p.byColor[side]
	enemies := p.byColor[side.Opposite()]
	occ := p.AllPieces()

	for bb := p.PiecesOf(side, Knight); bb != 0; bb &= bb - 1 {
		from := FirstOne(bb)
		n = p.emitTargets(out, n, Square(from), KnightAttacks[from]&^own, enemies, capturesOnly)
	}
	for bb := p.PiecesOf(side, Bishop); bb != 0; bb &= bb - 1 {
		from := FirstOne(bb)
		n = p.emitTargets(out, n, Square(from), BishopAttacks(from, occ)&^own, enemies, capturesOnly)
	}
	for bb := p.PiecesOf(side, Rook); bb != 0; bb &= bb - 1 {
		from := FirstOne(bb)
		n = p.emitTargets(out, n, Square(from), RookAttacks(from, occ)&^own, enemies, capturesOnly)
	}
	for bb := p.PiecesOf(side, Queen); bb != 0; bb &= bb - 1 {
		from := FirstOne(bb)
		n = p.emitTargets(out, n, Square(from), QueenAttacks(from, occ)&^own, enemies, capturesOnly)
	}
	{
		from := p.King(side)
		n = p.emitTargets(out, n, from, KingAttacks[from]&^own, enemies, capturesOnly)
	}
	return n
}

func (p *Position) emitTargets(out []OrderedMove, n int, from Square, targets, enemies Bitboard, capturesOnly bool) int {
	for bb := targets; bb != 0; bb &= bb - 1 {
		to := FirstOne(bb)
		if enemies&SquareMask[to] != 0 {
			n = p.addCapture(out, n, from, Square(to))
		} else if !capturesOnly {
			n = p.addQuiet(out, n, from, Square(to))
		}
	}
	return n
}

func (p *Position) generateCastles(out []OrderedMove, n int) int {
	side := p.SideToMove
	occ := p.AllPieces()
	enemy := side.Opposite()

	if p.InCheck() {
		return n
	}

	if side == White {
		if p.CastleFlags&WhiteKingSide != 0 &&
			occ&(SquareMask[SquareF1.int()]|SquareMask[SquareG1.int()]) == 0 &&
			!p.IsAttackedBy(SquareF1, enemy) && !p.IsAttackedBy(SquareG1, enemy) {
			out[n] = OrderedMove{Move: NewMove(SquareE1, SquareG1, FlagKingCastle)}
			n++
		}
		if p.CastleFlags&WhiteQueenSide != 0 &&
			occ&(SquareMask[SquareD1.int()]|SquareMask[SquareC1.int()]|SquareMask[SquareB1.int()]) == 0 &&
			!p.IsAttackedBy(SquareD1, enemy) && !p.IsAttackedBy(SquareC1, enemy) {
			out[n] = OrderedMove{Move: NewMove(SquareE1, SquareC1, FlagQueenCastle)}
			n++
		}
	} else {
		if p.CastleFlags&BlackKingSide != 0 &&
			occ&(SquareMask[SquareF8.int()]|SquareMask[SquareG8.int()]) == 0 &&
			!p.IsAttackedBy(SquareF8, enemy) && !p.IsAttackedBy(SquareG8, enemy) {
			out[n] = OrderedMove{Move: NewMove(SquareE8, SquareG8, FlagKingCastle)}
			n++
		}
		if p.CastleFlags&BlackQueenSide != 0 &&
			occ&(SquareMask[SquareD8.int()]|SquareMask[SquareC8.int()]|SquareMask[SquareB8.int()]) == 0 &&
			!p.IsAttackedBy(SquareD8, enemy) && !p.IsAttackedBy(SquareC8, enemy) {
			out[n] = OrderedMove{Move: NewMove(SquareE8, SquareC8, FlagQueenCastle)}
			n++
		}
	}
	return n
}

// GenerateLegalMoves returns only moves that do not leave the mover's
// king in check.
func (p *Position) GenerateLegalMoves() []Move {
	var buf [MaxMoves]OrderedMove
	pseudo := p.GenerateMoves(buf[:])
	result := make([]Move, 0, len(pseudo))
	for _, om := range pseudo {
		if child, ok := p.MakeMove(om.Move); ok {
			_ = child
			result = append(result, om.Move)
		}
	}
	return result
}

func (s Square) int() int { return int(s) }

const (
	SquareA1 Square = iota
	SquareB1
	SquareC1
	SquareD1
	SquareE1
	SquareF1
	SquareG1
	SquareH1
	SquareA2
	SquareB2
	SquareC2
	SquareD2
	SquareE2
	SquareF2
	SquareG2
	SquareH2
	SquareA3
	SquareB3
	SquareC3
	SquareD3
	SquareE3
	SquareF3
	SquareG3
	SquareH3
	SquareA4
	SquareB4
	SquareC4
	SquareD4
	SquareE4
	SquareF4
	SquareG4
	SquareH4
	SquareA5
	SquareB5
	SquareC5
	SquareD5
	SquareE5
	SquareF5
	SquareG5
	SquareH5
	SquareA6
	SquareB6
	SquareC6
	SquareD6
	SquareE6
	SquareF6
	SquareG6
	SquareH6
	SquareA7
	SquareB7
	SquareC7
	SquareD7
	SquareE7
	SquareF7
	SquareG7
	SquareH7
	SquareA8
	SquareB8
	SquareC8
	SquareD8
	SquareE8
	SquareF8
	SquareG8
	SquareH8
)
