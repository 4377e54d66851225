package search

import "github.com/blackbriarchess/corvid/board"

// See reports whether the swap-off value of playing move on its
// target square is at least threshold, using the classic iterative
// least-valuable-attacker algorithm. Promotions are a conservative
// unconditional pass: the move scorer prices promotions in their own
// tier, so SEE never needs to resolve their exact swap value.
func See(pos *board.Position, move board.Move, threshold int) bool {
	if move.IsPromotion() {
		return true
	}

	from, to := move.From(), move.To()

	var victimType board.PieceType
	if move.IsEnPassant() {
		victimType = board.Pawn
	} else {
		victimType = pos.PieceOn(to).Type()
	}

	value := board.PieceValue[victimType] - threshold
	if value < 0 {
		return false
	}

	attackerType := pos.PieceOn(from).Type()
	value -= board.PieceValue[attackerType]
	if value >= 0 {
		return true
	}

	occupied := pos.AllPieces()&^board.SquareMask[from] | board.SquareMask[to]
	if move.IsEnPassant() {
		var capSq board.Square
		if pos.SideToMove == board.White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		occupied &^= board.SquareMask[capSq]
	}

	attackers := board.AllAttackers(pos, int(to), occupied) & occupied
	bishops := pos.Pieces(board.Bishop) | pos.Pieces(board.Queen)
	rooks := pos.Pieces(board.Rook) | pos.Pieces(board.Queen)

	side := pos.SideToMove.Opposite()

	for {
		myAttackers := attackers & pos.Colors(side)
		if myAttackers == 0 {
			break
		}

		atype, afrom := leastValuableAttacker(pos, myAttackers)

		occupied &^= board.SquareMask[afrom]
		if atype == board.Pawn || atype == board.Bishop || atype == board.Queen {
			attackers |= board.BishopAttacks(int(to), occupied) & bishops
		}
		if atype == board.Rook || atype == board.Queen {
			attackers |= board.RookAttacks(int(to), occupied) & rooks
		}
		attackers &= occupied

		side = side.Opposite()

		value = -value - 1 - board.PieceValue[atype]
		if value >= 0 {
			if atype == board.King && (attackers&pos.Colors(side)) != 0 {
				side = side.Opposite()
			}
			break
		}
	}

	return side != pos.SideToMove
}

// SeeValue computes the actual swap-off material value of move using
// a gain stack and a negamax min/max backward pass. The move scorer
// adds it to the history score of quiet moves, and the SEE tests check
// it against the boolean See gate; capture ordering and quiescence
// pruning call See.
func SeeValue(pos *board.Position, move board.Move) int {
	from, to := move.From(), move.To()
	var gain [32]int
	depth := 0

	occupied := pos.AllPieces()

	var capturedType board.PieceType
	if move.IsEnPassant() {
		capturedType = board.Pawn
	} else {
		capturedType = pos.PieceOn(to).Type()
	}
	gain[0] = board.PieceValue[capturedType]

	if move.IsEnPassant() {
		var capSq board.Square
		if pos.SideToMove == board.White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		occupied &^= board.SquareMask[capSq]
	}

	movingType := pos.PieceOn(from).Type()
	if promo := move.PromotionType(); promo != board.NoPieceType {
		gain[0] += board.PieceValue[promo] - board.PieceValue[board.Pawn]
		movingType = promo
	}

	occupied &^= board.SquareMask[from]
	attackers := board.AllAttackers(pos, int(to), occupied)
	bishops := pos.Pieces(board.Bishop) | pos.Pieces(board.Queen)
	rooks := pos.Pieces(board.Rook) | pos.Pieces(board.Queen)

	side := pos.SideToMove.Opposite()
	for depth < len(gain)-1 {
		myAttackers := attackers & pos.Colors(side) & occupied
		if myAttackers == 0 {
			break
		}
		atype, afrom := leastValuableAttacker(pos, myAttackers)

		depth++
		gain[depth] = board.PieceValue[movingType] - gain[depth-1]

		occupied &^= board.SquareMask[afrom]
		attackers &^= board.SquareMask[afrom]
		if atype == board.Pawn || atype == board.Bishop || atype == board.Queen {
			attackers |= board.BishopAttacks(int(to), occupied) & bishops
		}
		if atype == board.Rook || atype == board.Queen {
			attackers |= board.RookAttacks(int(to), occupied) & rooks
		}
		attackers &= occupied

		movingType = atype
		if movingType == board.Pawn && (board.Square(to).Rank() == board.Rank8 || board.Square(to).Rank() == board.Rank1) {
			gain[depth] += board.PieceValue[board.Queen] - board.PieceValue[board.Pawn]
			movingType = board.Queen
		}

		side = side.Opposite()
	}

	for depth > 0 {
		if -gain[depth] < gain[depth-1] {
			gain[depth-1] = -gain[depth]
		}
		depth--
	}
	return gain[0]
}

func leastValuableAttacker(pos *board.Position, attackers board.Bitboard) (board.PieceType, int) {
	for _, pt := range [6]board.PieceType{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
		if bb := attackers & pos.Pieces(pt); bb != 0 {
			return pt, board.FirstOne(bb)
		}
	}
	return board.NoPieceType, -1
}
