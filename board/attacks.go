package board

// Sliding attacks are generated by ray-casting against the occupancy
// bitboard rather than with magic-multiplication lookup tables: hand-
// derived magic constants with no compiler available to verify the
// resulting perfect hash are a correctness risk this module avoids.
// BishopAttacks/RookAttacks/QueenAttacks take a square and an occupancy
// bitboard either way, which is all SEE's x-ray regeneration and move
// generation actually depend on.

var bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var rookDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func slideAttacks(sq int, occupied Bitboard, dirs [4][2]int) Bitboard {
	var attacks Bitboard
	f0, r0 := Square(sq).File(), Square(sq).Rank()
	for _, d := range dirs {
		f, r := f0+d[0], r0+d[1]
		for f >= 0 && f < 8 && r >= 0 && r < 8 {
			s := MakeSquare(f, r)
			attacks |= SquareMask[s]
			if occupied&SquareMask[s] != 0 {
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return attacks
}

func BishopAttacks(sq int, occupied Bitboard) Bitboard {
	return slideAttacks(sq, occupied, bishopDirs)
}

func RookAttacks(sq int, occupied Bitboard) Bitboard {
	return slideAttacks(sq, occupied, rookDirs)
}

func QueenAttacks(sq int, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

func initMagics() {
	// no precomputed tables needed by the ray-casting implementation;
	// kept as a named hook so init order stays bitboard-tables-before-
	// position-tables even though there's nothing to precompute.
}

// AllAttackers returns every piece of either color attacking sq, given
// an arbitrary occupancy (used by SEE to recompute after virtual
// capture removal and by check detection with the real occupancy).
func AllAttackers(pos *Position, sq int, occupied Bitboard) Bitboard {
	return (WhitePawnAttacks[sq] & pos.byColor[Black] & pos.byType[Pawn]) |
		(BlackPawnAttacks[sq] & pos.byColor[White] & pos.byType[Pawn]) |
		(KnightAttacks[sq] & pos.byType[Knight]) |
		(KingAttacks[sq] & pos.byType[King]) |
		(BishopAttacks(sq, occupied) & (pos.byType[Bishop] | pos.byType[Queen])) |
		(RookAttacks(sq, occupied) & (pos.byType[Rook] | pos.byType[Queen]))
}
