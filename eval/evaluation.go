package eval

import . "github.com/blackbriarchess/corvid/board"

var materialScore = [PieceTypeNB]Score{
	Pawn:   S(82, 94),
	Knight: S(337, 281),
	Bishop: S(365, 297),
	Rook:   S(477, 512),
	Queen:  S(1025, 936),
}

// Evaluator is the IEvaluator collaborator the search package depends
// on (board.Position in, centipawn score from the side to move's
// point of view out).
type Evaluator struct{}

func NewEvaluator() *Evaluator { return &Evaluator{} }

// Evaluate returns a static score from the side-to-move's perspective.
func (e *Evaluator) Evaluate(p *Position) int {
	var score Score
	for sq := 0; sq < 64; sq++ {
		pc := p.PieceOn(Square(sq))
		if pc == NoPiece {
			continue
		}
		pt := pc.Type()
		s := materialScore[pt] + pstValue(pc, Square(sq))
		if pc.Color() == Black {
			s = -s
		}
		score += s
	}

	phase := p.Phase()
	mg, eg := score.Mg(), score.Eg()
	tapered := (mg*phase + eg*(24-phase)) / 24

	if p.SideToMove == Black {
		tapered = -tapered
	}
	return tapered
}

func pstValue(pc Piece, sq Square) Score {
	table := pstOf(pc.Type())
	if table == nil {
		return 0
	}
	idx := sq
	if pc.Color() == Black {
		idx = sq.Flip()
	}
	return table[idx]
}

// Phase reports the 0..24 game-phase estimate for the position, used
// by the time manager to scale its soft deadline in the endgame.
func Phase(p *Position) int { return p.Phase() }
