package search

import (
	"github.com/blackbriarchess/corvid/board"
	"github.com/blackbriarchess/corvid/tt"
)

// quiescence resolves tactical noise at the end of a PVS line: only
// captures (including capture-promotions) and, while in check, full
// evasions are considered, bounded by a stand-pat score. Non-capturing
// promotions are not searched here.
func (s *State) quiescence(alpha, beta, ply int) int {
	s.bumpNodes()
	s.bumpSeldepth(ply)

	if s.Stop() {
		return 0
	}

	node := s.Node(ply)
	s.clearPV(ply)

	if ply >= MaxHeight {
		return s.Eval.Evaluate(&node.Position)
	}

	// Mate-distance clamp: a mate found deeper than this ply cannot
	// beat a mate already available here.
	if alpha < lossIn(ply) {
		alpha = lossIn(ply)
	}
	if beta > winIn(ply+1) {
		beta = winIn(ply + 1)
	}
	if alpha >= beta {
		return alpha
	}

	pos := &node.Position
	inCheck := pos.InCheck()

	ttEntry := s.TT.Probe(pos.Key, ply)
	if ttEntry.Found {
		switch {
		case ttEntry.Bound == tt.BoundExact:
			return ttEntry.Score
		case ttEntry.Bound == tt.BoundLower && ttEntry.Score >= beta:
			return ttEntry.Score
		case ttEntry.Bound == tt.BoundUpper && ttEntry.Score <= alpha:
			return ttEntry.Score
		}
	}

	var bestScore int
	if inCheck {
		bestScore = lossIn(ply)
	} else {
		standPat := s.Eval.Evaluate(pos)
		bestScore = standPat
		if standPat >= beta {
			s.TT.Store(pos.Key, 0, standPat, tt.BoundLower, board.MoveEmpty, ply)
			return standPat
		}
		if alpha < standPat {
			alpha = standPat
		}
	}

	var moves []board.OrderedMove
	if inCheck {
		n := 0
		for _, m := range pos.GenerateLegalMoves() {
			node.MoveList[n] = board.OrderedMove{Move: m}
			n++
		}
		moves = node.MoveList[:n]
	} else {
		moves = pos.GenerateCaptures(node.MoveList[:])
	}
	ScoreMoves(pos, moves, ttEntry.Move, [2]board.Move{}, board.MoveEmpty, s.History, HistoryContext{-1, -1})

	bestMove := board.MoveEmpty
	childState := s.Node(ply + 1)

	for i := 0; i < len(moves); i++ {
		m := GetNextBest(moves, i)

		if !inCheck && !m.IsPromotion() && !See(pos, m, 1) {
			continue
		}

		child, ok := pos.MakeMove(m)
		if !ok {
			continue
		}
		childState.Position = child
		node.Move = m
		node.Piece = pos.PieceOn(m.From())

		score := -s.quiescence(-beta, -alpha, ply+1)

		if s.Stop() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				s.updatePV(ply, m)
				if score >= beta {
					break
				}
			}
		}
	}

	bound := tt.BoundUpper
	if bestScore >= beta {
		bound = tt.BoundLower
	}
	s.TT.Store(pos.Key, 0, bestScore, bound, bestMove, ply)

	return bestScore
}
