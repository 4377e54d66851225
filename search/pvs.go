package search

import (
	"github.com/blackbriarchess/corvid/board"
	"github.com/blackbriarchess/corvid/tt"
)

// MatedInMax is the threshold quiet-move pruning compares best_score
// against: a position already worse than any mate distant-provable
// within the remaining search horizon is not worth pruning around.
const MatedInMax = -ValueMate + MaxHeight

// Late-move-pruning quiet-count tables, indexed by depth (clamped to
// 11), one row for the improving flag.
var lmpTable = [2][12]int{
	{0, 2, 3, 5, 9, 13, 18, 25, 34, 45, 55, 55},
	{0, 5, 6, 9, 14, 21, 30, 41, 55, 69, 84, 84},
}

// pvs is the principal variation search recursion: mate-distance
// pruning, TT-driven cutoffs, internal iterative reduction, static-eval
// pruning (razoring, reverse futility, null-move), quiet-move pruning,
// late-move reductions, and the full null-window/full-window PVS
// re-search cascade.
func (s *State) pvs(alpha, beta, depth, ply int, cutNode bool) int {
	pvNode := beta-alpha > 1

	if depth <= 0 {
		node := s.Node(ply)
		if node.Position.InCheck() {
			depth = 1
		} else {
			return s.quiescence(alpha, beta, ply)
		}
	}

	s.bumpNodes()
	if s.Stop() {
		return 0
	}

	node := s.Node(ply)
	pos := &node.Position
	s.clearPV(ply)

	if ply > 0 {
		if s.isDraw(ply) {
			return 1 - int(s.Nodes()&2)
		}
		if ply >= MaxHeight {
			if pos.InCheck() {
				return 0
			}
			return s.Eval.Evaluate(pos)
		}
	}

	if alpha < lossIn(ply) {
		alpha = lossIn(ply)
	}
	if beta > winIn(ply+1) {
		beta = winIn(ply + 1)
	}
	if alpha >= beta {
		return alpha
	}
	origAlpha := alpha

	inCheck := pos.InCheck()

	ttEntry := s.TT.Probe(pos.Key, ply)
	var ttMove board.Move
	if ttEntry.Found {
		ttMove = ttEntry.Move
		if (!pvNode || depth == 0) && ttEntry.Depth >= depth && (cutNode || ttEntry.Score <= alpha) {
			cuts := (ttEntry.Bound == tt.BoundLower && ttEntry.Score >= beta) ||
				(ttEntry.Bound == tt.BoundUpper && ttEntry.Score <= alpha) ||
				ttEntry.Bound == tt.BoundExact
			if cuts {
				if ttEntry.Score >= beta && ttMove != board.MoveEmpty && ttMove.IsQuiet() {
					s.History.bumpSingle(pos.SideToMove, ttMove, pos.PieceOn(ttMove.From()), depth)
				}
				return ttEntry.Score
			}
		}
		if !pvNode && ttEntry.Depth >= depth-1 && ttEntry.Bound == tt.BoundUpper &&
			ttEntry.Score+140 <= alpha && (cutNode || ttEntry.Score <= alpha) {
			return alpha
		}
	}

	if depth >= 4 && ttEntry.Bound == tt.BoundNone && ply > 0 {
		depth--
	}

	var staticEval, bestScore int
	if inCheck {
		staticEval = lossIn(ply)
		bestScore = staticEval
	} else {
		staticEval = s.Eval.Evaluate(pos)
		bestScore = staticEval
		if ttEntry.Found {
			if ttEntry.Bound == tt.BoundLower && ttEntry.Score > bestScore {
				bestScore = ttEntry.Score
			} else if ttEntry.Bound == tt.BoundUpper && ttEntry.Score < bestScore {
				bestScore = ttEntry.Score
			} else if ttEntry.Bound == tt.BoundExact {
				bestScore = ttEntry.Score
			}
		}
	}
	node.StaticEval = staticEval

	improving := false
	if ply >= 2 && !inCheck {
		improving = staticEval > s.Node(ply-2).StaticEval
	}

	if !inCheck && !pvNode {
		improvingInt := 0
		if improving {
			improvingInt = 1
		}

		if depth <= 2 && staticEval+150+75*improvingInt <= alpha {
			qScore := s.quiescence(alpha, beta, ply)
			if qScore <= alpha {
				return qScore
			}
		}

		if depth <= 8 && bestScore-85*(depth-improvingInt) >= beta {
			return bestScore
		}

		if bestScore >= beta && !s.priorMoveWasNull(ply) && depth >= 2 && hasNonPawnMaterial(pos) &&
			!(ttEntry.Found && ttEntry.Bound == tt.BoundUpper && ttEntry.Score < beta) {
			r := 4 + depth/5
			if d := (bestScore - beta) / 191; d < 3 {
				r += d
			} else {
				r += 3
			}
			if pm, ok := s.priorMove(ply); ok && isTactical(pm) {
				r++
			}

			child := pos.MakeNullMove()
			s.Node(ply + 1).Position = child
			node.Move = board.MoveNull
			score := -s.pvs(-beta, -beta+1, depth-r, ply+1, !cutNode)
			if s.Stop() {
				return 0
			}
			if score >= beta {
				if score >= ValueWin {
					return beta
				}
				return score
			}
		}
	}

	var buf [board.MaxMoves]board.OrderedMove
	moves := pos.GenerateMoves(buf[:])
	if len(moves) == 0 {
		if inCheck {
			return lossIn(ply)
		}
		return ValueDraw
	}

	killers := node.Killers
	counter := board.MoveEmpty
	var histCtx HistoryContext
	prevPiece := board.NoPiece
	var prevTo board.Square
	if ply > 0 {
		prev := s.Node(ply - 1)
		if prev.Move != board.MoveEmpty && prev.Move != board.MoveNull {
			prevPiece, prevTo = prev.Piece, prev.Move.To()
			counter = s.History.CounterMove(prevPiece, prevTo)
			histCtx.Cont1Idx = pieceSquareIndex(prevPiece, prevTo)
		} else {
			histCtx.Cont1Idx = -1
		}
	} else {
		histCtx.Cont1Idx = -1
	}
	if ply > 1 {
		pp := s.Node(ply - 2)
		if pp.Move != board.MoveEmpty && pp.Move != board.MoveNull {
			histCtx.Cont2Idx = pieceSquareIndex(pp.Piece, pp.Move.To())
		} else {
			histCtx.Cont2Idx = -1
		}
	} else {
		histCtx.Cont2Idx = -1
	}

	ScoreMoves(pos, moves, ttMove, killers, counter, s.History, histCtx)
	s.Node(ply + 1).Killers = [2]board.Move{}

	bestMove := board.MoveEmpty

	quietsTried := node.Quiets[:0]
	moveCount := 0
	skipQuiets := false

	for i := 0; i < len(moves); i++ {
		m := GetNextBest(moves, i)
		isQuiet := m.IsQuiet() && !m.IsPromotion()

		if isQuiet && skipQuiets {
			continue
		}

		movingPiece := pos.PieceOn(m.From())
		scHist := s.History.Butterfly(pos.SideToMove, m.From(), m.To())

		if ply > 0 && isQuiet && bestScore > MatedInMax {
			improvingIdx := 0
			if improving {
				improvingIdx = 1
			}

			histDepthLimit := [2]int{3, 2}[improvingIdx]
			histThreshold := [2]int{-1000, -2000}[improvingIdx] * depth
			if depth <= histDepthLimit && scHist < histThreshold {
				continue
			}

			if staticEval+90*depth <= alpha && depth <= 8 && scHist < [2]int{-500, -1000}[improvingIdx] {
				skipQuiets = true
			}

			if depth <= 8 {
				d := depth
				if d > 11 {
					d = 11
				}
				if len(quietsTried) >= lmpTable[improvingIdx][d] {
					skipQuiets = true
				}
			}
			if skipQuiets {
				continue
			}
		}

		child, ok := pos.MakeMove(m)
		if !ok {
			continue
		}
		moveCount++

		newDepth := depth - 1
		givesCheck := child.InCheck()
		if givesCheck {
			newDepth++
		}

		childNode := s.Node(ply + 1)
		childNode.Position = child
		node.Move = m
		node.Piece = movingPiece

		var score int
		if moveCount == 1 {
			score = -s.pvs(-beta, -alpha, newDepth, ply+1, false)
		} else {
			reduction := 0
			if moveCount > 1 && depth > 2 && isQuiet {
				reduction = lmrReduction(depth, moveCount)
				if !improving {
					reduction++
				}
				if pvNode {
					reduction--
				}
				if m == killers[0] || m == killers[1] {
					reduction--
				}
				r := scHist / 7000
				if r > 2 {
					r = 2
				}
				if r < -2 {
					r = -2
				}
				reduction -= r
				if reduction < 1 {
					reduction = 1
				}
				if reduction > newDepth-1 {
					reduction = newDepth - 1
				}
				if reduction < 0 {
					reduction = 0
				}
			}

			score = -s.pvs(-alpha-1, -alpha, newDepth-reduction, ply+1, true)
			if score > alpha && reduction > 0 {
				score = -s.pvs(-alpha-1, -alpha, newDepth, ply+1, !cutNode)
			}
			if score > alpha && pvNode {
				score = -s.pvs(-beta, -alpha, newDepth, ply+1, false)
			}
		}

		if s.Stop() {
			return 0
		}

		if isQuiet {
			quietsTried = append(quietsTried, quietTried{move: m, piece: movingPiece})
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				s.updatePV(ply, m)
				if score >= beta {
					if isQuiet {
						s.History.Update(histCtx, pos.SideToMove, quietsTried, m, depth, ply, &node.Killers, prevPiece, prevTo)
					}
					break
				}
			}
		}
	}

	if moveCount == 0 {
		if inCheck {
			return lossIn(ply)
		}
		return ValueDraw
	}

	bound := tt.BoundUpper
	if bestScore >= beta {
		bound = tt.BoundLower
	} else if alpha > origAlpha {
		bound = tt.BoundExact
	}
	s.TT.Store(pos.Key, depth, bestScore, bound, bestMove, ply)

	return bestScore
}

// priorMove returns the move that was played to reach ply, i.e. the
// move stored on the parent node's NodeState, or ok=false at the root
// or when the parent hasn't played anything yet this recursion.
func (s *State) priorMove(ply int) (board.Move, bool) {
	if ply == 0 {
		return board.MoveEmpty, false
	}
	m := s.Node(ply - 1).Move
	if m == board.MoveEmpty {
		return board.MoveEmpty, false
	}
	return m, true
}

func (s *State) priorMoveWasNull(ply int) bool {
	m, ok := s.priorMove(ply)
	return ok && m == board.MoveNull
}

func hasNonPawnMaterial(pos *board.Position) bool {
	side := pos.SideToMove
	nonPawn := pos.PiecesOf(side, board.Knight) | pos.PiecesOf(side, board.Bishop) |
		pos.PiecesOf(side, board.Rook) | pos.PiecesOf(side, board.Queen)
	return nonPawn != 0
}

func isTactical(m board.Move) bool {
	return m.IsCapture() || m.IsPromotion()
}

// bumpSingle applies a cutoff-sized bonus to a single quiet move
// (used when a TT cutoff itself reports a quiet best move, which
// never goes through the ordinary quiet-move-loop history update).
func (h *HistoryTables) bumpSingle(side board.Color, m board.Move, piece board.Piece, depth int) {
	bonus := historyBonus(depth)
	updateHistory(&h.butterfly[side][m.From()][m.To()], bonus)
}
