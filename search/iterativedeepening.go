package search

import (
	"time"

	"github.com/blackbriarchess/corvid/board"
	"github.com/blackbriarchess/corvid/eval"
)

// MaxSearchDepth bounds the outer iterative-deepening loop.
const MaxSearchDepth = MaxDepth

// IterativeDeepening drives repeated pvs() calls at increasing depth
// with aspiration windows, reporting progress through params.Progress
// after each completed iteration. Runs on a single goroutine; there is
// no SMP fan-out.
func IterativeDeepening(s *State, root board.Position, params SearchParams) SearchInfo {
	started := time.Now()

	var best SearchInfo
	var score int

	for depth := 1; depth <= MaxSearchDepth; depth++ {
		s.resetSeldepth()
		s.Node(0).Position = root

		delta := ValueInfinite
		if depth >= 7 {
			delta = 25
		}

		alpha, beta := -ValueInfinite, ValueInfinite
		if depth >= 7 {
			alpha = score - delta
			beta = score + delta
			if alpha < -ValueInfinite {
				alpha = -ValueInfinite
			}
			if beta > ValueInfinite {
				beta = ValueInfinite
			}
		}

		searchDepth := depth
		var iterScore int
		for {
			iterScore = s.pvs(alpha, beta, searchDepth, 0, false)

			if s.Stop() {
				break
			}

			if iterScore <= alpha {
				beta = (alpha + beta) / 2
				alpha -= delta
				if alpha < -ValueInfinite {
					alpha = -ValueInfinite
				}
			} else if iterScore >= beta {
				beta += delta
				if beta > ValueInfinite {
					beta = ValueInfinite
				}
				if searchDepth > 1 {
					searchDepth--
				}
			} else {
				break
			}

			delta *= 2
			if delta > ValueInfinite {
				delta = ValueInfinite
			}
		}

		if s.Stop() {
			break
		}

		score = iterScore
		pv := s.Node(0).PV
		if len(pv) == 0 {
			break
		}

		info := SearchInfo{
			Depth:    depth,
			SelDepth: s.Seldepth(),
			Score:    newUciScore(score),
			Nodes:    s.Nodes(),
			Time:     time.Since(started),
			HashFull: s.TT.HashFull(),
			MainLine: append([]board.Move(nil), pv...),
		}
		best = info

		if params.Progress != nil {
			params.Progress(info)
		}

		endgame := eval.Phase(&root) == 0
		if s.TimeMgr.ShouldStopBetweenIterations(depth, endgame) {
			break
		}
	}

	return best
}
