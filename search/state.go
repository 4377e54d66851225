package search

import (
	"sync/atomic"

	"github.com/blackbriarchess/corvid/board"
	"github.com/blackbriarchess/corvid/eval"
	"github.com/blackbriarchess/corvid/tt"
)

// NodeState is the per-ply scratch the PVS recursion reads and writes.
// One is kept per ply on State.stack, indexed by ply rather than
// allocated per call.
type NodeState struct {
	Position board.Position

	PV []board.Move

	StaticEval int
	Killers    [2]board.Move

	Move  board.Move // the move played from this node; the child at ply+1 reads it as its prior move
	Piece board.Piece

	MoveList  [board.MaxMoves]board.OrderedMove
	Quiets    [board.MaxMoves]quietTried
	DExtended bool // whether a double extension was already granted on this branch
}

// State owns everything one in-progress search needs: the node
// stack, move-ordering tables, the transposition table, the
// evaluator, and the counters the time manager and UCI info line read
// from another goroutine. One State serves exactly one search on one
// goroutine.
type State struct {
	TT        *tt.Table
	Eval      *eval.Evaluator
	History   *HistoryTables
	TimeMgr   *TimeManager

	stack [MaxPly + 1]NodeState

	nodes    int64
	seldepth int32
	stopped  atomic.Bool

	rootKeys []uint64 // position keys from game start, for repetition detection
}

func NewState(t *tt.Table, e *eval.Evaluator, h *HistoryTables, tm *TimeManager, rootKeys []uint64) *State {
	s := &State{TT: t, Eval: e, History: h, TimeMgr: tm, rootKeys: rootKeys}
	for i := range s.stack {
		s.stack[i].PV = make([]board.Move, 0, MaxPly+1)
	}
	return s
}

func (s *State) Node(ply int) *NodeState { return &s.stack[ply] }

func (s *State) Nodes() int64 { return atomic.LoadInt64(&s.nodes) }

func (s *State) bumpNodes() int64 {
	n := atomic.AddInt64(&s.nodes, 1)
	// &2047 is the correct "every 2048th node" mask; n&1024 == 0 would
	// hold for 1024 consecutive nodes out of every 2048, polling far
	// more often than intended.
	if n&2047 == 0 {
		if s.TimeMgr.IsTimeUp() || s.TimeMgr.IsNodeLimitReached(n) {
			s.stopped.Store(true)
		}
	}
	return n
}

func (s *State) Stop() bool { return s.stopped.Load() }

func (s *State) RequestStop() { s.stopped.Store(true) }

func (s *State) bumpSeldepth(ply int) {
	if int32(ply) > atomic.LoadInt32(&s.seldepth) {
		atomic.StoreInt32(&s.seldepth, int32(ply))
	}
}

func (s *State) Seldepth() int { return int(atomic.LoadInt32(&s.seldepth)) }

func (s *State) resetSeldepth() { atomic.StoreInt32(&s.seldepth, 0) }

// isDraw reports a draw by the fifty-move rule, insufficient material,
// or repetition (two-fold against the search line and the game
// history, since a three-fold claim only matters once and this search
// never needs to distinguish a genuine game-history repeat from a
// search-line repeat).
func (s *State) isDraw(ply int) bool {
	pos := &s.stack[ply].Position
	if pos.Rule50 >= 100 {
		return true
	}
	if pos.IsInsufficientMaterial() {
		return true
	}

	count := 0
	limit := pos.Rule50
	for i := ply - 1; i >= 0 && limit > 0; i, limit = i-1, limit-1 {
		if s.stack[i].Position.Key == pos.Key {
			return true
		}
	}
	for i := len(s.rootKeys) - 1; i >= 0 && limit > 0; i, limit = i-1, limit-1 {
		if s.rootKeys[i] == pos.Key {
			count++
			if count >= 1 {
				return true
			}
		}
	}
	return false
}

func (s *State) updatePV(ply int, move board.Move) {
	child := s.stack[ply+1].PV
	pv := s.stack[ply].PV[:0]
	pv = append(pv, move)
	pv = append(pv, child...)
	s.stack[ply].PV = pv
}

func (s *State) clearPV(ply int) {
	s.stack[ply].PV = s.stack[ply].PV[:0]
}
