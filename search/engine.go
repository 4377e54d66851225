package search

import (
	"context"
	"time"

	"github.com/blackbriarchess/corvid/eval"
	"github.com/blackbriarchess/corvid/tt"
)

// Engine is the search collaborator the uci package drives, exposing
// Prepare/Clear/Search around one concrete evaluator and transposition
// table.
type Engine struct {
	TT      *tt.Table
	Eval    *eval.Evaluator
	History *HistoryTables
}

func NewEngine(hashMegabytes int) *Engine {
	return &Engine{
		TT:      tt.New(hashMegabytes),
		Eval:    eval.NewEvaluator(),
		History: &HistoryTables{},
	}
}

// Prepare bumps the transposition table's generation so
// stale-generation entries become eligible for eager replacement. The
// UCI driver calls it on each `isready` received while no search is
// running; the tests and cmd/epdtest call it before each search.
func (e *Engine) Prepare() {
	e.TT.NewSearch()
}

// Clear resets all state that should not survive a `ucinewgame`.
func (e *Engine) Clear() {
	e.TT.Clear()
	e.History.AgeHistory()
	e.History.ClearCounters()
}

// Search runs iterative deepening from the last position in
// params.Positions (the game history, used for repetition detection)
// until the time manager's hard deadline, the node/depth limit, or
// ctx is cancelled.
func (e *Engine) Search(ctx context.Context, params SearchParams) SearchInfo {
	root := params.Positions[len(params.Positions)-1]

	rootKeys := make([]uint64, len(params.Positions))
	for i, p := range params.Positions {
		rootKeys[i] = p.Key
	}

	tm := NewTimeManager(time.Now(), params.Limits, int(root.SideToMove))
	state := NewState(e.TT, e.Eval, e.History, tm, rootKeys)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			state.RequestStop()
		case <-done:
		}
	}()

	return IterativeDeepening(state, root, params)
}
