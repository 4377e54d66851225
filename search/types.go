// Package search implements the alpha-beta search core: principal
// variation search with quiescence, move ordering and SEE, history
// heuristics, time management, and iterative deepening with
// aspiration windows, wired to this module's eval and tt packages.
package search

import (
	"time"

	"github.com/blackbriarchess/corvid/board"
)

const (
	MaxPly      = 128
	MaxHeight   = MaxPly - 1
	MaxMateDist = 2 * MaxHeight

	ValueDraw     = 0
	ValueMate     = 30000
	ValueInfinite = ValueMate + 1
	ValueWin      = ValueMate - MaxMateDist
	ValueLoss     = -ValueWin

	MaxHistory = 1 << 14
)

func winIn(ply int) int  { return ValueMate - ply }
func lossIn(ply int) int { return -ValueMate + ply }

// UciScore is a UCI-formatted score: exactly one of Centipawns or
// Mate is meaningful, selected by whether the raw score falls outside
// the mating-score band.
type UciScore struct {
	Centipawns int
	Mate       int
}

func newUciScore(v int) UciScore {
	switch {
	case v >= ValueWin:
		return UciScore{Mate: (ValueMate - v + 1) / 2}
	case v <= ValueLoss:
		return UciScore{Mate: (-ValueMate - v) / 2}
	default:
		return UciScore{Centipawns: v}
	}
}

// TerminationMode selects which of LimitsType's fields govern the
// search's stopping point.
type TerminationMode int

const (
	Infinite TerminationMode = iota
	Depth
	Nodes
	Time
	MoveTime
)

// LimitsType carries the `go` command's parameters, UCI-shaped.
type LimitsType struct {
	Infinite       bool
	Ponder         bool
	Depth          int
	Nodes          int64
	MoveTime       int // milliseconds
	WhiteTime      int
	BlackTime      int
	WhiteIncrement int
	BlackIncrement int
	MovesToGo      int
	Mate           int
}

// SearchParams is the Search entry point's argument: the game history
// (positions[last] is the position to search), the limits, and an
// optional progress callback invoked after each completed iteration.
type SearchParams struct {
	Positions []board.Position
	Limits    LimitsType
	Progress  func(SearchInfo)
}

// SearchInfo is the result of a completed (or partially completed, on
// timeout) search, shaped directly for UCI `info`/`bestmove` output.
type SearchInfo struct {
	Depth    int
	SelDepth int
	Score    UciScore
	Nodes    int64
	Time     time.Duration
	HashFull int
	MainLine []board.Move
}

func (si SearchInfo) BestMove() board.Move {
	if len(si.MainLine) == 0 {
		return board.MoveEmpty
	}
	return si.MainLine[0]
}
