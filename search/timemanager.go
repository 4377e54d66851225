package search

import "time"

// TimeManager converts UCI `go` limits into a soft deadline (finish
// the current iteration, then stop) and a hard deadline (abort
// mid-iteration), one formula per termination mode (infinite/depth/
// nodes, fixed movetime, clock+increment with or without movestogo).
type TimeManager struct {
	start   time.Time
	limits  LimitsType
	maxMs   time.Duration // 0 means unbounded
	earlyMs time.Duration // 0 means unbounded
}

const moveOverhead = 50 * time.Millisecond

func NewTimeManager(start time.Time, limits LimitsType, sideToMove int) *TimeManager {
	tm := &TimeManager{start: start, limits: limits}

	switch {
	case limits.Infinite || (limits.Depth > 0 && limits.MoveTime == 0 && limits.WhiteTime == 0 && limits.BlackTime == 0 && limits.Nodes == 0):
		// INFINITE / DEPTH / NODES: no clock-based deadline.
	case limits.Nodes > 0 && limits.MoveTime == 0 && limits.WhiteTime == 0 && limits.BlackTime == 0:
		// NODES: governed entirely by the node counter.
	case limits.MoveTime > 0:
		max := time.Duration(limits.MoveTime)*time.Millisecond - moveOverhead
		if max < time.Millisecond {
			max = time.Millisecond
		}
		tm.maxMs = max
		tm.earlyMs = max
	default:
		var rem, inc time.Duration
		if sideToMove == 0 {
			rem = time.Duration(limits.WhiteTime) * time.Millisecond
			inc = time.Duration(limits.WhiteIncrement) * time.Millisecond
		} else {
			rem = time.Duration(limits.BlackTime) * time.Millisecond
			inc = time.Duration(limits.BlackIncrement) * time.Millisecond
		}
		if rem <= moveOverhead {
			tm.maxMs = 10 * time.Millisecond
			tm.earlyMs = 10 * time.Millisecond
			break
		}
		budget := rem - moveOverhead
		if limits.MovesToGo > 0 {
			mtg := time.Duration(limits.MovesToGo)
			max := inc + 2*budget/(2*mtg+1)
			max = clampDuration(max, time.Millisecond, budget)
			tm.maxMs = max
			tm.earlyMs = max
		} else {
			max := inc + budget/20
			max = clampDuration(max, time.Millisecond, budget)
			tm.maxMs = max
			tm.earlyMs = clampDuration(max*3/4, time.Millisecond, budget)
		}
	}

	return tm
}

func clampDuration(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.start) }

// IsNodeLimitReached reports NODES-mode termination.
func (tm *TimeManager) IsNodeLimitReached(nodes int64) bool {
	return tm.limits.Nodes > 0 && nodes >= tm.limits.Nodes
}

// IsTimeUp is the hard-deadline check, polled periodically from the
// search's node counter.
func (tm *TimeManager) IsTimeUp() bool {
	return tm.maxMs > 0 && tm.Elapsed() >= tm.maxMs
}

// ShouldStopBetweenIterations is the soft-deadline check the outer
// iterative-deepening loop consults between completed iterations.
// endgame scales the soft deadline down per §4.4 (phase == 64 in the
// reference's 0..64 scale; this module's eval.Phase is 0..24, so
// callers pass the already-computed boolean).
func (tm *TimeManager) ShouldStopBetweenIterations(depth int, endgame bool) bool {
	if tm.limits.Depth > 0 && depth >= tm.limits.Depth {
		return true
	}
	if tm.earlyMs <= 0 {
		return false
	}
	deadline := tm.earlyMs
	if endgame {
		deadline = deadline * 8 / 10
	}
	return tm.Elapsed() >= deadline
}
