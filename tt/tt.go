// Package tt implements the transposition table collaborator: a
// fixed-size, power-of-two-sized array of compact entries with a
// depth/age replacement scheme. The search this table serves is
// single-threaded, so there is no concurrent-writer hazard to guard
// against and no atomic compare-and-swap on the entry itself.
package tt

import "github.com/blackbriarchess/corvid/board"

type Bound uint8

const (
	BoundNone  Bound = 0
	BoundLower Bound = 1 << 0
	BoundUpper Bound = 1 << 1
	BoundExact       = BoundLower | BoundUpper
)

// entry is 12 bytes: a 32-bit key fragment, a packed move+age, a
// 16-bit score, and depth/bound bytes.
type entry struct {
	key32    uint32
	moveDate uint32
	score    int16
	depth    int8
	bound    Bound
}

func (e *entry) move() board.Move { return board.Move(e.moveDate & 0x1fffff) }
func (e *entry) date() uint16     { return uint16(e.moveDate >> 21) }
func (e *entry) setMoveDate(m board.Move, date uint16) {
	e.moveDate = uint32(m) | uint32(date)<<21
}

// Entry is the value handed back by Probe: a decoded, ply-relative-
// adjusted snapshot of a table slot.
type Entry struct {
	Move  board.Move
	Score int
	Bound Bound
	Depth int
	Found bool
}

type Table struct {
	entries []entry
	mask    uint32
	date    uint16
	megs    int
}

// New allocates a table whose entry count is megabytes MB divided by
// 16 bytes, rounded down to a power of two. Entries are 12 bytes, so
// the table takes at most three quarters of megabytes MB.
func New(megabytes int) *Table {
	if megabytes < 1 {
		megabytes = 1
	}
	size := roundDownPowerOfTwo(megabytes * 1024 * 1024 / 16)
	if size < 1 {
		size = 1
	}
	return &Table{
		entries: make([]entry, size),
		mask:    uint32(size - 1),
		megs:    megabytes,
	}
}

func roundDownPowerOfTwo(n int) int {
	x := 1
	for x<<1 <= n {
		x <<= 1
	}
	return x
}

// Megabytes reports the table's configured size.
func (t *Table) Megabytes() int { return t.megs }

// NewSearch bumps the table's generation; called once per search so
// stale-generation entries become eligible for eager replacement.
func (t *Table) NewSearch() {
	t.date = (t.date + 1) & 0x7ff
}

// Clear zeroes every entry (used by ucinewgame).
func (t *Table) Clear() {
	t.date = 0
	for i := range t.entries {
		t.entries[i] = entry{}
	}
}

func (t *Table) slot(key uint64) *entry {
	return &t.entries[uint32(key)&t.mask]
}

// Probe looks up key and, if present, returns a ply-adjusted Entry.
func (t *Table) Probe(key uint64, ply int) Entry {
	e := t.slot(key)
	if e.key32 != uint32(key>>32) {
		return Entry{}
	}
	e.setMoveDate(e.move(), t.date) // refresh generation on read
	return Entry{
		Move:  e.move(),
		Score: scoreFromTT(int(e.score), ply),
		Bound: e.bound,
		Depth: int(e.depth),
		Found: true,
	}
}

// Store writes a result into the table, applying a depth-and-age
// replacement policy: always replace a same-key slot unless the
// incoming search is more than 3 plies shallower and doesn't carry an
// exact bound;
// otherwise replace a foreign key when it is stale or the incoming
// depth is at least as large.
func (t *Table) Store(key uint64, depth, score int, bound Bound, move board.Move, ply int) {
	e := t.slot(key)
	var replace bool
	if e.key32 == uint32(key>>32) {
		replace = depth >= int(e.depth)-3 || bound == BoundExact
		if move == board.MoveEmpty {
			move = e.move()
		}
	} else {
		replace = e.date() != t.date || depth >= int(e.depth)
	}
	if !replace {
		return
	}
	e.key32 = uint32(key >> 32)
	e.score = int16(scoreToTT(score, ply))
	e.depth = int8(depth)
	e.bound = bound
	e.setMoveDate(move, t.date)
}

// HashFull estimates table occupancy in per-mille, sampling the first
// 1000 slots (or all of them if the table is smaller), matching the
// usual UCI `hashfull` semantics.
func (t *Table) HashFull() int {
	sample := len(t.entries)
	if sample > 1000 {
		sample = 1000
	}
	used := 0
	for i := 0; i < sample; i++ {
		if t.entries[i].bound != BoundNone && t.entries[i].date() == t.date {
			used++
		}
	}
	if sample == 0 {
		return 0
	}
	return used * 1000 / sample
}

// Mate-score encoding constants mirror the search package's (kept
// independent to avoid an import cycle: tt has no reason to depend on
// search's internal value scale beyond this one constant).
const mateValue = 30000

// scoreToTT/scoreFromTT translate an absolute mate score (distance
// from the root) into one relative to the table entry (distance from
// the position itself), and back, so a mate score stored at one ply
// remains correct when retrieved at a different ply.
func scoreToTT(score, ply int) int {
	if score >= mateValue-1024 {
		return score + ply
	}
	if score <= -mateValue+1024 {
		return score - ply
	}
	return score
}

func scoreFromTT(score, ply int) int {
	if score >= mateValue-1024 {
		return score - ply
	}
	if score <= -mateValue+1024 {
		return score + ply
	}
	return score
}
