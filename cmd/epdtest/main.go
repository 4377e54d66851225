// Command epdtest runs an EPD best-move test suite against the
// engine, searching positions concurrently with a worker pool bounded
// by golang.org/x/sync/semaphore.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/blackbriarchess/corvid/board"
	"github.com/blackbriarchess/corvid/search"
)

type testCase struct {
	line      string
	position  board.Position
	bestMoves []board.Move
}

func main() {
	var epdPath string
	var moveTimeMs int
	var concurrency int
	var hashMB int
	flag.StringVar(&epdPath, "epd", "", "path to an EPD test suite")
	flag.IntVar(&moveTimeMs, "movetime", 3000, "milliseconds of search time per position")
	flag.IntVar(&concurrency, "concurrency", runtime.NumCPU(), "max positions searched at once")
	flag.IntVar(&hashMB, "hash", 16, "transposition table size per worker, in megabytes")
	flag.Parse()

	if epdPath == "" {
		log.Fatal("-epd is required")
	}

	cases, err := loadEPD(epdPath)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("loaded %d test positions\n", len(cases))

	sem := semaphore.NewWeighted(int64(concurrency))
	ctx := context.Background()

	var solved int64
	var wg sync.WaitGroup
	var mu sync.Mutex
	start := time.Now()

	for _, tc := range cases {
		tc := tc
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal(err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			engine := search.NewEngine(hashMB)
			engine.Prepare()

			searchCtx, cancel := context.WithTimeout(ctx, time.Duration(moveTimeMs+500)*time.Millisecond)
			defer cancel()

			result := engine.Search(searchCtx, search.SearchParams{
				Positions: []board.Position{tc.position},
				Limits:    search.LimitsType{MoveTime: moveTimeMs},
			})

			best := result.BestMove()
			pass := false
			for _, bm := range tc.bestMoves {
				if bm == best {
					pass = true
					break
				}
			}
			if pass {
				atomic.AddInt64(&solved, 1)
			}

			mu.Lock()
			fmt.Printf("%-60s got=%-6v pass=%v\n", tc.line, best, pass)
			mu.Unlock()
		}()
	}

	wg.Wait()
	fmt.Printf("solved %d/%d in %v\n", solved, len(cases), time.Since(start))
}

func loadEPD(path string) ([]testCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cases []testCase
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if tc, ok := parseEPDLine(line); ok {
			cases = append(cases, tc)
		}
	}
	return cases, scanner.Err()
}

func parseEPDLine(line string) (testCase, bool) {
	bmIdx := strings.Index(line, "bm ")
	if bmIdx < 0 {
		return testCase{}, false
	}
	semiIdx := strings.Index(line[bmIdx:], ";")
	if semiIdx < 0 {
		return testCase{}, false
	}
	semiIdx += bmIdx

	fen := strings.TrimSpace(line[:bmIdx])
	pos, err := board.NewPositionFromFEN(fen)
	if err != nil {
		return testCase{}, false
	}

	var moves []board.Move
	for _, tok := range strings.Fields(line[bmIdx+3 : semiIdx]) {
		if m, ok := parseEPDMove(&pos, tok); ok {
			moves = append(moves, m)
		}
	}
	if len(moves) == 0 {
		return testCase{}, false
	}
	return testCase{line: line, position: pos, bestMoves: moves}, true
}

// parseEPDMove resolves a short algebraic move token (e.g. "Nf3",
// "exd5", "e4", "O-O") against the position's legal moves by piece
// type and destination square. Ambiguous tokens (more than one legal
// move sharing both) are dropped rather than guessed at.
func parseEPDMove(pos *board.Position, tok string) (board.Move, bool) {
	tok = strings.TrimRight(tok, "+#!?")
	if tok == "O-O" || tok == "O-O-O" {
		return parseCastleEPD(pos, tok)
	}

	pt := board.Pawn
	rest := tok
	if len(tok) > 0 && strings.ContainsRune("NBRQK", rune(tok[0])) {
		switch tok[0] {
		case 'N':
			pt = board.Knight
		case 'B':
			pt = board.Bishop
		case 'R':
			pt = board.Rook
		case 'Q':
			pt = board.Queen
		case 'K':
			pt = board.King
		}
		rest = tok[1:]
	}
	if len(rest) < 2 {
		return board.MoveEmpty, false
	}
	to := board.ParseSquare(rest[len(rest)-2:])
	if to == board.SquareNone {
		return board.MoveEmpty, false
	}

	var candidate board.Move
	found := 0
	for _, m := range pos.GenerateLegalMoves() {
		if m.To() != to || pos.PieceOn(m.From()).Type() != pt {
			continue
		}
		candidate = m
		found++
	}
	if found == 1 {
		return candidate, true
	}
	return board.MoveEmpty, false
}

func parseCastleEPD(pos *board.Position, tok string) (board.Move, bool) {
	for _, m := range pos.GenerateLegalMoves() {
		if !m.IsCastle() {
			continue
		}
		kingSide := m.To() == board.SquareG1 || m.To() == board.SquareG8
		if (tok == "O-O") == kingSide {
			return m, true
		}
	}
	return board.MoveEmpty, false
}
