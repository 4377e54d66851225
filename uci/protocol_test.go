package uci

import (
	"testing"

	"github.com/blackbriarchess/corvid/board"
	"github.com/blackbriarchess/corvid/search"
)

func TestParseLimitsGoCommand(t *testing.T) {
	limits := parseLimits([]string{"wtime", "60000", "btime", "59000", "winc", "1000", "movestogo", "20"})

	if limits.WhiteTime != 60000 || limits.BlackTime != 59000 {
		t.Fatalf("unexpected time fields: %+v", limits)
	}
	if limits.WhiteIncrement != 1000 {
		t.Fatalf("unexpected increment: %+v", limits)
	}
	if limits.MovesToGo != 20 {
		t.Fatalf("unexpected movestogo: %+v", limits)
	}
}

func TestParseLimitsDepthAndInfinite(t *testing.T) {
	limits := parseLimits([]string{"depth", "12"})
	if limits.Depth != 12 {
		t.Fatalf("expected depth 12, got %+v", limits)
	}

	limits = parseLimits([]string{"infinite"})
	if !limits.Infinite {
		t.Fatalf("expected Infinite to be set, got %+v", limits)
	}
}

func TestSearchInfoToUciFormatsMateScore(t *testing.T) {
	info := search.SearchInfo{
		Depth:     4,
		SelDepth:  6,
		Score:     search.UciScore{Mate: 3},
		Nodes:     12345,
		MainLine:  []board.Move{board.NewMove(board.SquareD1, board.SquareH5, board.FlagQuiet)},
		HashFull:  100,
	}

	line := searchInfoToUci(info)
	if !contains(line, "score mate 3") {
		t.Errorf("expected mate score in info line, got %q", line)
	}
	if !contains(line, "pv d1h5") {
		t.Errorf("expected pv field in info line, got %q", line)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && indexOf(s, substr) >= 0
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func TestFindIndex(t *testing.T) {
	args := []string{"fen", "8/8/8/8/8/8/8/8", "w", "-", "-", "0", "1", "moves", "e2e4"}
	if idx := findIndex(args, "moves"); idx != 7 {
		t.Errorf("findIndex = %d, want 7", idx)
	}
	if idx := findIndex(args, "missing"); idx != -1 {
		t.Errorf("findIndex for a missing token = %d, want -1", idx)
	}
}
