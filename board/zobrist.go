package board

// Zobrist keys. Seeded with a fixed splitmix64 stream instead of
// math/rand so the keys are reproducible across processes without
// depending on global RNG seeding order at init time.

var pieceSquareKey [PieceNB][64]uint64
var castleKey [16]uint64
var enPassantKey [8]uint64
var sideKey uint64

func splitmix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func init() {
	var state uint64 = 0x2545F4914F6CDD1D
	for p := NoPiece; p < PieceNB; p++ {
		for sq := 0; sq < 64; sq++ {
			pieceSquareKey[p][sq] = splitmix64(&state)
		}
	}
	for i := range castleKey {
		castleKey[i] = splitmix64(&state)
	}
	for f := range enPassantKey {
		enPassantKey[f] = splitmix64(&state)
	}
	sideKey = splitmix64(&state)
}
