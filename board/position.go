package board

import (
	"fmt"
	"strconv"
	"strings"
)

const InitialPositionFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is a complete, copyable board state. MakeMove returns a new
// Position by value (copy-make) rather than mutating in place with a
// paired unmake: the search stack keeps one Position per ply (see
// search.NodeState), so there is never a need to reconstruct a parent
// from a child, and copy-make removes an entire class of unmake bugs
// that a from-scratch rewrite cannot afford to risk without a compiler
// to check it against.
type Position struct {
	board      [64]Piece
	byColor    [2]Bitboard
	byType     [PieceTypeNB]Bitboard
	SideToMove Color
	CastleFlags int
	EpSquare   Square
	Rule50     int
	FullMove   int
	Key        uint64
	LastMove   Move
	Checkers   Bitboard
}

func (p *Position) PieceOn(sq Square) Piece { return p.board[sq] }

func (p *Position) AllPieces() Bitboard { return p.byColor[White] | p.byColor[Black] }
func (p *Position) Colors(c Color) Bitboard { return p.byColor[c] }
func (p *Position) Pieces(pt PieceType) Bitboard { return p.byType[pt] }
func (p *Position) PiecesOf(c Color, pt PieceType) Bitboard {
	return p.byColor[c] & p.byType[pt]
}

func (p *Position) King(c Color) Square {
	return Square(FirstOne(p.byColor[c] & p.byType[King]))
}

func (p *Position) put(sq Square, pc Piece) {
	p.board[sq] = pc
	if pc == NoPiece {
		return
	}
	p.byColor[pc.Color()] |= SquareMask[sq]
	p.byType[pc.Type()] |= SquareMask[sq]
}

func (p *Position) remove(sq Square) {
	pc := p.board[sq]
	if pc == NoPiece {
		return
	}
	p.byColor[pc.Color()] &^= SquareMask[sq]
	p.byType[pc.Type()] &^= SquareMask[sq]
	p.board[sq] = NoPiece
}

// NewPositionFromFEN parses Forsyth-Edwards notation.
func NewPositionFromFEN(fen string) (Position, error) {
	var p Position
	p.EpSquare = SquareNone
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return p, fmt.Errorf("board: bad fen %q", fen)
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return p, fmt.Errorf("board: bad fen ranks %q", fen)
	}
	for i := 0; i < 8; i++ {
		rank := Rank8 - i
		file := FileA
		for _, ch := range ranks[i] {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc, err := pieceFromFENChar(ch)
			if err != nil {
				return p, err
			}
			if file > FileH {
				return p, fmt.Errorf("board: overflowing rank in fen %q", fen)
			}
			p.put(MakeSquare(file, rank), pc)
			file++
		}
	}

	switch fields[1] {
	case "w":
		p.SideToMove = White
	case "b":
		p.SideToMove = Black
	default:
		return p, fmt.Errorf("board: bad side to move %q", fields[1])
	}

	for _, ch := range fields[2] {
		switch ch {
		case 'K':
			p.CastleFlags |= WhiteKingSide
		case 'Q':
			p.CastleFlags |= WhiteQueenSide
		case 'k':
			p.CastleFlags |= BlackKingSide
		case 'q':
			p.CastleFlags |= BlackQueenSide
		}
	}

	p.EpSquare = ParseSquare(fields[3])

	if len(fields) > 4 {
		if v, err := strconv.Atoi(fields[4]); err == nil {
			p.Rule50 = v
		}
	}
	if len(fields) > 5 {
		if v, err := strconv.Atoi(fields[5]); err == nil {
			p.FullMove = v
		}
	} else {
		p.FullMove = 1
	}

	p.Key = p.computeKey()
	p.Checkers = p.attackersOf(p.King(p.SideToMove), p.AllPieces()) & p.byColor[p.SideToMove.Opposite()]
	return p, nil
}

func pieceFromFENChar(ch rune) (Piece, error) {
	var c Color
	if ch >= 'a' && ch <= 'z' {
		c = Black
	} else {
		c = White
	}
	switch ch {
	case 'P', 'p':
		return MakePiece(c, Pawn), nil
	case 'N', 'n':
		return MakePiece(c, Knight), nil
	case 'B', 'b':
		return MakePiece(c, Bishop), nil
	case 'R', 'r':
		return MakePiece(c, Rook), nil
	case 'Q', 'q':
		return MakePiece(c, Queen), nil
	case 'K', 'k':
		return MakePiece(c, King), nil
	}
	return NoPiece, fmt.Errorf("board: bad fen piece char %q", ch)
}

var fenPieceChar = map[Piece]byte{
	WhitePawn: 'P', WhiteKnight: 'N', WhiteBishop: 'B', WhiteRook: 'R', WhiteQueen: 'Q', WhiteKing: 'K',
	BlackPawn: 'p', BlackKnight: 'n', BlackBishop: 'b', BlackRook: 'r', BlackQueen: 'q', BlackKing: 'k',
}

func (p *Position) String() string {
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		rank := Rank8 - i
		empty := 0
		for file := FileA; file <= FileH; file++ {
			pc := p.board[MakeSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(fenPieceChar[pc])
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if i != 7 {
			sb.WriteByte('/')
		}
	}
	if p.SideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	castle := ""
	if p.CastleFlags&WhiteKingSide != 0 {
		castle += "K"
	}
	if p.CastleFlags&WhiteQueenSide != 0 {
		castle += "Q"
	}
	if p.CastleFlags&BlackKingSide != 0 {
		castle += "k"
	}
	if p.CastleFlags&BlackQueenSide != 0 {
		castle += "q"
	}
	if castle == "" {
		castle = "-"
	}
	sb.WriteString(castle)
	sb.WriteByte(' ')
	if p.EpSquare == SquareNone {
		sb.WriteString("-")
	} else {
		sb.WriteString(p.EpSquare.String())
	}
	fmt.Fprintf(&sb, " %d %d", p.Rule50, p.FullMove)
	return sb.String()
}

func (p *Position) computeKey() uint64 {
	var key uint64
	for sq := 0; sq < 64; sq++ {
		if pc := p.board[sq]; pc != NoPiece {
			key ^= pieceSquareKey[pc][sq]
		}
	}
	key ^= castleKey[p.CastleFlags]
	if p.EpSquare != SquareNone {
		key ^= enPassantKey[p.EpSquare.File()]
	}
	if p.SideToMove == Black {
		key ^= sideKey
	}
	return key
}

// attackersOf returns every piece (of either color) attacking sq given
// occupied. Equivalent to board.AllAttackers but as a method to keep
// call sites inside the package terse.
func (p *Position) attackersOf(sq Square, occupied Bitboard) Bitboard {
	return AllAttackers(p, int(sq), occupied)
}

// InCheck reports whether the side to move's king is attacked.
func (p *Position) InCheck() bool {
	return p.Checkers != 0
}

// IsAttackedBy reports whether sq is attacked by any piece of color c.
func (p *Position) IsAttackedBy(sq Square, c Color) bool {
	return p.attackersOf(sq, p.AllPieces())&p.byColor[c] != 0
}

// IsInsufficientMaterial reports king-vs-king or king+minor-vs-king,
// the only draws the position itself can certify; repetition and the
// 50-move rule need search-level history and are checked there.
func (p *Position) IsInsufficientMaterial() bool {
	if p.byType[Pawn]|p.byType[Rook]|p.byType[Queen] != 0 {
		return false
	}
	return !MoreThanOne(p.byType[Knight] | p.byType[Bishop])
}

// Phase returns a 0..24 game-phase estimate (24 = full material), used
// by the evaluator for tapering and by search for endgame-scaled time
// allocation.
func (p *Position) Phase() int {
	phase := 4*PopCount(p.byType[Queen]) +
		2*PopCount(p.byType[Rook]) +
		1*PopCount(p.byType[Bishop]) +
		1*PopCount(p.byType[Knight])
	if phase > 24 {
		phase = 24
	}
	return phase
}
