package board

import (
	"fmt"
	"strings"

	"chessrelay/internal/server/core"
)

const (
	StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"
)

var backRank = [8]core.PieceKind{
	core.Rook, core.Knight, core.Bishop, core.Queen,
	core.King, core.Bishop, core.Knight, core.Rook,
}

// Board holds the live pieces indexed by [file][rank] and the side to move.
// It is not safe for concurrent use; game.Game serializes access.
type Board struct {
	squares [8][8]*Piece
	turn    core.Color
}

// New returns an empty board with White to move
func New() *Board {
	return &Board{turn: core.ColorWhite}
}

// NewStandard returns a board in the starting position
func NewStandard() *Board {
	b := New()
	b.Reset()
	return b
}

// Reset clears the board and places the 32 starting pieces, White to move
func (b *Board) Reset() {
	b.squares = [8][8]*Piece{}

	for file, kind := range backRank {
		b.place(NewPiece(file, 0, core.ColorWhite, kind))
		b.place(NewPiece(file, 1, core.ColorWhite, core.Pawn))
		b.place(NewPiece(file, 6, core.ColorBlack, core.Pawn))
		b.place(NewPiece(file, 7, core.ColorBlack, kind))
	}

	b.turn = core.ColorWhite
}

func (b *Board) Turn() core.Color {
	return b.turn
}

// PieceAt returns the occupant of a square, or nil when empty or off the board
func (b *Board) PieceAt(file, rank int) *Piece {
	if !core.InBounds(file, rank) {
		return nil
	}
	return b.squares[file][rank]
}

// Pieces lists all live pieces, file by file
func (b *Board) Pieces() []*Piece {
	var pieces []*Piece
	for file := 0; file < 8; file++ {
		for rank := 0; rank < 8; rank++ {
			if p := b.squares[file][rank]; p != nil {
				pieces = append(pieces, p)
			}
		}
	}
	return pieces
}

func (b *Board) place(p *Piece) {
	b.squares[p.file][p.rank] = p
}

func (b *Board) findKing(color core.Color) *Piece {
	for file := 0; file < 8; file++ {
		for rank := 0; rank < 8; rank++ {
			p := b.squares[file][rank]
			if p != nil && p.kind == core.King && p.color == color {
				return p
			}
		}
	}
	return nil
}

// ParseFEN loads piece placement and side to move. Castling, en-passant and
// clock fields are accepted but ignored.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 1 || len(parts) > 6 {
		return nil, fmt.Errorf("invalid FEN: expected 1-6 parts, got %d", len(parts))
	}

	b := New()

	// Parse board, FEN lists rank 8 first
	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid FEN: expected 8 ranks")
	}

	kings := map[core.Color]int{}
	for i := 0; i < 8; i++ {
		rank := 7 - i
		file := 0
		for j := 0; j < len(ranks[i]); j++ {
			ch := ranks[i][j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file >= 8 {
				return nil, fmt.Errorf("invalid FEN: too many pieces in rank %d", rank+1)
			}
			kind, ok := core.KindFromLetter(ch)
			if !ok {
				return nil, fmt.Errorf("invalid FEN: unknown piece %q", ch)
			}
			color := core.ColorBlack
			if ch >= 'A' && ch <= 'Z' {
				color = core.ColorWhite
			}
			if kind == core.King {
				kings[color]++
			}
			b.place(NewPiece(file, rank, color, kind))
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("invalid FEN: rank %d has %d files", rank+1, file)
		}
	}

	for color, n := range kings {
		if n > 1 {
			return nil, fmt.Errorf("invalid FEN: %s has %d kings", color.Name(), n)
		}
	}

	if len(parts) > 1 {
		switch parts[1] {
		case "w":
			b.turn = core.ColorWhite
		case "b":
			b.turn = core.ColorBlack
		default:
			return nil, fmt.Errorf("invalid FEN: turn must be 'w' or 'b'")
		}
	}

	return b, nil
}

// FEN serializes placement and side to move. Castling and en-passant are
// always "-" since neither exists in this rule set.
func (b *Board) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.squares[file][rank]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.fenLetter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteString(" ")
	sb.WriteString(b.turn.String())
	sb.WriteString(" - - 0 1")
	return sb.String()
}
