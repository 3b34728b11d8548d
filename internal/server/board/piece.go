package board

import (
	"fmt"

	"chessrelay/internal/server/core"
)

// Piece is an immutable occupant of one square
type Piece struct {
	file  int
	rank  int
	color core.Color
	kind  core.PieceKind
}

func NewPiece(file, rank int, color core.Color, kind core.PieceKind) *Piece {
	return &Piece{file: file, rank: rank, color: color, kind: kind}
}

func (p *Piece) File() int {
	return p.file
}

func (p *Piece) Rank() int {
	return p.rank
}

func (p *Piece) Color() core.Color {
	return p.color
}

func (p *Piece) Kind() core.PieceKind {
	return p.kind
}

// Glyph returns the render glyph: White lowercase, Black uppercase
func (p *Piece) Glyph() byte {
	ch := p.kind.Letter()
	if p.color == core.ColorBlack {
		ch -= 'a' - 'A'
	}
	return ch
}

// fenLetter is the standard FEN letter, White uppercase
func (p *Piece) fenLetter() byte {
	ch := p.kind.Letter()
	if p.color == core.ColorWhite {
		ch -= 'a' - 'A'
	}
	return ch
}

// movedTo returns a new piece with the same owner and kind on another square
func (p *Piece) movedTo(file, rank int) *Piece {
	return NewPiece(file, rank, p.color, p.kind)
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s %s@%d,%d", p.color.Name(), p.kind, p.file, p.rank)
}

// Info converts the piece to its API form
func (p *Piece) Info() *core.PieceInfo {
	return &core.PieceInfo{
		File:  p.file,
		Rank:  p.rank,
		Color: p.color.String(),
		Kind:  p.kind.String(),
	}
}
