package board

import (
	"strings"
)

// Render draws the board rank 7 first, each row prefixed by its rank index,
// followed by a file legend. White pieces are lowercase, Black uppercase.
func (b *Board) Render() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('0' + rank))
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			if p := b.squares[file][rank]; p != nil {
				sb.WriteByte(p.Glyph())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}

	sb.WriteString("  0 1 2 3 4 5 6 7\n")
	return sb.String()
}

func (b *Board) String() string {
	return b.Render()
}
