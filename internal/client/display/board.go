package display

import (
	"fmt"
	"io"
	"strings"

	"chessrelay/internal/server/core"
)

type square struct {
	file, rank int
}

// RenderBoard writes a board in the engine's text layout with colored
// pieces: White (lowercase) blue, Black (uppercase) red, indices cyan.
// Destination squares of targets are marked, empty ones with '*'.
func RenderBoard(w io.Writer, rendered string, targets []core.Move) {
	marked := make(map[square]bool, len(targets))
	for _, m := range targets {
		marked[square{m.ToFile, m.ToRank}] = true
	}

	for _, line := range strings.Split(rendered, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		rank := -1
		if line[0] >= '0' && line[0] <= '7' {
			rank = int(line[0] - '0')
		}

		var sb strings.Builder
		for i := 0; i < len(line); i++ {
			ch := line[i]

			// Rank rows hold squares at columns 2, 4 .. 16
			file := -1
			if rank >= 0 && i >= 2 && i%2 == 0 {
				file = i/2 - 1
			}

			switch {
			case file >= 0 && marked[square{file, rank}]:
				if ch == '.' {
					sb.WriteString(Green("*"))
				} else {
					sb.WriteString(highlight(string(ch)))
				}
			case ch >= '0' && ch <= '7':
				sb.WriteString(Cyan(string(ch)))
			case ch >= 'a' && ch <= 'z':
				sb.WriteString(Blue(string(ch)))
			case ch >= 'A' && ch <= 'Z':
				sb.WriteString(Red(string(ch)))
			default:
				sb.WriteByte(ch)
			}
		}
		fmt.Fprintln(w, sb.String())
	}
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(turn core.Color) string {
	if turn == core.ColorWhite {
		return Blue("White")
	}
	return Red("Black")
}
