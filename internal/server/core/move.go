package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Move names a source and destination square by file and rank index (0-7)
type Move struct {
	FromFile int `json:"fromFile"`
	FromRank int `json:"fromRank"`
	ToFile   int `json:"toFile"`
	ToRank   int `json:"toRank"`
}

func NewMove(fromFile, fromRank, toFile, toRank int) Move {
	return Move{FromFile: fromFile, FromRank: fromRank, ToFile: toFile, ToRank: toRank}
}

// String returns the comma-separated form also used on the peer wire
func (m Move) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", m.FromFile, m.FromRank, m.ToFile, m.ToRank)
}

// InBounds reports whether all four coordinates are on the board
func (m Move) InBounds() bool {
	return InBounds(m.FromFile, m.FromRank) && InBounds(m.ToFile, m.ToRank)
}

func InBounds(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// ParseMove reads four integers separated by commas and/or spaces, e.g. "0,1,0,2" or "0 1 0 2"
func ParseMove(s string) (Move, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 4 {
		return Move{}, fmt.Errorf("expected 4 coordinates, got %d", len(fields))
	}

	var v [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Move{}, fmt.Errorf("invalid coordinate %q", f)
		}
		v[i] = n
	}

	m := NewMove(v[0], v[1], v[2], v[3])
	if !m.InBounds() {
		return Move{}, fmt.Errorf("coordinates out of range 0-7: %s", m)
	}
	return m, nil
}
