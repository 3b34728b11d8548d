// Package relay plays a game between two terminals over a plain TCP
// connection. Each side keeps its own board and the wire carries one line per
// move: "fromFile,fromRank,toFile,toRank\n". There is no handshake.
package relay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chessrelay/internal/server/core"
)

var ErrMalformedMove = errors.New("malformed move line")

// EncodeMove returns the wire form of a move including the trailing newline
func EncodeMove(m core.Move) []byte {
	return []byte(m.String() + "\n")
}

// DecodeMove parses one wire line. Exactly four comma-separated integers in
// 0-7 are accepted; a trailing CR or LF is ignored.
func DecodeMove(line string) (core.Move, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, ",")
	if len(parts) != 4 {
		return core.Move{}, fmt.Errorf("%w: %q", ErrMalformedMove, line)
	}

	var v [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return core.Move{}, fmt.Errorf("%w: %q", ErrMalformedMove, line)
		}
		v[i] = n
	}

	m := core.NewMove(v[0], v[1], v[2], v[3])
	if !m.InBounds() {
		return core.Move{}, fmt.Errorf("%w: coordinates out of range: %q", ErrMalformedMove, line)
	}
	return m, nil
}
