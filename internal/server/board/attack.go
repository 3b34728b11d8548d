package board

import (
	"chessrelay/internal/server/core"
)

// IsSquareAttacked reports whether any piece of defender's opponent could
// capture on the square. Built only on movement geometry, never on the
// king-safety filter.
func (b *Board) IsSquareAttacked(file, rank int, defender core.Color) bool {
	if !core.InBounds(file, rank) {
		return false
	}

	attacker := core.OppositeColor(defender)
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			p := b.squares[f][r]
			if p == nil || p.color != attacker {
				continue
			}
			if b.reaches(p, file, rank, true) {
				return true
			}
		}
	}
	return false
}

// IsInCheck reports whether color's king is attacked. A board without that
// king is never in check.
func (b *Board) IsInCheck(color core.Color) bool {
	king := b.findKing(color)
	if king == nil {
		return false
	}
	return b.IsSquareAttacked(king.file, king.rank, color)
}

// leavesKingSafe plays the move on the board, asks whether the mover is in
// check, and restores the original cells. Callers must have checked that the
// source square is occupied and the move is pseudo-legal.
func (b *Board) leavesKingSafe(fromFile, fromRank, toFile, toRank int) bool {
	mover := b.squares[fromFile][fromRank]
	captured := b.squares[toFile][toRank]

	defer func() {
		b.squares[toFile][toRank] = captured
		b.squares[fromFile][fromRank] = mover
	}()

	b.squares[fromFile][fromRank] = nil
	b.squares[toFile][toRank] = mover.movedTo(toFile, toRank)

	return !b.IsInCheck(mover.color)
}
