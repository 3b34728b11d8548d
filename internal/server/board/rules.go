package board

import (
	"chessrelay/internal/server/core"
)

// homeRank is the rank a pawn may double-step from
func homeRank(c core.Color) int {
	if c == core.ColorWhite {
		return 1
	}
	return 6
}

// forward is the rank delta a pawn advances by
func forward(c core.Color) int {
	if c == core.ColorWhite {
		return 1
	}
	return -1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// isPseudoLegal checks shape, path and occupancy, ignoring whether the
// mover's own king ends up attacked. The king additionally may not step
// onto a square the opponent attacks.
func (b *Board) isPseudoLegal(fromFile, fromRank, toFile, toRank int) bool {
	p := b.PieceAt(fromFile, fromRank)
	if p == nil || !core.InBounds(toFile, toRank) {
		return false
	}
	if fromFile == toFile && fromRank == toRank {
		return false
	}

	target := b.squares[toFile][toRank]
	if target != nil && target.color == p.color {
		return false
	}

	if !b.reaches(p, toFile, toRank, target != nil) {
		return false
	}

	if p.kind == core.King && b.IsSquareAttacked(toFile, toRank, p.color) {
		return false
	}
	return true
}

// reaches reports whether p's movement shape and path allow it to arrive on
// the square. capture selects the pawn's diagonal rule over its push rule.
// It never consults attack detection, which keeps the attack detector free of
// recursion.
func (b *Board) reaches(p *Piece, toFile, toRank int, capture bool) bool {
	dc := abs(toFile - p.file)
	dr := abs(toRank - p.rank)
	if dc == 0 && dr == 0 {
		return false
	}

	switch p.kind {
	case core.Pawn:
		return b.pawnReaches(p, toFile, toRank, capture)
	case core.Knight:
		return (dc == 2 && dr == 1) || (dc == 1 && dr == 2)
	case core.Bishop:
		return dc == dr && b.isPathClear(p.file, p.rank, toFile, toRank)
	case core.Rook:
		return (dc == 0) != (dr == 0) && b.isPathClear(p.file, p.rank, toFile, toRank)
	case core.Queen:
		straight := (dc == 0) != (dr == 0)
		return (dc == dr || straight) && b.isPathClear(p.file, p.rank, toFile, toRank)
	case core.King:
		return dc <= 1 && dr <= 1
	default:
		return false
	}
}

func (b *Board) pawnReaches(p *Piece, toFile, toRank int, capture bool) bool {
	dir := forward(p.color)
	dc := abs(toFile - p.file)

	if capture {
		return dc == 1 && toRank == p.rank+dir
	}

	if dc != 0 {
		return false
	}
	if toRank == p.rank+dir {
		return b.squares[toFile][toRank] == nil
	}
	// Double step from the home rank through two empty squares
	if p.rank == homeRank(p.color) && toRank == p.rank+2*dir {
		return b.squares[toFile][p.rank+dir] == nil && b.squares[toFile][toRank] == nil
	}
	return false
}

// isPathClear walks unit steps strictly between the two squares
func (b *Board) isPathClear(fromFile, fromRank, toFile, toRank int) bool {
	stepFile := sign(toFile - fromFile)
	stepRank := sign(toRank - fromRank)

	file, rank := fromFile+stepFile, fromRank+stepRank
	for file != toFile || rank != toRank {
		if b.squares[file][rank] != nil {
			return false
		}
		file += stepFile
		rank += stepRank
	}
	return true
}
