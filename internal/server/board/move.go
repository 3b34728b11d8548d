package board

import (
	"errors"

	"chessrelay/internal/server/core"
)

var (
	ErrOutOfBounds     = errors.New("square off the board")
	ErrNoPiece         = errors.New("no piece on source square")
	ErrWrongTurn       = errors.New("piece does not belong to the side to move")
	ErrSameSquare      = errors.New("source and destination are the same square")
	ErrFriendlyCapture = errors.New("destination holds a piece of the same color")
	ErrIllegalMove     = errors.New("piece cannot move that way")
	ErrKingExposed     = errors.New("move leaves own king in check")
)

// IsValidMove reports whether the piece on the source square may legally move
// to the destination. The side to move is not consulted. The board is left
// unchanged.
func (b *Board) IsValidMove(fromFile, fromRank, toFile, toRank int) bool {
	if !core.InBounds(fromFile, fromRank) || !core.InBounds(toFile, toRank) {
		return false
	}
	if !b.isPseudoLegal(fromFile, fromRank, toFile, toRank) {
		return false
	}
	return b.leavesKingSafe(fromFile, fromRank, toFile, toRank)
}

// MovePiece applies a legal move by the side to move and passes the turn.
// A rejected move leaves the board untouched and reports why.
func (b *Board) MovePiece(fromFile, fromRank, toFile, toRank int) error {
	if err := b.checkMove(fromFile, fromRank, toFile, toRank); err != nil {
		return err
	}

	mover := b.squares[fromFile][fromRank]
	b.squares[fromFile][fromRank] = nil
	b.squares[toFile][toRank] = mover.movedTo(toFile, toRank)
	b.turn = core.OppositeColor(b.turn)
	return nil
}

// checkMove classifies a move against the current position
func (b *Board) checkMove(fromFile, fromRank, toFile, toRank int) error {
	if !core.InBounds(fromFile, fromRank) || !core.InBounds(toFile, toRank) {
		return ErrOutOfBounds
	}

	p := b.squares[fromFile][fromRank]
	switch {
	case p == nil:
		return ErrNoPiece
	case p.color != b.turn:
		return ErrWrongTurn
	case fromFile == toFile && fromRank == toRank:
		return ErrSameSquare
	}

	if target := b.squares[toFile][toRank]; target != nil && target.color == p.color {
		return ErrFriendlyCapture
	}

	if !b.isPseudoLegal(fromFile, fromRank, toFile, toRank) {
		// A king stepping into attack is reported as exposure
		if p.kind == core.King && b.reaches(p, toFile, toRank, b.squares[toFile][toRank] != nil) {
			return ErrKingExposed
		}
		return ErrIllegalMove
	}
	if !b.leavesKingSafe(fromFile, fromRank, toFile, toRank) {
		return ErrKingExposed
	}
	return nil
}

// LegalMoves lists every destination the piece on the square may move to,
// ordered by file then rank. Empty squares yield nil.
func (b *Board) LegalMoves(file, rank int) []core.Move {
	if b.PieceAt(file, rank) == nil {
		return nil
	}

	var moves []core.Move
	for tf := 0; tf < 8; tf++ {
		for tr := 0; tr < 8; tr++ {
			if b.IsValidMove(file, rank, tf, tr) {
				moves = append(moves, core.NewMove(file, rank, tf, tr))
			}
		}
	}
	return moves
}

// AllLegalMoves lists the legal moves of every piece of one color
func (b *Board) AllLegalMoves(color core.Color) []core.Move {
	var moves []core.Move
	for _, p := range b.Pieces() {
		if p.color == color {
			moves = append(moves, b.LegalMoves(p.file, p.rank)...)
		}
	}
	return moves
}
