package board

import (
	"testing"

	"chessrelay/internal/server/core"
	"chessrelay/internal/testutil"
)

func TestOpeningPawnMove(t *testing.T) {
	b := NewStandard()

	testutil.AssertTrue(t, b.IsValidMove(0, 1, 0, 2))
	testutil.AssertNoError(t, b.MovePiece(0, 1, 0, 2))

	testutil.AssertNil(t, b.PieceAt(0, 1), "source square")
	p := b.PieceAt(0, 2)
	testutil.AssertNotNil(t, p, "destination square")
	testutil.AssertEqual(t, p.Kind(), core.Pawn)
	testutil.AssertEqual(t, p.Color(), core.ColorWhite)
	testutil.AssertEqual(t, b.Turn(), core.ColorBlack)
}

func TestMovePieceRejections(t *testing.T) {
	tests := []struct {
		name string
		move core.Move
		want error
	}{
		{"source off board", core.NewMove(-1, 0, 0, 0), ErrOutOfBounds},
		{"destination off board", core.NewMove(0, 1, 0, 8), ErrOutOfBounds},
		{"empty source", core.NewMove(3, 3, 3, 4), ErrNoPiece},
		{"black moves first", core.NewMove(0, 6, 0, 5), ErrWrongTurn},
		{"same square", core.NewMove(0, 1, 0, 1), ErrSameSquare},
		{"capture own pawn", core.NewMove(0, 0, 0, 1), ErrFriendlyCapture},
		{"rook through pawn", core.NewMove(0, 0, 0, 3), ErrIllegalMove},
		{"knight straight", core.NewMove(1, 0, 1, 2), ErrIllegalMove},
		{"pawn triple step", core.NewMove(4, 1, 4, 4), ErrIllegalMove},
		{"pawn diagonal to empty", core.NewMove(4, 1, 5, 2), ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewStandard()
			m := tt.move
			err := b.MovePiece(m.FromFile, m.FromRank, m.ToFile, m.ToRank)
			testutil.AssertErrorIs(t, err, tt.want)
			testutil.AssertEqual(t, b.FEN(), StartingFEN, "board mutated")
		})
	}
}

func TestPinnedBlockerCannotMove(t *testing.T) {
	// White bishop on e2 shields the king from the rook on e8
	b := mustParse(t, "k3r3/8/8/8/8/8/4B3/4K3 w - - 0 1")
	before := b.FEN()

	testutil.AssertFalse(t, b.IsValidMove(4, 1, 5, 2))
	testutil.AssertFalse(t, b.IsValidMove(4, 1, 3, 2))
	testutil.AssertErrorIs(t, b.MovePiece(4, 1, 5, 2), ErrKingExposed)
	testutil.AssertEqual(t, b.FEN(), before)
	testutil.AssertNil(t, b.LegalMoves(4, 1), "pinned bishop moves")
}

func TestKingCannotEnterAttackedSquare(t *testing.T) {
	// Black rook on a2 covers the whole second rank
	b := mustParse(t, "k7/8/8/8/8/8/r7/4K3 w - - 0 1")

	for _, to := range [][2]int{{3, 1}, {4, 1}, {5, 1}} {
		testutil.AssertFalse(t, b.IsValidMove(4, 0, to[0], to[1]), "king to %d,%d", to[0], to[1])
	}
	testutil.AssertErrorIs(t, b.MovePiece(4, 0, 4, 1), ErrKingExposed)

	want := []core.Move{core.NewMove(4, 0, 3, 0), core.NewMove(4, 0, 5, 0)}
	testutil.AssertEqual(t, b.LegalMoves(4, 0), want)
}

func TestKingCannotApproachKing(t *testing.T) {
	b := mustParse(t, "8/8/8/8/8/4k3/8/4K3 w - - 0 1")

	for file := 3; file <= 5; file++ {
		testutil.AssertFalse(t, b.IsValidMove(4, 0, file, 1), "king to %d,1", file)
	}
	testutil.AssertTrue(t, b.IsValidMove(4, 0, 3, 0))
}

func TestKingCannotRetreatAlongCheckingLine(t *testing.T) {
	// Rook on a1 checks along the first rank; f1 is shadowed by the king itself
	b := mustParse(t, "7k/8/8/8/8/8/8/r3K3 w - - 0 1")

	testutil.AssertTrue(t, b.IsInCheck(core.ColorWhite))
	testutil.AssertFalse(t, b.IsValidMove(4, 0, 5, 0))
	testutil.AssertTrue(t, b.IsValidMove(4, 0, 4, 1))
}

func TestKingCaptureOfDefendedPiece(t *testing.T) {
	// Black pawn on e2 is defended by the rook on e8, the one on d2 is not
	b := mustParse(t, "4r2k/8/8/8/8/8/3pp3/4K3 w - - 0 1")

	testutil.AssertFalse(t, b.IsValidMove(4, 0, 4, 1), "capture defended pawn")
	testutil.AssertTrue(t, b.IsValidMove(4, 0, 3, 1), "capture loose pawn")
}

func TestCheckMustBeAnswered(t *testing.T) {
	b := mustParse(t, "4r2k/8/8/8/8/8/R7/4K3 w - - 0 1")

	testutil.AssertTrue(t, b.IsInCheck(core.ColorWhite))
	testutil.AssertFalse(t, b.IsInCheck(core.ColorBlack))

	testutil.AssertFalse(t, b.IsValidMove(0, 1, 0, 2), "rook ignores check")
	testutil.AssertErrorIs(t, b.MovePiece(0, 1, 0, 2), ErrKingExposed)
	testutil.AssertTrue(t, b.IsValidMove(0, 1, 4, 1), "rook blocks")
	testutil.AssertFalse(t, b.IsValidMove(4, 0, 4, 1), "king stays on file")
	testutil.AssertTrue(t, b.IsValidMove(4, 0, 3, 0), "king steps aside")

	testutil.AssertNoError(t, b.MovePiece(0, 1, 4, 1))
	testutil.AssertFalse(t, b.IsInCheck(core.ColorWhite))
}

func TestIsValidMoveDoesNotMutate(t *testing.T) {
	b := mustParse(t, "k3r3/8/8/8/8/8/4B3/4K3 w - - 0 1")
	fen, render := b.FEN(), b.Render()

	for i := 0; i < 3; i++ {
		testutil.AssertFalse(t, b.IsValidMove(4, 1, 5, 2))
		testutil.AssertTrue(t, b.IsValidMove(4, 0, 5, 0))
		testutil.AssertTrue(t, b.IsValidMove(4, 0, 3, 0))
	}
	testutil.AssertEqual(t, b.FEN(), fen)
	testutil.AssertEqual(t, b.Render(), render)
	testutil.AssertEqual(t, b.PieceAt(4, 1).File(), 4, "bishop identity")
}

func TestIsValidMoveIgnoresTurn(t *testing.T) {
	b := NewStandard()
	testutil.AssertTrue(t, b.IsValidMove(0, 6, 0, 5), "black pawn on white's turn")
	testutil.AssertErrorIs(t, b.MovePiece(0, 6, 0, 5), ErrWrongTurn)
}

func TestIsValidMoveOutOfRange(t *testing.T) {
	b := NewStandard()
	testutil.AssertFalse(t, b.IsValidMove(0, 1, 0, -1))
	testutil.AssertFalse(t, b.IsValidMove(8, 1, 0, 2))
}

func TestCaptureRemovesPiece(t *testing.T) {
	b := NewStandard()
	testutil.AssertNoError(t, b.MovePiece(4, 1, 4, 3))
	testutil.AssertNoError(t, b.MovePiece(3, 6, 3, 4))
	testutil.AssertNoError(t, b.MovePiece(4, 3, 3, 4))

	testutil.AssertEqual(t, len(b.Pieces()), 31)
	p := b.PieceAt(3, 4)
	testutil.AssertNotNil(t, p)
	testutil.AssertEqual(t, p.Color(), core.ColorWhite)
	testutil.AssertEqual(t, b.Turn(), core.ColorBlack)
}

func TestTurnsAlternate(t *testing.T) {
	b := NewStandard()
	moves := []core.Move{
		core.NewMove(6, 0, 5, 2),
		core.NewMove(6, 7, 5, 5),
		core.NewMove(5, 2, 6, 0),
		core.NewMove(5, 5, 6, 7),
	}
	for i, m := range moves {
		testutil.AssertNoError(t, b.MovePiece(m.FromFile, m.FromRank, m.ToFile, m.ToRank), "ply %d", i)
		want := core.ColorBlack
		if i%2 == 1 {
			want = core.ColorWhite
		}
		testutil.AssertEqual(t, b.Turn(), want, "turn after ply %d", i)
	}
	// Knights went out and back
	testutil.AssertEqual(t, b.FEN(), StartingFEN)
}

func TestMatedSideHasNoMoves(t *testing.T) {
	b := NewStandard()
	moves := []core.Move{
		core.NewMove(4, 1, 4, 3),
		core.NewMove(4, 6, 4, 4),
		core.NewMove(5, 0, 2, 3),
		core.NewMove(1, 7, 2, 5),
		core.NewMove(3, 0, 7, 4),
		core.NewMove(6, 7, 5, 5),
		core.NewMove(7, 4, 5, 6),
	}
	for i, m := range moves {
		testutil.AssertNoError(t, b.MovePiece(m.FromFile, m.FromRank, m.ToFile, m.ToRank), "ply %d", i)
	}

	testutil.AssertTrue(t, b.IsInCheck(core.ColorBlack))
	testutil.AssertEqual(t, len(b.AllLegalMoves(core.ColorBlack)), 0)
	testutil.AssertErrorIs(t, b.MovePiece(4, 7, 4, 6), ErrKingExposed)
}

func TestLegalMoves(t *testing.T) {
	b := NewStandard()

	testutil.AssertEqual(t, b.LegalMoves(1, 0),
		[]core.Move{core.NewMove(1, 0, 0, 2), core.NewMove(1, 0, 2, 2)}, "knight")
	testutil.AssertEqual(t, b.LegalMoves(0, 1),
		[]core.Move{core.NewMove(0, 1, 0, 2), core.NewMove(0, 1, 0, 3)}, "pawn")
	testutil.AssertNil(t, b.LegalMoves(2, 0), "blocked bishop")
	testutil.AssertNil(t, b.LegalMoves(4, 4), "empty square")
	testutil.AssertEqual(t, len(b.AllLegalMoves(core.ColorWhite)), 20)
	testutil.AssertEqual(t, len(b.AllLegalMoves(core.ColorBlack)), 20)
}
