package board

import (
	"testing"

	"chessrelay/internal/server/core"
	"chessrelay/internal/testutil"
)

func mustParse(t *testing.T, fen string) *Board {
	t.Helper()
	b, err := ParseFEN(fen)
	testutil.AssertNoError(t, err, "ParseFEN(%q)", fen)
	return b
}

func TestResetLayout(t *testing.T) {
	b := NewStandard()

	testutil.AssertEqual(t, len(b.Pieces()), 32, "piece count")
	testutil.AssertEqual(t, b.Turn(), core.ColorWhite, "turn")

	for file, kind := range backRank {
		checks := []struct {
			rank  int
			color core.Color
			kind  core.PieceKind
		}{
			{0, core.ColorWhite, kind},
			{1, core.ColorWhite, core.Pawn},
			{6, core.ColorBlack, core.Pawn},
			{7, core.ColorBlack, kind},
		}
		for _, c := range checks {
			p := b.PieceAt(file, c.rank)
			testutil.AssertNotNil(t, p, "square %d,%d", file, c.rank)
			if p.Color() != c.color || p.Kind() != c.kind {
				t.Errorf("square %d,%d: got %s, want %s %s", file, c.rank, p, c.color.Name(), c.kind)
			}
			if p.File() != file || p.Rank() != c.rank {
				t.Errorf("piece %s stored on %d,%d", p, file, c.rank)
			}
		}
		for rank := 2; rank <= 5; rank++ {
			testutil.AssertNil(t, b.PieceAt(file, rank), "square %d,%d", file, rank)
		}
	}
}

func TestResetRestoresPosition(t *testing.T) {
	b := NewStandard()
	testutil.AssertNoError(t, b.MovePiece(4, 1, 4, 3))
	testutil.AssertNoError(t, b.MovePiece(3, 6, 3, 4))
	testutil.AssertNoError(t, b.MovePiece(4, 3, 3, 4))

	b.Reset()
	testutil.AssertEqual(t, b.FEN(), StartingFEN)

	b.Reset()
	testutil.AssertEqual(t, b.FEN(), StartingFEN, "second reset")
}

func TestPieceAtOutOfRange(t *testing.T) {
	b := NewStandard()
	for _, sq := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {100, 100}} {
		testutil.AssertNil(t, b.PieceAt(sq[0], sq[1]), "PieceAt(%d,%d)", sq[0], sq[1])
	}
}

func TestRender(t *testing.T) {
	want := "" +
		"7 R N B Q K B N R\n" +
		"6 P P P P P P P P\n" +
		"5 . . . . . . . .\n" +
		"4 . . . . . . . .\n" +
		"3 . . . . . . . .\n" +
		"2 . . . . . . . .\n" +
		"1 p p p p p p p p\n" +
		"0 r n b q k b n r\n" +
		"  0 1 2 3 4 5 6 7\n"

	b := NewStandard()
	testutil.AssertEqual(t, b.Render(), want)
	testutil.AssertContains(t, b.String(), "0 r n b q k b n r")
}

func TestRenderAfterMove(t *testing.T) {
	b := NewStandard()
	testutil.AssertNoError(t, b.MovePiece(0, 1, 0, 2))

	out := b.Render()
	testutil.AssertContains(t, out, "2 p . . . . . . .")
	testutil.AssertContains(t, out, "1 . p p p p p p p")
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartingFEN,
		"8/8/8/8/8/8/8/8 w - - 0 1",
		"4r2k/8/8/8/8/8/R7/4K3 w - - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1",
	}
	for _, fen := range fens {
		b := mustParse(t, fen)
		testutil.AssertEqual(t, b.FEN(), fen)
	}
}

func TestParseFENIgnoresExtraFields(t *testing.T) {
	b := mustParse(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	testutil.AssertEqual(t, b.Turn(), core.ColorBlack)
	testutil.AssertEqual(t, b.FEN(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1")

	b = mustParse(t, "8/8/8/8/8/8/8/4K3")
	testutil.AssertEqual(t, b.Turn(), core.ColorWhite, "turn defaults to White")
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"seven ranks", "8/8/8/8/8/8/8 w"},
		{"short rank", "7/8/8/8/8/8/8/8 w"},
		{"long rank", "9/8/8/8/8/8/8/8 w"},
		{"overfull rank", "8p/8/8/8/8/8/8/8 w"},
		{"bad piece", "x7/8/8/8/8/8/8/8 w"},
		{"bad turn", "8/8/8/8/8/8/8/8 x"},
		{"two white kings", "8/8/8/8/8/8/8/K6K w"},
		{"too many fields", "8/8/8/8/8/8/8/8 w - - 0 1 extra"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFEN(tt.fen); err == nil {
				t.Errorf("ParseFEN(%q) succeeded, want error", tt.fen)
			}
		})
	}
}


func TestGlyphs(t *testing.T) {
	tests := []struct {
		color core.Color
		kind  core.PieceKind
		glyph byte
		fen   byte
	}{
		{core.ColorWhite, core.King, 'k', 'K'},
		{core.ColorBlack, core.King, 'K', 'k'},
		{core.ColorWhite, core.Knight, 'n', 'N'},
		{core.ColorBlack, core.Pawn, 'P', 'p'},
	}
	for _, tt := range tests {
		p := NewPiece(0, 0, tt.color, tt.kind)
		testutil.AssertEqual(t, p.Glyph(), tt.glyph, "glyph of %s", p)
		testutil.AssertEqual(t, p.fenLetter(), tt.fen, "fen letter of %s", p)
	}
}
