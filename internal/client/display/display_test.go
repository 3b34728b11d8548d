package display

import (
	"bytes"
	"strings"
	"testing"

	"chessrelay/internal/server/board"
	"chessrelay/internal/server/core"
	"chessrelay/internal/testutil"
)

func withColor(t *testing.T, enabled bool) {
	t.Helper()
	prev := ColorEnabled()
	SetColor(enabled)
	t.Cleanup(func() { SetColor(prev) })
}

func TestRenderBoardPlain(t *testing.T) {
	withColor(t, false)

	rendered := board.NewStandard().Render()
	var buf bytes.Buffer
	RenderBoard(&buf, rendered, nil)

	testutil.AssertEqual(t, buf.String(), rendered)
}

func TestRenderBoardMarksTargets(t *testing.T) {
	withColor(t, false)

	b := board.NewStandard()
	var buf bytes.Buffer
	RenderBoard(&buf, b.Render(), b.LegalMoves(1, 0))

	lines := strings.Split(buf.String(), "\n")
	// Rank 2 is the sixth line from the top
	testutil.AssertEqual(t, lines[5], "2 * . * . . . . .")
	testutil.AssertEqual(t, lines[7], "0 r n b q k b n r")
}

func TestRenderBoardColored(t *testing.T) {
	withColor(t, true)

	var buf bytes.Buffer
	RenderBoard(&buf, board.NewStandard().Render(), nil)

	out := buf.String()
	testutil.AssertContains(t, out, "\x1b[")
	testutil.AssertContains(t, out, Red("K"))
	testutil.AssertContains(t, out, Blue("k"))
}

func TestColorForTurn(t *testing.T) {
	withColor(t, false)

	testutil.AssertEqual(t, ColorForTurn(core.ColorWhite), "White")
	testutil.AssertEqual(t, ColorForTurn(core.ColorBlack), "Black")
	testutil.AssertEqual(t, Prompt("chess"), "chess > ")
}

func TestPrettyPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	PrettyPrintJSON(&buf, core.NewMove(0, 1, 0, 2))
	testutil.AssertContains(t, buf.String(), "\"fromRank\": 1")
}
