package commands

import (
	"fmt"
	"strconv"
	"strings"

	"chessrelay/internal/client/display"
	"chessrelay/internal/client/session"
	"chessrelay/internal/server/board"
	"chessrelay/internal/server/core"
)

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Start a local game",
		Usage:       "new [fen]",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and turn",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Make a move",
		Usage:       "move <fromFile> <fromRank> <toFile> <toRank>",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "valid",
		ShortName:   "v",
		Description: "Check a move without playing it",
		Usage:       "valid <fromFile> <fromRank> <toFile> <toRank>",
		Handler:     validHandler,
	})

	r.Register(&Command{
		Name:        "targets",
		ShortName:   "t",
		Description: "Highlight legal destinations of a piece",
		Usage:       "targets <file> <rank>",
		Handler:     targetsHandler,
	})

	r.Register(&Command{
		Name:        "piece",
		ShortName:   "i",
		Description: "Inspect a square",
		Usage:       "piece <file> <rank>",
		Handler:     pieceHandler,
	})

	r.Register(&Command{
		Name:        "turn",
		ShortName:   "u",
		Description: "Show the side to move",
		Usage:       "turn",
		Handler:     turnHandler,
	})

	r.Register(&Command{
		Name:        "reset",
		ShortName:   "r",
		Description: "Return the game to the starting position",
		Usage:       "reset",
		Handler:     resetHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})
}

func newGameHandler(s Session, args []string) error {
	var b *board.Board
	if len(args) > 0 {
		parsed, err := board.ParseFEN(strings.Join(args, " "))
		if err != nil {
			return err
		}
		b = parsed
	}

	s.SetBackend(session.NewLocal(session.NewLocalGame(b)))
	return showBoardHandler(s, nil)
}

func showBoardHandler(s Session, args []string) error {
	st, err := s.Backend().State()
	if err != nil {
		return err
	}
	s.Show(st, nil)
	return nil
}

func moveHandler(s Session, args []string) error {
	m, err := parseMoveArgs(args)
	if err != nil {
		return err
	}

	st, err := s.Backend().Move(m)
	if err != nil {
		return fmt.Errorf("move %s rejected: %w", m, err)
	}

	s.Printf("%s\n", display.Green("Moved "+m.String()))
	s.Show(st, nil)
	return nil
}

func validHandler(s Session, args []string) error {
	m, err := parseMoveArgs(args)
	if err != nil {
		return err
	}

	ok, err := s.Backend().IsValidMove(m)
	if err != nil {
		return err
	}

	if ok {
		s.Printf("%s is %s\n", m, display.Green("valid"))
	} else {
		s.Printf("%s is %s\n", m, display.Red("invalid"))
	}
	return nil
}

func targetsHandler(s Session, args []string) error {
	file, rank, err := parseSquareArgs(args)
	if err != nil {
		return err
	}

	b := s.Backend()
	moves, err := b.Targets(file, rank)
	if err != nil {
		return err
	}
	st, err := b.State()
	if err != nil {
		return err
	}

	s.Show(st, moves)
	if len(moves) == 0 {
		s.Printf("No legal moves from %d,%d\n", file, rank)
		return nil
	}

	dests := make([]string, len(moves))
	for i, m := range moves {
		dests[i] = fmt.Sprintf("%d,%d", m.ToFile, m.ToRank)
	}
	s.Printf("%d moves from %d,%d: %s\n", len(moves), file, rank, strings.Join(dests, " "))
	return nil
}

func pieceHandler(s Session, args []string) error {
	file, rank, err := parseSquareArgs(args)
	if err != nil {
		return err
	}

	info, err := s.Backend().PieceAt(file, rank)
	if err != nil {
		return err
	}
	if info == nil {
		s.Printf("%d,%d is empty\n", file, rank)
		return nil
	}

	color, _ := core.ParseColor(info.Color)
	s.Printf("%d,%d: %s %s\n", file, rank, display.ColorForTurn(color), info.Kind)
	return nil
}

func turnHandler(s Session, args []string) error {
	st, err := s.Backend().State()
	if err != nil {
		return err
	}

	s.Printf("%s to move", display.ColorForTurn(st.Turn))
	if st.InCheck {
		s.Printf(" %s", display.Red("(in check)"))
	}
	s.Printf("\n")
	return nil
}

func resetHandler(s Session, args []string) error {
	st, err := s.Backend().Reset()
	if err != nil {
		return err
	}

	s.Printf("%s\n", display.Green("Board reset"))
	s.Show(st, nil)
	return nil
}

func gameStateHandler(s Session, args []string) error {
	st, err := s.Backend().State()
	if err != nil {
		return err
	}

	display.PrettyPrintJSON(s.Out(), st)
	return nil
}

func parseMoveArgs(args []string) (core.Move, error) {
	if len(args) == 0 {
		return core.Move{}, fmt.Errorf("usage: move <fromFile> <fromRank> <toFile> <toRank>")
	}
	return core.ParseMove(strings.Join(args, " "))
}

func parseSquareArgs(args []string) (int, int, error) {
	if len(args) == 1 {
		args = strings.Split(args[0], ",")
	}
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected <file> <rank>")
	}

	file, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid file %q", args[0])
	}
	rank, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid rank %q", args[1])
	}
	if !core.InBounds(file, rank) {
		return 0, 0, fmt.Errorf("square %d,%d is off the board", file, rank)
	}
	return file, rank, nil
}
