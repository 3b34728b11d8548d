package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"chessrelay/internal/client/display"
	"chessrelay/internal/client/session"
)

func (r *Registry) registerServerCommands() {
	r.Register(&Command{
		Name:        "remote",
		ShortName:   "o",
		Description: "Create a game on the server and play it",
		Usage:       "remote [fen]",
		Handler:     remoteGameHandler,
	})

	r.Register(&Command{
		Name:        "games",
		ShortName:   "g",
		Description: "List games on the server",
		Usage:       "games",
		Handler:     listGamesHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Play an existing server game",
		Usage:       "join <gameId or unique prefix>",
		Handler:     joinGameHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "p",
		Description: "Wait for the server game to change",
		Usage:       "poll",
		Handler:     pollHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		Description: "Delete the current server game",
		Usage:       "delete",
		Handler:     deleteGameHandler,
	})
}

func remoteGameHandler(s Session, args []string) error {
	resp, err := s.GetClient().CreateGame(strings.Join(args, " "))
	if err != nil {
		return err
	}

	s.SetBackend(session.NewRemote(s.GetClient(), resp.GameID))
	s.Printf("%s\n", display.Green(fmt.Sprintf("Game %s (%s) created", resp.GameID, resp.Name)))
	return showBoardHandler(s, nil)
}

func listGamesHandler(s Session, args []string) error {
	list, err := s.GetClient().ListGames()
	if err != nil {
		return err
	}
	if len(list.Games) == 0 {
		s.Printf("No games on the server\n")
		return nil
	}

	w := tabwriter.NewWriter(s.Out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tName\tTurn\tVersion\tWatchers")
	for _, g := range list.Games {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", g.GameID, g.Name, g.Turn, g.Version, g.Watchers)
	}
	return w.Flush()
}

func joinGameHandler(s Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: join <gameId or unique prefix>")
	}

	id, err := resolveGameID(s, args[0])
	if err != nil {
		return err
	}

	remote := session.NewRemote(s.GetClient(), id)
	if _, err := remote.State(); err != nil {
		return err
	}

	s.SetBackend(remote)
	return showBoardHandler(s, nil)
}

// resolveGameID expands a prefix against the server's game list; a full ID
// is used as given
func resolveGameID(s Session, arg string) (string, error) {
	if len(arg) == 36 {
		return arg, nil
	}

	list, err := s.GetClient().ListGames()
	if err != nil {
		return "", err
	}

	var matches []string
	for _, g := range list.Games {
		if strings.HasPrefix(g.GameID, arg) {
			matches = append(matches, g.GameID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no game matches %q", arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d games", arg, len(matches))
	}
}

func currentRemote(s Session) (*session.Remote, error) {
	remote, ok := s.Backend().(*session.Remote)
	if !ok {
		return nil, fmt.Errorf("not playing a server game, use 'remote' or 'join'")
	}
	return remote, nil
}

func pollHandler(s Session, args []string) error {
	remote, err := currentRemote(s)
	if err != nil {
		return err
	}

	s.Printf("%s\n", display.Cyan("Waiting for changes..."))
	st, err := remote.Wait()
	if err != nil {
		return err
	}
	s.Show(st, nil)
	return nil
}

func deleteGameHandler(s Session, args []string) error {
	remote, err := currentRemote(s)
	if err != nil {
		return err
	}

	if err := s.GetClient().DeleteGame(remote.GameID()); err != nil {
		return err
	}

	s.SetBackend(session.NewLocal(session.NewLocalGame(nil)))
	s.Printf("%s\n", display.Green("Game "+remote.GameID()+" deleted, back to a local game"))
	return nil
}
