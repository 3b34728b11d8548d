package commands

import (
	"context"
	"fmt"
	"time"

	"chessrelay/internal/client/display"
	"chessrelay/internal/relay"
)

const connectTimeout = 10 * time.Second

func (r *Registry) registerRelayCommands() {
	r.Register(&Command{
		Name:        "listen",
		ShortName:   "l",
		Description: "Host a game as White and wait for a peer",
		Usage:       fmt.Sprintf("listen [addr] (default :%d)", relay.DefaultPort),
		Handler:     listenHandler,
	})

	r.Register(&Command{
		Name:        "connect",
		ShortName:   "c",
		Description: "Join a hosted game as Black",
		Usage:       "connect <host[:port]>",
		Handler:     connectHandler,
	})

	r.Register(&Command{
		Name:        "disconnect",
		ShortName:   "d",
		Description: "Drop the peer and keep playing locally",
		Usage:       "disconnect",
		Handler:     disconnectHandler,
	})
}

func listenHandler(s Session, args []string) error {
	addr := ""
	if len(args) > 0 {
		addr = args[0]
	}

	bound, err := s.Listen(addr)
	if err != nil {
		return err
	}

	s.Printf("%s\n", display.Cyan(fmt.Sprintf("Listening on %s, waiting for a peer (you play White)", bound)))
	return nil
}

func connectHandler(s Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: connect <host[:port]>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if _, err := s.Connect(ctx, args[0]); err != nil {
		return err
	}
	return showBoardHandler(s, nil)
}

func disconnectHandler(s Session, args []string) error {
	if err := s.Disconnect(); err != nil {
		return err
	}
	s.Printf("%s\n", display.Yellow("Disconnected, game continues locally"))
	return nil
}
