// Package main implements the terminal chess client: a local board, a game
// relayed to a peer over TCP, or a game held by chess-server.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"chessrelay/internal/client/commands"
	"chessrelay/internal/client/display"
	"chessrelay/internal/client/session"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "chess-server API base URL")
	useColor := flag.Bool("color", true, "Colored output, ignored when stdout is not a terminal")
	logPath := flag.String("log", "", "Append diagnostic logs to this file")
	listenAddr := flag.String("listen", "", "Host a relayed game on this address at startup")
	connectAddr := flag.String("connect", "", "Join a relayed game at host[:port] at startup")
	flag.Parse()

	if err := initLog(*logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}

	display.SetColor(*useColor && term.IsTerminal(int(os.Stdout.Fd())))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chess"),
		HistoryFile:     ".chess_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Println(display.Red(err.Error()))
		os.Exit(1)
	}
	defer rl.Close()

	// Relay goroutines print through readline so the prompt is redrawn
	s := session.New(*apiURL, rl.Stdout())
	defer s.Close()

	s.Printf("%s\n", display.Cyan("Chess Terminal"))
	s.Printf("%s\n", display.Cyan("API: "+s.APIBaseURL))
	s.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	switch {
	case *listenAddr != "":
		registry.Execute("listen " + *listenAddr)
	case *connectAddr != "":
		registry.Execute("connect " + *connectAddr)
	default:
		registry.Execute("show")
	}

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "quit" {
			break
		}

		// Check for verbose flag
		if strings.HasSuffix(line, " -v") {
			s.Verbose = true
			line = strings.TrimSuffix(line, " -v")
		} else {
			s.Verbose = false
		}

		if !registry.Execute(line) {
			break
		}
	}
}

// initLog sends the standard logger to path, or discards it so relay
// diagnostics do not interleave with the prompt
func initLog(path string) error {
	if path == "" {
		log.SetOutput(io.Discard)
		return nil
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	log.SetOutput(f)
	log.SetPrefix("CLIENT: ")
	log.Println("Client started")
	return nil
}

func buildPrompt(s *session.Session) string {
	b := s.Backend()

	prompt := display.Yellow("chess [") + display.Magenta(b.Name()) + display.Yellow("]")

	// Remote state costs a request, so the turn is only shown for in-process games
	if _, remote := b.(*session.Remote); !remote {
		if st, err := b.State(); err == nil {
			prompt += " - Turn:" + display.ColorForTurn(st.Turn)
		}
	}
	if s.Relayed() {
		prompt += display.Cyan(" relay")
	}

	return display.Prompt(prompt)
}
