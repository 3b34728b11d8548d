package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"chessrelay/internal/client/api"
	"chessrelay/internal/client/display"
	"chessrelay/internal/client/session"
	"chessrelay/internal/relay"
	"chessrelay/internal/server/core"
)

// ErrExit is returned by the exit command to end the read loop
var ErrExit = errors.New("exit")

type Session interface {
	GetAPIBaseURL() string
	SetAPIBaseURL(string)
	GetClient() *api.Client
	IsVerbose() bool
	Out() io.Writer
	Printf(format string, args ...any)
	Show(st session.State, targets []core.Move)
	Backend() session.Backend
	SetBackend(session.Backend)
	Listen(addr string) (net.Addr, error)
	Connect(ctx context.Context, addr string) (*relay.Peer, error)
	Disconnect() error
	Relayed() bool
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  Session
	commands map[string]*Command
}

func NewRegistry(session Session) *Registry {
	r := &Registry{
		session:  session,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerRelayCommands()
	r.registerServerCommands()
	r.registerUtilityCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     exitHandler,
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line and reports whether the loop should continue
func (r *Registry) Execute(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmdName := parts[0]
	args := parts[1:]

	cmd, exists := r.commands[cmdName]
	if !exists {
		r.session.Printf("%s\n", display.Red("Unknown command: "+cmdName))
		r.session.Printf("Type 'help' for available commands\n")
		return true
	}

	r.session.GetClient().SetVerbose(r.session.IsVerbose())

	if err := cmd.Handler(r.session, args); err != nil {
		if errors.Is(err, ErrExit) {
			return false
		}
		r.session.Printf("%s\n", display.Red("Error: "+err.Error()))
	}
	return true
}

func (r *Registry) helpHandler(s Session, args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		s.Printf("\n%s - %s\n", display.Cyan(cmd.Name), cmd.Description)
		if cmd.ShortName != "" {
			s.Printf("Short form: %s\n", display.Cyan(cmd.ShortName))
		}
		s.Printf("Usage: %s\n", cmd.Usage)
		return nil
	}

	s.Printf("\n%s\n\n", display.Cyan("Available Commands:"))

	groups := []struct {
		title string
		names []string
	}{
		{"Game Commands", []string{"new", "show", "move", "valid", "targets", "piece", "turn", "reset", "state"}},
		{"Relay Commands", []string{"listen", "connect", "disconnect"}},
		{"Server Commands", []string{"remote", "games", "join", "poll", "delete", "health", "url"}},
		{"Utility Commands", []string{"raw", "clear", "help", "exit"}},
	}

	for i, group := range groups {
		if i > 0 {
			s.Printf("\n")
		}
		s.Printf("%s\n", display.Yellow(group.title+":"))
		for _, name := range group.names {
			cmd, exists := r.commands[name]
			if !exists {
				continue
			}
			shortPart := ""
			if cmd.ShortName != "" {
				shortPart = "[" + display.Cyan(cmd.ShortName) + "] "
			}
			s.Printf("  %s%-10s %s\n", shortPart, cmd.Name, cmd.Description)
		}
	}

	s.Printf("\nType 'help <command>' for detailed usage\n")
	s.Printf("Add '-v' to any command for verbose output\n")
	return nil
}

func exitHandler(s Session, args []string) error {
	s.Printf("%s\n", display.Cyan("Goodbye!"))
	return ErrExit
}
