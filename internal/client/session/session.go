// Package session holds the terminal client's state: where moves go, the
// API client, and the lifecycle of a relayed game.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"

	"chessrelay/internal/client/api"
	"chessrelay/internal/client/display"
	"chessrelay/internal/relay"
	"chessrelay/internal/server/board"
	"chessrelay/internal/server/core"
	"chessrelay/internal/server/game"
)

// ErrNotRelayed is returned by Disconnect when no peer is connected or awaited
var ErrNotRelayed = errors.New("no relay connection")

type Session struct {
	APIBaseURL string
	Client     *api.Client
	Verbose    bool

	out   io.Writer
	outMu sync.Mutex

	mu        sync.Mutex
	backend   Backend
	relayStop context.CancelFunc
}

// New starts with a local game in the standard position
func New(apiBaseURL string, out io.Writer) *Session {
	c := api.New(apiBaseURL)
	c.Out = out
	return &Session{
		APIBaseURL: apiBaseURL,
		Client:     c,
		out:        out,
		backend:    NewLocal(NewLocalGame(nil)),
	}
}

// NewLocalGame builds an in-process game; a nil board means the standard position
func NewLocalGame(b *board.Board) *game.Game {
	return game.New(uuid.NewString(), petname.Generate(2, "-"), b)
}

func (s *Session) GetAPIBaseURL() string {
	return s.APIBaseURL
}

func (s *Session) SetAPIBaseURL(url string) {
	s.APIBaseURL = url
	s.Client.SetBaseURL(url)
}

func (s *Session) GetClient() *api.Client {
	return s.Client
}

func (s *Session) IsVerbose() bool {
	return s.Verbose
}

func (s *Session) Out() io.Writer {
	return s.out
}

// Printf serializes output from commands and relay goroutines
func (s *Session) Printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// Show prints a state header and the colored board with targets marked
func (s *Session) Show(st State, targets []core.Move) {
	s.outMu.Lock()
	defer s.outMu.Unlock()

	check := ""
	if st.InCheck {
		check = display.Red("  CHECK")
	}
	fmt.Fprintf(s.out, "%s  turn %s%s\n", display.Magenta(st.Name), display.ColorForTurn(st.Turn), check)
	display.RenderBoard(s.out, st.Board, targets)
}

func (s *Session) Backend() Backend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend
}

// SetBackend switches where moves go, dropping any relay connection first
func (s *Session) SetBackend(b Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRelayLocked()
	s.backend = b
}

// Relayed reports whether a peer is connected or being waited for
func (s *Session) Relayed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.relayStop != nil
}

// Listen hosts a fresh game as White and waits in the background for a peer.
// Until one connects the game can still be played locally.
func (s *Session) Listen(addr string) (net.Addr, error) {
	ln, err := relay.NewListener(addr)
	if err != nil {
		return nil, err
	}

	g := NewLocalGame(nil)
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.stopRelayLocked()
	s.backend = NewLocal(g)
	s.relayStop = cancel
	s.mu.Unlock()

	go func() {
		defer ln.Close()
		peer, err := ln.Accept(ctx, g)
		if err != nil {
			if ctx.Err() == nil {
				s.Printf("%s\n", display.Red("Listen failed: "+err.Error()))
				s.release(ctx, nil)
				cancel()
			}
			return
		}
		s.attach(ctx, cancel, peer)
	}()

	return ln.Addr(), nil
}

// Connect joins a hosting peer as Black on a fresh game
func (s *Session) Connect(ctx context.Context, addr string) (*relay.Peer, error) {
	peer, err := relay.Dial(ctx, addr, NewLocalGame(nil))
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.stopRelayLocked()
	s.relayStop = cancel
	s.mu.Unlock()

	s.attach(runCtx, cancel, peer)
	return peer, nil
}

// Disconnect closes the relay; the position is kept as a local game
func (s *Session) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.relayStop == nil {
		return ErrNotRelayed
	}
	s.stopRelayLocked()
	return nil
}

// Close releases any relay connection
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRelayLocked()
}

func (s *Session) attach(ctx context.Context, cancel context.CancelFunc, peer *relay.Peer) {
	r := NewRelayed(peer)

	s.mu.Lock()
	if ctx.Err() != nil {
		s.mu.Unlock()
		peer.Close()
		return
	}
	s.backend = r
	s.mu.Unlock()

	peer.OnRemoteMove = func(m core.Move, snap game.Snapshot) {
		s.Printf("\n%s\n", display.Cyan("Peer moved "+m.String()))
		s.Show(stateOf(snap), nil)
	}

	s.Printf("%s\n", display.Green(fmt.Sprintf("Peer connected from %s, you play %s",
		peer.RemoteAddr(), peer.Side().Name())))

	go func() {
		defer cancel()
		err := peer.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.Printf("%s\n", display.Red("Relay error: "+err.Error()))
		}
		s.Printf("%s\n", display.Yellow("Peer disconnected, game continues locally"))
		s.release(ctx, r)
	}()
}

// release drops relay state after the connection ends on its own, unless a
// newer relay has replaced it
func (s *Session) release(ctx context.Context, r *Relayed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	if r != nil && s.backend == Backend(r) {
		s.backend = NewLocal(r.Peer().Game())
	}
	s.relayStop = nil
}

func (s *Session) stopRelayLocked() {
	if s.relayStop != nil {
		s.relayStop()
		s.relayStop = nil
	}
	if r, ok := s.backend.(*Relayed); ok {
		r.Peer().Close()
		s.backend = NewLocal(r.Peer().Game())
	}
}
