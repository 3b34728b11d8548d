package relay

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"chessrelay/internal/server/core"
	"chessrelay/internal/server/game"
)

// DefaultPort is where a hosting peer listens when no address is given
const DefaultPort = 50000

// Listener waits for the remote player. The hosting side plays White.
type Listener struct {
	ln net.Listener
}

// NewListener listens on addr, or on DefaultPort on all interfaces when addr is empty
func NewListener(addr string) (*Listener, error) {
	if addr == "" {
		addr = ":" + strconv.Itoa(DefaultPort)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return &Listener{ln: ln}, nil
}

func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Accept waits for one connection and returns a White peer for it. Cancelling
// ctx closes the listener.
func (l *Listener) Accept(ctx context.Context, g *game.Game) (*Peer, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			l.ln.Close()
		case <-done:
		}
	}()

	conn, err := l.ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("accept failed: %w", err)
	}
	return NewPeer(conn, g, core.ColorWhite), nil
}

func (l *Listener) Close() error {
	return l.ln.Close()
}

// Dial connects to a hosting peer and returns a Black peer
func Dial(ctx context.Context, addr string, g *game.Game) (*Peer, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, strconv.Itoa(DefaultPort))
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return NewPeer(conn, g, core.ColorBlack), nil
}
