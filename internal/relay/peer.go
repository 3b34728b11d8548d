package relay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"

	"chessrelay/internal/server/board"
	"chessrelay/internal/server/core"
	"chessrelay/internal/server/game"
)

var (
	// ErrNotYourPiece is returned when a peer tries to move the other side's piece
	ErrNotYourPiece = errors.New("piece belongs to the other side")
	// ErrPeerLost is returned when a locally applied move could not be sent
	ErrPeerLost = errors.New("peer connection lost")
)

// Peer is one end of a relayed game. It may only move pieces of its own side;
// moves read from the connection are applied for the opposite side.
type Peer struct {
	conn    net.Conn
	game    *game.Game
	side    core.Color
	writeMu sync.Mutex
	once    sync.Once
	done    chan struct{}

	// OnRemoteMove, when set before Run, is called after each applied remote move
	OnRemoteMove func(m core.Move, snap game.Snapshot)
}

func NewPeer(conn net.Conn, g *game.Game, side core.Color) *Peer {
	return &Peer{conn: conn, game: g, side: side, done: make(chan struct{})}
}

func (p *Peer) Side() core.Color {
	return p.side
}

func (p *Peer) Game() *game.Game {
	return p.game
}

func (p *Peer) RemoteAddr() net.Addr {
	return p.conn.RemoteAddr()
}

// IsValidMove is the board's legality check restricted to this side's pieces
func (p *Peer) IsValidMove(m core.Move) bool {
	piece := p.game.PieceAt(m.FromFile, m.FromRank)
	if piece == nil || piece.Color() != p.side {
		return false
	}
	return p.game.IsValidMove(m)
}

// Move applies a local move and sends it to the remote side. A move that
// fails locally is never sent. A move that applies but cannot be sent stays
// on the local board and the peer is closed, since the two boards no longer
// agree; the error wraps ErrPeerLost.
func (p *Peer) Move(m core.Move) (game.Snapshot, error) {
	if piece := p.game.PieceAt(m.FromFile, m.FromRank); piece != nil && piece.Color() != p.side {
		return game.Snapshot{}, ErrNotYourPiece
	}

	snap, err := p.game.MoveAs(p.side, m)
	if err != nil {
		return game.Snapshot{}, err
	}

	if err := p.send(m); err != nil {
		p.Close()
		return snap, fmt.Errorf("%w: move %s not sent: %v", ErrPeerLost, m, err)
	}
	return snap, nil
}

func (p *Peer) send(m core.Move) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	_, err := p.conn.Write(EncodeMove(m))
	return err
}

// Run reads remote moves until the connection closes or ctx ends. Malformed
// lines and moves the board rejects are logged and skipped.
func (p *Peer) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			p.Close()
		case <-stop:
		}
	}()

	remote := core.OppositeColor(p.side)
	scanner := bufio.NewScanner(p.conn)
	for scanner.Scan() {
		line := scanner.Text()

		m, err := DecodeMove(line)
		if err != nil {
			log.Printf("relay: ignoring line from %s: %v", p.conn.RemoteAddr(), err)
			continue
		}

		snap, err := p.applyRemote(remote, m)
		if err != nil {
			log.Printf("relay: ignoring %s move %s: %v", remote.Name(), m, err)
			continue
		}

		if p.OnRemoteMove != nil {
			p.OnRemoteMove(m, snap)
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, io.ErrClosedPipe) {
		return fmt.Errorf("relay read failed: %w", err)
	}
	return nil
}

func (p *Peer) applyRemote(remote core.Color, m core.Move) (game.Snapshot, error) {
	piece := p.game.PieceAt(m.FromFile, m.FromRank)
	if piece == nil {
		return game.Snapshot{}, board.ErrNoPiece
	}
	if piece.Color() != remote {
		return game.Snapshot{}, ErrNotYourPiece
	}
	return p.game.MoveAs(remote, m)
}

// Done is closed once the peer has been closed
func (p *Peer) Done() <-chan struct{} {
	return p.done
}

// Close shuts the connection; Run returns afterwards
func (p *Peer) Close() error {
	var err error
	p.once.Do(func() {
		err = p.conn.Close()
		close(p.done)
	})
	return err
}
