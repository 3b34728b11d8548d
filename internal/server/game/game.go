package game

import (
	"sync"
	"time"

	"chessrelay/internal/server/board"
	"chessrelay/internal/server/core"
)

// Snapshot is a consistent view of a game taken under one lock
type Snapshot struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	FEN      string     `json:"fen"`
	Turn     core.Color `json:"turn"`
	InCheck  bool       `json:"inCheck"`
	Version  int        `json:"version"`
	Board    string     `json:"board"`
	LastMove *core.Move `json:"lastMove,omitempty"`
}

// Game owns one board. Every query and mutation runs under mu, so a move is
// never observed half-applied and the king-safety trial move inside IsValidMove is
// never seen by another goroutine.
type Game struct {
	mu        sync.Mutex
	id        string
	name      string
	createdAt time.Time
	board     *board.Board
	version   int
	lastMove  *core.Move
}

func New(id, name string, b *board.Board) *Game {
	return Resume(id, name, b, 0, time.Now().UTC())
}

// Resume rebuilds a game from a persisted position
func Resume(id, name string, b *board.Board, version int, createdAt time.Time) *Game {
	if b == nil {
		b = board.NewStandard()
	}
	return &Game{
		id:        id,
		name:      name,
		createdAt: createdAt,
		board:     b,
		version:   version,
	}
}

func (g *Game) ID() string {
	return g.id
}

func (g *Game) Name() string {
	return g.name
}

func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}

// Version counts applied moves and resets since creation
func (g *Game) Version() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.version
}

func (g *Game) Turn() core.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Turn()
}

// PieceAt returns the occupant of a square; pieces are immutable
func (g *Game) PieceAt(file, rank int) *board.Piece {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.PieceAt(file, rank)
}

func (g *Game) IsValidMove(m core.Move) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.IsValidMove(m.FromFile, m.FromRank, m.ToFile, m.ToRank)
}

// MovePiece applies the move for the side to move and returns the snapshot
// after it. On error the game is unchanged.
func (g *Game) MovePiece(m core.Move) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.board.MovePiece(m.FromFile, m.FromRank, m.ToFile, m.ToRank); err != nil {
		return Snapshot{}, err
	}
	g.version++
	g.lastMove = &m
	return g.snapshotLocked(), nil
}

// MoveAs applies the move only if the piece belongs to color
func (g *Game) MoveAs(color core.Color, m core.Move) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p := g.board.PieceAt(m.FromFile, m.FromRank); p != nil && p.Color() != color {
		return Snapshot{}, board.ErrWrongTurn
	}
	if err := g.board.MovePiece(m.FromFile, m.FromRank, m.ToFile, m.ToRank); err != nil {
		return Snapshot{}, err
	}
	g.version++
	g.lastMove = &m
	return g.snapshotLocked(), nil
}

func (g *Game) LegalMoves(file, rank int) []core.Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.LegalMoves(file, rank)
}

// Reset returns the board to the starting position and bumps the version
func (g *Game) Reset() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.board.Reset()
	g.version++
	g.lastMove = nil
	return g.snapshotLocked()
}

func (g *Game) Render() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Render()
}

func (g *Game) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.FEN()
}

// InCheck reports whether the side to move is in check
func (g *Game) InCheck() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.IsInCheck(g.board.Turn())
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:      g.id,
		Name:    g.name,
		FEN:     g.board.FEN(),
		Turn:    g.board.Turn(),
		InCheck: g.board.IsInCheck(g.board.Turn()),
		Version: g.version,
		Board:   g.board.Render(),
	}
	if g.lastMove != nil {
		m := *g.lastMove
		s.LastMove = &m
	}
	return s
}
