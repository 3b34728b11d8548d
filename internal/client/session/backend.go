package session

import (
	"errors"

	"chessrelay/internal/client/api"
	"chessrelay/internal/relay"
	"chessrelay/internal/server/core"
	"chessrelay/internal/server/game"
)

// ErrResetRelayed is returned when resetting a game shared with a peer
var ErrResetRelayed = errors.New("cannot reset a relayed game, disconnect first")

// State is the view of a game shown after each command
type State struct {
	Name    string     `json:"name"`
	Board   string     `json:"board"`
	FEN     string     `json:"fen"`
	Turn    core.Color `json:"turn"`
	InCheck bool       `json:"inCheck"`
	Version int        `json:"version"`
}

// Backend is where moves go: an in-process game, a game shared with a TCP
// peer, or a game hosted by the HTTP server.
type Backend interface {
	Name() string
	State() (State, error)
	Move(m core.Move) (State, error)
	IsValidMove(m core.Move) (bool, error)
	Targets(file, rank int) ([]core.Move, error)
	PieceAt(file, rank int) (*core.PieceInfo, error)
	Reset() (State, error)
}

func stateOf(snap game.Snapshot) State {
	return State{
		Name:    snap.Name,
		Board:   snap.Board,
		FEN:     snap.FEN,
		Turn:    snap.Turn,
		InCheck: snap.InCheck,
		Version: snap.Version,
	}
}

// Local plays both sides on one in-process game
type Local struct {
	game *game.Game
}

func NewLocal(g *game.Game) *Local {
	return &Local{game: g}
}

func (l *Local) Game() *game.Game {
	return l.game
}

func (l *Local) Name() string {
	return "local " + l.game.Name()
}

func (l *Local) State() (State, error) {
	return stateOf(l.game.Snapshot()), nil
}

func (l *Local) Move(m core.Move) (State, error) {
	snap, err := l.game.MovePiece(m)
	if err != nil {
		return State{}, err
	}
	return stateOf(snap), nil
}

func (l *Local) IsValidMove(m core.Move) (bool, error) {
	return l.game.IsValidMove(m), nil
}

func (l *Local) Targets(file, rank int) ([]core.Move, error) {
	return l.game.LegalMoves(file, rank), nil
}

func (l *Local) PieceAt(file, rank int) (*core.PieceInfo, error) {
	if p := l.game.PieceAt(file, rank); p != nil {
		return p.Info(), nil
	}
	return nil, nil
}

func (l *Local) Reset() (State, error) {
	return stateOf(l.game.Reset()), nil
}

// Relayed plays one side of a game mirrored with a peer
type Relayed struct {
	peer *relay.Peer
}

func NewRelayed(p *relay.Peer) *Relayed {
	return &Relayed{peer: p}
}

func (r *Relayed) Peer() *relay.Peer {
	return r.peer
}

func (r *Relayed) Name() string {
	return r.peer.Side().Name() + " vs " + r.peer.RemoteAddr().String()
}

func (r *Relayed) State() (State, error) {
	return stateOf(r.peer.Game().Snapshot()), nil
}

func (r *Relayed) Move(m core.Move) (State, error) {
	snap, err := r.peer.Move(m)
	if err != nil {
		return State{}, err
	}
	return stateOf(snap), nil
}

func (r *Relayed) IsValidMove(m core.Move) (bool, error) {
	return r.peer.IsValidMove(m), nil
}

// Targets lists destinations only for this side's pieces
func (r *Relayed) Targets(file, rank int) ([]core.Move, error) {
	g := r.peer.Game()
	p := g.PieceAt(file, rank)
	if p == nil || p.Color() != r.peer.Side() {
		return nil, nil
	}
	return g.LegalMoves(file, rank), nil
}

func (r *Relayed) PieceAt(file, rank int) (*core.PieceInfo, error) {
	if p := r.peer.Game().PieceAt(file, rank); p != nil {
		return p.Info(), nil
	}
	return nil, nil
}

func (r *Relayed) Reset() (State, error) {
	return State{}, ErrResetRelayed
}

// Remote forwards every call to a game held by the HTTP server
type Remote struct {
	client  *api.Client
	gameID  string
	version int
}

func NewRemote(c *api.Client, gameID string) *Remote {
	return &Remote{client: c, gameID: gameID}
}

func (r *Remote) GameID() string {
	return r.gameID
}

func (r *Remote) Name() string {
	id := r.gameID
	if len(id) > 8 {
		id = id[:8]
	}
	return "remote " + id
}

func (r *Remote) fromResponse(resp *core.GameResponse) State {
	r.version = resp.Version
	turn, _ := core.ParseColor(resp.Turn)
	return State{
		Name:    resp.Name,
		Board:   resp.Board,
		FEN:     resp.FEN,
		Turn:    turn,
		InCheck: resp.InCheck,
		Version: resp.Version,
	}
}

func (r *Remote) State() (State, error) {
	resp, err := r.client.GetGame(r.gameID)
	if err != nil {
		return State{}, err
	}
	return r.fromResponse(resp), nil
}

// Wait blocks until the server reports a version newer than the last one seen
func (r *Remote) Wait() (State, error) {
	resp, err := r.client.WaitGame(r.gameID, r.version)
	if err != nil {
		return State{}, err
	}
	return r.fromResponse(resp), nil
}

func (r *Remote) Move(m core.Move) (State, error) {
	resp, err := r.client.MakeMove(r.gameID, m)
	if err != nil {
		return State{}, err
	}
	return r.fromResponse(resp), nil
}

func (r *Remote) IsValidMove(m core.Move) (bool, error) {
	resp, err := r.client.ValidateMove(r.gameID, m)
	if err != nil {
		return false, err
	}
	return resp.Valid, nil
}

func (r *Remote) Targets(file, rank int) ([]core.Move, error) {
	resp, err := r.client.GetTargets(r.gameID, file, rank)
	if err != nil {
		return nil, err
	}
	return resp.Moves, nil
}

func (r *Remote) PieceAt(file, rank int) (*core.PieceInfo, error) {
	resp, err := r.client.GetSquare(r.gameID, file, rank)
	if err != nil {
		return nil, err
	}
	return resp.Piece, nil
}

func (r *Remote) Reset() (State, error) {
	resp, err := r.client.ResetGame(r.gameID)
	if err != nil {
		return State{}, err
	}
	return r.fromResponse(resp), nil
}
