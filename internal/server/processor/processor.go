package processor

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"unicode"

	"chessrelay/internal/server/board"
	"chessrelay/internal/server/core"
	"chessrelay/internal/server/game"
	"chessrelay/internal/server/service"
)

// Placement and side to move are required, the remaining FEN fields optional
var fenPattern = regexp.MustCompile(`^[rnbqkpRNBQKP1-8/]+( [wb]( [KQkq-]+( [a-h1-8-]+( \d+( \d+)?)?)?)?)?$`)

// Processor executes commands against the service and shapes API responses
type Processor struct {
	svc *service.Service
}

func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdValidateMove:
		return p.handleValidateMove(cmd)
	case CmdResetGame:
		return p.handleResetGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdGetSquare:
		return p.handleGetSquare(cmd)
	case CmdLegalMoves:
		return p.handleLegalMoves(cmd)
	case CmdListGames:
		return p.handleListGames()
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// isFENSafe rejects control characters and anything not shaped like FEN
func (p *Processor) isFENSafe(fen string) bool {
	for _, r := range fen {
		if unicode.IsControl(r) {
			return false
		}
	}
	return fenPattern.MatchString(fen)
}

func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	if args.FEN != "" && !p.isFENSafe(args.FEN) {
		return p.errorResponse("invalid FEN format or characters", core.ErrInvalidFEN)
	}

	gameID := p.svc.GenerateGameID()
	g, err := p.svc.CreateGame(gameID, args.FEN)
	if err != nil {
		return p.errorResponse(fmt.Sprintf("invalid FEN: %v", err), core.ErrInvalidFEN)
	}

	log.Printf("Game %s (%s) created", gameID, g.Name())

	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(g.Snapshot()),
	}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(g.Snapshot()),
	}
}

func (p *Processor) handleListGames() ProcessorResponse {
	games := p.svc.ListGames()
	resp := core.GameListResponse{Games: make([]core.GameSummary, 0, len(games))}
	for _, g := range games {
		snap := g.Snapshot()
		resp.Games = append(resp.Games, core.GameSummary{
			GameID:    snap.ID,
			Name:      snap.Name,
			Turn:      snap.Turn.String(),
			Version:   snap.Version,
			Watchers:  p.svc.Watchers(snap.ID),
			CreatedAt: g.CreatedAt(),
		})
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
	}
}

func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	move := args.Move()
	snap, err := p.svc.MakeMove(cmd.GameID, move)
	if err != nil {
		return p.moveError(move, err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(snap),
	}
}

func (p *Processor) handleValidateMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	move := args.Move()
	valid, err := p.svc.ValidateMove(cmd.GameID, move)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.ValidateResponse{
			Move:  move,
			Valid: valid,
		},
	}
}

func (p *Processor) handleResetGame(cmd Command) ProcessorResponse {
	snap, err := p.svc.ResetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(snap),
	}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	snap := g.Snapshot()
	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			FEN:   snap.FEN,
			Board: snap.Board,
		},
	}
}

func (p *Processor) handleGetSquare(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.SquareRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	if !core.InBounds(args.File, args.Rank) {
		return p.errorResponse("square off the board", core.ErrOutOfBounds)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	resp := core.SquareResponse{File: args.File, Rank: args.Rank}
	if piece := g.PieceAt(args.File, args.Rank); piece != nil {
		resp.Piece = piece.Info()
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

func (p *Processor) handleLegalMoves(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.SquareRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	if !core.InBounds(args.File, args.Rank) {
		return p.errorResponse("square off the board", core.ErrOutOfBounds)
	}

	moves, err := p.svc.LegalMoves(cmd.GameID, args.File, args.Rank)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	if moves == nil {
		moves = []core.Move{}
	}

	return ProcessorResponse{
		Success: true,
		Data: core.TargetsResponse{
			File:  args.File,
			Rank:  args.Rank,
			Moves: moves,
		},
	}
}

// moveError maps a rejected move to its API error code
func (p *Processor) moveError(move core.Move, err error) ProcessorResponse {
	resp := p.errorResponse(fmt.Sprintf("move %s rejected", move), ErrorCode(err))
	resp.Error.Details = err.Error()
	return resp
}

// ErrorCode classifies service and board errors
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return core.ErrGameNotFound
	case errors.Is(err, board.ErrWrongTurn):
		return core.ErrNotYourTurn
	case errors.Is(err, board.ErrKingExposed):
		return core.ErrKingExposed
	case errors.Is(err, board.ErrOutOfBounds):
		return core.ErrOutOfBounds
	case errors.Is(err, board.ErrNoPiece):
		return core.ErrNoPiece
	case errors.Is(err, board.ErrIllegalMove),
		errors.Is(err, board.ErrSameSquare),
		errors.Is(err, board.ErrFriendlyCapture):
		return core.ErrInvalidMove
	default:
		return core.ErrInternalError
	}
}

func buildGameResponse(snap game.Snapshot) core.GameResponse {
	return core.GameResponse{
		GameID:   snap.ID,
		Name:     snap.Name,
		FEN:      snap.FEN,
		Turn:     snap.Turn.String(),
		InCheck:  snap.InCheck,
		Version:  snap.Version,
		Board:    snap.Board,
		LastMove: snap.LastMove,
	}
}

func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}
