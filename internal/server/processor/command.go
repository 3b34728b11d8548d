package processor

import (
	"chessrelay/internal/server/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdGetGame
	CmdDeleteGame
	CmdMakeMove
	CmdValidateMove
	CmdResetGame
	CmdGetBoard
	CmdGetSquare
	CmdLegalMoves
	CmdListGames
)

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewListGamesCommand() Command {
	return Command{Type: CmdListGames}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
	}
}

func NewMakeMoveCommand(gameID string, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewValidateMoveCommand(gameID string, req core.MoveRequest) Command {
	return Command{
		Type:   CmdValidateMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewResetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdResetGame,
		GameID: gameID,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}

func NewGetSquareCommand(gameID string, file, rank int) Command {
	return Command{
		Type:   CmdGetSquare,
		GameID: gameID,
		Args:   core.SquareRequest{File: file, Rank: rank},
	}
}

func NewLegalMovesCommand(gameID string, file, rank int) Command {
	return Command{
		Type:   CmdLegalMoves,
		GameID: gameID,
		Args:   core.SquareRequest{File: file, Rank: rank},
	}
}
