package core

import "time"

// Request types

type CreateGameRequest struct {
	FEN string `json:"fen,omitempty" validate:"omitempty,max=100"`
}

// MoveRequest carries pointer fields so a missing coordinate fails validation instead of reading as 0
type MoveRequest struct {
	FromFile *int `json:"fromFile" validate:"required,min=0,max=7"`
	FromRank *int `json:"fromRank" validate:"required,min=0,max=7"`
	ToFile   *int `json:"toFile" validate:"required,min=0,max=7"`
	ToRank   *int `json:"toRank" validate:"required,min=0,max=7"`
}

func (r MoveRequest) Move() Move {
	return NewMove(*r.FromFile, *r.FromRank, *r.ToFile, *r.ToRank)
}

type SquareRequest struct {
	File int
	Rank int
}

// Response types

type GameResponse struct {
	GameID  string `json:"gameId"`
	Name    string `json:"name"`
	FEN     string `json:"fen"`
	Turn    string `json:"turn"` // "w" or "b"
	InCheck bool   `json:"inCheck"`
	Version int    `json:"version"`
	Board   string `json:"board"`
	// Set only on move responses
	LastMove *Move `json:"lastMove,omitempty"`
}

// GameSummary is one row of the game listing
type GameSummary struct {
	GameID    string    `json:"gameId"`
	Name      string    `json:"name"`
	Turn      string    `json:"turn"`
	Version   int       `json:"version"`
	Watchers  int       `json:"watchers"` // pending long-poll requests
	CreatedAt time.Time `json:"createdAt"`
}

type GameListResponse struct {
	Games []GameSummary `json:"games"`
}

type ValidateResponse struct {
	Move  Move `json:"move"`
	Valid bool `json:"valid"`
}

type PieceInfo struct {
	File  int    `json:"file"`
	Rank  int    `json:"rank"`
	Color string `json:"color"`
	Kind  string `json:"kind"`
}

type SquareResponse struct {
	File  int        `json:"file"`
	Rank  int        `json:"rank"`
	Piece *PieceInfo `json:"piece,omitempty"`
}

type TargetsResponse struct {
	File  int    `json:"file"`
	Rank  int    `json:"rank"`
	Moves []Move `json:"moves"`
}

type BoardResponse struct {
	FEN   string `json:"fen"`
	Board string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage,omitempty"`
}
