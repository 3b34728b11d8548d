package core

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrInvalidMove       = "INVALID_MOVE"
	ErrNotYourTurn       = "NOT_YOUR_TURN"
	ErrKingExposed       = "KING_EXPOSED"
	ErrNoPiece           = "NO_PIECE"
	ErrOutOfBounds       = "OUT_OF_BOUNDS"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInvalidFEN        = "INVALID_FEN"
	ErrInternalError     = "INTERNAL_ERROR"
)
