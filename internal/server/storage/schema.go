package storage

import "time"

// GameRecord is a row of the games table. Only the current position is kept.
type GameRecord struct {
	GameID         string    `db:"game_id"`
	Name           string    `db:"name"`
	FEN            string    `db:"fen"`
	Version        int       `db:"version"`
	StartTimeUTC   time.Time `db:"start_time_utc"`
	UpdatedTimeUTC time.Time `db:"updated_time_utc"`
}

// PositionRecord overwrites the stored position of a game
type PositionRecord struct {
	GameID         string    `db:"game_id"`
	FEN            string    `db:"fen"`
	Version        int       `db:"version"`
	UpdatedTimeUTC time.Time `db:"updated_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	fen TEXT NOT NULL,
	version INTEGER NOT NULL DEFAULT 0,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_games_updated ON games(updated_time_utc);
`
