package storage

import (
	"database/sql"
	"fmt"
	"log"
)

// enqueue hands a write to the async writer, dropping it when degraded or full
func (s *Store) enqueue(what string, fn func(*sql.Tx) error) error {
	if !s.healthStatus.Load() {
		return nil // Silently drop if degraded
	}

	select {
	case s.writeChan <- writeOp{fn: fn}:
		return nil
	default:
		log.Printf("Storage write queue full, dropping %s", what)
		return nil
	}
}

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) error {
	return s.enqueue("game record", func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, name, fen, version, start_time_utc, updated_time_utc
		) VALUES (?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.Name, record.FEN, record.Version,
			record.StartTimeUTC, record.StartTimeUTC,
		)
		return err
	})
}

// RecordPosition asynchronously overwrites a game's position. Older versions
// arriving late never replace newer ones.
func (s *Store) RecordPosition(record PositionRecord) error {
	return s.enqueue("position", func(tx *sql.Tx) error {
		query := `UPDATE games SET fen = ?, version = ?, updated_time_utc = ?
			WHERE game_id = ? AND version < ?`

		_, err := tx.Exec(query,
			record.FEN, record.Version, record.UpdatedTimeUTC,
			record.GameID, record.Version,
		)
		return err
	})
}

// RecordDeleteGame asynchronously removes a game
func (s *Store) RecordDeleteGame(gameID string) error {
	return s.enqueue("game deletion", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM games WHERE game_id = ?`, gameID)
		return err
	})
}

// QueryGames retrieves games, all of them when gameID is empty or "*"
func (s *Store) QueryGames(gameID string) ([]GameRecord, error) {
	query := `SELECT
		game_id, name, fen, version, start_time_utc, updated_time_utc
	FROM games WHERE 1=1`

	var args []interface{}

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		err := rows.Scan(
			&g.GameID, &g.Name, &g.FEN, &g.Version,
			&g.StartTimeUTC, &g.UpdatedTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}
