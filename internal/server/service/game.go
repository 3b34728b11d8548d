package service

import (
	"fmt"
	"log"
	"sort"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"

	"chessrelay/internal/server/board"
	"chessrelay/internal/server/core"
	"chessrelay/internal/server/game"
	"chessrelay/internal/server/storage"
)

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// CreateGame registers a game in the standard starting position, or in the
// given FEN position when fen is not empty
func (s *Service) CreateGame(id, fen string) (*game.Game, error) {
	b := board.NewStandard()
	if fen != "" {
		parsed, err := board.ParseFEN(fen)
		if err != nil {
			return nil, err
		}
		b = parsed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrGameExists, id)
	}

	g := game.New(id, petname.Generate(2, "-"), b)
	s.games[id] = g

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:       id,
			Name:         g.Name(),
			FEN:          b.FEN(),
			StartTimeUTC: g.CreatedAt(),
		})
	}

	return g, nil
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g, nil
}

// ListGames returns all live games, oldest first
func (s *Service) ListGames() []*game.Game {
	s.mu.RLock()
	games := make([]*game.Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	s.mu.RUnlock()

	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt().Before(games[j].CreatedAt())
	})
	return games
}

// MakeMove applies a move for the side to move
func (s *Service) MakeMove(gameID string, m core.Move) (game.Snapshot, error) {
	g, err := s.GetGame(gameID)
	if err != nil {
		return game.Snapshot{}, err
	}

	snap, err := g.MovePiece(m)
	if err != nil {
		return game.Snapshot{}, err
	}

	s.publish(snap)
	return snap, nil
}

// ValidateMove reports legality without touching the game
func (s *Service) ValidateMove(gameID string, m core.Move) (bool, error) {
	g, err := s.GetGame(gameID)
	if err != nil {
		return false, err
	}
	return g.IsValidMove(m), nil
}

// LegalMoves lists the legal destinations of the piece on a square
func (s *Service) LegalMoves(gameID string, file, rank int) ([]core.Move, error) {
	g, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return g.LegalMoves(file, rank), nil
}

// ResetGame returns a game to the starting position
func (s *Service) ResetGame(gameID string) (game.Snapshot, error) {
	g, err := s.GetGame(gameID)
	if err != nil {
		return game.Snapshot{}, err
	}

	snap := g.Reset()
	s.publish(snap)
	return snap, nil
}

// publish wakes long-poll waiters and persists the new position
func (s *Service) publish(snap game.Snapshot) {
	s.waiter.NotifyGame(snap.ID, snap.Version)

	if s.store != nil {
		s.store.RecordPosition(storage.PositionRecord{
			GameID:         snap.ID,
			FEN:            snap.FEN,
			Version:        snap.Version,
			UpdatedTimeUTC: time.Now().UTC(),
		})
	}
}

// DeleteGame removes a game from memory and storage
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)

	if s.store != nil {
		s.store.RecordDeleteGame(gameID)
	}
	return nil
}

// Restore loads persisted games into memory. Rows with an unreadable position
// are skipped and logged.
func (s *Service) Restore() (int, error) {
	if s.store == nil {
		return 0, nil
	}

	records, err := s.store.QueryGames("*")
	if err != nil {
		return 0, fmt.Errorf("failed to load games: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	restored := 0
	for _, rec := range records {
		if _, exists := s.games[rec.GameID]; exists {
			continue
		}
		b, err := board.ParseFEN(rec.FEN)
		if err != nil {
			log.Printf("Skipping stored game %s: %v", rec.GameID, err)
			continue
		}
		s.games[rec.GameID] = game.Resume(rec.GameID, rec.Name, b, rec.Version, rec.StartTimeUTC)
		restored++
	}
	return restored, nil
}
