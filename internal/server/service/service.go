package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chessrelay/internal/server/game"
	"chessrelay/internal/server/storage"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// Service owns the live games, notifies long-poll waiters and mirrors
// positions to optional storage
type Service struct {
	games  map[string]*game.Game
	mu     sync.RWMutex
	store  *storage.Store
	waiter *WaitRegistry
}

// New creates a service; store may be nil to run in memory only
func New(store *storage.Store) *Service {
	return &Service{
		games:  make(map[string]*game.Game),
		store:  store,
		waiter: NewWaitRegistry(),
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// RegisterWait returns a channel closed once the game's version differs from
// version. A stale version is released immediately.
func (s *Service) RegisterWait(ctx context.Context, gameID string, version int) (<-chan struct{}, error) {
	g, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}

	ch := s.waiter.RegisterWait(ctx, gameID, version)
	// A move may have landed before registration
	if current := g.Version(); current != version {
		s.waiter.NotifyGame(gameID, current)
	}
	return ch, nil
}

// Watchers returns how many long-poll requests are parked on a game
func (s *Service) Watchers(gameID string) int {
	return s.waiter.Count(gameID)
}

// Shutdown releases waiters and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*game.Game)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}
