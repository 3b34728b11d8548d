package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout caps how long a long-poll request is held open
	WaitTimeout = 25 * time.Second
)

// WaitRegistry tracks long-polling clients waiting for a game version to change
type WaitRegistry struct {
	mu           sync.Mutex
	waiters      map[string][]*WaitRequest // gameID → waiting clients
	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// WaitRequest is one client waiting for updates. Notify is closed exactly once:
// on a version change, timeout, game removal, or shutdown.
type WaitRequest struct {
	GameID  string
	Version int // last version the client saw
	Notify  chan struct{}
	timer   *time.Timer
	once    sync.Once
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		shutdown: make(chan struct{}),
	}
}

func (r *WaitRequest) fire() {
	r.once.Do(func() {
		if r.timer != nil {
			r.timer.Stop()
		}
		close(r.Notify)
	})
}

// RegisterWait returns a channel closed when the game moves past version,
// the wait times out, or ctx ends
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, version int) <-chan struct{} {
	req := &WaitRequest{
		GameID:  gameID,
		Version: version,
		Notify:  make(chan struct{}),
	}

	w.mu.Lock()
	req.timer = time.AfterFunc(WaitTimeout, req.fire)
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			req.fire()
		case <-req.Notify:
		case <-w.shutdown:
			req.fire()
		}
		w.removeWaiter(gameID, req)
	}()

	return req.Notify
}

// NotifyGame wakes every waiter whose known version differs from current
func (w *WaitRegistry) NotifyGame(gameID string, current int) {
	w.mu.Lock()
	waitList := append([]*WaitRequest(nil), w.waiters[gameID]...)
	w.mu.Unlock()

	for _, req := range waitList {
		if req.Version != current {
			req.fire()
		}
	}
}

// RemoveGame wakes and forgets all waiters of a deleted game
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.fire()
	}
}

// Count returns the number of pending waiters for a game
func (w *WaitRegistry) Count(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// Shutdown releases every waiter and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

func (w *WaitRegistry) removeWaiter(gameID string, req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}
