package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"chessrelay/internal/server/board"
	"chessrelay/internal/server/core"
	"chessrelay/internal/server/storage"
	"chessrelay/internal/testutil"
)

func TestCreateAndMove(t *testing.T) {
	svc := New(nil)
	defer svc.Shutdown(time.Second)

	id := svc.GenerateGameID()
	_, err := uuid.Parse(id)
	testutil.AssertNoError(t, err, "game id")

	g, err := svc.CreateGame(id, "")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, g.Name() != "", "game name")
	testutil.AssertEqual(t, g.FEN(), board.StartingFEN)

	_, err = svc.CreateGame(id, "")
	testutil.AssertErrorIs(t, err, ErrGameExists)

	valid, err := svc.ValidateMove(id, core.NewMove(0, 1, 0, 2))
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, valid)
	testutil.AssertEqual(t, g.Version(), 0, "validate must not move")

	snap, err := svc.MakeMove(id, core.NewMove(0, 1, 0, 2))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, snap.Turn, core.ColorBlack)

	_, err = svc.MakeMove(id, core.NewMove(0, 2, 0, 3))
	testutil.AssertErrorIs(t, err, board.ErrWrongTurn)

	moves, err := svc.LegalMoves(id, 1, 7)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(moves), 2)

	snap, err = svc.ResetGame(id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, snap.FEN, board.StartingFEN)
	testutil.AssertEqual(t, snap.Version, 2)
}

func TestCreateFromFEN(t *testing.T) {
	svc := New(nil)
	defer svc.Shutdown(time.Second)

	g, err := svc.CreateGame("fen", "4k3/8/8/8/8/8/8/4K3 b - - 0 1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, g.Turn(), core.ColorBlack)

	_, err = svc.CreateGame("bad", "not a fen")
	testutil.AssertTrue(t, err != nil, "invalid FEN accepted")
	_, err = svc.GetGame("bad")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
}

func TestDeleteGame(t *testing.T) {
	svc := New(nil)
	defer svc.Shutdown(time.Second)

	_, err := svc.CreateGame("g", "")
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, svc.DeleteGame("g"))
	testutil.AssertErrorIs(t, svc.DeleteGame("g"), ErrGameNotFound)
	_, err = svc.MakeMove("g", core.NewMove(0, 1, 0, 2))
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
}

func TestWaitReleasedByMove(t *testing.T) {
	svc := New(nil)
	defer svc.Shutdown(time.Second)

	_, err := svc.CreateGame("g", "")
	testutil.AssertNoError(t, err)

	ch, err := svc.RegisterWait(context.Background(), "g", 0)
	testutil.AssertNoError(t, err)

	select {
	case <-ch:
		t.Fatal("released before any move")
	default:
	}
	testutil.AssertEqual(t, svc.Watchers("g"), 1, "parked waiters")

	_, err = svc.MakeMove("g", core.NewMove(4, 1, 4, 3))
	testutil.AssertNoError(t, err)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("waiter not released by move")
	}

	// The released waiter is dropped by its own goroutine
	deadline := time.Now().Add(time.Second)
	for svc.Watchers("g") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("released waiter still registered: %d", svc.Watchers("g"))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestListGamesOldestFirst(t *testing.T) {
	svc := New(nil)
	defer svc.Shutdown(time.Second)

	testutil.AssertEqual(t, len(svc.ListGames()), 0)

	for _, id := range []string{"first", "second", "third"} {
		_, err := svc.CreateGame(id, "")
		testutil.AssertNoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	testutil.AssertNoError(t, svc.DeleteGame("second"))

	var ids []string
	for _, g := range svc.ListGames() {
		ids = append(ids, g.ID())
	}
	testutil.AssertEqual(t, ids, []string{"first", "third"})
}

func TestWaitStaleVersionReleasesImmediately(t *testing.T) {
	svc := New(nil)
	defer svc.Shutdown(time.Second)

	_, err := svc.CreateGame("g", "")
	testutil.AssertNoError(t, err)
	_, err = svc.MakeMove("g", core.NewMove(4, 1, 4, 3))
	testutil.AssertNoError(t, err)

	ch, err := svc.RegisterWait(context.Background(), "g", 0)
	testutil.AssertNoError(t, err)
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("stale waiter not released")
	}
}

func TestWaitReleasedByCancelAndDelete(t *testing.T) {
	svc := New(nil)
	defer svc.Shutdown(time.Second)

	_, err := svc.CreateGame("g", "")
	testutil.AssertNoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ch1, err := svc.RegisterWait(ctx, "g", 0)
	testutil.AssertNoError(t, err)
	ch2, err := svc.RegisterWait(context.Background(), "g", 0)
	testutil.AssertNoError(t, err)

	cancel()
	select {
	case <-ch1:
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter not released")
	}

	testutil.AssertNoError(t, svc.DeleteGame("g"))
	select {
	case <-ch2:
	case <-time.After(time.Second):
		t.Fatal("waiter not released by deletion")
	}
}

func TestRestoreFromStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")

	store, err := storage.NewStore(path, false)
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, store.InitDB())

	svc := New(store)
	g, err := svc.CreateGame("g", "")
	testutil.AssertNoError(t, err)
	_, err = svc.MakeMove("g", core.NewMove(6, 0, 5, 2))
	testutil.AssertNoError(t, err)
	want := g.FEN()
	testutil.AssertNoError(t, svc.Shutdown(time.Second))

	store, err = storage.NewStore(path, false)
	testutil.AssertNoError(t, err)
	svc = New(store)
	defer svc.Shutdown(time.Second)

	n, err := svc.Restore()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, n, 1)

	restored, err := svc.GetGame("g")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, restored.FEN(), want)
	testutil.AssertEqual(t, restored.Version(), 1)
	testutil.AssertEqual(t, restored.Name(), g.Name())
	testutil.AssertEqual(t, svc.GetStorageHealth(), "ok")
}

func TestStorageHealthDisabled(t *testing.T) {
	svc := New(nil)
	testutil.AssertEqual(t, svc.GetStorageHealth(), "disabled")
	n, err := svc.Restore()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, n, 0)
	testutil.AssertNoError(t, svc.Shutdown(time.Second))
}
