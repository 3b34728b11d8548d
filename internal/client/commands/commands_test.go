package commands

import (
	"bytes"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"chessrelay/internal/client/display"
	"chessrelay/internal/client/session"
	chesshttp "chessrelay/internal/server/http"
	"chessrelay/internal/server/processor"
	"chessrelay/internal/server/service"
	"chessrelay/internal/testutil"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Take returns and clears what was written so far
func (b *syncBuffer) Take() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.buf.String()
	b.buf.Reset()
	return s
}

func newTestRegistry(t *testing.T, apiURL string) (*Registry, *session.Session, *syncBuffer) {
	t.Helper()
	display.SetColor(false)
	out := &syncBuffer{}
	s := session.New(apiURL, out)
	t.Cleanup(s.Close)
	return NewRegistry(s), s, out
}

func TestUnknownCommand(t *testing.T) {
	r, _, out := newTestRegistry(t, "")

	testutil.AssertTrue(t, r.Execute("fly 1 2"))
	testutil.AssertContains(t, out.Take(), "Unknown command: fly")
}

func TestExit(t *testing.T) {
	r, _, _ := newTestRegistry(t, "")

	testutil.AssertFalse(t, r.Execute("exit"))
	testutil.AssertFalse(t, r.Execute("x"))
	testutil.AssertTrue(t, r.Execute("   "))
}

func TestHelpListsGroups(t *testing.T) {
	r, _, out := newTestRegistry(t, "")

	r.Execute("help")
	text := out.Take()
	for _, want := range []string{"Game Commands", "Relay Commands", "Server Commands", "listen", "targets"} {
		testutil.AssertContains(t, text, want)
	}

	r.Execute("help move")
	testutil.AssertContains(t, out.Take(), "Usage: move <fromFile>")
}

func TestLocalGameCommands(t *testing.T) {
	r, s, out := newTestRegistry(t, "")

	r.Execute("move 0 1 0 2")
	testutil.AssertContains(t, out.Take(), "Moved 0,1,0,2")

	r.Execute("turn")
	testutil.AssertContains(t, out.Take(), "Black to move")

	r.Execute("m 0,2,0,3")
	testutil.AssertContains(t, out.Take(), "rejected")

	r.Execute("valid 1 7 2 5")
	testutil.AssertContains(t, out.Take(), "1,7,2,5 is valid")

	r.Execute("valid 1 7 1 5")
	testutil.AssertContains(t, out.Take(), "is invalid")

	r.Execute("piece 0 2")
	testutil.AssertContains(t, out.Take(), "White pawn")

	r.Execute("piece 3,3")
	testutil.AssertContains(t, out.Take(), "3,3 is empty")

	r.Execute("targets 6 7")
	testutil.AssertContains(t, out.Take(), "2 moves from 6,7: 5,5 7,5")

	r.Execute("reset")
	st, err := s.Backend().State()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, st.Version, 2)
	testutil.AssertContains(t, out.Take(), "Board reset")
}

func TestNewFromFEN(t *testing.T) {
	r, s, out := newTestRegistry(t, "")

	r.Execute("new 4k3/8/8/8/8/8/8/4K2r w")
	text := out.Take()
	testutil.AssertContains(t, text, "CHECK")

	st, _ := s.Backend().State()
	testutil.AssertTrue(t, st.InCheck)

	r.Execute("new not/a/fen")
	testutil.AssertContains(t, out.Take(), "Error: invalid FEN")
}

func TestBadArguments(t *testing.T) {
	r, _, out := newTestRegistry(t, "")

	r.Execute("move 0 1")
	testutil.AssertContains(t, out.Take(), "expected 4 coordinates")

	r.Execute("targets 9 9")
	testutil.AssertContains(t, out.Take(), "off the board")

	r.Execute("poll")
	testutil.AssertContains(t, out.Take(), "not playing a server game")

	r.Execute("disconnect")
	testutil.AssertContains(t, out.Take(), "no relay connection")
}

func TestUtilityCommands(t *testing.T) {
	r, s, out := newTestRegistry(t, "")

	r.Execute("url localhost:9090/")
	testutil.AssertContains(t, out.Take(), "Server set to http://localhost:9090")
	testutil.AssertEqual(t, s.GetAPIBaseURL(), "http://localhost:9090")

	r.Execute("url ftp://localhost")
	testutil.AssertContains(t, out.Take(), `unsupported scheme "ftp"`)
	testutil.AssertEqual(t, s.GetAPIBaseURL(), "http://localhost:9090")

	r.Execute("/")
	testutil.AssertContains(t, out.Take(), "Server: http://localhost:9090")

	r.Execute("raw PATCH /api/v1/games")
	testutil.AssertContains(t, out.Take(), "unsupported method PATCH")

	r.Execute("clear")
	testutil.AssertContains(t, out.Take(), "\x1b[2J")
}

func TestServerCommands(t *testing.T) {
	svc := service.New(nil)
	app := chesshttp.NewFiberApp(processor.New(svc), svc, true)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	testutil.AssertNoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() {
		app.Shutdown()
		svc.Shutdown(time.Second)
	})

	r, s, out := newTestRegistry(t, "http://"+ln.Addr().String())

	r.Execute("health")
	text := out.Take()
	testutil.AssertContains(t, text, "healthy")
	testutil.AssertContains(t, text, "storage disabled")

	r.Execute("remote")
	testutil.AssertContains(t, out.Take(), "created")
	remote, ok := s.Backend().(*session.Remote)
	testutil.AssertTrue(t, ok, "remote backend")

	r.Execute("move 4 1 4 3")
	testutil.AssertContains(t, out.Take(), "Moved 4,1,4,3")

	g, err := svc.GetGame(remote.GameID())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, g.Version(), 1)

	r.Execute("games")
	testutil.AssertContains(t, out.Take(), remote.GameID())

	// A second client joins the same game by prefix
	r2, s2, out2 := newTestRegistry(t, "http://"+ln.Addr().String())
	r2.Execute("join " + remote.GameID()[:8])
	testutil.AssertContains(t, out2.Take(), "turn Black")
	_, ok = s2.Backend().(*session.Remote)
	testutil.AssertTrue(t, ok)

	r.Execute("delete")
	testutil.AssertContains(t, out.Take(), "deleted")
	_, err = svc.GetGame(remote.GameID())
	testutil.AssertErrorIs(t, err, service.ErrGameNotFound)

	r2.Execute("show")
	testutil.AssertContains(t, out2.Take(), "game not found")

	r2.Execute("join abc")
	testutil.AssertContains(t, out2.Take(), `no game matches "abc"`)
}

func TestRelayCommands(t *testing.T) {
	host, hs, hostOut := newTestRegistry(t, "")
	guest, gs, guestOut := newTestRegistry(t, "")

	host.Execute("listen 127.0.0.1:0")
	text := hostOut.Take()
	testutil.AssertContains(t, text, "waiting for a peer")

	// Recover the bound address from the message
	start := strings.Index(text, "127.0.0.1:")
	testutil.AssertTrue(t, start >= 0)
	addr := strings.Fields(text[start:])[0]
	addr = strings.TrimSuffix(addr, ",")

	guest.Execute("connect " + addr)
	testutil.AssertContains(t, guestOut.Take(), "you play Black")

	deadline := time.Now().Add(3 * time.Second)
	for {
		if _, ok := hs.Backend().(*session.Relayed); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("host never accepted the peer")
		}
		time.Sleep(10 * time.Millisecond)
	}

	host.Execute("move 4 1 4 3")
	testutil.AssertContains(t, hostOut.Take(), "Moved 4,1,4,3")

	deadline = time.Now().Add(3 * time.Second)
	for {
		st, _ := gs.Backend().State()
		if st.Version == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("guest never saw the host move")
		}
		time.Sleep(10 * time.Millisecond)
	}

	guest.Execute("reset")
	testutil.AssertContains(t, guestOut.Take(), "cannot reset a relayed game")

	guest.Execute("disconnect")
	testutil.AssertContains(t, guestOut.Take(), "Disconnected")
}
