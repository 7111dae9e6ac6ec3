// file: websocket/handler_test.go
package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var startLoopOnce sync.Once

// newLiveServer starts the broadcast loop (once for the package) and a test
// server speaking the live endpoint.
func newLiveServer(t *testing.T) (*httptest.Server, *websocket.Conn) {
	t.Helper()
	startLoopOnce.Do(func() { go HandleEvents() })

	srv := httptest.NewServer(http.HandlerFunc(ServeWs))
	t.Cleanup(srv.Close)

	// a previous test's client unregisters asynchronously after its conn is
	// closed; wait for the registry to drain before taking the baseline
	drainDeadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(drainDeadline) && ClientCount() != 0 {
		time.Sleep(10 * time.Millisecond)
	}

	baseline := ClientCount()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Test-Mode": []string{"true"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	waitForClients(t, baseline+1)
	return srv, conn
}

func waitForClients(t *testing.T, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ClientCount() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d connected clients, have %d", want, ClientCount())
}

func TestLive_RefreshEventReachesClient(t *testing.T) {
	_, conn := newLiveServer(t)

	PublishRefresh("posts")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event map[string]string
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, "refresh", event["action"])
	assert.Equal(t, "posts", event["key"])
}

func TestLive_SlowClientDoesNotStallTheLoop(t *testing.T) {
	_, _ = newLiveServer(t)

	// far more events than the per-client queue holds; the loop must keep
	// going and drop the overflow rather than block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			PublishRefresh("notices")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("publishing blocked on a slow client")
	}
}

func TestLive_IdleClientGetsPinged(t *testing.T) {
	prev := pingInterval
	pingInterval = 50 * time.Millisecond
	t.Cleanup(func() { pingInterval = prev })

	_, conn := newLiveServer(t)

	pinged := make(chan struct{}, 1)
	conn.SetPingHandler(func(string) error {
		select {
		case pinged <- struct{}{}:
		default:
		}
		return nil
	})

	// control frames are only processed while a read is in flight
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-pinged:
	case <-time.After(2 * time.Second):
		t.Fatal("no ping arrived on an idle connection")
	}
}

func TestLive_DisconnectDropsTheClient(t *testing.T) {
	_, conn := newLiveServer(t)
	before := ClientCount()

	require.NoError(t, conn.Close())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ClientCount() < before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client was not unregistered after close")
}
