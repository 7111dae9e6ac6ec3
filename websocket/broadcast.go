// Package websocket - broadcast loop for mirror refresh events.
// File: websocket/broadcast.go
package websocket

import (
	"encoding/json"

	"club-portal/logger"
)

// PublishRefresh queues a refresh event for every connected client. Called
// from the mirror's update hook, so it must never block: if the event queue
// is full the event is dropped and clients catch up on the next one.
func PublishRefresh(key string) {
	msg, err := json.Marshal(map[string]string{
		"action": "refresh",
		"key":    key,
	})
	if err != nil {
		logger.Error.Printf("PublishRefresh: marshal failed: %v", err)
		return
	}
	select {
	case events <- msg:
	default:
		logger.Warn.Printf("PublishRefresh: event queue full, dropping refresh for key=%s", key)
	}
	PublishMirrorUpdate(key)
}

// HandleEvents distributes queued refresh events to every connected client.
// Runs for the lifetime of the process; slow consumers are skipped rather
// than allowed to stall the loop.
func HandleEvents() {
	for msg := range events {
		clientsMu.Lock()
		for c := range clients {
			select {
			case c.send <- msg:
			default:
				logger.Warn.Printf("HandleEvents: dropping event for slow client %v", c.conn.RemoteAddr())
			}
		}
		clientsMu.Unlock()
	}
}
