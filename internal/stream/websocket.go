package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stochbio/genex/internal/genex"
)

// Broadcaster fans simulation snapshots out to WebSocket clients. A
// single goroutine owns registration, unregistration, and writes;
// publishing never blocks the simulation for longer than the queue
// timeout.
type Broadcaster struct {
	mu         sync.RWMutex
	clients    map[*websocket.Conn]bool
	upgrader   websocket.Upgrader
	broadcast  chan genex.Snapshot
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewBroadcaster creates a broadcaster and starts its goroutine.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan genex.Snapshot, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	b.wg.Add(1)
	go b.run()
	return b
}

// RegisterClient registers a new WebSocket client connection.
func (b *Broadcaster) RegisterClient(conn *websocket.Conn) {
	select {
	case b.register <- conn:
	case <-b.done:
		// Broadcaster is closing, ignore
	}
}

// UnregisterClient unregisters a WebSocket client connection.
func (b *Broadcaster) UnregisterClient(conn *websocket.Conn) {
	select {
	case b.unregister <- conn:
	case <-b.done:
		// Broadcaster is closing, ignore
	}
}

// Publish queues a snapshot for delivery to all connected clients.
func (b *Broadcaster) Publish(ctx context.Context, snapshot genex.Snapshot) error {
	select {
	case b.broadcast <- snapshot:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(1 * time.Second):
		return fmt.Errorf("snapshot queue full")
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return

		case conn := <-b.register:
			if conn == nil {
				continue
			}
			b.mu.Lock()
			b.clients[conn] = true
			b.mu.Unlock()

		case conn := <-b.unregister:
			if conn == nil {
				continue
			}
			b.mu.Lock()
			if _, ok := b.clients[conn]; ok {
				delete(b.clients, conn)
				conn.Close()
			}
			b.mu.Unlock()

		case snapshot, ok := <-b.broadcast:
			if !ok {
				return
			}
			jsonData, err := genex.EncodeSnapshotJSON(snapshot)
			if err != nil {
				continue
			}

			// Collect connections first to avoid holding the lock
			// during writes.
			b.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(b.clients))
			for conn := range b.clients {
				conns = append(conns, conn)
			}
			b.mu.RUnlock()

			var toRemove []*websocket.Conn
			for _, conn := range conns {
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, jsonData); err != nil {
					toRemove = append(toRemove, conn)
					conn.Close()
				}
			}

			if len(toRemove) > 0 {
				b.mu.Lock()
				for _, conn := range toRemove {
					delete(b.clients, conn)
				}
				b.mu.Unlock()
			}
		}
	}
}

// Close closes all client connections and stops the goroutine.
func (b *Broadcaster) Close() error {
	close(b.done)

	b.mu.Lock()
	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}

// GetUpgrader returns the WebSocket upgrader for HTTP handlers.
func (b *Broadcaster) GetUpgrader() websocket.Upgrader {
	return b.upgrader
}
