package game

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Spectator feed limits. A slow client that falls sendQueueLen snapshots
// behind starts losing frames rather than stalling the broadcaster.
const (
	feedReadBufferSize  = 1024
	feedWriteBufferSize = 4096
	sendQueueLen        = 8
)

// Feed broadcasts a read-only JSON snapshot of the world to websocket
// spectators after each tick. The simulation itself stays single-threaded;
// Broadcast only hands marshalled bytes to per-client writer goroutines.
type Feed struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]chan []byte
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewFeed creates an empty spectator hub.
func NewFeed(logger *log.Logger) *Feed {
	if logger == nil {
		logger = log.Default()
	}
	return &Feed{
		clients: make(map[*websocket.Conn]chan []byte),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  feedReadBufferSize,
			WriteBufferSize: feedWriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// Handler upgrades a spectator connection and streams snapshots until the
// client disconnects. Incoming messages are read and discarded; the feed
// accepts no commands.
func (f *Feed) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := f.upgrader.Upgrade(w, r, nil)
		if err != nil {
			f.logger.Printf("feed: upgrade failed: %v", err)
			return
		}

		send := make(chan []byte, sendQueueLen)
		f.mu.Lock()
		f.clients[conn] = send
		f.mu.Unlock()
		f.logger.Printf("feed: spectator connected (%d total)", f.clientCount())

		go f.writeLoop(conn, send)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		f.drop(conn)
	}
}

func (f *Feed) writeLoop(conn *websocket.Conn, send chan []byte) {
	for data := range send {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			f.drop(conn)
			return
		}
	}
	conn.Close()
}

func (f *Feed) drop(conn *websocket.Conn) {
	f.mu.Lock()
	send, ok := f.clients[conn]
	if ok {
		delete(f.clients, conn)
		close(send)
	}
	f.mu.Unlock()
	if ok {
		conn.Close()
		f.logger.Printf("feed: spectator disconnected (%d total)", f.clientCount())
	}
}

func (f *Feed) clientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Broadcast marshals the snapshot once and queues it to every connected
// spectator, dropping the frame for clients whose queue is full.
func (f *Feed) Broadcast(snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		f.logger.Printf("feed: marshal snapshot: %v", err)
		return
	}
	f.mu.Lock()
	for _, send := range f.clients {
		select {
		case send <- data:
		default:
		}
	}
	f.mu.Unlock()
}

// ListenAndServe serves the feed on addr under the /feed path. It blocks,
// so callers run it on its own goroutine.
func (f *Feed) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/feed", f.Handler())
	return http.ListenAndServe(addr, mux)
}
