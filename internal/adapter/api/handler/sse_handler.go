package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/V4T54L/venue-portal/internal/domain"
)

const sseKeepAliveFrame = ": keep-alive\n\n"

// SSEBroker pushes header notifications to connected portal pages.
type SSEBroker struct {
	logger    *slog.Logger
	clients   map[chan []byte]struct{}
	mu        sync.RWMutex
	events    chan domain.Notification
	keepAlive time.Duration
}

// NewSSEBroker creates a new SSEBroker and starts its processing loop.
func NewSSEBroker(ctx context.Context, logger *slog.Logger, keepAlive time.Duration) *SSEBroker {
	broker := &SSEBroker{
		logger:    logger.With("component", "sse_broker"),
		clients:   make(map[chan []byte]struct{}),
		events:    make(chan domain.Notification, 100), // Buffered channel
		keepAlive: keepAlive,
	}
	go broker.run(ctx)
	return broker
}

// ServeHTTP handles new client connections for the SSE stream.
// GET /api/notifications/stream
func (b *SSEBroker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	messageChan := make(chan []byte, 8)
	b.addClient(messageChan)
	defer b.removeClient(messageChan)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messageChan:
			if !ok {
				return // Channel was closed
			}
			w.Write(msg)
			flusher.Flush()
		}
	}
}

// Notify queues n for every connected client. It never blocks the caller.
func (b *SSEBroker) Notify(n domain.Notification) {
	select {
	case b.events <- n:
	default:
		// Channel is full, drop the notification; clients can re-fetch the list.
		b.logger.Warn("SSE event channel is full, dropping notification", "notification_id", n.ID)
	}
}

// Clients returns the number of connected clients.
func (b *SSEBroker) Clients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *SSEBroker) addClient(client chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[client] = struct{}{}
	b.logger.Debug("SSE client connected")
}

func (b *SSEBroker) removeClient(client chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[client]; ok {
		delete(b.clients, client)
		close(client)
		b.logger.Debug("SSE client disconnected")
	}
}

func (b *SSEBroker) broadcast(msg []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		select {
		case client <- msg:
		default:
			// Slow client; don't block the broadcast for it.
		}
	}
}

// run is the main processing loop for the broker.
func (b *SSEBroker) run(ctx context.Context) {
	ticker := time.NewTicker(b.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-b.events:
			data, err := json.Marshal(n)
			if err != nil {
				b.logger.Error("Failed to marshal SSE message", "error", err)
				continue
			}
			b.broadcast([]byte(fmt.Sprintf("event: notification\ndata: %s\n\n", data)))
		case <-ticker.C:
			b.broadcast([]byte(sseKeepAliveFrame))
		}
	}
}
