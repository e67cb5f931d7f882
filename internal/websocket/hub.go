package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"ghostpayroll/internal/infrastructure"
	"ghostpayroll/pkg/contracts/events"
)

// broadcastBuffer bounds the events queued between Publish and the hub loop
const broadcastBuffer = 256

// Hub maintains the set of active clients and broadcasts events to them.
// All client bookkeeping happens on the hub goroutine.
type Hub struct {
	clients map[*Client]struct{}

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	logger *slog.Logger

	totalConnections atomic.Int64
	messagesSent     atomic.Int64
	dropped          atomic.Int64
	active           atomic.Int64

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}
}

// NewHub creates a hub. Call Start before publishing.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop in the background
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.run()
}

// Stop disconnects every client and ends the hub loop
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				h.drop(client)
			}
			h.logger.Info("Hub shut down", slog.Int64("messages_sent", h.messagesSent.Load()))
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.totalConnections.Add(1)
			h.active.Store(int64(len(h.clients)))
			h.logger.Info("Client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", len(h.clients)))
			h.sendTo(client, h.encode(context.Background(), events.MessageTypeConnect,
				events.ConnectData{ClientID: client.id, Status: "connected"}))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Info("Client unregistered",
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				h.sendTo(client, message)
			}
		}
	}
}

// sendTo queues message for client, disconnecting it when its buffer is full
func (h *Hub) sendTo(client *Client, message []byte) {
	if message == nil {
		return
	}
	select {
	case client.send <- message:
		h.messagesSent.Add(1)
	default:
		h.drop(client)
		h.logger.Warn("Client send buffer full, disconnecting", slog.String("client_id", client.id))
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.active.Store(int64(len(h.clients)))
}

// Publish broadcasts an event to every connected client. It never blocks:
// when the queue is full or the hub is stopped the event is dropped.
func (h *Hub) Publish(ctx context.Context, t events.MessageType, data interface{}) {
	message := h.encode(ctx, t, data)
	if message == nil {
		return
	}
	select {
	case h.broadcast <- message:
	case <-h.done:
	default:
		h.dropped.Add(1)
		h.logger.WarnContext(ctx, "Event queue full, dropping event", slog.String("type", string(t)))
	}
}

func (h *Hub) encode(ctx context.Context, t events.MessageType, data interface{}) []byte {
	traceID := infrastructure.TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = infrastructure.GetTraceID(ctx)
	}
	b, err := json.Marshal(events.Message{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
		Data:      data,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling event",
			slog.String("type", string(t)),
			slog.String("error", err.Error()))
		return nil
	}
	return b
}

// attach registers client; it reports false once the hub has stopped
func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	return int(h.active.Load())
}

// Stats returns hub counters for the health endpoint
func (h *Hub) Stats() map[string]interface{} {
	return map[string]interface{}{
		"active_clients":    h.active.Load(),
		"total_connections": h.totalConnections.Load(),
		"messages_sent":     h.messagesSent.Load(),
		"events_dropped":    h.dropped.Load(),
	}
}
