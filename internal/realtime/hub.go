// Package realtime pushes review state to the browser surfaces over
// Server-Sent Events, one channel per concern.
package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Channels
const (
	ChannelSession  = "session"
	ChannelComments = "comments"
	ChannelTimeline = "timeline"
	ChannelViewer   = "viewer"
)

// Channels lists every channel a surface may subscribe to
var Channels = []string{ChannelSession, ChannelComments, ChannelTimeline, ChannelViewer}

const (
	outboundBuffer    = 32
	heartbeatInterval = 15 * time.Second
)

// Message is one pushed event
type Message struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Data    any    `json:"data,omitempty"`
}

// Client is one connected surface
type Client struct {
	ID       uuid.UUID
	Channels map[string]bool
	Outbound chan Message
	done     chan struct{}
	once     sync.Once
}

// Hub fans messages out to subscribed clients
type Hub struct {
	mu            sync.RWMutex
	logger        *zap.Logger
	subscriptions map[string]map[*Client]bool
	dropped       atomic.Uint64
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:        logger.With(zap.String("component", "sse")),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// NewClient creates an unsubscribed client
func (hub *Hub) NewClient() *Client {
	return &Client{
		ID:       uuid.New(),
		Channels: make(map[string]bool),
		Outbound: make(chan Message, outboundBuffer),
		done:     make(chan struct{}),
	}
}

// AddChannel subscribes client to channel
func (hub *Hub) AddChannel(client *Client, channel string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	client.Channels[channel] = true

	clients, exists := hub.subscriptions[channel]
	if !exists {
		clients = make(map[*Client]bool)
		hub.subscriptions[channel] = clients
	}
	clients[client] = true

	hub.logger.Debug("sse.client.subscribed", zap.String("client_id", client.ID.String()), zap.String("channel", channel))
}

// RemoveClient unsubscribes client from every channel
func (hub *Hub) RemoveClient(client *Client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for ch := range client.Channels {
		if subMap, ok := hub.subscriptions[ch]; ok {
			delete(subMap, client)
			if len(subMap) == 0 {
				delete(hub.subscriptions, ch)
			}
		}
	}
	client.Channels = make(map[string]bool)
	hub.logger.Debug("sse.client.removed", zap.String("client_id", client.ID.String()))
}

// Broadcast queues msg for every subscriber of its channel. A client whose
// buffer is full misses the message.
func (hub *Hub) Broadcast(msg Message) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if msg.Channel == "" {
		return
	}
	for c := range hub.subscriptions[msg.Channel] {
		select {
		case c.Outbound <- msg:
		default:
			hub.dropped.Add(1)
			hub.logger.Warn("sse.message.dropped", zap.String("client_id", c.ID.String()), zap.String("event", msg.Event))
		}
	}
}

// Dropped returns how many messages were skipped for full client buffers
func (hub *Hub) Dropped() uint64 {
	return hub.dropped.Load()
}

// Subscribers returns the number of clients on channel
func (hub *Hub) Subscribers(channel string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.subscriptions[channel])
}

// ServeHTTP streams client's messages until the request ends or the client
// is closed.
func (hub *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *Client) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	fmt.Fprintf(w, ": connected %s\n\n", client.ID)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg := <-client.Outbound:
			payload, err := json.Marshal(msg)
			if err != nil {
				hub.logger.Warn("sse.message.marshal_failed", zap.String("event", msg.Event), zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, payload)
			flusher.Flush()
		}
	}
}

// CloseClient unsubscribes client and ends its stream
func (hub *Hub) CloseClient(client *Client) {
	client.once.Do(func() {
		close(client.done)
		hub.RemoveClient(client)
	})
}
