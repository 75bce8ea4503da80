package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"realty-agent-be/internal/dto"
	"realty-agent-be/internal/entity"
	"realty-agent-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "dashboard_events"

// Hub fans frames out to every connected dashboard session. The dashboard is
// a single-organization surface, so there is no per-user targeting; every
// frame goes to everyone, locally and (via Redis) to sessions on other
// instances.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out. Optional.
	rdb *redis.Client

	// instanceID tags published envelopes so an instance skips its own echo.
	instanceID string

	logger logger.ILogger
}

// clusterEnvelope wraps a frame on the Redis channel.
type clusterEnvelope struct {
	Origin string          `json:"origin"`
	Frame  json.RawMessage `json:"frame"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.ID})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"session_id": client.ID})
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastNotification pushes a stored inbox entry to all sessions.
func (h *Hub) BroadcastNotification(notification *entity.Notification) {
	h.broadcastFrame("notification", notification)
}

// PushKnowledgeStatus pushes a refreshed knowledge snapshot so open knowledge
// pages update without waiting for their next poll response.
func (h *Hub) PushKnowledgeStatus(replicaID string, items []dto.KnowledgeItemResponse) {
	h.broadcastFrame("knowledge_update", map[string]interface{}{
		"replica_id": replicaID,
		"items":      items,
	})
}

func (h *Hub) broadcastFrame(frameType string, data interface{}) {
	frame, err := json.Marshal(map[string]interface{}{
		"type": frameType,
		"data": data,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal frame", map[string]interface{}{"type": frameType, "error": err.Error()})
		return
	}

	h.sendLocal(frame)

	if h.rdb != nil {
		envelope, _ := json.Marshal(clusterEnvelope{Origin: h.instanceID, Frame: frame})
		if err := h.rdb.Publish(context.Background(), clusterChannel, envelope).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) sendLocal(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- frame:
		default:
			// Slow consumer; drop the session rather than block the hub.
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

// subscribeToRedis relays frames published by other instances. Envelopes from
// this instance are skipped; local sessions already received the frame.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope clusterEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.logger.Warn("Hub", "Malformed cluster envelope", map[string]interface{}{"error": err.Error()})
			continue
		}
		if envelope.Origin == h.instanceID {
			continue
		}
		h.sendLocal(envelope.Frame)
	}
}
