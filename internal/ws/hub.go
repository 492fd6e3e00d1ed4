package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/redis/go-redis/v9"
)

const redisChannel = "edutrack:events"

// Hub fans out catalog change events to every connected dashboard client.
// Redis Pub/Sub carries events across instances so a mutation handled on one
// instance reaches dashboards connected to another.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client

	rdb *redis.Client
}

// NewHub creates a new live-update hub
func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rdb:        rdb,
	}
}

// Run starts the hub's event loop; cancel the context to stop it
func (h *Hub) Run(ctx context.Context) {
	go h.subscribeRedis(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// Register queues a client for registration with the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Broadcast publishes an event to every dashboard on every instance
func (h *Hub) Broadcast(event *model.WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}

	if err := h.rdb.Publish(context.Background(), redisChannel, data).Err(); err != nil {
		log.Printf("Error publishing to Redis: %v", err)
		// Redis down: still deliver to local clients
		h.deliverLocal(data)
	}
}

// addClient registers a new client connection
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	log.Printf("✅ Dashboard connected: %s (total connections: %d)", client.Email, total)
}

// removeClient unregisters a client connection
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	log.Printf("❌ Dashboard disconnected: %s", client.Email)
}

// deliverLocal sends raw event bytes to clients on this instance
func (h *Hub) deliverLocal(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, drop the connection
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// subscribeRedis delivers cross-instance events to local clients
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	log.Println("📡 Redis Pub/Sub subscriber started")

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ch:
			h.deliverLocal([]byte(msg.Payload))
		}
	}
}
