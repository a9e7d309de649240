package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/mins/twogether/internal/service"
)

// Hub fans committed couple events out to connected clients. Each couple id
// is a channel: both partners subscribe to it and every published event
// reaches whichever of them is online. The hub never blocks the publisher;
// a slow client just drops events and re-reads state over HTTP.
type Hub struct {
	couples    map[uuid.UUID]map[*Client]bool
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	publish    chan outboundEvent
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mu         sync.RWMutex
}

type outboundEvent struct {
	coupleID uuid.UUID
	data     []byte
}

func NewHub() *Hub {
	return &Hub{
		couples:    make(map[uuid.UUID]map[*Client]bool),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan outboundEvent, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.couples = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
				subscribers, ok := h.couples[client.coupleID]
				if !ok {
					subscribers = make(map[*Client]bool)
					h.couples[client.coupleID] = subscribers
				}
				subscribers[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					if subscribers, ok := h.couples[client.coupleID]; ok {
						delete(subscribers, client)
						if len(subscribers) == 0 {
							delete(h.couples, client.coupleID)
						}
					}
					client.Close()
				}
			}
			h.mu.Unlock()

		case event := <-h.publish:
			h.mu.RLock()
			for client := range h.couples[event.coupleID] {
				select {
				case client.send <- event.data:
				default:
					// Slow consumer; it can recover via HTTP reads.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop gracefully shuts down the hub. It blocks until Run has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

// Publish implements service.Notifier.
func (h *Hub) Publish(coupleID uuid.UUID, event service.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("hub: failed to marshal event %s: %v", event.Type, err)
		return
	}

	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.publish <- outboundEvent{coupleID: coupleID, data: data}:
	default:
		log.Printf("hub: dropping event %s for couple %s: publish queue full", event.Type, coupleID)
	}
}

// Register subscribes the client, tolerating a hub that already stopped.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister safely unregisters a client, tolerating a stopped hub.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	default:
	}
}
