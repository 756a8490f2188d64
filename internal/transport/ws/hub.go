package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message.
type MessageType string

const (
	MsgResponseSubmitted MessageType = "response_submitted"
	MsgResponsesDeleted  MessageType = "responses_deleted"
)

// Message is the WebSocket envelope format.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages the WebSocket connections of admins watching a template's live
// dashboard. Several admins may watch the same template at once.
type Hub struct {
	// Template -> watcher connections
	watchers map[string]map[*Connection]struct{}

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one admin watcher.
type Connection struct {
	TemplateID string
	Send       chan []byte
	Hub        *Hub
}

// BroadcastMessage is a message to fan out to a template's watchers.
type BroadcastMessage struct {
	TemplateID string
	Message    *Message
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	h := &Hub{
		watchers:   make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.watchers[conn.TemplateID] == nil {
				h.watchers[conn.TemplateID] = make(map[*Connection]struct{})
			}
			h.watchers[conn.TemplateID][conn] = struct{}{}
			h.mu.Unlock()
			log.Printf("Watcher connected to template %s", conn.TemplateID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.watchers[conn.TemplateID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.watchers, conn.TemplateID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("Watcher disconnected from template %s", conn.TemplateID)

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.watchers[msg.TemplateID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// ResponseSubmitted pushes a submission event to a template's watchers
// (implements service.Broadcaster).
func (h *Hub) ResponseSubmitted(templateID, responseID string, totalResponses int64) {
	h.send(templateID, MsgResponseSubmitted, map[string]interface{}{
		"templateId":     templateID,
		"responseId":     responseID,
		"totalResponses": totalResponses,
	})
}

// ResponsesDeleted pushes a deletion event to a template's watchers
// (implements service.Broadcaster).
func (h *Hub) ResponsesDeleted(templateID string, totalResponses int64) {
	h.send(templateID, MsgResponsesDeleted, map[string]interface{}{
		"templateId":     templateID,
		"totalResponses": totalResponses,
	})
}

func (h *Hub) send(templateID string, msgType MessageType, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		TemplateID: templateID,
		Message: &Message{
			Type:    msgType,
			Payload: data,
		},
	}
}
