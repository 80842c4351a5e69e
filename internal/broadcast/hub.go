package broadcast

import (
	"sync"

	"go.uber.org/zap"
)

// Event types pushed to room subscribers.
const (
	EventTimer            = "TIMER"
	EventLobbyTimer       = "TIMER_LOBBY"
	EventTimerReset       = "TIMER_RESET"
	EventChampionSelected = "CHAMPION_SELECTED"
	EventMessage          = "message"
	EventError            = "ERROR"
)

type Event struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data any    `json:"data,omitempty"`
}

// Hub fans events out to every subscriber of a room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[chan Event]struct{}
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[chan Event]struct{}),
		log:   log,
	}
}

// Subscribe registers a new listener for a room and returns its event
// channel. The channel is closed when the subscriber is dropped.
func (h *Hub) Subscribe(roomID string) chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.rooms[roomID] = subs
	}
	subs[ch] = struct{}{}
	return ch
}

func (h *Hub) Unsubscribe(roomID string, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[roomID]
	if !ok {
		return
	}
	if _, ok := subs[ch]; ok {
		delete(subs, ch)
		close(ch)
	}
	if len(subs) == 0 {
		delete(h.rooms, roomID)
	}
}

// Publish delivers an event to every subscriber of the room. A
// subscriber that cannot keep up is dropped rather than blocking the
// timer tick path.
func (h *Hub) Publish(roomID, eventType string, data any) {
	ev := Event{Type: eventType, Room: roomID, Data: data}
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.rooms[roomID]
	for ch := range subs {
		select {
		case ch <- ev:
		default:
			h.log.Warn("dropping slow subscriber", zap.String("room", roomID))
			delete(subs, ch)
			close(ch)
		}
	}
}

// Subscribers reports the listener count for a room.
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// DropRoom closes every subscriber of a room, e.g. when the room is
// deleted by housekeeping.
func (h *Hub) DropRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.rooms[roomID] {
		close(ch)
	}
	delete(h.rooms, roomID)
}
