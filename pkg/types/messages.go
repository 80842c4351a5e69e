package types

import (
	"github.com/prodraft/draft-backend/internal/store"
)

// Client -> server over the websocket.
type ClientMessage struct {
	Type   string `json:"type"` // "joinRoom" | "clickHero" | "selectChampion" | "teamReady"
	RoomID string `json:"room_id,omitempty"`
	TeamID string `json:"team_id,omitempty"`
	HeroID string `json:"hero_id,omitempty"`
	Ready  bool   `json:"ready,omitempty"`
}

// Server -> client over the websocket. Timer ticks carry the formatted
// remaining time in Data; CHAMPION_SELECTED carries the resolved hero.
type ServerMessage struct {
	Type  string `json:"type"`
	Room  string `json:"room,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// RoomSnapshot is the REST view of a room and its teams.
type RoomSnapshot struct {
	Room  *store.Room   `json:"room"`
	Teams []*store.Team `json:"teams"`
}
