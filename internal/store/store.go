package store

import (
	"context"
	"errors"
	"time"

	"github.com/prodraft/draft-backend/internal/engine"
)

var ErrNotFound = errors.New("store: not found")

// Room is one draft session row.
type Room struct {
	ID        string        `gorm:"primaryKey" json:"id"`
	Phase     engine.Phase  `json:"phase"`
	Cycle     int           `json:"cycle"`
	Ready     bool          `json:"ready"`
	HeroPool  []engine.Hero `gorm:"serializer:json;type:jsonb" json:"heroPool"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Team is one of the two participants of a room.
type Team struct {
	ID          string           `gorm:"primaryKey" json:"id"`
	RoomID      string           `gorm:"index" json:"roomId"`
	Color       engine.TeamColor `json:"color"`
	IsTurn      bool             `json:"isTurn"`
	CanSelect   bool             `json:"canSelect"`
	Ready       bool             `json:"ready"`
	ClickedHero *string          `json:"clickedHero"`
	Bans        []engine.Hero    `gorm:"serializer:json;type:jsonb" json:"bans"`
	Picks       []engine.Hero    `gorm:"serializer:json;type:jsonb" json:"picks"`
}

// Slots returns the ban or pick list that a phase acts on.
func (t *Team) Slots(phase engine.Phase) []engine.Hero {
	if phase == engine.PhaseBan {
		return t.Bans
	}
	return t.Picks
}

// Store is the persistence collaborator. Rooms and teams in the store
// are the source of truth; in-memory timer state is rebuilt from them.
type Store interface {
	CreateRoom(ctx context.Context, room *Room, teams []*Team) error
	Room(ctx context.Context, roomID string) (*Room, error)
	Rooms(ctx context.Context) ([]*Room, error)
	Teams(ctx context.Context, roomID string) ([]*Team, error)
	Team(ctx context.Context, teamID string) (*Team, error)
	// ActiveTeam returns the team whose IsTurn flag is set, or
	// ErrNotFound when no team has the turn.
	ActiveTeam(ctx context.Context, roomID string) (*Team, error)

	SetRoomPhase(ctx context.Context, roomID string, phase engine.Phase, cycle int) error
	SetRoomReady(ctx context.Context, roomID string, ready bool) error
	SetHeroPool(ctx context.Context, roomID string, pool []engine.Hero) error

	SetTeamTurn(ctx context.Context, roomID string, color engine.TeamColor, isTurn, canSelect bool) error
	// DisableSelection clears CanSelect for every team in the room.
	DisableSelection(ctx context.Context, roomID string) error
	SetTeamReady(ctx context.Context, teamID string, ready bool) error
	SetTeamsReady(ctx context.Context, roomID string, ready bool) error
	SetClickedHero(ctx context.Context, teamID string, heroID *string) error
	SetTeamSlots(ctx context.Context, teamID string, phase engine.Phase, slots []engine.Hero) error

	RoomIDsOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
	DeleteRoom(ctx context.Context, roomID string) error
}
