package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/prodraft/draft-backend/internal/engine"
)

// Memory is an in-process Store for tests and single-node dev runs.
type Memory struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	teams map[string]*Team
}

func NewMemory() *Memory {
	return &Memory{
		rooms: make(map[string]*Room),
		teams: make(map[string]*Team),
	}
}

func cloneHeroes(src []engine.Hero) []engine.Hero {
	if src == nil {
		return nil
	}
	return slices.Clone(src)
}

func cloneRoom(r *Room) *Room {
	cp := *r
	cp.HeroPool = cloneHeroes(r.HeroPool)
	return &cp
}

func cloneTeam(t *Team) *Team {
	cp := *t
	cp.Bans = cloneHeroes(t.Bans)
	cp.Picks = cloneHeroes(t.Picks)
	if t.ClickedHero != nil {
		id := *t.ClickedHero
		cp.ClickedHero = &id
	}
	return &cp
}

func (m *Memory) CreateRoom(_ context.Context, room *Room, teams []*Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[room.ID] = cloneRoom(room)
	for _, t := range teams {
		m.teams[t.ID] = cloneTeam(t)
	}
	return nil
}

func (m *Memory) Room(_ context.Context, roomID string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRoom(r), nil
}

func (m *Memory) Rooms(_ context.Context) ([]*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, cloneRoom(r))
	}
	return out, nil
}

func (m *Memory) Teams(_ context.Context, roomID string) ([]*Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Team
	for _, t := range m.teams {
		if t.RoomID == roomID {
			out = append(out, cloneTeam(t))
		}
	}
	if out == nil {
		return nil, ErrNotFound
	}
	// Stable order keeps tests and logs readable.
	slices.SortFunc(out, func(a, b *Team) int {
		if a.Color == b.Color {
			return 0
		}
		if a.Color == engine.TeamBlue {
			return -1
		}
		return 1
	})
	return out, nil
}

func (m *Memory) Team(_ context.Context, teamID string) (*Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.teams[teamID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneTeam(t), nil
}

func (m *Memory) ActiveTeam(_ context.Context, roomID string) (*Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.teams {
		if t.RoomID == roomID && t.IsTurn {
			return cloneTeam(t), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) SetRoomPhase(_ context.Context, roomID string, phase engine.Phase, cycle int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return ErrNotFound
	}
	r.Phase = phase
	r.Cycle = cycle
	return nil
}

func (m *Memory) SetRoomReady(_ context.Context, roomID string, ready bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return ErrNotFound
	}
	r.Ready = ready
	return nil
}

func (m *Memory) SetHeroPool(_ context.Context, roomID string, pool []engine.Hero) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return ErrNotFound
	}
	r.HeroPool = cloneHeroes(pool)
	return nil
}

func (m *Memory) SetTeamTurn(_ context.Context, roomID string, color engine.TeamColor, isTurn, canSelect bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for _, t := range m.teams {
		if t.RoomID == roomID && t.Color == color {
			t.IsTurn = isTurn
			t.CanSelect = canSelect
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (m *Memory) DisableSelection(_ context.Context, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teams {
		if t.RoomID == roomID {
			t.CanSelect = false
		}
	}
	return nil
}

func (m *Memory) SetTeamReady(_ context.Context, teamID string, ready bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[teamID]
	if !ok {
		return ErrNotFound
	}
	t.Ready = ready
	return nil
}

func (m *Memory) SetTeamsReady(_ context.Context, roomID string, ready bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teams {
		if t.RoomID == roomID {
			t.Ready = ready
		}
	}
	return nil
}

func (m *Memory) SetClickedHero(_ context.Context, teamID string, heroID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[teamID]
	if !ok {
		return ErrNotFound
	}
	if heroID == nil {
		t.ClickedHero = nil
	} else {
		id := *heroID
		t.ClickedHero = &id
	}
	return nil
}

func (m *Memory) SetTeamSlots(_ context.Context, teamID string, phase engine.Phase, slots []engine.Hero) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[teamID]
	if !ok {
		return ErrNotFound
	}
	if phase == engine.PhaseBan {
		t.Bans = cloneHeroes(slots)
	} else {
		t.Picks = cloneHeroes(slots)
	}
	return nil
}

func (m *Memory) RoomIDsOlderThan(_ context.Context, cutoff time.Time) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for id, r := range m.rooms {
		if r.CreatedAt.Before(cutoff) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *Memory) DeleteRoom(_ context.Context, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, roomID)
	for id, t := range m.teams {
		if t.RoomID == roomID {
			delete(m.teams, id)
		}
	}
	return nil
}
