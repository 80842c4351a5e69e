package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodraft/draft-backend/internal/engine"
)

func strptr(s string) *string { return &s }

func seed(t *testing.T) (*Memory, *Room, *Team, *Team) {
	t.Helper()
	m := NewMemory()
	room := &Room{
		ID:    "r1",
		Phase: engine.PhaseWaiting,
		HeroPool: []engine.Hero{
			{ID: strptr("a"), Name: strptr("Alpha")},
			{ID: strptr("b"), Name: strptr("Beta")},
		},
		CreatedAt: time.Now(),
	}
	blue := &Team{
		ID: "b1", RoomID: "r1", Color: engine.TeamBlue,
		Bans: engine.EmptySlots(engine.BansPerTeam), Picks: engine.EmptySlots(engine.PicksPerTeam),
	}
	red := &Team{
		ID: "r2", RoomID: "r1", Color: engine.TeamRed,
		Bans: engine.EmptySlots(engine.BansPerTeam), Picks: engine.EmptySlots(engine.PicksPerTeam),
	}
	require.NoError(t, m.CreateRoom(context.Background(), room, []*Team{red, blue}))
	return m, room, blue, red
}

func TestMemoryRoomRoundTrip(t *testing.T) {
	m, _, _, _ := seed(t)
	ctx := context.Background()

	room, err := m.Room(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", room.ID)
	assert.Equal(t, engine.PhaseWaiting, room.Phase)

	_, err = m.Room(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	m, _, _, _ := seed(t)
	ctx := context.Background()

	room, err := m.Room(ctx, "r1")
	require.NoError(t, err)
	room.HeroPool[0].Selected = true
	room.Phase = engine.PhaseDone

	again, err := m.Room(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, again.HeroPool[0].Selected, "callers must not mutate stored state")
	assert.Equal(t, engine.PhaseWaiting, again.Phase)

	team, err := m.Team(ctx, "b1")
	require.NoError(t, err)
	team.Bans[0] = engine.SkippedSlot()
	again2, err := m.Team(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, again2.Bans[0].Selected)
}

func TestMemoryTeamsSortedBlueFirst(t *testing.T) {
	m, _, _, _ := seed(t)

	teams, err := m.Teams(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, engine.TeamBlue, teams[0].Color)
	assert.Equal(t, engine.TeamRed, teams[1].Color)

	_, err = m.Teams(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTurnFlags(t *testing.T) {
	m, _, _, _ := seed(t)
	ctx := context.Background()

	_, err := m.ActiveTeam(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotFound, "no team has the turn yet")

	require.NoError(t, m.SetTeamTurn(ctx, "r1", engine.TeamRed, true, true))
	active, err := m.ActiveTeam(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r2", active.ID)
	assert.True(t, active.CanSelect)

	require.NoError(t, m.DisableSelection(ctx, "r1"))
	active, err = m.ActiveTeam(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, active.IsTurn, "disabling selection keeps the turn marker")
	assert.False(t, active.CanSelect)

	err = m.SetTeamTurn(ctx, "ghost", engine.TeamBlue, true, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryPhaseAndReady(t *testing.T) {
	m, _, _, _ := seed(t)
	ctx := context.Background()

	require.NoError(t, m.SetRoomPhase(ctx, "r1", engine.PhaseBan, 2))
	require.NoError(t, m.SetRoomReady(ctx, "r1", true))
	room, err := m.Room(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, engine.PhaseBan, room.Phase)
	assert.Equal(t, 2, room.Cycle)
	assert.True(t, room.Ready)

	require.NoError(t, m.SetTeamsReady(ctx, "r1", true))
	teams, err := m.Teams(ctx, "r1")
	require.NoError(t, err)
	for _, tm := range teams {
		assert.True(t, tm.Ready)
	}
}

func TestMemoryClickedHero(t *testing.T) {
	m, _, _, _ := seed(t)
	ctx := context.Background()

	require.NoError(t, m.SetClickedHero(ctx, "b1", strptr("a")))
	team, err := m.Team(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, team.ClickedHero)
	assert.Equal(t, "a", *team.ClickedHero)

	require.NoError(t, m.SetClickedHero(ctx, "b1", nil))
	team, err = m.Team(ctx, "b1")
	require.NoError(t, err)
	assert.Nil(t, team.ClickedHero)
}

func TestMemoryTeamSlotsByPhase(t *testing.T) {
	m, _, _, _ := seed(t)
	ctx := context.Background()

	bans := engine.EmptySlots(engine.BansPerTeam)
	bans[0] = engine.Hero{ID: strptr("a"), Selected: true}
	require.NoError(t, m.SetTeamSlots(ctx, "b1", engine.PhaseBan, bans))

	picks := engine.EmptySlots(engine.PicksPerTeam)
	picks[0] = engine.Hero{ID: strptr("b"), Selected: true}
	require.NoError(t, m.SetTeamSlots(ctx, "b1", engine.PhaseSelect, picks))

	team, err := m.Team(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "a", *team.Bans[0].ID)
	assert.Equal(t, "b", *team.Picks[0].ID)
	assert.False(t, team.Bans[1].Selected)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	old := &Room{ID: "old", CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &Room{ID: "fresh", CreatedAt: time.Now()}
	require.NoError(t, m.CreateRoom(ctx, old, nil))
	require.NoError(t, m.CreateRoom(ctx, fresh, []*Team{{ID: "ft", RoomID: "fresh", Color: engine.TeamBlue}}))

	ids, err := m.RoomIDsOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, ids)

	require.NoError(t, m.DeleteRoom(ctx, "fresh"))
	_, err = m.Room(ctx, "fresh")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Team(ctx, "ft")
	assert.ErrorIs(t, err, ErrNotFound, "deleting a room removes its teams")
}
