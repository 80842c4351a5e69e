package draft

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/prodraft/draft-backend/internal/broadcast"
	"github.com/prodraft/draft-backend/internal/engine"
	"github.com/prodraft/draft-backend/internal/store"
)

// Cycle indices for the pre-draft entries of the sequence table.
const (
	waitingCycle  = 0
	planningCycle = 1
)

// HandleTeamReady records one team's readiness and opens the planning
// phase once both teams report ready.
func (c *Coordinator) HandleTeamReady(ctx context.Context, roomID, teamID string, ready bool) error {
	if err := c.store.SetTeamReady(ctx, teamID, ready); err != nil {
		return fmt.Errorf("set team ready: %w", err)
	}
	teams, err := c.store.Teams(ctx, roomID)
	if err != nil {
		return fmt.Errorf("load teams: %w", err)
	}
	for _, t := range teams {
		if !t.Ready {
			c.log.Info("room still waiting on readiness", zap.String("room", roomID))
			return nil
		}
	}
	if err := c.store.SetRoomReady(ctx, roomID, true); err != nil {
		return fmt.Errorf("set room ready: %w", err)
	}
	return c.SetPlanningPhase(ctx, roomID)
}

// SetWaitingPhase forces a room back to the lobby: clocks stopped,
// readiness and selection gates cleared.
func (c *Coordinator) SetWaitingPhase(ctx context.Context, roomID string) error {
	c.timers.StopAll(roomID)
	if err := c.store.SetRoomPhase(ctx, roomID, engine.PhaseWaiting, waitingCycle); err != nil {
		return fmt.Errorf("set waiting: %w", err)
	}
	if err := c.store.SetRoomReady(ctx, roomID, false); err != nil {
		return fmt.Errorf("clear room ready: %w", err)
	}
	if err := c.store.DisableSelection(ctx, roomID); err != nil {
		return fmt.Errorf("disable selection: %w", err)
	}
	if err := c.store.SetTeamsReady(ctx, roomID, false); err != nil {
		return fmt.Errorf("clear team ready: %w", err)
	}
	return nil
}

// SetPlanningPhase starts the pre-draft lobby countdown.
func (c *Coordinator) SetPlanningPhase(ctx context.Context, roomID string) error {
	c.timers.Init(roomID)
	c.timers.StopTurn(roomID)
	if err := c.store.SetRoomPhase(ctx, roomID, engine.PhasePlanning, planningCycle); err != nil {
		return fmt.Errorf("set planning: %w", err)
	}
	if err := c.store.SetRoomReady(ctx, roomID, true); err != nil {
		return fmt.Errorf("set room ready: %w", err)
	}
	if err := c.store.DisableSelection(ctx, roomID); err != nil {
		return fmt.Errorf("disable selection: %w", err)
	}
	c.timers.StartLobby(roomID)
	c.log.Info("planning phase started", zap.String("room", roomID))
	return nil
}

// SetDraftPhase opens the first ban turn: blue gets the turn and the
// turn countdown starts.
func (c *Coordinator) SetDraftPhase(ctx context.Context, roomID string) error {
	c.timers.Init(roomID)
	c.timers.StopLobby(roomID)

	first := engine.StepAt(engine.FirstActionCycle)
	if err := c.store.SetRoomPhase(ctx, roomID, first.Phase, engine.FirstActionCycle); err != nil {
		return fmt.Errorf("set draft: %w", err)
	}
	if err := c.store.SetRoomReady(ctx, roomID, true); err != nil {
		return fmt.Errorf("set room ready: %w", err)
	}
	if err := c.store.SetTeamTurn(ctx, roomID, first.Team, true, true); err != nil {
		return fmt.Errorf("set acting team: %w", err)
	}
	if err := c.store.SetTeamTurn(ctx, roomID, first.Team.Other(), false, false); err != nil {
		return fmt.Errorf("clear other team: %w", err)
	}

	c.timers.ResetTurn(roomID)
	c.timers.StartTurn(roomID)
	c.hub.Publish(roomID, broadcast.EventTimerReset, nil)
	c.log.Info("draft phase started", zap.String("room", roomID))
	return nil
}

// SetDonePhase force-finishes a room from any phase.
func (c *Coordinator) SetDonePhase(ctx context.Context, roomID string) error {
	room, err := c.store.Room(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.timers.Delete(roomID)
		}
		return fmt.Errorf("load room: %w", err)
	}
	// An early abort keeps the cycle where it was; only the phase flips.
	return c.finishDraft(ctx, roomID, room.Cycle)
}

// HydrateRoom is the join-room path: lazily (re)build the room's timer
// state from the store and release a lock left behind by a completion
// that never finished.
func (c *Coordinator) HydrateRoom(ctx context.Context, roomID string) error {
	room, err := c.store.Room(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.timers.Delete(roomID)
		}
		return fmt.Errorf("load room: %w", err)
	}
	if room.Phase == engine.PhaseDone {
		return nil
	}
	c.timers.Init(roomID)
	if !room.Ready {
		return nil
	}

	switch room.Phase {
	case engine.PhasePlanning:
		if !c.timers.LobbyRunning(roomID) {
			c.timers.StartLobby(roomID)
		}
	case engine.PhaseBan, engine.PhaseSelect:
		if team, err := c.store.ActiveTeam(ctx, roomID); err == nil {
			if err := c.store.SetTeamTurn(ctx, roomID, team.Color, true, true); err != nil {
				return fmt.Errorf("re-enable selection: %w", err)
			}
		}
		if c.timers.IsLocked(roomID) {
			c.log.Warn("releasing stale completion lock", zap.String("room", roomID))
			c.timers.Unlock(roomID)
		}
		if !c.timers.TurnRunning(roomID) {
			c.timers.StartTurn(roomID)
		}
	}
	return nil
}

// RehydrateAll rebuilds timer state for every live room at process
// start; countdown objects are process-local and the store is the
// source of truth.
func (c *Coordinator) RehydrateAll(ctx context.Context) error {
	rooms, err := c.store.Rooms(ctx)
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}
	for _, room := range rooms {
		if room.Phase == engine.PhaseDone {
			continue
		}
		if err := c.HydrateRoom(ctx, room.ID); err != nil {
			c.log.Error("rehydrate failed", zap.String("room", room.ID), zap.Error(err))
		}
	}
	return nil
}

// ClickHero records a team's tentative choice. The click can change
// freely until a submission or expiry closes the selection window.
func (c *Coordinator) ClickHero(ctx context.Context, roomID, teamID, heroID string) error {
	team, err := c.store.Team(ctx, teamID)
	if err != nil {
		return fmt.Errorf("load team: %w", err)
	}
	if !team.IsTurn {
		return engine.ErrNotYourTurn
	}
	if !team.CanSelect {
		return engine.ErrSelectionClosed
	}
	room, err := c.store.Room(ctx, roomID)
	if err != nil {
		return fmt.Errorf("load room: %w", err)
	}
	available := false
	for i := range room.HeroPool {
		h := room.HeroPool[i]
		if h.ID != nil && *h.ID == heroID && !h.Selected {
			available = true
			break
		}
	}
	if !available {
		return engine.ErrUnknownHero
	}
	return c.store.SetClickedHero(ctx, teamID, &heroID)
}
