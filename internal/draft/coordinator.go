package draft

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/prodraft/draft-backend/internal/broadcast"
	"github.com/prodraft/draft-backend/internal/engine"
	"github.com/prodraft/draft-backend/internal/store"
	"github.com/prodraft/draft-backend/internal/timer"
)

// Coordinator drives the draft state machine for every room: phase
// transitions, readiness aggregation, and turn completion. It is the
// only writer of room phase/cycle state and the sole consumer of clock
// expirations.
type Coordinator struct {
	store  store.Store
	timers *timer.Manager
	hub    *broadcast.Hub
	log    *zap.Logger

	// doneDelay lets clients render the final turn before the room is
	// persisted as done.
	doneDelay time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Coordinator)

// WithDoneDelay overrides the pause before a room is persisted as done.
func WithDoneDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.doneDelay = d }
}

// WithRand fixes the random source used for auto-resolution.
func WithRand(rng *rand.Rand) Option {
	return func(c *Coordinator) { c.rng = rng }
}

func NewCoordinator(st store.Store, tm *timer.Manager, hub *broadcast.Hub, log *zap.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:     st,
		timers:    tm,
		hub:       hub,
		log:       log,
		doneDelay: 2 * time.Second,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LobbyExpired moves a room from planning into the first ban turn when
// the lobby countdown runs out.
func (c *Coordinator) LobbyExpired(roomID string) {
	if err := c.SetDraftPhase(context.Background(), roomID); err != nil {
		c.log.Error("lobby expiry transition failed", zap.String("room", roomID), zap.Error(err))
	}
}

// TurnExpired auto-resolves a turn nobody acted on. It runs after the
// grace delay, and FinishTurn's lock makes it a no-op when a manual
// selection won the race.
func (c *Coordinator) TurnExpired(roomID string) {
	if err := c.FinishTurn(context.Background(), roomID); err != nil {
		c.log.Error("turn expiry completion failed", zap.String("room", roomID), zap.Error(err))
	}
}

// FinishTurn commits the room's current turn: resolve the hero, persist
// it, advance the sequence, rearm the clock. Exactly one invocation per
// turn does work; concurrent callers lose the lock race and return nil.
func (c *Coordinator) FinishTurn(ctx context.Context, roomID string) error {
	c.timers.CancelGrace(roomID)
	if !c.timers.TryLock(roomID) {
		c.log.Debug("turn completion already in flight", zap.String("room", roomID))
		return nil
	}
	defer c.timers.Unlock(roomID)

	if err := c.store.DisableSelection(ctx, roomID); err != nil {
		return c.turnError(roomID, "disable selection", err)
	}
	c.timers.StopTurn(roomID)

	room, err := c.store.Room(ctx, roomID)
	if err != nil {
		return c.turnError(roomID, "load room", err)
	}
	step := engine.StepAt(room.Cycle)
	if step.Phase != engine.PhaseBan && step.Phase != engine.PhaseSelect {
		c.log.Warn("finish turn outside an action phase",
			zap.String("room", roomID), zap.String("phase", string(step.Phase)))
		return nil
	}

	team, err := c.store.ActiveTeam(ctx, roomID)
	if err != nil {
		return c.turnError(roomID, "load active team", err)
	}

	hero := c.resolve(room.HeroPool, team.ClickedHero, step.Phase)
	if hero == nil && step.Phase == engine.PhaseSelect {
		// Pool exhaustion: fatal for this resolution, but the draft
		// keeps moving with an empty pick.
		c.log.Error("turn resolution failed",
			zap.String("room", roomID), zap.Error(engine.ErrPoolExhausted))
	}

	slots := team.Slots(step.Phase)
	engine.MarkSelected(room.HeroPool, hero)
	engine.FillFirstEmptySlot(slots, hero)

	if err := c.store.SetHeroPool(ctx, roomID, room.HeroPool); err != nil {
		return c.turnError(roomID, "persist hero pool", err)
	}
	if err := c.store.SetTeamSlots(ctx, team.ID, step.Phase, slots); err != nil {
		return c.turnError(roomID, "persist team slots", err)
	}
	if err := c.store.SetClickedHero(ctx, team.ID, nil); err != nil {
		return c.turnError(roomID, "clear clicked hero", err)
	}
	c.hub.Publish(roomID, broadcast.EventChampionSelected, hero)

	next := room.Cycle + 1
	nextStep := engine.StepAt(next)
	if nextStep.Phase == engine.PhaseDone {
		return c.finishDraft(ctx, roomID, next)
	}

	if err := c.store.SetRoomPhase(ctx, roomID, nextStep.Phase, next); err != nil {
		return c.turnError(roomID, "advance cycle", err)
	}
	if err := c.store.SetTeamTurn(ctx, roomID, nextStep.Team, true, true); err != nil {
		return c.turnError(roomID, "set acting team", err)
	}
	if err := c.store.SetTeamTurn(ctx, roomID, nextStep.Team.Other(), false, false); err != nil {
		return c.turnError(roomID, "clear previous team", err)
	}

	c.timers.ResetTurn(roomID)
	c.timers.StartTurn(roomID)
	c.hub.Publish(roomID, broadcast.EventTimerReset, nil)
	return nil
}

func (c *Coordinator) resolve(pool []engine.Hero, clicked *string, phase engine.Phase) *engine.Hero {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return engine.Resolve(pool, clicked, phase, c.rng)
}

// turnError logs a failed completion step. A stale room or team tears
// the room's timers down; anything else just aborts this turn — the
// lock is released by the caller's defer and the next tick or action
// retries naturally.
func (c *Coordinator) turnError(roomID, op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		c.log.Warn("room or team gone, tearing down timers",
			zap.String("room", roomID), zap.String("op", op))
		c.timers.Delete(roomID)
		return fmt.Errorf("%s: %w", op, err)
	}
	c.log.Error("turn completion aborted",
		zap.String("room", roomID), zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}

// finishDraft runs the terminal transition while the completion lock is
// still held.
func (c *Coordinator) finishDraft(ctx context.Context, roomID string, cycle int) error {
	c.timers.StopAll(roomID)
	if err := c.store.SetTeamTurn(ctx, roomID, engine.TeamBlue, false, false); err != nil {
		return c.turnError(roomID, "clear blue team", err)
	}
	if err := c.store.SetTeamTurn(ctx, roomID, engine.TeamRed, false, false); err != nil {
		return c.turnError(roomID, "clear red team", err)
	}

	// Give clients a beat to render the final pick before the phase
	// flips to done.
	select {
	case <-time.After(c.doneDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := c.store.SetRoomPhase(ctx, roomID, engine.PhaseDone, cycle); err != nil {
		return c.turnError(roomID, "persist done", err)
	}
	c.timers.Delete(roomID)
	c.log.Info("draft complete", zap.String("room", roomID))
	return nil
}
