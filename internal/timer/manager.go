package timer

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/prodraft/draft-backend/internal/broadcast"
)

// Handler receives clock expirations. The turn expiry is delivered only
// after the grace delay, and only when no completion already holds the
// room lock.
type Handler interface {
	LobbyExpired(roomID string)
	TurnExpired(roomID string)
}

type Config struct {
	LobbySeconds int
	TurnSeconds  int
	GraceDelay   time.Duration
	// TickInterval is the length of one countdown second. Tests shrink
	// it to run drafts in milliseconds.
	TickInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.LobbySeconds <= 0 {
		c.LobbySeconds = 20
	}
	if c.TurnSeconds <= 0 {
		c.TurnSeconds = 30
	}
	if c.GraceDelay <= 0 {
		c.GraceDelay = 2 * time.Second
	}
	if c.TickInterval <= 0 {
		c.TickInterval = time.Second
	}
	return c
}

// roomTimers is the per-room timer/lock state. The lock is the single
// guard against a timer expiry and a manual selection both committing
// the same turn.
type roomTimers struct {
	turn   clock
	lobby  clock
	lock   atomic.Bool
	timeUp atomic.Bool

	graceMu sync.Mutex
	grace   *time.Timer
}

// Manager owns the timer registry for every live room. It is built once
// at process start and handed to whatever needs it; there is no
// package-level instance.
type Manager struct {
	mu      sync.Mutex
	rooms   map[string]*roomTimers
	handler Handler

	cfg Config
	hub *broadcast.Hub
	log *zap.Logger
}

func NewManager(cfg Config, hub *broadcast.Hub, log *zap.Logger) *Manager {
	return &Manager{
		rooms: make(map[string]*roomTimers),
		cfg:   cfg.withDefaults(),
		hub:   hub,
		log:   log,
	}
}

// SetHandler wires the expiry consumer. Must be called before any clock
// is started.
func (m *Manager) SetHandler(h Handler) {
	m.mu.Lock()
	m.handler = h
	m.mu.Unlock()
}

func (m *Manager) getHandler() Handler {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handler
}

// Init creates the timer set for a room. Re-initializing an existing
// room is a logged no-op.
func (m *Manager) Init(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[roomID]; ok {
		m.log.Debug("timers already initialized", zap.String("room", roomID))
		return
	}
	m.rooms[roomID] = &roomTimers{}
	m.log.Info("timers initialized", zap.String("room", roomID))
}

func (m *Manager) get(roomID string) *roomTimers {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms[roomID]
}

func (m *Manager) Has(roomID string) bool {
	return m.get(roomID) != nil
}

// List returns the ids of every room with timers, for the admin
// surface.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Delete tears a room's timers down: both clocks stopped, any pending
// grace callback cancelled, registry entry removed.
func (m *Manager) Delete(roomID string) {
	m.mu.Lock()
	rt, ok := m.rooms[roomID]
	delete(m.rooms, roomID)
	m.mu.Unlock()
	if !ok {
		return
	}
	rt.turn.stop()
	rt.lobby.stop()
	m.cancelGrace(rt)
	m.log.Info("timers deleted", zap.String("room", roomID))
}

// StartLobby begins the pre-draft lobby countdown. No-op when the room
// has no timers or the lobby clock is already running.
func (m *Manager) StartLobby(roomID string) {
	rt := m.get(roomID)
	if rt == nil {
		return
	}
	started := rt.lobby.start(m.cfg.LobbySeconds, m.cfg.TickInterval,
		func(remaining int) {
			m.hub.Publish(roomID, broadcast.EventLobbyTimer, formatRemaining(remaining))
		},
		func() {
			if h := m.getHandler(); h != nil {
				h.LobbyExpired(roomID)
			}
		})
	if !started {
		m.log.Debug("lobby clock already running", zap.String("room", roomID))
	}
}

// StartTurn begins the turn countdown. Expiry does not complete the
// turn immediately: it marks time-up and schedules the completion
// callback after the grace delay so a manual action arriving at nearly
// the same instant can win the race.
func (m *Manager) StartTurn(roomID string) {
	rt := m.get(roomID)
	if rt == nil {
		return
	}
	started := rt.turn.start(m.cfg.TurnSeconds, m.cfg.TickInterval,
		func(remaining int) {
			m.hub.Publish(roomID, broadcast.EventTimer, formatRemaining(remaining))
		},
		func() {
			rt.timeUp.Store(true)
			m.scheduleGrace(rt, roomID)
		})
	if !started {
		m.log.Debug("turn clock already running", zap.String("room", roomID))
	}
}

func (m *Manager) scheduleGrace(rt *roomTimers, roomID string) {
	rt.graceMu.Lock()
	defer rt.graceMu.Unlock()
	if rt.grace != nil {
		rt.grace.Stop()
	}
	rt.grace = time.AfterFunc(m.cfg.GraceDelay, func() {
		if rt.lock.Load() {
			// A manual action got there first; its completion path owns
			// this turn.
			m.log.Debug("grace callback abstaining", zap.String("room", roomID))
			return
		}
		if h := m.getHandler(); h != nil {
			h.TurnExpired(roomID)
		}
	})
}

// CancelGrace stops a pending grace-delay callback. Every completion
// path calls this before trying the lock.
func (m *Manager) CancelGrace(roomID string) {
	rt := m.get(roomID)
	if rt == nil {
		return
	}
	m.cancelGrace(rt)
}

func (m *Manager) cancelGrace(rt *roomTimers) {
	rt.graceMu.Lock()
	defer rt.graceMu.Unlock()
	if rt.grace != nil {
		rt.grace.Stop()
		rt.grace = nil
	}
}

func (m *Manager) StopTurn(roomID string) {
	if rt := m.get(roomID); rt != nil {
		rt.turn.stop()
	}
}

func (m *Manager) StopLobby(roomID string) {
	if rt := m.get(roomID); rt != nil {
		rt.lobby.stop()
	}
}

// StopAll stops both clocks and any pending grace callback without
// removing the room from the registry.
func (m *Manager) StopAll(roomID string) {
	rt := m.get(roomID)
	if rt == nil {
		return
	}
	rt.turn.stop()
	rt.lobby.stop()
	m.cancelGrace(rt)
}

// ResetTurn clears the time-up flag after a completed turn; the next
// turn starts from a fresh countdown.
func (m *Manager) ResetTurn(roomID string) {
	rt := m.get(roomID)
	if rt == nil {
		return
	}
	rt.turn.stop()
	rt.timeUp.Store(false)
}

func (m *Manager) TimeUp(roomID string) bool {
	rt := m.get(roomID)
	return rt != nil && rt.timeUp.Load()
}

func (m *Manager) TurnRunning(roomID string) bool {
	rt := m.get(roomID)
	return rt != nil && rt.turn.isRunning()
}

func (m *Manager) LobbyRunning(roomID string) bool {
	rt := m.get(roomID)
	return rt != nil && rt.lobby.isRunning()
}

// TryLock atomically claims the room's completion lock. It returns
// false without side effects when another completion is in flight, or
// when the room has no timers.
func (m *Manager) TryLock(roomID string) bool {
	rt := m.get(roomID)
	if rt == nil {
		return false
	}
	return rt.lock.CompareAndSwap(false, true)
}

// Unlock releases the completion lock. Safe to call when not held.
func (m *Manager) Unlock(roomID string) {
	if rt := m.get(roomID); rt != nil {
		rt.lock.Store(false)
	}
}

func (m *Manager) IsLocked(roomID string) bool {
	rt := m.get(roomID)
	return rt != nil && rt.lock.Load()
}

// formatRemaining renders a countdown as MM:SS for the tick broadcast.
func formatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
