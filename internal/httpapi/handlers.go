package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prodraft/draft-backend/internal/engine"
	"github.com/prodraft/draft-backend/internal/store"
	"github.com/prodraft/draft-backend/internal/timer"
	"github.com/prodraft/draft-backend/pkg/types"
)

type createRoomRequest struct {
	Heroes []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"heroes"`
}

type createRoomResponse struct {
	RoomID string `json:"room_id"`
	BlueID string `json:"blue_id"`
	RedID  string `json:"red_id"`
}

// CreateRoom provisions a room with its two teams and a shared hero
// pool, and initializes its timers.
func CreateRoom(st store.Store, tm *timer.Manager, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if len(req.Heroes) < 2*(engine.BansPerTeam+engine.PicksPerTeam) {
			http.Error(w, "hero pool too small", http.StatusBadRequest)
			return
		}

		pool := make([]engine.Hero, len(req.Heroes))
		for i, h := range req.Heroes {
			id, name := h.ID, h.Name
			pool[i] = engine.Hero{ID: &id, Name: &name}
		}

		room := &store.Room{
			ID:        uuid.NewString(),
			Phase:     engine.PhaseWaiting,
			Cycle:     0,
			HeroPool:  pool,
			CreatedAt: time.Now(),
		}
		blue := newTeam(room.ID, engine.TeamBlue)
		red := newTeam(room.ID, engine.TeamRed)

		if err := st.CreateRoom(r.Context(), room, []*store.Team{blue, red}); err != nil {
			log.Error("create room failed", zap.Error(err))
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}
		tm.Init(room.ID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(createRoomResponse{
			RoomID: room.ID,
			BlueID: blue.ID,
			RedID:  red.ID,
		})
	}
}

func newTeam(roomID string, color engine.TeamColor) *store.Team {
	return &store.Team{
		ID:     uuid.NewString(),
		RoomID: roomID,
		Color:  color,
		Bans:   engine.EmptySlots(engine.BansPerTeam),
		Picks:  engine.EmptySlots(engine.PicksPerTeam),
	}
}

// GetRoom returns a room snapshot: the room row plus both teams.
func GetRoom(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		room, err := st.Room(r.Context(), roomID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		teams, err := st.Teams(r.Context(), roomID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.RoomSnapshot{Room: room, Teams: teams})
	}
}

// phaseTrigger wraps an administrative transition as a POST handler.
// Each one goes through the coordinator so it obeys the same lock and
// state-machine contracts as the timer- and socket-driven paths.
func phaseTrigger(log *zap.Logger, name string, fn func(ctx context.Context, roomID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		if err := fn(r.Context(), roomID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "room not found", http.StatusNotFound)
				return
			}
			log.Error("phase trigger failed",
				zap.String("trigger", name), zap.String("room", roomID), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// ListTimers is a debug view of rooms with live timers.
func ListTimers(tm *timer.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Rooms []string `json:"rooms"`
		}{Rooms: tm.List()})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
