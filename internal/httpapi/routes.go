package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/prodraft/draft-backend/internal/broadcast"
	"github.com/prodraft/draft-backend/internal/draft"
	"github.com/prodraft/draft-backend/internal/store"
	"github.com/prodraft/draft-backend/internal/timer"
	"github.com/prodraft/draft-backend/internal/ws"
)

func SetupRoutes(coord *draft.Coordinator, st store.Store, tm *timer.Manager, hub *broadcast.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/rooms", CreateRoom(st, tm, log))
	r.Get("/rooms/{roomID}", GetRoom(st))

	// Administrative triggers: force a room into a phase or finish the
	// current turn out of band.
	r.Post("/rooms/{roomID}/waiting", phaseTrigger(log, "waiting", coord.SetWaitingPhase))
	r.Post("/rooms/{roomID}/planning", phaseTrigger(log, "planning", coord.SetPlanningPhase))
	r.Post("/rooms/{roomID}/draft", phaseTrigger(log, "draft", coord.SetDraftPhase))
	r.Post("/rooms/{roomID}/done", phaseTrigger(log, "done", coord.SetDonePhase))
	r.Post("/rooms/{roomID}/finish", phaseTrigger(log, "finish", coord.FinishTurn))

	r.Get("/timers", ListTimers(tm))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(coord, hub, log))
	return r
}
