package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/prodraft/draft-backend/internal/broadcast"
	"github.com/prodraft/draft-backend/internal/draft"
	"github.com/prodraft/draft-backend/internal/engine"
	"github.com/prodraft/draft-backend/pkg/types"
)

// Handler upgrades a client connection and bridges it to the room's
// broadcast feed and the draft coordinator. Join triggers lazy timer
// hydration for the room.
func Handler(coord *draft.Coordinator, hub *broadcast.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("room")
		if roomID == "" {
			http.Error(w, "missing room", http.StatusBadRequest)
			return
		}

		if err := coord.HydrateRoom(r.Context(), roomID); err != nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := hub.Subscribe(roomID)
		defer hub.Unsubscribe(roomID, out)

		// Writer goroutine: relays room events until the feed closes.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for ev := range out {
				msg := types.ServerMessage{Type: ev.Type, Room: ev.Room, Data: ev.Data}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		welcome, _ := json.Marshal(types.ServerMessage{Type: broadcast.EventMessage, Room: roomID, Data: "welcome"})
		_ = conn.Write(r.Context(), websocket.MessageText, welcome)

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}
			if cm.RoomID == "" {
				cm.RoomID = roomID
			}

			if err := dispatch(r.Context(), coord, cm); err != nil {
				log.Warn("command failed",
					zap.String("room", roomID), zap.String("type", cm.Type), zap.Error(err))
				writeError(r.Context(), conn, clientError(err))
			}
		}
	}
}

func dispatch(ctx context.Context, coord *draft.Coordinator, cm types.ClientMessage) error {
	switch cm.Type {
	case "joinRoom":
		return coord.HydrateRoom(ctx, cm.RoomID)
	case "clickHero":
		return coord.ClickHero(ctx, cm.RoomID, cm.TeamID, cm.HeroID)
	case "selectChampion":
		return coord.FinishTurn(ctx, cm.RoomID)
	case "teamReady":
		return coord.HandleTeamReady(ctx, cm.RoomID, cm.TeamID, cm.Ready)
	default:
		return errors.New("unknown type")
	}
}

// clientError maps internal failures to the few messages clients see.
// Persistence details never cross the socket.
func clientError(err error) string {
	switch {
	case errors.Is(err, engine.ErrNotYourTurn):
		return "not your turn"
	case errors.Is(err, engine.ErrSelectionClosed):
		return "selection closed"
	case errors.Is(err, engine.ErrUnknownHero):
		return "hero unavailable"
	default:
		return "selection failed"
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: broadcast.EventError, Error: msg})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}
