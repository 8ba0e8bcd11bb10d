package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/leoddeng/2dgame-server/internal/registry"
	"github.com/leoddeng/2dgame-server/internal/score"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ListRooms serves the same snapshot as the showRoom frame, for clients that
// want to browse rooms before opening a socket.
func ListRooms(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []string, 1)
		reg.Inbox() <- registry.ListRooms{Reply: reply}
		ids := <-reply
		if ids == nil {
			ids = []string{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Rooms []string `json:"rooms"`
		}{Rooms: ids})
	}
}

// BestScore serves the persisted best score for a player id.
func BestScore(scores *score.Store, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "playerId")

		best, err := scores.Get(playerID)
		if err != nil {
			log.Warnw("best score lookup failed", "player", playerID, "err", err)
			http.Error(w, "score lookup failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			PlayerID string `json:"playerId"`
			Score    int    `json:"score"`
		}{PlayerID: playerID, Score: best})
	}
}
