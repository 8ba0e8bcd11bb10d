package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/leoddeng/2dgame-server/internal/registry"
	"github.com/leoddeng/2dgame-server/internal/score"
	"github.com/leoddeng/2dgame-server/internal/ws"
)

func SetupRoutes(reg *registry.Registry, scores *score.Store, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(reg, scores, log))
	r.Get("/rooms", ListRooms(reg))
	r.Get("/scores/{playerId}", BestScore(scores, log))
	return r
}
