package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/leoddeng/2dgame-server/internal/httpapi"
	"github.com/leoddeng/2dgame-server/internal/registry"
	"github.com/leoddeng/2dgame-server/internal/room"
	"github.com/leoddeng/2dgame-server/internal/score"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	roomCfg := room.DefaultConfig()
	if ms := os.Getenv("PIPE_INTERVAL_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			roomCfg.PipeInterval = time.Duration(v) * time.Millisecond
		} else {
			log.Warnw("ignoring invalid PIPE_INTERVAL_MS", "value", ms)
		}
	}

	// Best-score persistence is optional; without DATABASE_URL the nil
	// store makes every score operation a no-op.
	var scores *score.Store
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		scores, err = score.Open(dsn)
		if err != nil {
			log.Fatalw("score store", "err", err)
		}
	} else {
		log.Infow("DATABASE_URL not set, best scores will not persist")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := registry.New(ctx, roomCfg, log)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     httpapi.SetupRoutes(reg, scores, log),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: time.Minute,
	}

	go func() {
		<-ctx.Done()
		log.Infow("shutting down")
		reg.Inbox() <- registry.ShutdownRegistry{}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infow("listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalw("listen", "err", err)
	}
}
