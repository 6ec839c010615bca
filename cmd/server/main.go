// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/config"
	"github.com/jason-s-yu/uno/internal/database"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/handlers"
	"github.com/jason-s-yu/uno/internal/middleware"
	"github.com/jason-s-yu/uno/internal/room"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "directory containing uno.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	var recorder game.Recorder
	if cfg.Redis.Addr != "" {
		rdb, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			logger.Fatalf("redis: %v", err)
		}
		defer rdb.Close()

		publisher := cache.NewActionPublisher(rdb, cfg.Redis.Queue, logger.WithField("component", "publisher"))
		g.Go(func() error { return publisher.Run(gctx) })
		recorder = publisher
		logger.Infof("Publishing game actions to redis list %s", cfg.Redis.Queue)
	}

	var onRoundEnd game.OnRoundEndFunc
	if cfg.Database.URL != "" {
		if err := database.ConnectDB(ctx, cfg.Database.URL); err != nil {
			logger.Fatalf("database: %v", err)
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			logger.Fatalf("database: %v", err)
		}
		onRoundEnd = database.RoundRecorder(logger.WithField("component", "rounds"))
		logger.Info("Recording round results to postgres")
	}

	rm := room.New(cfg.Rules, logger, recorder, onRoundEnd)

	mux := http.NewServeMux()
	logged := middleware.LogMiddleware(logger)
	mux.Handle("/ws", logged(handlers.WSHandler(logger, rm, cfg.AllowedOrigins)))
	mux.Handle("/state", logged(handlers.StateHandler(rm)))
	mux.Handle("/", logged(http.HandlerFunc(handlers.PingHandler)))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Infof("Running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
	logger.Info("Server shutdown complete.")
}
