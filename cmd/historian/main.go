// cmd/historian/main.go is an asynchronous historian service that pops game
// actions from a Redis queue and persists them to a PostgreSQL database.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/config"
	"github.com/jason-s-yu/uno/internal/database"
	"github.com/jason-s-yu/uno/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "directory containing uno.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.NewLogger()

	if cfg.Redis.Addr == "" || cfg.Database.URL == "" {
		logger.Fatal("historian needs both redis.addr and database.url")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	if err := database.ConnectDB(ctx, cfg.Database.URL); err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer database.Close()
	if err := database.Migrate(ctx); err != nil {
		logger.Fatalf("database: %v", err)
	}

	hs := historian.New(rdb, historian.PostgresSink{}, historian.Options{
		Queue:      cfg.Redis.Queue,
		BatchSize:  cfg.Historian.BatchSize,
		FlushDelay: time.Duration(cfg.Historian.FlushMs) * time.Millisecond,
		Inactivity: time.Duration(cfg.Historian.InactivitySec) * time.Second,
	}, logger.WithField("component", "historian"))

	if err := hs.Run(ctx); err != nil {
		logger.Fatalf("historian exited: %v", err)
	}
	logger.Info("Historian shutdown complete.")
}
