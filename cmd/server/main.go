package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"amber-server/internal/agent"
	"amber-server/internal/engine"
	"amber-server/internal/infrastructure/storage"
	"amber-server/internal/server"
	"amber-server/internal/version"
	"amber-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	cfg := engine.NewConfig()
	var replayPath string
	var bots int
	flag.Int64Var(&cfg.Seed, "seed", 0, "Master seed (0: derive from session token)")
	flag.DurationVar(&cfg.TickInterval, "tick", engine.DefaultTickInterval, "Simulation tick interval")
	flag.StringVar(&cfg.BalancePath, "balance", "", "Path to balance YAML (hot-reloaded)")
	flag.StringVar(&cfg.ReplayDir, "replays", "", "Directory for .amrp replays (empty: disabled)")
	flag.StringVar(&replayPath, "replay", "", "Path to .amrp replay file to simulate")
	flag.IntVar(&bots, "bots", 0, "Number of autopilot sessions to run alongside clients")
	flag.Parse()

	logger.Log.Info("Starting Amber-Shaper encounter server...")
	logger.Log.Info(version.String())

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		if err := playback(cfg, replayPath); err != nil {
			logger.Log.WithError(err).Fatal("Replay failed")
		}
		return
	}

	if cfg.Seed != 0 {
		logger.Log.Infof("Using explicit master seed: %d", cfg.Seed)
	}

	port := os.Getenv("AMBER_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Ядро
	gameService, err := engine.NewService(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to start engine")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Сервер, сервис и боты живут в одной группе: падение любого гасит всех
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return gameService.Run(ctx) })
	g.Go(func() error { return server.New(gameService, port).Run(ctx) })
	for i := 0; i < bots; i++ {
		bot := agent.NewBot(fmt.Sprintf("bot-%d", i+1), gameService)
		g.Go(func() error {
			res, err := bot.Run(ctx)
			if res != nil {
				logger.Log.WithFields(logrus.Fields{
					"bot":     bot.SessionID,
					"outcome": res.Outcome,
					"score":   res.FinalScore,
				}).Info("Autopilot finished")
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.WithError(err).Error("Server stopped with error")
		os.Exit(1)
	}
	logger.Log.Info("Done.")
}

// playback прогоняет реплей без сети и печатает итог.
func playback(cfg engine.Config, path string) error {
	logger.Log.Info("Mode: replay simulation")
	svc, err := engine.NewService(cfg)
	if err != nil {
		return err
	}
	replays := &storage.ReplayService{SaveDir: filepath.Dir(path)}
	session, err := replays.Load(path)
	if err != nil {
		return err
	}

	start := time.Now()
	e, err := engine.PlayReplay(svc.Balance(), session, nil)
	if err != nil {
		return err
	}

	fields := logrus.Fields{
		"seed":    session.Seed,
		"ticks":   e.Ticks(),
		"actions": len(session.Actions),
		"took":    time.Since(start).String(),
	}
	if res, ok := e.Result(); ok {
		fields["outcome"] = res.Outcome.String()
		fields["score"] = res.FinalScore
	}
	logger.Log.WithFields(fields).Info("Replay finished")
	return nil
}
