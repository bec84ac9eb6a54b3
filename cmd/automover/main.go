// Package main is the entry point for the AutoMover scene runner.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/automover/internal/config"
	"github.com/Faultbox/automover/internal/logger"
	"github.com/Faultbox/automover/internal/scene"
	"github.com/Faultbox/automover/internal/stream"
	"github.com/Faultbox/automover/pkg/mover"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Scene written to %s\n", path)
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== AutoMover ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("scene error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("scene closed normally")
}

func run(ctx context.Context, cfg *config.Config) error {
	opts := []scene.Option{
		scene.WithLogger(logger.Named("scene")),
		scene.WithSeed(cfg.Playback.Seed),
	}

	var hub *stream.Hub
	if cfg.Stream.Enabled {
		hub = stream.NewHub(logger.Named("hub"))
		tapLog := logger.Named("tap")
		opts = append(opts, scene.WithWrapper(func(name string, id uuid.UUID, a mover.Actor) mover.Actor {
			return stream.NewTap(hub, name, id, a, tapLog)
		}))
	}

	sc, err := scene.New(cfg.Movers, opts...)
	if err != nil {
		return err
	}

	if hub != nil {
		hubCtx, cancelHub := context.WithCancel(ctx)
		defer cancelHub()
		go hub.Run(hubCtx)

		srv := stream.NewServer(sc, hub, logger.Named("stream"))
		go func() {
			if err := srv.Listen(cfg.Stream.Addr); err != nil {
				logger.Error("pose stream stopped", zap.Error(err))
			}
		}()
		defer func() {
			if err := srv.Shutdown(); err != nil {
				logger.Warn("pose stream shutdown", zap.Error(err))
			}
		}()
	}

	sc.Ready()
	if err := sc.Run(ctx, cfg.TickInterval(), cfg.Playback.Duration); err != nil {
		return err
	}

	for _, st := range sc.Statuses() {
		logger.Info("mover",
			zap.String("name", st.Name),
			zap.String("state", st.State),
			zap.Uint("runs", st.Runs),
			zap.Float32("path_length", st.PathLength))
	}
	return nil
}
