// Command zedis-server is the Zedis entry point: it wires configuration,
// the storage engine, the RESP connection driver, the admin HTTP surface,
// and persistence, then runs until SIGINT/SIGTERM.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/candicandi/zedis/internal/adminhttp"
	"github.com/candicandi/zedis/internal/command"
	"github.com/candicandi/zedis/internal/config"
	"github.com/candicandi/zedis/internal/engine/store"
	"github.com/candicandi/zedis/internal/persistence"
	"github.com/candicandi/zedis/internal/server"
)

func main() {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	log := zap.Must(logConfig.Build())
	defer log.Sync()
	log = log.Named("main")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	engine := store.New(log, store.Config{
		InitialCapacity: cfg.HashIndexInitialCapacity,
		MemoryBudget:    cfg.MaxMemoryBytes,
		Eviction:        cfg.EvictionPolicy,
		NumDatabases:    cfg.Databases,
	})
	if cfg.Password != "" {
		engine.SetAuthPassword(cfg.Password)
	}

	snapshotter := persistence.NewSnapshotter(log, engine, cfg.SnapshotPath, cfg.Databases)
	if err := snapshotter.Load(); err != nil {
		log.Fatal("snapshot load failed", zap.Error(err))
	}

	aof, err := persistence.NewAOFWriter(log, cfg.AOFPath, cfg.AOFEnabled)
	if err != nil {
		log.Fatal("aof open failed", zap.Error(err))
	}
	defer aof.Close()

	if cfg.AOFEnabled {
		replayCtx := &command.Context{Engine: engine, Authenticated: true, Subscribed: map[string]struct{}{}}
		replayCtx.DB = 0
		if err := persistence.Replay(cfg.AOFPath, func(args [][]byte) error {
			return replayAOF(replayCtx, args)
		}); err != nil {
			log.Fatal("aof replay failed", zap.Error(err))
		}
	}

	srv := server.New(log, engine, server.Config{
		ListenAddr:     cfg.ListenAddr,
		MaxConnections: cfg.MaxConnections,
	}, aof, snapshotter)

	admin := adminhttp.New(log, engine, cfg.AdminAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() { errCh <- srv.Serve(ctx) }()
	go func() { errCh <- admin.Serve(ctx) }()

	<-ctx.Done()
	log.Info("shutting down")

	if err := <-errCh; err != nil {
		log.Warn("component exited with error", zap.Error(err))
	}
	if err := <-errCh; err != nil {
		log.Warn("component exited with error", zap.Error(err))
	}
}

// replayAOF re-applies one logged command directly against the engine
// through the same dispatcher live connections use, discarding its reply.
func replayAOF(ctx *command.Context, args [][]byte) error {
	return command.DispatchDiscard(ctx, args)
}
