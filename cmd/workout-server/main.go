// cmd/workout-server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"workout-service/internal/clients/imagegen"
	"workout-service/internal/clients/textgen"
	"workout-service/internal/common/config"
	"workout-service/internal/common/database"
	"workout-service/internal/common/logger"
	"workout-service/internal/common/observability"
	"workout-service/internal/generator"
	"workout-service/internal/normalizer"
	"workout-service/internal/planstore"
	"workout-service/internal/server"
	"workout-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New("info", "console")
		fallbackLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting workout server...",
		zap.String("address", cfg.Server.Address),
	)

	obs := observability.New("workout-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Redis ---
	redisClient, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis init failed", zap.Error(err))
	}
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx); err != nil {
		zapLog.Warn("redis unreachable at startup, continuing", zap.Error(err))
	}
	cancel()

	// --- SQLite ---
	db, err := storage.Open(cfg.Database.SQLite.Path)
	if err != nil {
		zapLog.Fatal("database init failed", zap.Error(err))
	}
	defer db.Close()

	// --- Generation pipeline ---
	textClient := textgen.NewClient(cfg.APIs.TextGen, log)

	var imageClient normalizer.ImageClient
	if cfg.APIs.ImageGen.Enabled {
		imageClient = imagegen.NewClient(cfg.APIs.ImageGen, log)
	}

	norm := normalizer.New(imageClient, log)
	cache := generator.NewResponseCache(redisClient, time.Duration(cfg.Cache.TTLMinutes)*time.Minute, log)
	synth := generator.NewSynthesizer(cfg.Fallback.ExercisesPerBodyPart)

	orch := generator.New(textClient, norm, cache, synth, generator.Options{
		MinInterval: config.GetDuration(cfg.RateLimit.MinIntervalMillis),
	}, log)

	// --- Tiered current-plan store ---
	primary, err := planstore.NewSQLiteTier(db.Handle(), cfg.PlanStore.PrimaryCeilingBytes)
	if err != nil {
		zapLog.Fatal("plan store init failed", zap.Error(err))
	}
	secondary := planstore.NewRedisTier(redisClient, cfg.PlanStore.SecondaryCeilingBytes,
		time.Duration(cfg.PlanStore.SecondaryTTLHours)*time.Hour)
	store := planstore.New(primary, secondary, log)

	// --- HTTP ---
	srv := server.New(orch, db, store, redisClient, cfg, log)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", srv)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	zapLog.Info("Stopped")
}
