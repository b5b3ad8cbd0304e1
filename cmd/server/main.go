package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jengzang/travel-segments-go/internal/api"
	"github.com/jengzang/travel-segments-go/internal/config"
	"github.com/jengzang/travel-segments-go/internal/database"
	"github.com/jengzang/travel-segments-go/internal/logger"
	"github.com/jengzang/travel-segments-go/internal/service"

	// Register analyzers
	_ "github.com/jengzang/travel-segments-go/internal/analysis/segments"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("failed to load config", zap.Error(err))
	}

	flush, err := logger.Init(cfg.LogLevel)
	if err != nil {
		zap.L().Fatal("failed to init logger", zap.Error(err))
	}
	defer flush()
	log := zap.L()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(database.GetDB()); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := service.NewSegmentationService(database.GetDB(), cfg.SegmentationOptions())
	router := api.SetupRouter(ctx, cfg, svc)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}

	// Let background runs finish writing before the database closes
	svc.Wait()
}
