package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/RKarSiva001/Yebelo-Assignment/internal/bootstrap"
	"github.com/RKarSiva001/Yebelo-Assignment/pkg/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	engine, err := bootstrap.InitEngine(*cfg)
	if err != nil {
		slog.Error("Failed to initialize rsi engine", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		engine.Consumer.Run(ctx)
	}()

	go func() {
		if err := engine.Metrics.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server error", "error", err)
		}
	}()

	<-quit

	slog.Info("Shutting down rsi engine...")
	cancel()
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	engine.Stop(shutdownCtx)

	slog.Info("RSI engine stopped")
}
