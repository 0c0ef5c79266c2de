package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hotel-event-indexer/internal/app"
	"github.com/hotel-event-indexer/internal/config"
	"github.com/hotel-event-indexer/internal/infrastructure/sns"
	"github.com/hotel-event-indexer/internal/pkg/logger"
	transporthttp "github.com/hotel-event-indexer/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	logr := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logr)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	if cfg.DevBootstrap {
		if err := a.Bootstrap(ctx, logr); err != nil {
			logr.Warn("bootstrap incomplete", "err", err)
		}
	}

	// SNS confirmer (optional — graceful fallback).
	var confirmer sns.SubscriptionConfirmer
	if client, err := sns.NewClient(ctx, cfg); err == nil {
		confirmer = sns.NewConfirmer(client)
	} else {
		logr.Warn("SNS confirmer not available", "err", err)
	}

	router := transporthttp.NewRouter(ctx, cfg, &transporthttp.Deps{
		EventService: a.Events,
		Confirmer:    confirmer,
		Logger:       logr,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server starting", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	logr.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	logr.Info("server stopped")
}
