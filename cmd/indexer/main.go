package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/hotel-event-indexer/internal/app"
	"github.com/hotel-event-indexer/internal/config"
	"github.com/hotel-event-indexer/internal/pkg/logger"
	lambdatransport "github.com/hotel-event-indexer/internal/transport/lambda"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: could not read .env: %v", err)
	}

	cfg := config.Load()
	logr := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	a, err := app.New(context.Background(), cfg, logr)
	if err != nil {
		logr.Error("startup failed", "err", err)
		os.Exit(1)
	}

	lambda.Start(lambdatransport.NewHandler(a.Events, logr).Handle)
}
