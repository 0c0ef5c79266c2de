package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/hotel-event-indexer/internal/app"
	"github.com/hotel-event-indexer/internal/application/event"
	"github.com/hotel-event-indexer/internal/config"
	"github.com/hotel-event-indexer/internal/domain"
	s3infra "github.com/hotel-event-indexer/internal/infrastructure/s3"
	"github.com/hotel-event-indexer/internal/pkg/id"
	"github.com/hotel-event-indexer/internal/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type options struct {
	file  string
	s3URI string
	check bool
}

// seenChecker reports whether a message id is already recorded.
type seenChecker interface {
	Seen(ctx context.Context, table, messageID string) (bool, error)
}

// envelopeReader loads an envelope stored in S3.
type envelopeReader interface {
	ReadAll(ctx context.Context, uri string) ([]byte, error)
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Run a stored SNS envelope through the hotel event indexer",
		Long: "replay reads a Lambda SNS envelope from a local file or an S3 object and\n" +
			"handles it exactly as the deployed function would: record the message id,\n" +
			"then index the payload. With --check it only reports whether the message id\n" +
			"has already been recorded.",
		SilenceUsage: true,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if (opts.file == "") == (opts.s3URI == "") {
				return errors.New("exactly one of --file or --s3 is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "path to an envelope JSON file")
	cmd.Flags().StringVar(&opts.s3URI, "s3", "", "s3://bucket/key of an envelope JSON object")
	cmd.Flags().BoolVar(&opts.check, "check", false, "only report whether the message id is already recorded")
	return cmd
}

func run(ctx context.Context, out io.Writer, opts options) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: could not read .env: %v", err)
	}
	cfg := config.Load()
	logr := logger.New(os.Stderr, cfg.LogLevel, "text").With("invocation_id", id.New())

	a, err := app.New(ctx, cfg, logr)
	if err != nil {
		return err
	}

	var reader envelopeReader
	if opts.s3URI != "" {
		client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		reader = s3infra.NewStore(client)
	}
	raw, err := loadEnvelope(ctx, opts, reader)
	if err != nil {
		return err
	}

	if opts.check {
		return check(ctx, out, a.EventIDs, cfg.EventIDsTable, raw)
	}
	return replay(logger.WithContext(ctx, logr), out, a.Events, raw)
}

func loadEnvelope(ctx context.Context, opts options, reader envelopeReader) ([]byte, error) {
	if opts.s3URI != "" {
		return reader.ReadAll(ctx, opts.s3URI)
	}
	b, err := os.ReadFile(opts.file)
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	return b, nil
}

func check(ctx context.Context, out io.Writer, seen seenChecker, table string, raw []byte) error {
	n, err := event.Parse(raw)
	if err != nil {
		return err
	}
	ok, err := seen.Seen(ctx, table, n.MessageID)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(out, "message %s already recorded\n", n.MessageID)
	} else {
		fmt.Fprintf(out, "message %s not recorded\n", n.MessageID)
	}
	return nil
}

func replay(ctx context.Context, out io.Writer, svc event.Service, raw []byte) error {
	var evt events.SNSEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return fmt.Errorf("decode envelope: %v: %w", err, domain.ErrMalformedEnvelope)
	}
	res, err := svc.Handle(ctx, evt)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
