package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/jittakal/b3extractor/internal/b3"
	"github.com/jittakal/b3extractor/internal/config"
	"github.com/jittakal/b3extractor/internal/encoder"
	"github.com/jittakal/b3extractor/internal/extractor"
	"github.com/jittakal/b3extractor/internal/handler"
	"github.com/jittakal/b3extractor/internal/observability"
	"github.com/jittakal/b3extractor/internal/storage"
)

var (
	// Version information (set during build)
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

func run() error {
	// Parse command-line flags
	configPath := flag.String("config", "", "path to configuration file")
	local := flag.Bool("local", false, "run a single extraction and exit")
	flag.Parse()

	// Priority: CLI flag > CONFIG_PATH env var > default path
	var cfgPath string
	if *configPath != "" {
		cfgPath = *configPath
	} else if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		cfgPath = envPath
	} else {
		cfgPath = "config/application.yaml"
	}

	logger := bootstrapLogger(cfgPath)
	defer logger.Sync()

	logger.Info("starting b3 extractor",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("build_time", buildTime),
		zap.Bool("local", *local),
	)

	h := handler.New(newBuildFunc(cfgPath, logger), logger)

	if !*local {
		lambda.Start(h.Handle)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resp, err := h.Handle(ctx, events.CloudWatchEvent{
		DetailType: "Scheduled Event",
		Source:     "local",
		Time:       time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// bootstrapLogger builds the process logger. Configuration errors are not
// fatal here: they surface on each invocation instead.
func bootstrapLogger(cfgPath string) *zap.Logger {
	cfg, err := config.NewLoader().Load(cfgPath)
	if err != nil {
		logger := observability.NewLogger(observability.LoggingConfig{})
		logger.Warn("configuration incomplete at startup", zap.Error(err))
		return logger
	}
	return observability.NewLogger(observability.LoggingConfig{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
		Output: cfg.Observability.Logging.Output,
	}).With(zap.String("environment", cfg.Application.Environment))
}

// newBuildFunc loads configuration and wires a fresh extractor for each
// invocation.
func newBuildFunc(cfgPath string, logger *zap.Logger) handler.BuildFunc {
	return func(ctx context.Context) (handler.Runner, func() error, error) {
		cfg, err := config.NewLoader().Load(cfgPath)
		if err != nil {
			return nil, nil, err
		}

		client := b3.NewClient(b3.Config{
			BaseURL: cfg.B3.APIURL,
			Payload: b3.PayloadFromConfig(cfg.B3.Payload),
			Timeout: cfg.B3.Timeout(),
		}, logger)

		enc := encoder.NewParquetEncoder(cfg.Parquet.Compression, cfg.Application.Name)
		router := storage.NewRouter(cfg.Storage.KeyPrefix, enc.FileExtension())

		writer, err := storage.NewWriter(ctx, cfg.Storage, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create storage writer: %w", err)
		}

		return extractor.New(client, enc, router, writer, logger), writer.Close, nil
	}
}
