// Command userdesk-cli manages the same user records from the terminal,
// prompting field by field with the schema's validators.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	userdesk "github.com/goliatone/go-userdesk"
	"github.com/goliatone/go-userdesk/internal/config"
	"github.com/goliatone/go-userdesk/pkg/prompt"
	"github.com/goliatone/go-userdesk/pkg/schema"
)

func main() {
	var (
		configFlag  = flag.String("config", "userdesk.yaml", "Path to the YAML config file")
		latencyFlag = flag.Duration("latency", -1, "Simulated backend latency (overrides config)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configFlag, *latencyFlag); err != nil {
		log.Fatalf("userdesk-cli: %v", err)
	}
}

func run(ctx context.Context, configPath string, latencyOverride time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	latency, err := cfg.ParseLatency()
	if err != nil {
		return err
	}
	if latencyOverride >= 0 {
		latency = latencyOverride
	}

	fields, err := resolveFields(ctx, cfg)
	if err != nil {
		return err
	}

	backend := userdesk.NewMemoryBackend(fields, latency, cfg.SeedDrafts())
	runner := prompt.NewRunner(fields, backend)
	return runner.Run(ctx)
}

func resolveFields(ctx context.Context, cfg config.Config) (schema.Fields, error) {
	if cfg.Schema.Source == "" {
		return userdesk.DefaultFields(), nil
	}
	operation := cfg.Schema.Operation
	if operation == "" {
		operation = "createUser"
	}
	return userdesk.LoadFieldsFromOpenAPI(ctx, cfg.Schema.Source, operation)
}
