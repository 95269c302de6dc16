// Command userdesk serves the browser-based user manager.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	userdesk "github.com/goliatone/go-userdesk"
	"github.com/goliatone/go-userdesk/internal/config"
	"github.com/goliatone/go-userdesk/internal/httpui"
	"github.com/goliatone/go-userdesk/pkg/render"
	"github.com/goliatone/go-userdesk/pkg/schema"
)

func main() {
	var (
		configFlag    = flag.String("config", "userdesk.yaml", "Path to the YAML config file")
		addrFlag      = flag.String("addr", "", "HTTP listen address (overrides config)")
		variantFlag   = flag.String("variant", "", "Theme variant (overrides config)")
		shutdownGrace = flag.Duration("grace", 5*time.Second, "Shutdown grace period")
	)
	flag.Parse()

	if err := run(*configFlag, *addrFlag, *variantFlag, *shutdownGrace); err != nil {
		log.Fatalf("userdesk: %v", err)
	}
}

func run(configPath, addrOverride, variantOverride string, grace time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addrOverride != "" {
		cfg.Addr = addrOverride
	}
	if variantOverride != "" {
		cfg.Theme.Variant = variantOverride
	}

	latency, err := cfg.ParseLatency()
	if err != nil {
		return err
	}

	fields, err := resolveFields(cfg)
	if err != nil {
		return err
	}

	backend := userdesk.NewMemoryBackend(fields, latency, cfg.SeedDrafts())

	renderer, err := render.New(
		render.WithTheme(render.ResolveTheme(render.DefaultManifest(), cfg.Theme.Variant)),
	)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "userdesk ", log.LstdFlags)
	server := httpui.New(fields, backend, renderer, logger)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.Handler(),
	}

	logger.Printf("listening on %s (latency %s, %d fields)", cfg.Addr, latency, len(fields))

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
	return nil
}

func resolveFields(cfg config.Config) (schema.Fields, error) {
	if cfg.Schema.Source == "" {
		return userdesk.DefaultFields(), nil
	}
	operation := cfg.Schema.Operation
	if operation == "" {
		operation = "createUser"
	}
	return userdesk.LoadFieldsFromOpenAPI(context.Background(), cfg.Schema.Source, operation)
}
