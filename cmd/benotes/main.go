// ABOUTME: Entry point for the benotes server
// ABOUTME: Serves the notes API and offers operator commands for tenant stores

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/2389/benotes/internal/api"
	"github.com/2389/benotes/internal/auth"
	"github.com/2389/benotes/internal/builtins"
	"github.com/2389/benotes/internal/config"
	"github.com/2389/benotes/internal/metrics"
	"github.com/2389/benotes/internal/plugins"
	"github.com/2389/benotes/internal/tenant"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
  _                     _
 | |__   ___ _ __   ___ | |_ ___  ___
 | '_ \ / _ \ '_ \ / _ \| __/ _ \/ __|
 | |_) |  __/ | | | (_) | ||  __/\__ \
 |_.__/ \___|_| |_|\___/ \__\___||___/
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: benotes <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve            Start the HTTP server")
		fmt.Println("  tenants          List registered tenants")
		fmt.Println("  reset TENANT     Delete a tenant's store (destructive)")
		fmt.Println("  health           Check server health")
		fmt.Println("  version          Print the version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "tenants":
		err = runTenants(ctx)
	case "reset":
		err = runReset(ctx, os.Args[2:])
	case "health":
		err = runHealth(ctx)
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newTenantRouter builds the plugin registry and the tenant router over it.
func newTenantRouter(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*tenant.Router, *plugins.Registry, error) {
	registry, err := plugins.NewRegistry(logger, builtins.All()...)
	if err != nil {
		return nil, nil, fmt.Errorf("building plugin registry: %w", err)
	}
	router := tenant.New(tenant.Options{
		Root:    cfg.Data.Root,
		Schema:  registry.Schema(),
		Logger:  logger,
		Metrics: m,
	})
	return router, registry, nil
}

func runServe(ctx context.Context) error {
	configPath := config.DefaultPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Data:      %s\n", cfg.Data.Root)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	if cfg.Debug.AllowReset {
		yellow.Print("    ▶ ")
		fmt.Println("Reset:     enabled")
	}
	fmt.Println()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promReg)

	tenants, registry, err := newTenantRouter(cfg, logger, m)
	if err != nil {
		return err
	}
	defer func() {
		if err := tenants.Close(); err != nil {
			logger.Error("closing tenant stores", "error", err)
		}
	}()

	// Fail at startup rather than on first login if the data root is unusable.
	if _, err := tenants.System(ctx); err != nil {
		return fmt.Errorf("opening system store: %w", err)
	}

	routerCfg := api.RouterConfig{
		Tenants:           tenants,
		Plugins:           registry,
		Issuer:            auth.NewJWTIssuer([]byte(cfg.Auth.JWTSecret)),
		Logger:            logger,
		Metrics:           m,
		TokenTTL:          cfg.Auth.TokenTTL,
		AllowRegistration: cfg.Auth.AllowRegistration,
		RateLimit: api.RateLimit{
			Requests: cfg.RateLimit.AuthRequests,
			Window:   cfg.RateLimit.Window,
		},
		TrustProxy: cfg.Server.TrustProxy,
		AllowReset: cfg.Debug.AllowReset,
		Admins:     cfg.Debug.Admins,
	}
	if cfg.Metrics.Enabled {
		routerCfg.Gatherer = promReg
		routerCfg.MetricsPath = cfg.Metrics.Path
	}

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           api.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting benotes",
			"config", configPath,
			"http_addr", cfg.Server.HTTPAddr,
			"data_root", cfg.Data.Root,
			"plugins", len(registry.All()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

func runTenants(ctx context.Context) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := setupLogger(cfg.Logging)

	tenants, _, err := newTenantRouter(cfg, logger, metrics.NewNop())
	if err != nil {
		return err
	}
	defer tenants.Close()

	list, err := tenants.Tenants(ctx)
	if err != nil {
		return fmt.Errorf("listing tenants: %w", err)
	}
	if len(list) == 0 {
		fmt.Println("No tenants registered.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCREATED")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Name, t.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

// runReset deletes a tenant's store file. The server must not be running
// against the same data root, since it would keep the old handle open.
func runReset(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: benotes reset TENANT")
	}
	id := args[0]

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := setupLogger(cfg.Logging)

	tenants, _, err := newTenantRouter(cfg, logger, metrics.NewNop())
	if err != nil {
		return err
	}
	defer tenants.Close()

	if err := tenants.Reset(ctx, id); err != nil {
		return fmt.Errorf("resetting tenant %s: %w", id, err)
	}

	color.New(color.FgYellow).Printf("Reset store for tenant %s\n", id)
	fmt.Printf("  %s\n", tenants.StorePath(id))
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/health", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}
