package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adelvt/gandi-dns-sync/internal/config"
	"github.com/adelvt/gandi-dns-sync/internal/inventory"
	"github.com/adelvt/gandi-dns-sync/internal/logger"
	"github.com/adelvt/gandi-dns-sync/internal/metrics"
	"github.com/adelvt/gandi-dns-sync/internal/provider/gandi"
	"github.com/adelvt/gandi-dns-sync/internal/reconcile"
	"github.com/adelvt/gandi-dns-sync/internal/state"
)

var (
	flagConfigDir string
	flagDryRun    bool
	flagKeep      bool
	flagInterval  time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "gandi-dns-sync",
	Short:        "Synchronize inventory DNS zones to Gandi LiveDNS",
	Long:         "Reconciles each zone's inventory records against Gandi LiveDNS, only ever deleting records this tool created itself.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: the executable's directory)")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "report the planned changes without mutating anything")
	rootCmd.Flags().BoolVar(&flagKeep, "keep", false, "keep the inventory regeneration flag set after a clean run")
	rootCmd.Flags().DurationVar(&flagInterval, "interval", 0, "re-run continuously at this interval (0 runs once)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	configDir := flagConfigDir
	if configDir == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable path: %w", err)
		}
		configDir = filepath.Dir(exe)
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Env)
	slog.Debug("Loaded configuration", "dir", configDir)

	m := metrics.New(true)
	stateStore := state.New(configDir, m)
	inv := inventory.New(cfg.Inventory.URL, cfg.Inventory.Token, m)
	providers := gandi.NewFactory(cfg.Gandi, m)
	engine := reconcile.NewEngine(stateStore, providers, flagDryRun, m)

	if flagInterval <= 0 {
		return performSync(cmd.Context(), inv, engine, m)
	}
	return runLoop(inv, engine, m, cfg.Metrics.Addr, flagInterval)
}

// runLoop re-runs the sync at a fixed interval until a shutdown signal,
// serving prometheus metrics alongside.
func runLoop(inv inventory.Client, engine reconcile.Engine, m *metrics.Metrics, metricsAddr string, interval time.Duration) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:    metricsAddr,
		Handler: mux,
	}

	go func() {
		slog.Info("Starting metrics server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if err := performSync(ctx, inv, engine, m); err != nil {
				slog.Error("Sync operation failed", "error", err)
			}

			select {
			case <-ticker.C:
				continue
			case <-ctx.Done():
				slog.Info("Stopping sync loop")
				return
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("Shutdown signal received")
	cancel()

	serverShutdownCtx, cancelServer := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelServer()
	if err := server.Shutdown(serverShutdownCtx); err != nil {
		slog.Error("Metrics server shutdown error", "error", err)
	}

	wg.Wait()
	slog.Info("Service shutdown complete")
	return nil
}

func performSync(ctx context.Context, inv inventory.Client, engine reconcile.Engine, m *metrics.Metrics) error {
	slog.Info("Starting sync operation", "dry_run", flagDryRun)
	start := time.Now()
	defer func() {
		m.SetSyncDuration(time.Since(start))
	}()

	zones, err := inv.Zones(ctx)
	if err != nil {
		m.IncSyncRun(false)
		return err
	}

	slog.Info("Reconciling zones", "count", len(zones))
	results := engine.Reconcile(ctx, zones)

	added, deleted, failed := results.Counts()
	slog.Info("Sync completed",
		"added", added,
		"deleted", deleted,
		"failed", failed)
	m.IncSyncRun(results.Clean())

	if flagDryRun || flagKeep {
		return nil
	}
	if !results.Clean() {
		slog.Warn("Skipping regeneration acknowledgement, run was not clean")
		return nil
	}
	if err := inv.AckRegen(ctx); err != nil {
		slog.Error("Failed to acknowledge regeneration with inventory", "error", err)
		return nil
	}
	slog.Info("Acknowledged regeneration with inventory")
	return nil
}
