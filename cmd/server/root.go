package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MimoJanra/SitePulse/internal/api"
	"github.com/MimoJanra/SitePulse/internal/models"
	"github.com/MimoJanra/SitePulse/internal/monitor"
)

var rootCmd = &cobra.Command{
	Use:           "sitepulse",
	Short:         "Uptime monitor: probe sites, open incidents, alert contacts",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the in-process scheduler",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one check cycle and print the summary as JSON",
	Args:  cobra.NoArgs,
	RunE:  runOnce,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <incident-id>",
	Short: "Resolve an open incident",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	rootCmd.AddCommand(serveCmd, runCmd, resolveCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.CronSecret == "" {
		a.logger.Warn("CRON_SECRET not set, /api routes will reject every request")
	}

	scheduler := monitor.NewScheduler(a.runner, a.cfg.CheckInterval, a.logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &api.Server{
		SiteRepo:     a.sites,
		CheckRepo:    a.checks,
		IncidentRepo: a.incidents,
		ContactRepo:  a.contacts,
		SettingsRepo: a.settings,
		Runner:       a.runner,
		CronSecret:   a.cfg.CronSecret,
		StatusWindow: a.cfg.StatusWindow,
		Logger:       a.logger,
		Metrics:      a.metrics,
	}

	httpServer := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           api.SetupRouter(server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("addr", a.cfg.HTTPAddr).Info("Server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Graceful shutdown failed")
	}
	a.logger.Info("Server stopped")
	return nil
}

func runOnce(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.runner.RunCycle(cmd.Context())
	if err != nil {
		return fmt.Errorf("run cycle: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func runResolve(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	inc, err := a.incidents.Resolve(cmd.Context(), args[0], time.Now().UTC())
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("incident %s is not open", args[0])
	}
	if err != nil {
		return fmt.Errorf("resolve incident: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Resolved incident %s (site %s)\n", inc.ID, inc.SiteID)
	return nil
}
