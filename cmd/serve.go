package main

import (
	"context"
	"time"

	"github.com/maxaizer/hr-matcher/internal/metrics"
	"github.com/maxaizer/hr-matcher/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve metrics and periodically clean orphaned match results",
	RunE:  withApp(serve),
}

func serve(ctx context.Context, a *app) error {
	cleaner, err := services.NewResultsCleaner(a.results, a.cfg.Cleaner.Schedule)
	if err != nil {
		return err
	}
	defer cleaner.Stop()

	server := metrics.StartMetricsServer(a.cfg.Metrics.Address)
	log.Infof("serving metrics on %s", a.cfg.Metrics.Address)

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
