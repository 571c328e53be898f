package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/maxaizer/hr-matcher/internal/config"
	"github.com/maxaizer/hr-matcher/internal/logger"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          "hr-matcher",
		Short:        "hr-matcher ranks candidates against vacancies",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml or CONFIG_PATH)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		log.Fatalf("binding debug flag: %v", err)
	}
}

// withApp loads the configuration, sets up logging and wires the application for one command.
func withApp(run func(ctx context.Context, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfgFile != "" {
			if err := os.Setenv("CONFIG_PATH", cfgFile); err != nil {
				return err
			}
		}
		cfg := config.Get()

		logger.Setup(ctx, cfg.Logger)
		defer logger.Cleanup()
		if viper.GetBool("debug") {
			logger.SetLevel(log.DebugLevel)
		}

		a, err := newApp(ctx, cfg)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("can't start: %v", err)
			return err
		}
		defer a.Close()

		return run(ctx, a)
	}
}
