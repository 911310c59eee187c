package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pokedata/internal/config"
	"pokedata/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "pokedata",
	Short: "pokedata - Pokémon guide and dex data tools",
	Long: `pokedata turns Pokémon strategy-guide PDFs into a structured CSV dataset
and maintains an offline Pokédex built from PokeAPI.

  guide  OCR strategy guides into stage, wild encounter and gym team rows
  dex    export PokeAPI species data and browse it offline`,
	Version:      version,
	SilenceUsage: true,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// createContext returns a context canceled on SIGINT/SIGTERM and, for a
// positive timeout, after timeout.
func createContext(timeout time.Duration, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, timeout)
		parent := cancel
		cancel = func() {
			cancelTimeout()
			parent()
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// loadEnvConfig reads the environment configuration for a command.
func loadEnvConfig(log zerolog.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Invalid environment configuration")
		return nil, err
	}
	return cfg, nil
}
