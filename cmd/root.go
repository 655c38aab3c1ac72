/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/jfmyers9/spins/internal/auth"
	"github.com/jfmyers9/spins/internal/config"
	"github.com/jfmyers9/spins/pkg/spotify"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spins",
	Short: "Spotify listening analytics for your terminal",
	Long: `spins summarizes your Spotify listening history.

It fetches your recently played tracks and podcast episodes from the
Spotify Web API, aggregates them into per-artist, per-podcast, and
time-of-day listening totals, and prints a summary to the console.

Plays are also cached in a local SQLite database so summaries can
reach further back than the short history Spotify itself serves.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// setupLogger creates a logger with the specified configuration
func setupLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// apiLogger adapts a zerolog logger to the spotify client's Logger interface.
type apiLogger struct {
	logger zerolog.Logger
}

func (l apiLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

// newAuthenticatedClient builds a Spotify client plus the authenticator
// that manages its token lifecycle. The client persists refreshed
// tokens back to the cache so the next run skips re-authorization.
func newAuthenticatedClient(cfg *config.Config, logger zerolog.Logger) (*spotify.Client, *auth.Authenticator, error) {
	client, err := spotify.NewClient(spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RedirectURI:  cfg.Spotify.RedirectURI,
		Logger:       apiLogger{logger: logger.With().Str("component", "spotify").Logger()},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating Spotify client: %w", err)
	}

	cache, err := auth.DefaultTokenCache()
	if err != nil {
		return nil, nil, fmt.Errorf("locating token cache: %w", err)
	}

	prompt := &auth.ConsolePrompt{In: os.Stdin, Out: os.Stdout}
	authenticator := auth.New(client, cache, prompt, logger)

	client.OnTokenRefresh(func(token *oauth2.Token) {
		if err := cache.Save(token); err != nil {
			logger.Warn().Err(err).Msg("Failed to persist refreshed token")
		}
	})

	return client, authenticator, nil
}
