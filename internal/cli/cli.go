// Package cli provides the command-line interface for Ladle.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/ladle-sh/ladle/internal/config"
	"github.com/ladle-sh/ladle/internal/db"
	"github.com/ladle-sh/ladle/internal/models"
	"github.com/ladle-sh/ladle/internal/telemetry"
	"github.com/ladle-sh/ladle/pkg/version"
)

var telemetryClient telemetry.Client

var commandStartTime time.Time

var rootCmd = &cobra.Command{
	Use:   "ladle",
	Short: "Personal recipe box with full-text search",
	Long: `Personal recipe box with full-text search

Ladle keeps your recipes in a local SQLite database and finds them fast:
full-text search over titles, descriptions, and cuisines with automatic
fallback to ingredients, instructions, and notes.

Telemetry:
  Telemetry is enabled by default, always anonymous, and will never track
  personal information, recipe content, or search queries.

  Opt-out with:
  	LADLE_TELEMETRY_TRACKING_ENABLED=false`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commandStartTime = time.Now()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "ladle" {
			durationMs := time.Since(commandStartTime).Milliseconds()
			hasFlags := cmd.Flags().NFlag() > 0
			telemetryClient.TrackCLICommandExecuted(cmd.Name(), hasFlags, durationMs)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context, tc telemetry.Client) error {
	if tc == nil {
		tc = telemetry.New()
	}
	telemetryClient = tc

	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)
}

// openDatabase loads config and opens the database, the common preamble
// of every command.
func openDatabase() (*config.Config, *db.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize database: %w", err)
	}

	return cfg, database, nil
}

// currentUser resolves the acting user for CLI commands. The username
// comes from LADLE_USER and defaults to the local account name.
func currentUser(database *db.DB) (*models.User, error) {
	username := os.Getenv("LADLE_USER")
	if username == "" {
		username = os.Getenv("USER")
	}
	if username == "" {
		username = "default"
	}
	return database.EnsureUser(username)
}
