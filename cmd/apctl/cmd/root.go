// Package cmd implements the apctl subcommands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ap-reconciler/backend/config"
	"github.com/ap-reconciler/backend/internal/infra/db"
)

var version = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	version = v
}

// Execute builds the command tree and runs it against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand returns a fresh apctl command tree.
func NewRootCommand() *cobra.Command {
	var (
		envFile string
		verbose bool
	)

	root := &cobra.Command{
		Use:   "apctl",
		Short: "Operator tooling for the AP reconciliation service",
		Long: `apctl runs reconciliation and payment calculations from the shell and
manages the reference data the service matches against.

Examples:
  apctl optimize --terms "2/10 Net 30" --date 2024-01-15 --amount 5200
  apctl match --vendor "Acme Corp" --po PO-2024-001 --amount 5200 --terms "2/10 Net 30" --date 2024-01-15
  apctl seed
  apctl reviewer create --email ap@example.com --name "AP Clerk" --password 's3cret-pass'`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load env file %s: %w", envFile, err)
				}
			} else {
				_ = godotenv.Load()
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (defaults to .env when present)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(
		newOptimizeCommand(),
		newMatchCommand(),
		newSeedCommand(),
		newReviewerCommand(),
	)

	return root
}

// openStore connects to the configured entity store and migrates it.
func openStore(cfg *config.Config) (*db.Database, error) {
	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}

func closeStore(database *db.Database) {
	if err := database.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
