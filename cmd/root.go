package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "ftva-etl",
		Short: "Compose FTVA MAMS metadata from Alma, FileMaker and Digital Data",
		Long: `ftva-etl builds the canonical metadata record for a digitized FTVA item.

It looks up the item's inventory row in FileMaker, its bibliographic record in
Alma and its asset record in Digital Data, then derives titles, dates,
creators and language into a single record ready for the MAMS.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogging(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $FTVA_ETL_CONFIG)")

	// Add subcommands
	cmd.AddCommand(newComposeCmd(&configPath))
	cmd.AddCommand(newServeCmd(&configPath))

	return cmd
}

// setupLogging installs the default slog handler. LOG_LEVEL accepts the slog
// level names; --verbose forces debug.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			level = slog.LevelInfo
		}
	}
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
