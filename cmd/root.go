package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-network/internal/config"
	"github.com/pable/go-pass-network/internal/logging"
	"github.com/pable/go-pass-network/internal/model"
	"github.com/pable/go-pass-network/internal/storage"
)

// Exit codes. exitEmpty signals a run with nothing to write.
const (
	exitFailure = 1
	exitEmpty   = 2
)

var (
	dbPath     string
	configPath string
	logLevel   string
	logFormat  string

	cfg = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "passnet",
	Short: "Football pass network builder",
	Long: `Turn event-level pass data (one row per pass) into a weighted, directed,
categorized pass network: one edge per (passer, recipient, category) with
completed, failed, recovery/interception and assist counts.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var empty *model.EmptyInputError
	if errors.As(err, &empty) {
		fmt.Fprintf(os.Stderr, "nothing to do: %v\n", err)
		return exitEmpty
	}
	fmt.Fprintln(os.Stderr, err)
	return exitFailure
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $PASSNET_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(combineCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig layers flags over the loaded configuration and initializes logging.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = dbPath
	}
	dbPath = cfg.DBPath
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Init(cfg.LogFormat == "json", logging.ParseLevel(cfg.LogLevel))
	slog.Debug("config loaded", "db", cfg.DBPath, "config", configPath)
	return nil
}

// openStore opens the run database, creating its directory first.
func openStore() (*storage.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// findRun resolves a run ID prefix.
func findRun(db *storage.DB, prefix string) (*model.RunRecord, error) {
	run, err := db.GetRunByPrefix(prefix)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("run not found: %s", prefix)
	}
	return run, nil
}
