// runner is an endless side-scrolling runner for the terminal.
//
// Usage:
//
//	runner menu                - Title menu: pick a character, view scores
//	runner play [character]    - Start a run right away
//	runner characters          - List characters and their best scores
//	runner scores [character]  - Show the best recorded runs
//	runner serve               - Start SSH server for remote play
//	runner config              - Print the default configuration
//
// Global flags default to the RUNNER_* environment (and .env):
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible runs
//	--db <path>         - Set database path (default: ~/.runner/scores.db)
//	--config <path>     - Use a custom runner YAML
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

// Settings are read before flags are registered so they can serve as
// flag defaults.
var settings, settingsErr = config.LoadSettings()

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string

	logger  = log.New(os.Stderr)
	logFile *os.File
)

func main() {
	defer closeLog()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		closeLog()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Runner - an endless side-scroller in your terminal",
	Long: `Runner is an endless side-scrolling game: jump over the aloe,
survive as long as you can and beat your high score.

Available commands:
  menu        - Title menu with character select and scoreboard
  play        - Start a run directly
  characters  - List characters and their best scores
  scores      - View the best runs
  serve       - Start SSH server for remote play
  config      - Print the default configuration

Examples:
  runner menu
  runner play eve
  runner serve --ssh :2222
  runner scores adam`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", settings.FPS, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", settings.Seed, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", settings.DBPath, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", settings.ConfigPath, "Path to custom runner config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", settings.LogLevel, "Log level: debug, info, warn, error")

	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(charactersCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// setup validates the environment and opens the log file. The terminal
// belongs to the game, so logs go to a file.
func setup(cmd *cobra.Command, _ []string) error {
	if settingsErr != nil {
		return settingsErr
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	// The server logs to stderr itself.
	if cmd == serveCmd || settings.LogFile == "" {
		logger.SetLevel(level)
		return nil
	}

	path := expandHome(settings.LogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	logFile = f
	logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "runner",
		Level:           level,
	})
	return nil
}

func closeLog() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// expandHome expands a leading ~ to the home directory.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}

	cfg.Seed = flagSeed
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg
}

// loadRunnerConfig loads the runner YAML named by --config, if any.
func loadRunnerConfig() (config.RunnerConfig, error) {
	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		return config.RunnerConfig{}, err
	}
	logger.Debug("config loaded", "level", cfg.Level, "characters", len(cfg.Characters))
	return cfg, nil
}

// openStore opens the scores database. Play goes on without persistence
// when it cannot be opened.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("scores database unavailable", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
