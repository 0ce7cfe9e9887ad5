// Package main provides the CLI entrypoint for focustimer.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"focustimer/internal/core/model"
	"focustimer/internal/core/timekeeper"
	"focustimer/internal/history"
	"focustimer/internal/logging"
	"focustimer/internal/platform"
	"focustimer/internal/storage"
	"focustimer/internal/ui/preferences"
)

const (
	appName       = "focustimer"
	historyDBName = "history.db"
)

type rootOptions struct {
	configPath string
	dbPath     string
	verbose    bool
	quiet      bool

	work   int
	short  int
	long   int
	cycles int
}

// environment is what every subcommand needs after flags are parsed.
type environment struct {
	options      *rootOptions
	service      platform.Service
	settingsPath string
	settings     preferences.Settings
	logger       zerolog.Logger
	logCloser    io.Closer
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	options := &rootOptions{}
	env := &environment{options: options, service: platform.NewService()}

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Pomodoro focus timer",
		Long:          "A Pomodoro timer with a system tray app, a terminal UI and a headless mode.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			env.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDesktop(cmd.Context(), env)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.configPath, "config", "", "settings file (default: <config dir>/focustimer/settings.yaml)")
	flags.StringVar(&options.dbPath, "db", "", "history database (default: <data dir>/focustimer/history.db)")
	flags.BoolVarP(&options.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&options.quiet, "quiet", "q", false, "only log warnings and errors")
	flags.IntVar(&options.work, "work", 0, "work duration in minutes for this run")
	flags.IntVar(&options.short, "short", 0, "short break duration in minutes for this run")
	flags.IntVar(&options.long, "long", 0, "long break duration in minutes for this run")
	flags.IntVar(&options.cycles, "cycles", 0, "work cycles until a long break for this run")

	rootCmd.AddCommand(newDesktopCmd(env))
	rootCmd.AddCommand(newTUICmd(env))
	rootCmd.AddCommand(newRunCmd(env))
	rootCmd.AddCommand(newStatsCmd(env))
	rootCmd.AddCommand(newSettingsCmd(env))
	rootCmd.AddCommand(newAutostartCmd(env))

	return rootCmd
}

func (env *environment) load(cmd *cobra.Command) error {
	dataDir, dataErr := env.service.GetDataDir()
	logDir := ""
	if dataErr == nil {
		logDir = filepath.Join(dataDir, appName, "logs")
	}
	logger, closer, logErr := logging.New(logging.Options{
		Verbose: env.options.verbose,
		Quiet:   env.options.quiet,
		LogDir:  logDir,
	})
	env.logger = logger
	env.logCloser = closer
	if logErr != nil {
		logger.Warn().Err(logErr).Msg("file logging disabled")
	}

	env.settingsPath = env.options.configPath
	if env.settingsPath == "" {
		path, err := storage.DefaultPath(env.service)
		if err != nil {
			return err
		}
		env.settingsPath = path
	}

	settings, err := storage.LoadSettings(env.settingsPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", env.settingsPath).Msg("using default settings")
	}

	timer, err := settings.Timer.Apply(env.overrides(cmd))
	if err != nil {
		return fmt.Errorf("apply flag overrides: %w", err)
	}
	settings.Timer = timer
	env.settings = settings
	return nil
}

// overrides collects the duration flags the user actually set.
func (env *environment) overrides(cmd *cobra.Command) model.SettingsUpdate {
	var update model.SettingsUpdate
	flags := cmd.Flags()
	if flags.Changed("work") {
		update.WorkDuration = model.Int(env.options.work)
	}
	if flags.Changed("short") {
		update.ShortBreakDuration = model.Int(env.options.short)
	}
	if flags.Changed("long") {
		update.LongBreakDuration = model.Int(env.options.long)
	}
	if flags.Changed("cycles") {
		update.CyclesUntilLongBreak = model.Int(env.options.cycles)
	}
	return update
}

func (env *environment) close() {
	if env.logCloser != nil {
		_ = env.logCloser.Close()
	}
}

func (env *environment) newKeeper() (*timekeeper.TimeKeeper, error) {
	keeper, err := timekeeper.New(env.settings.Timer, timekeeper.Config{})
	if err != nil {
		return nil, fmt.Errorf("create timer: %w", err)
	}
	return keeper, nil
}

func (env *environment) historyPath() (string, error) {
	if env.options.dbPath != "" {
		return env.options.dbPath, nil
	}
	dataDir, err := env.service.GetDataDir()
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return filepath.Join(dataDir, appName, historyDBName), nil
}

// openHistory opens the history store. A store that cannot be opened is
// logged and reported as nil so the timer still runs.
func (env *environment) openHistory() *history.Store {
	path, err := env.historyPath()
	if err != nil {
		env.logger.Warn().Err(err).Msg("history disabled")
		return nil
	}
	store, err := history.Open(path)
	if err != nil {
		env.logger.Warn().Err(err).Str("path", path).Msg("history disabled")
		return nil
	}
	return store
}

func (env *environment) saveSettings(settings preferences.Settings) error {
	if err := storage.SaveSettings(env.settingsPath, settings); err != nil {
		return err
	}
	env.settings = settings
	return nil
}
