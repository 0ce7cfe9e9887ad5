// Package logging configures the zerolog logger shared by every front end.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileName   = "focustimer.log"
	logMaxSizeMB  = 5
	logMaxBackups = 3
	logMaxAgeDays = 14
)

// Options selects level and sinks.
type Options struct {
	Verbose bool
	Quiet   bool
	// LogDir enables a rotating log file when non-empty.
	LogDir string
	// Console overrides the console sink; nil picks stderr.
	Console io.Writer
}

var globalMu sync.Mutex

// New builds the logger and installs it as the zerolog global logger.
// The returned closer releases the log file; it is never nil. A log file
// that cannot be created is reported as an error alongside a usable
// console-only logger.
func New(options Options) (zerolog.Logger, io.Closer, error) {
	console := options.Console
	if console == nil {
		console = selectOutput()
	}

	var (
		writer  io.Writer = console
		closer  io.Closer = nopCloser{}
		fileErr error
	)
	if options.LogDir != "" {
		fileWriter, err := createLogFileWriter(options.LogDir)
		if err != nil {
			fileErr = err
		} else {
			writer = zerolog.MultiLevelWriter(console, fileWriter)
			closer = fileWriter
		}
	}

	logger := zerolog.New(writer).
		Level(SelectLevel(options.Verbose, options.Quiet)).
		With().Timestamp().Logger()

	globalMu.Lock()
	log.Logger = logger
	globalMu.Unlock()

	return logger, closer, fileErr
}

// SelectLevel maps the verbosity flags to a level. Verbose wins over quiet.
func SelectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

func createLogFileWriter(logDir string) (io.WriteCloser, error) {
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
