package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the rotating log file written inside the log directory.
const LogFileName = "grievance-analytics.log"

// Options configures the logger sinks.
type Options struct {
	Verbose bool
	LogDir  string
	Console io.Writer // defaults to os.Stderr
}

// Init initializes the global logger with dual sinks: stderr and a rotating file.
// stdout is never written to because the MCP transport owns it.
func Init(verbose bool) {
	// LOGS_FOLDER may live in the binary's .env; Init runs before config.Load.
	exePath, exeErr := os.Executable()
	if exeErr == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		if exeErr == nil {
			logDir = filepath.Join(filepath.Dir(exePath), "logs")
		} else {
			logDir = "logs"
		}
	}

	logger, err := New(Options{Verbose: verbose, LogDir: logDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Logger = logger
}

// New builds a logger writing to the console and to LogDir/LogFileName.
func New(opts Options) (zerolog.Logger, error) {
	// 1. Level
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	// 2. Console
	console := opts.Console
	noColor := true
	if console == nil {
		console = os.Stderr
		noColor = !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}

	// 3. Rotating file
	if err := os.MkdirAll(opts.LogDir, 0755); err != nil {
		return zerolog.Logger{}, fmt.Errorf("failed to create log directory %q: %w", opts.LogDir, err)
	}
	testFile := filepath.Join(opts.LogDir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return zerolog.Logger{}, fmt.Errorf("log directory %q is not writable: %w", opts.LogDir, err)
	}
	_ = os.Remove(testFile)

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(opts.LogDir, LogFileName),
		MaxSize:    16, // megabytes
		MaxBackups: 16,
		MaxAge:     90, // days
		Compress:   true,
	}

	multi := zerolog.MultiLevelWriter(io.Writer(consoleWriter), fileWriter)
	return zerolog.New(multi).With().Timestamp().Logger(), nil
}
