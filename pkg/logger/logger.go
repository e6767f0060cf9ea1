package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how verbosely the bot logs.
type Config struct {
	Level      string    // debug, info, warn, error
	OutputFile string    // empty: console only
	MaxSize    int       // MB per file before rotation
	MaxBackups int       // rotated files kept
	MaxAge     int       // days; 0 keeps files forever
	Compress   bool      // gzip rotated files
	Console    io.Writer // defaults to os.Stdout
}

// DefaultConfig mirrors the rotating file handler the bot has always used:
// logs/trading_bot.log, 5 MB per file, two backups.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		OutputFile: "logs/trading_bot.log",
		MaxSize:    5,
		MaxBackups: 2,
	}
}

const timestampFormat = "06-01-02 15:04:05"

// New builds a logger writing to the console and, when configured, to a
// rotated file. Nothing global is touched; callers pass the result down.
func New(config Config) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
	})

	console := config.Console
	if console == nil {
		console = os.Stdout
	}
	writers := []io.Writer{console}

	if config.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(config.OutputFile), 0o755); err != nil {
			return nil, err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.OutputFile,
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}

	logger.SetOutput(io.MultiWriter(writers...))
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
