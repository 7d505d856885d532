// Package logging builds the structured loggers used by the harness, the
// reference machine and the command line tools.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

const (
	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError
)

// ParseLevel parses a level name, case insensitive.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("invalid level: %s", level)
	}
}

func replaceLevel(groups []string, attr slog.Attr) slog.Attr {
	if attr.Key == slog.LevelKey && len(groups) == 0 {
		if level, ok := attr.Value.Any().(slog.Level); ok && level == LevelTrace {
			attr.Value = slog.StringValue("TRACE")
		}
	}

	return attr
}

// Config describes where logs go.
type Config struct {
	Level slog.Level
	// Console receives human readable logs. Nil disables console logging.
	Console io.Writer
	// File receives JSON logs. Nil disables file logging.
	File io.Writer
}

// New returns a logger fanning records out to every configured sink.
func New(config Config) *slog.Logger {
	options := &slog.HandlerOptions{
		Level:       config.Level,
		ReplaceAttr: replaceLevel,
	}

	var handlers []slog.Handler

	if config.Console != nil {
		handlers = append(handlers, slog.NewTextHandler(config.Console, options))
	}

	if config.File != nil {
		handlers = append(handlers, slog.NewJSONHandler(config.File, options))
	}

	if len(handlers) == 0 {
		return Discard()
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// Open creates a logger writing to stderr and, if path is not empty, to a JSON
// log file. The returned closer releases the file.
func Open(level string, path string) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	config := Config{
		Level:   lvl,
		Console: os.Stderr,
	}

	var closer io.Closer = nopCloser{}

	if path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file %q: %w", path, err)
		}

		config.File = file
		closer = file
	}

	return New(config), closer, nil
}

// Discard returns a logger dropping every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
