// Package cli holds the configuration and logging state shared by the
// lc3unit commands.
package cli

import (
	"io"
	"log/slog"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu/interpreter"
	"github.com/Manu343726/lc3unit/pkg/logging"
	"github.com/Manu343726/lc3unit/pkg/unittest"
	"github.com/fatih/color"
	"github.com/spf13/viper"
)

// Configuration keys
const (
	KeyLogLevel      = "log_level"
	KeyLogFile       = "log_file"
	KeyColor         = "color"
	KeyMaxExecutions = "max_executions"
)

var (
	logger = logging.Discard()
	closer io.Closer
)

func init() {
	defaults := unittest.DefaultOptions()

	viper.SetDefault(KeyLogLevel, "warn")
	viper.SetDefault(KeyColor, true)
	viper.SetDefault(KeyMaxExecutions, defaults.MaxExecutions)
	viper.SetDefault("call.r5", defaults.Call.R5)
	viper.SetDefault("call.r6", defaults.Call.R6)
	viper.SetDefault("call.r7", defaults.Call.R7)
}

// Setup builds the logger and the color settings from the configuration
func Setup() error {
	l, c, err := logging.Open(viper.GetString(KeyLogLevel), viper.GetString(KeyLogFile))
	if err != nil {
		return err
	}

	logger, closer = l, c

	if !viper.GetBool(KeyColor) {
		color.NoColor = true
	}

	return nil
}

// Close releases the log file, if any
func Close() {
	if closer != nil {
		closer.Close()
	}
}

func Logger() *slog.Logger {
	return logger
}

// Options returns the harness options from the configuration
func Options() (unittest.Options, error) {
	var options unittest.Options
	err := viper.Unmarshal(&options)
	return options, err
}

// Formatter returns a trace formatter honoring the color settings
func Formatter() *interpreter.TraceFormatter {
	style := interpreter.StyleColored
	if color.NoColor {
		style = interpreter.StylePlain
	}

	return interpreter.NewTraceFormatter(interpreter.OutputConfig{Style: style})
}
