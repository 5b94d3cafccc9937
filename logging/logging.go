// Package logging provides the harness diagnostics. Failed assertions
// and recoverable errors are reported here; the critical tier is
// reserved for a misconfigured test environment and terminates the
// process, since the harness cannot produce a meaningful result past
// that point.
package logging

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the shared harness logger. Output goes to stderr so guest
// output on stdout stays machine-readable.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

var exit = os.Exit

// SetExit swaps the process-exit hook and returns a restore func. Only
// tests exercising critical paths should need it.
func SetExit(f func(code int)) (restore func()) {
	prev := exit
	exit = f
	return func() { exit = prev }
}

func Debug(format string, args ...any) {
	Logger.Debug().Msgf(format, args...)
}

func Info(format string, args ...any) {
	Logger.Info().Msgf(format, args...)
}

func Warn(format string, args ...any) {
	Logger.Warn().Msgf(format, args...)
}

func Error(format string, args ...any) {
	Logger.Error().Msgf(format, args...)
}

// Critical reports a fatal misconfiguration and terminates the process
// with a non-zero code.
func Critical(format string, args ...any) {
	Logger.WithLevel(zerolog.FatalLevel).Msg(fmt.Sprintf(format, args...))
	exit(1)
}

// Log dispatches a guest log call. Levels follow the guest convention:
// 0 critical, 1 error, 2 warning, 3 info, anything else debug.
func Log(level uint32, msg string) {
	switch level {
	case 0:
		Critical("%s", msg)
	case 1:
		Error("%s", msg)
	case 2:
		Warn("%s", msg)
	case 3:
		Info("%s", msg)
	default:
		Debug("%s", msg)
	}
}
