package internal

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// SetupLogger builds the CLI logger. Debug mode switches to a human readable console writer.
func SetupLogger(out io.Writer, debug bool) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if debug {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Caller().Logger()
	}
	return logger
}
