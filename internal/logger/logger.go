package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the process-wide logger. Init replaces it; callers may also pull
// it from a context via zerolog.Ctx.
var Logger = log.Logger

type Config struct {
	Level      string `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"` // json or pretty
	TimeFormat string `json:"time_format" yaml:"time_format"`
}

// Init configures the global logger writing to w. The TUI passes a log file
// (or io.Discard) so output never lands on the alternate screen; CLI
// commands pass stderr.
func Init(cfg Config, w io.Writer) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	out := w
	if cfg.Format == "pretty" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = Logger
}

// InitDiscard silences logging entirely (TUI without a configured log file).
func InitDiscard() {
	Logger = zerolog.New(io.Discard)
	log.Logger = Logger
}

// OpenLogFile opens (appending) the configured log file, creating it when
// missing. An empty path returns nil with no error.
func OpenLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
