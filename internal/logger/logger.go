// Package logger builds the process-wide zerolog logger.
//
// Request handlers should not use it directly: the HTTP middleware stores a
// child logger tagged with the request ID in the request context, which is
// reachable through hlog.FromRequest or zerolog.Ctx.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rogerio-castellano/bakery-api/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a logger writing JSON to stdout, or colored console output when
// cfg.Pretty is set. Unknown levels fall back to info.
func New(cfg config.LogConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "bakery-api").Logger()
}

// Init builds the logger and installs it as the zerolog global and as the
// fallback for zerolog.Ctx on contexts without a logger.
func Init(cfg config.LogConfig) zerolog.Logger {
	l := New(cfg)
	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}
