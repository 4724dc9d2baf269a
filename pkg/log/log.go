package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a logger writing to w. Format "json" writes JSON lines, any
// other format a human readable console output. Unknown levels fall back to
// info.
func New(w io.Writer, level, format string) *zerolog.Logger {
	w = zerolog.SyncWriter(w)

	var output io.Writer
	if format == "json" || os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		output = w
	} else {
		output = zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02T15:04:05.999Z07:00"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(output).Level(lvl).With().Timestamp().Logger()
	return &logger
}
