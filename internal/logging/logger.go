package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nconklindev/barcoder/internal/config"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New builds a logger writing to out. Console output is human readable;
// "json" gives one JSON object per line.
func New(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil {
			level = parsed
		}
	}

	if strings.ToLower(cfg.Format) != "json" {
		out = zerolog.ConsoleWriter{Out: out, NoColor: !isTerminal(out)}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// NewFile logs to cfg.File, appending. The terminal UI uses this so log
// lines do not draw over the screen. An empty path disables logging.
func NewFile(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	if cfg.File == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file %s: %w", cfg.File, err)
	}
	return New(cfg, f), f, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
