package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
)

const serviceName = "barber-agenda"

// New monta o logger da aplicação: stdout sempre, arquivo rotacionado
// quando LOG_FILE estiver definido.
func New(cfg *config.Config) *slog.Logger {
	writers := []io.Writer{os.Stdout}

	if cfg.Log.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   true,
		})
	}

	return NewWithWriter(io.MultiWriter(writers...), cfg)
}

func NewWithWriter(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Log.Level),
		AddSource: cfg.IsDevelopment(),
	}

	var h slog.Handler
	if strings.EqualFold(cfg.Log.Format, "text") && cfg.IsDevelopment() {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h).With(
		slog.String("service", serviceName),
		slog.String("env", cfg.AppEnv),
	)
}

// Discard é usado em testes e em componentes sem logger configurado.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
