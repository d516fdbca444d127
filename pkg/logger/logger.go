package logger

import (
	"io"
	"log/slog"
	"os"
)

// Init installe le logger par défaut : texte + debug en local, JSON + info ailleurs.
func Init(env string) *slog.Logger {
	l := New(env, os.Stdout)
	slog.SetDefault(l)
	return l
}

func New(env string, w io.Writer) *slog.Logger {
	var handler slog.Handler
	if env == "local" {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(handler)
}
