// Package logger configura la salida de logs estructurados en JSON.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup crea un slog.Logger con salida JSON estructurada en el nivel indicado.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// SetupDefault instala un logger JSON como logger global del proceso.
// Si w es nil se usa os.Stdout. El nivel se toma de la variable de entorno
// LOG_LEVEL (debug|info|warn|error, por defecto info).
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	slog.SetDefault(Setup(w, levelFromEnv()))
}

func levelFromEnv() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
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
