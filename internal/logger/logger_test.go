package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestSetup_ReturnsJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, slog.LevelInfo)

	if l == nil {
		t.Fatal("expected non-nil logger")
	}

	l.Info("acceso registrado", slog.String("card_uid", "04A1B2C3"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("la salida no es JSON válido: %v\nsalida: %s", err, buf.String())
	}

	if entry["msg"] != "acceso registrado" {
		t.Errorf("msg = %q, want %q", entry["msg"], "acceso registrado")
	}
	if entry["card_uid"] != "04A1B2C3" {
		t.Errorf("card_uid = %q, want %q", entry["card_uid"], "04A1B2C3")
	}
	if _, ok := entry["time"]; !ok {
		t.Error("falta el campo 'time' en la salida JSON")
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %q, want %q", entry["level"], "INFO")
	}
}

func TestSetup_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, slog.LevelWarn)

	l.Info("no debería salir")
	if buf.Len() != 0 {
		t.Errorf("un mensaje bajo el nivel configurado fue emitido: %s", buf.String())
	}

	l.Warn("sí debería salir")
	if buf.Len() == 0 {
		t.Error("un mensaje en el nivel configurado no fue emitido")
	}
}

func TestSetupDefault_SetsGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	SetupDefault(&buf)

	slog.Default().Info("prueba global", slog.Int("wp_user_id", 42))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("la salida no es JSON válido: %v\nsalida: %s", err, buf.String())
	}

	if entry["msg"] != "prueba global" {
		t.Errorf("msg = %q, want %q", entry["msg"], "prueba global")
	}
	if entry["wp_user_id"] != float64(42) {
		t.Errorf("wp_user_id = %v, want %v", entry["wp_user_id"], 42)
	}
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		env  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("LOG_LEVEL="+tt.env, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.env)
			if got := levelFromEnv(); got != tt.want {
				t.Errorf("levelFromEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}
