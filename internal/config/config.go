// Package config carga la configuración de la aplicación desde variables de entorno.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config contiene la configuración global de la aplicación.
// Se carga una sola vez al arranque y se trata como inmutable.
type Config struct {
	// Database
	DatabaseDSN string

	// Zona horaria civil para todas las marcas de tiempo (escritura y lectura).
	Timezone string

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string

	// Rate limit (peticiones por minuto por IP)
	RateLimitGeneral  int
	RateLimitRegister int

	// Paginación del historial
	HistoryDefaultLimit int
	HistoryMaxLimit     int
}

// Load lee la configuración desde variables de entorno.
// Devuelve error si alguna variable obligatoria no está definida.
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.DatabaseDSN = os.Getenv("DATABASE_DSN")
	if cfg.DatabaseDSN == "" {
		missing = append(missing, "DATABASE_DSN")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Opcionales con valores por defecto
	cfg.Timezone = getEnvString("TIMEZONE", "America/Caracas")
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitRegister = getEnvInt("RATE_LIMIT_REGISTER", 10)
	cfg.HistoryDefaultLimit = getEnvInt("HISTORY_DEFAULT_LIMIT", 50)
	cfg.HistoryMaxLimit = getEnvInt("HISTORY_MAX_LIMIT", 200)

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
