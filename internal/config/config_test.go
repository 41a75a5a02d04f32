package config

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "wpuser:secret@tcp(localhost:3306)/wordpress")
}

func TestLoad_WithAllRequired_Succeeds(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.DatabaseDSN != "wpuser:secret@tcp(localhost:3306)/wordpress" {
		t.Errorf("DatabaseDSN = %q", cfg.DatabaseDSN)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TIMEZONE", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGIN", "")
	t.Setenv("RATE_LIMIT_GENERAL", "")
	t.Setenv("RATE_LIMIT_REGISTER", "")
	t.Setenv("HISTORY_DEFAULT_LIMIT", "")
	t.Setenv("HISTORY_MAX_LIMIT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Timezone != "America/Caracas" {
		t.Errorf("Timezone = %q, want America/Caracas", cfg.Timezone)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.CORSAllowedOrigin != "*" {
		t.Errorf("CORSAllowedOrigin = %q, want *", cfg.CORSAllowedOrigin)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want 120", cfg.RateLimitGeneral)
	}
	if cfg.RateLimitRegister != 10 {
		t.Errorf("RateLimitRegister = %d, want 10", cfg.RateLimitRegister)
	}
	if cfg.HistoryDefaultLimit != 50 {
		t.Errorf("HistoryDefaultLimit = %d, want 50", cfg.HistoryDefaultLimit)
	}
	if cfg.HistoryMaxLimit != 200 {
		t.Errorf("HistoryMaxLimit = %d, want 200", cfg.HistoryMaxLimit)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TIMEZONE", "America/Bogota")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT_GENERAL", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Timezone != "America/Bogota" {
		t.Errorf("Timezone = %q, want America/Bogota", cfg.Timezone)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.RateLimitGeneral != 60 {
		t.Errorf("RateLimitGeneral = %d, want 60", cfg.RateLimitGeneral)
	}
}

func TestLoad_MissingDSN_ReturnsError(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing DATABASE_DSN, got nil")
	}
	if !strings.Contains(err.Error(), "DATABASE_DSN") {
		t.Errorf("error %q should mention DATABASE_DSN", err.Error())
	}
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RATE_LIMIT_GENERAL", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want default 120", cfg.RateLimitGeneral)
	}
}
