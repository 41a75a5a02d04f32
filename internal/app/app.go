package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/condo360/nfc-access/internal/access"
	"github.com/condo360/nfc-access/internal/card"
	"github.com/condo360/nfc-access/internal/config"
	"github.com/condo360/nfc-access/internal/database"
	"github.com/condo360/nfc-access/internal/handler"
	"github.com/condo360/nfc-access/internal/logger"
	"github.com/condo360/nfc-access/internal/metrics"
	"github.com/condo360/nfc-access/internal/middleware"
	"github.com/condo360/nfc-access/internal/repository"
	"github.com/condo360/nfc-access/internal/timezone"
)

// Init inicializa la aplicación: configura el log estructurado JSON y carga
// la configuración desde variables de entorno. Si se indica un writer se usa
// como destino del log.
func Init(w io.Writer) (*config.Config, error) {
	// El log se configura antes de leer la configuración para poder
	// registrar fallos de carga.
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run es el punto de entrada principal de la aplicación. Interpreta el
// subcomando y arranca el modo correspondiente. args recibe os.Args[1:].
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck es un subcomando ligero, no necesita inicialización completa
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("timezone", cfg.Timezone),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe arranca el modo servidor de la API. Abre la conexión a la base de
// datos, arma todas las dependencias y levanta el servidor HTTP. Al recibir
// SIGINT o SIGTERM hace un apagado ordenado.
func runServe(cfg *config.Config) error {
	// 1. Conexión a la base de datos
	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. Repositorios
	userRepo := repository.NewMySQLUserRepo(db)
	cardRepo := repository.NewMySQLCardRepo(db)
	accessRepo := repository.NewMySQLAccessLogRepo(db)

	// 3. Zona horaria civil del condominio
	tz := timezone.New(cfg.Timezone)

	// 4. Métricas
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. Servicios de dominio
	cardService := card.NewService(userRepo, cardRepo, tz, collector)
	accessService := access.NewService(userRepo, cardRepo, accessRepo, tz, collector)

	// 6. Router
	rateLimiter := middleware.NewRateLimiter(
		middleware.RateLimiterConfigFromPerMinute(cfg.RateLimitGeneral, cfg.RateLimitRegister),
	)
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		Logger:            slog.Default(),
		HealthChecker:     db,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,

		Gatherer:    registry,
		HTTPMetrics: collector,

		CardService:   cardService,
		AccessService: accessService,

		HistoryLimits: handler.HistoryLimits{
			Default: cfg.HistoryDefaultLimit,
			Max:     cfg.HistoryMaxLimit,
		},
	}

	router := handler.NewRouter(deps)

	// 7. Servidor HTTP
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Señales para el apagado ordenado
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate aplica las migraciones pendientes de la base de datos en orden.
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("dsn", maskDSN(cfg.DatabaseDSN)),
	)

	if err := database.RunMigrations(cfg.DatabaseDSN); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck consulta el endpoint /health del servidor local y devuelve
// error si no responde 200.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDSN oculta las credenciales del DSN antes de escribirlo en el log.
func maskDSN(dsn string) string {
	if len(dsn) > 20 {
		return dsn[:4] + "***@..."
	}
	return "***"
}
