package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/condo360/nfc-access/internal/metrics"
	"github.com/condo360/nfc-access/internal/middleware"
)

// HealthChecker verifica la disponibilidad del almacén.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps agrupa las dependencias del router.
type RouterDeps struct {
	Logger            *slog.Logger
	HealthChecker     HealthChecker
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// Métricas. Gatherer alimenta /metrics; HTTPMetrics puede ser nil.
	Gatherer    prometheus.Gatherer
	HTTPMetrics middleware.HTTPMetrics

	CardService   CardServiceInterface
	AccessService AccessServiceInterface

	HistoryLimits HistoryLimits
}

// NewRouter construye el router con todos los endpoints y la cadena de
// middlewares.
//
// Orden de la cadena: Recovery → RequestID → SecurityHeaders → CORS →
// Metrics → Logging. /health y /metrics quedan fuera del límite de tasa; el
// resto pasa por el límite general y POST /cards/register además por el
// límite de registro.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	cardHandler := NewCardHandler(deps.CardService)
	accessHandler := NewAccessHandler(deps.AccessService, deps.HistoryLimits)

	// --- Rutas operativas, sin límite de tasa ---

	r.Get("/health", healthHandler(deps.HealthChecker))
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- API ---

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/cards", func(r chi.Router) {
			// El registro lleva un límite de tasa propio, más estricto.
			r.With(deps.RateLimiter.RegisterMiddleware()).Post("/register", cardHandler.Register)

			r.Get("/search", cardHandler.Search)
			r.Get("/owner/{card_uid}", cardHandler.GetOwner)
			r.Put("/deactivate/{card_uid}", cardHandler.Deactivate)
			r.Get("/{wp_user_id}", cardHandler.GetByUserID)
		})

		r.Route("/access", func(r chi.Router) {
			r.Post("/log", accessHandler.Log)
			r.Get("/logs/{wp_user_id}", accessHandler.History)
			r.Get("/stats/{wp_user_id}", accessHandler.Stats)
			r.Get("/last/{card_uid}", accessHandler.Last)
			r.Get("/today-summary", accessHandler.TodaySummary)
		})
	})

	return r
}

// healthHandler responde el estado del servicio verificando el almacén.
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "Base de datos no disponible")
				return
			}
		}
		writeMessage(w, http.StatusOK, "API de control de acceso funcionando correctamente")
	}
}
