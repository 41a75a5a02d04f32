package middleware

import (
	"net/http"
	"time"
)

// HTTPMetrics son los registradores de métricas HTTP que alimenta el middleware.
type HTTPMetrics interface {
	RecordHTTPStatus(statusCode int)
	RecordHTTPDuration(duration time.Duration)
}

// NewMetricsMiddleware registra el código de estado y la duración de cada
// petición en el recolector.
func NewMetricsMiddleware(m HTTPMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			m.RecordHTTPStatus(rec.statusCode)
			m.RecordHTTPDuration(time.Since(start))
		})
	}
}
