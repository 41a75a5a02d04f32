// Package metrics recolecta y expone métricas Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector recolecta las métricas de la API y del dominio.
type Collector struct {
	cardsRegistered prometheus.Counter
	accessEvents    *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
	httpDuration    prometheus.Histogram
}

// NewCollector crea un Collector y registra sus métricas en reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		cardsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "condo360_cards_registered_total",
			Help: "Total de tarjetas NFC registradas",
		}),
		accessEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condo360_access_events_total",
			Help: "Total de eventos de acceso registrados, por tipo",
		}, []string{"access_type"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condo360_http_status_total",
			Help: "Respuestas HTTP por código de estado",
		}, []string{"status_code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "condo360_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP en segundos",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.cardsRegistered,
		c.accessEvents,
		c.httpStatus,
		c.httpDuration,
	)

	return c
}

// RecordCardRegistered cuenta un registro de tarjeta exitoso.
func (c *Collector) RecordCardRegistered() {
	c.cardsRegistered.Inc()
}

// RecordAccessEvent cuenta un evento de acceso por tipo.
func (c *Collector) RecordAccessEvent(accessType string) {
	c.accessEvents.WithLabelValues(accessType).Inc()
}

// RecordHTTPStatus cuenta una respuesta por código de estado.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPDuration registra la duración de una petición.
func (c *Collector) RecordHTTPDuration(duration time.Duration) {
	c.httpDuration.Observe(duration.Seconds())
}

// Handler devuelve el handler HTTP para el scrape de Prometheus.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
