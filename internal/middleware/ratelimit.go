package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig es la configuración de los límites de tasa.
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // API general (req/seg por IP)
	GeneralBurst    int           // ráfaga de la API general
	RegisterRate    rate.Limit    // registro de tarjetas (req/seg por IP)
	RegisterBurst   int           // ráfaga del registro
	CleanupInterval time.Duration // intervalo de limpieza de entradas viejas
}

// RateLimiterConfigFromPerMinute construye la configuración a partir de
// límites expresados en peticiones por minuto.
func RateLimiterConfigFromPerMinute(general, register int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(float64(general) / 60.0),
		GeneralBurst:    general,
		RegisterRate:    rate.Limit(float64(register) / 60.0),
		RegisterBurst:   register,
		CleanupInterval: 5 * time.Minute,
	}
}

// clientLimiter guarda el limitador y el último acceso de una IP.
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter aplica límites de tasa por IP de cliente. La API no tiene
// autenticación, así que la IP es la única identidad disponible. Hay dos
// clases: general y registro de tarjetas.
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.Mutex
	generalLimiters map[string]*clientLimiter

	registerMu       sync.Mutex
	registerLimiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewRateLimiter crea un RateLimiter y arranca la limpieza en segundo plano.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:           config,
		generalLimiters:  make(map[string]*clientLimiter),
		registerLimiters: make(map[string]*clientLimiter),
		stopCh:           make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop detiene la goroutine de limpieza.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware aplica el límite general por IP.
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(&rl.generalMu, rl.generalLimiters, rl.config.GeneralRate, rl.config.GeneralBurst)
}

// RegisterMiddleware aplica el límite del registro de tarjetas por IP.
func (rl *RateLimiter) RegisterMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(&rl.registerMu, rl.registerLimiters, rl.config.RegisterRate, rl.config.RegisterBurst)
}

func (rl *RateLimiter) middleware(mu *sync.Mutex, limiters map[string]*clientLimiter, r rate.Limit, burst int) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ip := clientIP(req)

			mu.Lock()
			cl, ok := limiters[ip]
			if !ok {
				cl = &clientLimiter{limiter: rate.NewLimiter(r, burst)}
				limiters[ip] = cl
			}
			cl.lastAccess = time.Now()
			mu.Unlock()

			if !cl.limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"message": "Demasiadas solicitudes, intente de nuevo más tarde",
				})
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}

// cleanupLoop elimina periódicamente los limitadores de IPs inactivas.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * rl.config.CleanupInterval)
			rl.cleanup(&rl.generalMu, rl.generalLimiters, cutoff)
			rl.cleanup(&rl.registerMu, rl.registerLimiters, cutoff)
		}
	}
}

func (rl *RateLimiter) cleanup(mu *sync.Mutex, limiters map[string]*clientLimiter, cutoff time.Time) {
	mu.Lock()
	defer mu.Unlock()
	for ip, cl := range limiters {
		if cl.lastAccess.Before(cutoff) {
			delete(limiters, ip)
		}
	}
}

// clientIP extrae la IP del cliente de la petición.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
