package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// ErrNoRequestID indica que el contexto no lleva ID de petición.
var ErrNoRequestID = errors.New("no request id in context")

// NewRequestIDMiddleware asigna un ID único a cada petición.
// Si el cliente envía X-Request-ID se respeta; si no, se genera un UUID.
// El ID se propaga en el contexto y en el encabezado de respuesta.
func NewRequestIDMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set("X-Request-ID", id)
			ctx := context.WithValue(r.Context(), requestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext extrae el ID de petición del contexto.
func RequestIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(requestIDKey).(string)
	if !ok || id == "" {
		return "", ErrNoRequestID
	}
	return id, nil
}
