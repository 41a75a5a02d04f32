package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/condo360/nfc-access/internal/model"
)

// withURLParam inyecta un parámetro de ruta de chi en la petición.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// envelope es el sobre de respuesta decodificado en las pruebas.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response envelope: %v\nraw: %s", err, w.Body.String())
	}
	return env
}

func TestWriteSuccess_SerializesNullData(t *testing.T) {
	w := httptest.NewRecorder()
	writeSuccess(w, http.StatusOK, "sin datos", nil)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	data, ok := raw["data"]
	if !ok {
		t.Fatal("expected data field to be present even when nil")
	}
	if string(data) != "null" {
		t.Errorf("data = %s, want null", data)
	}
}

func TestWriteMessage_OmitsData(t *testing.T) {
	w := httptest.NewRecorder()
	writeMessage(w, http.StatusOK, "hecho")

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := raw["data"]; ok {
		t.Error("message response should not carry a data field")
	}
}

func TestWriteError_SetsSuccessFalse(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, http.StatusBadRequest, "algo salió mal")

	env := decodeEnvelope(t, w)
	if env.Success {
		t.Error("expected success = false")
	}
	if env.Message != "algo salió mal" {
		t.Errorf("message = %q", env.Message)
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleServiceError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()
	handleServiceError(w, model.NewInvalidAccessTypeError())

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Message != `Tipo de acceso debe ser "ingreso" o "salida"` {
		t.Errorf("message = %q", env.Message)
	}
}

// Los errores internos nunca exponen el detalle al cliente.
func TestHandleServiceError_InternalErrorIsOpaque(t *testing.T) {
	w := httptest.NewRecorder()
	handleServiceError(w, errors.New("dial tcp: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Message != "Error interno del servidor" {
		t.Errorf("message = %q, want generic internal error", env.Message)
	}
}

func TestMapAPIErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{model.ErrCodeUserNotFound, http.StatusBadRequest},
		{model.ErrCodeCardNotFound, http.StatusBadRequest},
		{model.ErrCodeCardInactive, http.StatusBadRequest},
		{model.ErrCodeCardAlreadyRegistered, http.StatusBadRequest},
		{model.ErrCodeInvalidAccessType, http.StatusBadRequest},
		{model.ErrCodeInvalidSearchTerm, http.StatusBadRequest},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		got := mapAPIErrorToHTTPStatus(&model.APIError{Code: tt.code})
		if got != tt.want {
			t.Errorf("mapAPIErrorToHTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
