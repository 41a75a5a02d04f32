// Package handler expone la API HTTP del sistema de acceso.
//
// Toda respuesta usa el sobre {success, message, data}: los errores llevan
// success=false y solo el mensaje; los resultados vacíos esperados (usuario
// sin tarjetas, sin accesos previos) son éxitos con colección vacía o data
// null, nunca errores.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/condo360/nfc-access/internal/model"
)

// successResponse es el sobre de éxito con datos. Data se serializa siempre,
// incluso cuando es null (último acceso inexistente).
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// messageResponse es el sobre de éxito sin datos.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorResponse es el sobre de error.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// writeSuccess escribe una respuesta de éxito con datos.
func writeSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	writeJSON(w, statusCode, successResponse{Success: true, Message: message, Data: data})
}

// writeMessage escribe una respuesta de éxito sin datos.
func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, messageResponse{Success: true, Message: message})
}

// writeError escribe una respuesta de error.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Success: false, Message: message})
}

// handleServiceError traduce un error de la capa de servicio a HTTP.
//
// Los APIError de dominio se responden con su mensaje y el estado del mapa;
// cualquier otro error es un fallo del almacén y se responde 500 sin exponer
// el detalle.
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeError(w, mapAPIErrorToHTTPStatus(apiErr), apiErr.Message)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "Error interno del servidor")
}

// mapAPIErrorToHTTPStatus asigna el estado HTTP de cada código de dominio.
// La ausencia de tarjeta en operaciones compuestas (registrar acceso,
// desactivar) es un error de entrada del cliente, 400; la búsqueda directa de
// propietario la trata como 404 en su propio handler.
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUserNotFound,
		model.ErrCodeCardAlreadyRegistered,
		model.ErrCodeCardNotFound,
		model.ErrCodeCardInactive,
		model.ErrCodeInvalidAccessType,
		model.ErrCodeInvalidSearchTerm:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
