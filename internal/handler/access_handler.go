package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/condo360/nfc-access/internal/access"
	"github.com/condo360/nfc-access/internal/model"
)

// AccessServiceInterface es el contrato del servicio que necesita el handler
// del libro de accesos.
type AccessServiceInterface interface {
	// LogAccess registra un ingreso o una salida.
	LogAccess(ctx context.Context, cardUID, accessType, guardUser string) (*access.Event, error)
	// History devuelve el historial paginado del usuario.
	History(ctx context.Context, wpUserID int64, opts access.HistoryOptions) (*access.HistoryPage, error)
	// Stats devuelve las estadísticas del usuario para el período.
	Stats(ctx context.Context, wpUserID int64, period string) (*access.StatsResult, error)
	// Last devuelve el acceso más reciente de la tarjeta, o nil.
	Last(ctx context.Context, cardUID string) (*access.LastAccess, error)
	// Today devuelve el resumen global del día.
	Today(ctx context.Context) (*access.TodaySummary, error)
}

// HistoryLimits acota la paginación del historial.
type HistoryLimits struct {
	Default int
	Max     int
}

// AccessHandler es el handler HTTP del libro de accesos.
type AccessHandler struct {
	service AccessServiceInterface
	limits  HistoryLimits
}

// NewAccessHandler crea un AccessHandler.
func NewAccessHandler(service AccessServiceInterface, limits HistoryLimits) *AccessHandler {
	if limits.Default <= 0 {
		limits.Default = access.DefaultLimit
	}
	if limits.Max <= 0 {
		limits.Max = access.MaxLimit
	}
	return &AccessHandler{service: service, limits: limits}
}

// logAccessRequest es el cuerpo de POST /access/log.
type logAccessRequest struct {
	CardUID    string `json:"card_uid"`
	AccessType string `json:"access_type"`
	GuardUser  string `json:"guard_user"`
}

// accessEventResponse es la vista del evento recién registrado. El timestamp
// va en formato de presentación DD/MM/YYYY hh:mm AM/PM.
type accessEventResponse struct {
	ID         int64  `json:"id"`
	CardUID    string `json:"card_uid"`
	AccessType string `json:"access_type"`
	Timestamp  string `json:"timestamp"`
	GuardUser  string `json:"guard_user,omitempty"`
}

// historyLogResponse es la vista de un evento del historial.
type historyLogResponse struct {
	ID                 int64  `json:"id"`
	AccessType         string `json:"access_type"`
	Timestamp          string `json:"timestamp"`
	GuardUser          string `json:"guard_user,omitempty"`
	CreatedAt          string `json:"created_at"`
	CardUID            string `json:"card_uid"`
	CardLabel          string `json:"card_label,omitempty"`
	UserLogin          string `json:"user_login"`
	DisplayName        string `json:"display_name"`
	TimestampFormatted string `json:"timestamp_formatted"`
	AccessTypeSpanish  string `json:"access_type_spanish"`
}

// paginationResponse describe la página devuelta.
type paginationResponse struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// historyResponse es el cuerpo de datos de GET /access/logs/{wp_user_id}.
type historyResponse struct {
	Logs       []historyLogResponse `json:"logs"`
	Pagination paginationResponse   `json:"pagination"`
}

// totalsResponse es el acumulado por tipo de acceso.
type totalsResponse struct {
	Ingresos int `json:"ingresos"`
	Salidas  int `json:"salidas"`
	Total    int `json:"total"`
}

// dailyStatResponse es el conteo por tipo y fecha.
type dailyStatResponse struct {
	AccessType string `json:"access_type"`
	Count      int    `json:"count"`
	Date       string `json:"date"`
}

// statsResponse es el cuerpo de datos de GET /access/stats/{wp_user_id}.
type statsResponse struct {
	Period     string              `json:"period"`
	Totals     totalsResponse      `json:"totals"`
	DailyStats []dailyStatResponse `json:"daily_stats"`
}

// lastAccessResponse es la vista del último acceso de una tarjeta.
type lastAccessResponse struct {
	AccessType         string `json:"access_type"`
	Timestamp          string `json:"timestamp"`
	GuardUser          string `json:"guard_user,omitempty"`
	CardUID            string `json:"card_uid"`
	CardLabel          string `json:"card_label,omitempty"`
	TimestampFormatted string `json:"timestamp_formatted"`
	AccessTypeSpanish  string `json:"access_type_spanish"`
}

// summaryEntryResponse es el conteo del día de una tarjeta.
type summaryEntryResponse struct {
	CardUID   string `json:"card_uid"`
	UserName  string `json:"user_name"`
	UserLogin string `json:"user_login"`
	Count     int    `json:"count"`
}

// summaryResponse agrupa los accesos del día por tipo.
type summaryResponse struct {
	Ingresos      []summaryEntryResponse `json:"ingresos"`
	Salidas       []summaryEntryResponse `json:"salidas"`
	TotalIngresos int                    `json:"total_ingresos"`
	TotalSalidas  int                    `json:"total_salidas"`
}

// todaySummaryResponse es el cuerpo de datos de GET /access/today-summary.
type todaySummaryResponse struct {
	Date    string          `json:"date"`
	Summary summaryResponse `json:"summary"`
}

// Log registra un evento de acceso.
// POST /access/log
func (h *AccessHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req logAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	if req.CardUID == "" || req.AccessType == "" {
		writeError(w, http.StatusBadRequest, "Los campos card_uid y access_type son obligatorios")
		return
	}

	event, err := h.service.LogAccess(r.Context(), req.CardUID, req.AccessType, req.GuardUser)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	message := fmt.Sprintf("%s registrado exitosamente", model.AccessTypeLabel(event.AccessType))
	writeSuccess(w, http.StatusCreated, message, accessEventResponse{
		ID:         event.ID,
		CardUID:    event.CardUID,
		AccessType: event.AccessType,
		Timestamp:  event.Timestamp,
		GuardUser:  event.GuardUser,
	})
}

// History devuelve el historial paginado de un usuario.
// GET /access/logs/{wp_user_id}?limit&offset&start_date&end_date
func (h *AccessHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "wp_user_id"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "ID de usuario inválido")
		return
	}

	q := r.URL.Query()

	limit := h.limits.Default
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > h.limits.Max {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Límite debe estar entre 1 y %d", h.limits.Max))
			return
		}
	}

	offset := 0
	if v := q.Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, "Offset debe ser mayor o igual a 0")
			return
		}
	}

	page, err := h.service.History(r.Context(), userID, access.HistoryOptions{
		Limit:     limit,
		Offset:    offset,
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logs := make([]historyLogResponse, 0, len(page.Logs))
	for _, entry := range page.Logs {
		logs = append(logs, historyLogResponse{
			ID:                 entry.ID,
			AccessType:         entry.AccessType,
			Timestamp:          entry.Timestamp,
			GuardUser:          entry.GuardUser,
			CreatedAt:          entry.CreatedAt,
			CardUID:            entry.CardUID,
			CardLabel:          entry.CardLabel,
			UserLogin:          entry.UserLogin,
			DisplayName:        entry.DisplayName,
			TimestampFormatted: entry.TimestampFormatted,
			AccessTypeSpanish:  entry.AccessTypeSpanish,
		})
	}

	writeSuccess(w, http.StatusOK, page.Message, historyResponse{
		Logs: logs,
		Pagination: paginationResponse{
			Total:   page.Pagination.Total,
			Limit:   page.Pagination.Limit,
			Offset:  page.Pagination.Offset,
			HasMore: page.Pagination.HasMore,
		},
	})
}

// Stats devuelve las estadísticas de acceso de un usuario.
// GET /access/stats/{wp_user_id}?period
func (h *AccessHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "wp_user_id"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "ID de usuario inválido")
		return
	}

	// Un período desconocido se comporta como month; no se rechaza.
	result, err := h.service.Stats(r.Context(), userID, r.URL.Query().Get("period"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	stats := make([]dailyStatResponse, 0, len(result.DailyStats))
	for _, st := range result.DailyStats {
		stats = append(stats, dailyStatResponse{
			AccessType: st.AccessType,
			Count:      st.Count,
			Date:       st.Date,
		})
	}

	writeSuccess(w, http.StatusOK, "Estadísticas obtenidas exitosamente", statsResponse{
		Period: result.Period,
		Totals: totalsResponse{
			Ingresos: result.Totals.Ingresos,
			Salidas:  result.Totals.Salidas,
			Total:    result.Totals.Total,
		},
		DailyStats: stats,
	})
}

// Last devuelve el acceso más reciente de una tarjeta.
// GET /access/last/{card_uid}
func (h *AccessHandler) Last(w http.ResponseWriter, r *http.Request) {
	cardUID := chi.URLParam(r, "card_uid")
	if cardUID == "" {
		writeError(w, http.StatusBadRequest, "UID de tarjeta es obligatorio")
		return
	}

	last, err := h.service.Last(r.Context(), cardUID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if last == nil {
		// Sin accesos previos: éxito con data null.
		writeSuccess(w, http.StatusOK, "No se encontraron accesos previos", nil)
		return
	}

	writeSuccess(w, http.StatusOK, "Último acceso obtenido exitosamente", lastAccessResponse{
		AccessType:         last.AccessType,
		Timestamp:          last.Timestamp,
		GuardUser:          last.GuardUser,
		CardUID:            last.CardUID,
		CardLabel:          last.CardLabel,
		TimestampFormatted: last.TimestampFormatted,
		AccessTypeSpanish:  last.AccessTypeSpanish,
	})
}

// TodaySummary devuelve el resumen global de accesos del día.
// GET /access/today-summary
func (h *AccessHandler) TodaySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Today(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Resumen del día obtenido exitosamente", todaySummaryResponse{
		Date:    summary.Date,
		Summary: summaryResponse{
			Ingresos:      toSummaryEntries(summary.Summary.Ingresos),
			Salidas:       toSummaryEntries(summary.Summary.Salidas),
			TotalIngresos: summary.Summary.TotalIngresos,
			TotalSalidas:  summary.Summary.TotalSalidas,
		},
	})
}

func toSummaryEntries(entries []access.SummaryEntry) []summaryEntryResponse {
	out := make([]summaryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, summaryEntryResponse{
			CardUID:   e.CardUID,
			UserName:  e.UserName,
			UserLogin: e.UserLogin,
			Count:     e.Count,
		})
	}
	return out
}
