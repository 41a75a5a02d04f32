package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/condo360/nfc-access/internal/model"
)

// uidPattern valida un UID ya normalizado a mayúsculas.
var uidPattern = regexp.MustCompile(`^[A-Z0-9]{8,32}$`)

// CardServiceInterface es el contrato del servicio que necesita el handler de
// tarjetas.
type CardServiceInterface interface {
	// Register registra una tarjeta nueva para el usuario con ese login.
	Register(ctx context.Context, userLogin, cardUID, label string) (*model.Card, error)
	// CardsByUserID devuelve las tarjetas activas del usuario.
	CardsByUserID(ctx context.Context, wpUserID int64) ([]model.CardWithOwner, error)
	// OwnerByUID devuelve la tarjeta activa con ese UID y su propietario.
	OwnerByUID(ctx context.Context, cardUID string) (*model.CardWithOwner, error)
	// Deactivate marca la tarjeta como inactiva.
	Deactivate(ctx context.Context, cardUID string) error
	// SearchByOwner busca tarjetas por identidad del propietario.
	SearchByOwner(ctx context.Context, term string) ([]model.CardWithOwner, error)
}

// CardHandler es el handler HTTP del registro de tarjetas.
type CardHandler struct {
	service CardServiceInterface
}

// NewCardHandler crea un CardHandler.
func NewCardHandler(service CardServiceInterface) *CardHandler {
	return &CardHandler{service: service}
}

// registerCardRequest es el cuerpo de POST /cards/register.
type registerCardRequest struct {
	WPUserLogin string `json:"wp_user_login"`
	CardUID     string `json:"card_uid"`
	Label       string `json:"label"`
}

// cardResponse es la vista de una tarjeta recién registrada.
type cardResponse struct {
	ID       int64  `json:"id"`
	WPUserID int64  `json:"wp_user_id"`
	CardUID  string `json:"card_uid"`
	Label    string `json:"label,omitempty"`
	Active   bool   `json:"active"`
}

// cardWithOwnerResponse es la vista de una tarjeta con su propietario.
type cardWithOwnerResponse struct {
	ID          int64  `json:"id"`
	WPUserID    int64  `json:"wp_user_id"`
	CardUID     string `json:"card_uid"`
	Label       string `json:"label,omitempty"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UserLogin   string `json:"user_login"`
	DisplayName string `json:"display_name"`
	UserEmail   string `json:"user_email"`
}

// ownerResponse es la vista del propietario buscado por UID.
type ownerResponse struct {
	CardID      int64  `json:"card_id"`
	CardUID     string `json:"card_uid"`
	Label       string `json:"label,omitempty"`
	Active      bool   `json:"active"`
	WPUserID    int64  `json:"wp_user_id"`
	UserLogin   string `json:"user_login"`
	DisplayName string `json:"display_name"`
	UserEmail   string `json:"user_email"`
}

// Register registra una tarjeta nueva.
// POST /cards/register
func (h *CardHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	if req.WPUserLogin == "" || req.CardUID == "" {
		writeError(w, http.StatusBadRequest, "Los campos wp_user_login y card_uid son obligatorios")
		return
	}

	cardUID := strings.ToUpper(strings.TrimSpace(req.CardUID))
	if len(cardUID) < 8 || len(cardUID) > 32 {
		writeError(w, http.StatusBadRequest, "El UID de la tarjeta debe tener entre 8 y 32 caracteres")
		return
	}
	if !uidPattern.MatchString(cardUID) {
		writeError(w, http.StatusBadRequest, "El UID de la tarjeta solo puede contener caracteres alfanuméricos")
		return
	}

	created, err := h.service.Register(r.Context(), req.WPUserLogin, cardUID, req.Label)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Tarjeta registrada exitosamente", cardResponse{
		ID:       created.ID,
		WPUserID: created.WPUserID,
		CardUID:  created.CardUID,
		Label:    created.Label,
		Active:   created.Active,
	})
}

// GetByUserID devuelve las tarjetas activas de un usuario.
// GET /cards/{wp_user_id}
func (h *CardHandler) GetByUserID(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "wp_user_id"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "ID de usuario inválido")
		return
	}

	cards, err := h.service.CardsByUserID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Tarjetas obtenidas exitosamente", toCardsWithOwner(cards))
}

// GetOwner devuelve el propietario de la tarjeta activa con ese UID.
// GET /cards/owner/{card_uid}
func (h *CardHandler) GetOwner(w http.ResponseWriter, r *http.Request) {
	cardUID := chi.URLParam(r, "card_uid")
	if cardUID == "" {
		writeError(w, http.StatusBadRequest, "UID de tarjeta es obligatorio")
		return
	}

	owner, err := h.service.OwnerByUID(r.Context(), cardUID)
	if err != nil {
		// Búsqueda directa de recurso: la ausencia es 404, no 400.
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeCardInactive {
			writeError(w, http.StatusNotFound, apiErr.Message)
			return
		}
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Propietario encontrado exitosamente", ownerResponse{
		CardID:      owner.ID,
		CardUID:     owner.CardUID,
		Label:       owner.Label,
		Active:      owner.Active,
		WPUserID:    owner.WPUserID,
		UserLogin:   owner.UserLogin,
		DisplayName: owner.DisplayName,
		UserEmail:   owner.UserEmail,
	})
}

// Deactivate marca una tarjeta como inactiva.
// PUT /cards/deactivate/{card_uid}
func (h *CardHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	cardUID := chi.URLParam(r, "card_uid")
	if cardUID == "" {
		writeError(w, http.StatusBadRequest, "UID de tarjeta es obligatorio")
		return
	}

	if err := h.service.Deactivate(r.Context(), cardUID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Tarjeta desactivada exitosamente")
}

// Search busca tarjetas por identidad del propietario.
// GET /cards/search?search=
func (h *CardHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("search")

	cards, err := h.service.SearchByOwner(r.Context(), term)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	message := "Búsqueda completada exitosamente"
	if len(cards) == 0 {
		message = "No se encontraron propietarios con tarjetas registradas"
	}

	writeSuccess(w, http.StatusOK, message, toCardsWithOwner(cards))
}

// toCardsWithOwner convierte la lista del dominio a la vista de la API.
// Siempre devuelve una lista, nunca null.
func toCardsWithOwner(cards []model.CardWithOwner) []cardWithOwnerResponse {
	out := make([]cardWithOwnerResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardWithOwnerResponse{
			ID:          c.ID,
			WPUserID:    c.WPUserID,
			CardUID:     c.CardUID,
			Label:       c.Label,
			Active:      c.Active,
			CreatedAt:   c.CreatedAt,
			UserLogin:   c.UserLogin,
			DisplayName: c.DisplayName,
			UserEmail:   c.UserEmail,
		})
	}
	return out
}
