// Package card implementa el registro de tarjetas NFC del condominio.
//
// Ciclo de vida de una tarjeta: inexistente → activa → inactiva. La
// desactivación es terminal; no existe camino de reactivación, por lo que un
// UID queda bloqueado de forma permanente incluso si su tarjeta está inactiva.
package card

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/condo360/nfc-access/internal/model"
	"github.com/condo360/nfc-access/internal/repository"
	"github.com/condo360/nfc-access/internal/timezone"
)

// SearchMinLength es la longitud mínima del término de búsqueda.
const SearchMinLength = 2

// Metrics son los contadores de dominio que el servicio alimenta.
type Metrics interface {
	RecordCardRegistered()
}

// Service es la capa de servicio del registro de tarjetas.
type Service struct {
	users   repository.UserRepository
	cards   repository.CardRepository
	tz      *timezone.Service
	metrics Metrics
}

// NewService crea un Service. metrics puede ser nil.
func NewService(users repository.UserRepository, cards repository.CardRepository, tz *timezone.Service, metrics Metrics) *Service {
	return &Service{
		users:   users,
		cards:   cards,
		tz:      tz,
		metrics: metrics,
	}
}

// Register registra una tarjeta nueva para el usuario con el login dado.
//
// El UID se normaliza a mayúsculas. Falla con USER_NOT_FOUND si el login no
// existe en el directorio y con CARD_ALREADY_REGISTERED si ya hay una fila con
// ese UID, activa o no. La verificación de duplicado es una cortesía: bajo
// concurrencia la restricción UNIQUE del almacén es la que garantiza la
// unicidad.
func (s *Service) Register(ctx context.Context, userLogin, cardUID, label string) (*model.Card, error) {
	cardUID = NormalizeUID(cardUID)

	user, err := s.users.FindByLogin(ctx, userLogin)
	if err != nil {
		return nil, fmt.Errorf("error al registrar tarjeta: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userLogin)
	}

	existing, err := s.cards.FindByUID(ctx, cardUID)
	if err != nil {
		return nil, fmt.Errorf("error al registrar tarjeta: %w", err)
	}
	if existing != nil {
		return nil, model.NewCardAlreadyRegisteredError(cardUID)
	}

	newCard := &model.Card{
		WPUserID:  user.ID,
		CardUID:   cardUID,
		Label:     label,
		Active:    true,
		CreatedAt: s.tz.NowString(),
	}

	if err := s.cards.Create(ctx, newCard); err != nil {
		return nil, fmt.Errorf("error al registrar tarjeta: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordCardRegistered()
	}

	return newCard, nil
}

// CardsByUserID devuelve las tarjetas activas del usuario con los datos del
// propietario. Una lista vacía no es un error.
func (s *Service) CardsByUserID(ctx context.Context, wpUserID int64) ([]model.CardWithOwner, error) {
	cards, err := s.cards.ListActiveByUserID(ctx, wpUserID)
	if err != nil {
		return nil, fmt.Errorf("error al obtener tarjetas: %w", err)
	}
	return cards, nil
}

// OwnerByUID busca la tarjeta activa con ese UID y su propietario.
// Falla con CARD_NOT_FOUND_OR_INACTIVE si no hay coincidencia activa.
func (s *Service) OwnerByUID(ctx context.Context, cardUID string) (*model.CardWithOwner, error) {
	cardUID = NormalizeUID(cardUID)

	owner, err := s.cards.FindOwnerByUID(ctx, cardUID)
	if err != nil {
		return nil, fmt.Errorf("error al obtener propietario: %w", err)
	}
	if owner == nil {
		return nil, model.NewCardInactiveError(cardUID)
	}
	return owner, nil
}

// Deactivate marca la tarjeta como inactiva. Falla con CARD_NOT_FOUND solo si
// no existe ninguna fila con ese UID; desactivar una tarjeta ya inactiva es un
// éxito sin efecto.
func (s *Service) Deactivate(ctx context.Context, cardUID string) error {
	cardUID = NormalizeUID(cardUID)

	affected, err := s.cards.Deactivate(ctx, cardUID)
	if err != nil {
		return fmt.Errorf("error al desactivar tarjeta: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// 0 filas afectadas: o el UID no existe, o la tarjeta ya estaba inactiva.
	existing, err := s.cards.FindByUID(ctx, cardUID)
	if err != nil {
		return fmt.Errorf("error al desactivar tarjeta: %w", err)
	}
	if existing == nil {
		return model.NewCardNotFoundError(cardUID)
	}
	return nil
}

// SearchByOwner busca tarjetas (activas o no) por login, nombre o email del
// propietario. Falla con INVALID_SEARCH_TERM si el término tiene menos de dos
// caracteres. Una lista vacía es un éxito.
func (s *Service) SearchByOwner(ctx context.Context, term string) ([]model.CardWithOwner, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < SearchMinLength {
		return nil, model.NewInvalidSearchTermError()
	}

	cards, err := s.cards.SearchByOwner(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("error en búsqueda: %w", err)
	}
	return cards, nil
}

// NormalizeUID canonicaliza un UID de tarjeta: sin espacios y en mayúsculas.
func NormalizeUID(cardUID string) string {
	return strings.ToUpper(strings.TrimSpace(cardUID))
}
