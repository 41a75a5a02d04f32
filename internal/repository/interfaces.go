// Package repository define las interfaces de persistencia y sus
// implementaciones sobre MySQL.
package repository

import (
	"context"

	"github.com/condo360/nfc-access/internal/model"
)

// UserRepository es el acceso de solo lectura al directorio de usuarios de
// WordPress (wp_users).
type UserRepository interface {
	// FindByLogin busca un usuario por su login. Devuelve nil si no existe.
	FindByLogin(ctx context.Context, login string) (*model.User, error)

	// ExistsByID indica si existe un usuario con ese ID.
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// CardRepository es la persistencia de tarjetas NFC.
type CardRepository interface {
	// FindByUID busca una tarjeta por UID en cualquier estado.
	// Devuelve nil si no existe.
	FindByUID(ctx context.Context, cardUID string) (*model.Card, error)

	// FindActiveByUID busca una tarjeta activa por UID. Devuelve nil si no
	// existe o está inactiva.
	FindActiveByUID(ctx context.Context, cardUID string) (*model.Card, error)

	// Create inserta una tarjeta nueva y asigna card.ID.
	Create(ctx context.Context, card *model.Card) error

	// ListActiveByUserID devuelve las tarjetas activas de un usuario con los
	// datos del propietario, la más reciente primero.
	ListActiveByUserID(ctx context.Context, wpUserID int64) ([]model.CardWithOwner, error)

	// FindOwnerByUID devuelve la tarjeta activa con ese UID unida con su
	// propietario. Devuelve nil si no hay tarjeta activa con ese UID.
	FindOwnerByUID(ctx context.Context, cardUID string) (*model.CardWithOwner, error)

	// Deactivate marca la tarjeta como inactiva y devuelve las filas afectadas.
	// RowsAffected es 0 tanto si el UID no existe como si la tarjeta ya estaba
	// inactiva; el llamador distingue los casos con FindByUID.
	Deactivate(ctx context.Context, cardUID string) (int64, error)

	// SearchByOwner busca tarjetas (activas o no) cuyo propietario coincida
	// con el término en login, nombre o email, ordenadas por nombre del
	// propietario y fecha de creación descendente.
	SearchByOwner(ctx context.Context, term string) ([]model.CardWithOwner, error)

	// CountByUserID cuenta las tarjetas del usuario en cualquier estado.
	CountByUserID(ctx context.Context, wpUserID int64) (int, error)
}

// HistoryFilter son los parámetros de consulta del historial de accesos.
// Las fechas (YYYY-MM-DD) son inclusivas y se comparan contra la porción de
// fecha de timestamp.
type HistoryFilter struct {
	StartDate string
	EndDate   string
	Limit     int
	Offset    int
}

// StatsWindow es la ventana temporal de las estadísticas. Exactamente uno de
// los campos está definido: OnDate para el día civil exacto (period=today),
// Since para ventanas móviles (week, month, year).
type StatsWindow struct {
	OnDate string
	Since  string
}

// AccessLogRepository es la persistencia del registro de accesos, de solo
// inserción.
type AccessLogRepository interface {
	// Create inserta un evento de acceso y asigna log.ID.
	Create(ctx context.Context, log *model.AccessLog) error

	// CountByUserID cuenta todos los eventos de las tarjetas del usuario.
	CountByUserID(ctx context.Context, wpUserID int64) (int, error)

	// CountByUserIDFiltered cuenta los eventos del usuario dentro del rango de
	// fechas (inclusivo, campos vacíos = sin límite).
	CountByUserIDFiltered(ctx context.Context, wpUserID int64, startDate, endDate string) (int, error)

	// ListByUserID devuelve la página de eventos del usuario, el más reciente
	// primero, con los datos de tarjeta y propietario.
	ListByUserID(ctx context.Context, wpUserID int64, f HistoryFilter) ([]model.AccessLogDetail, error)

	// StatsByUserID agrupa los eventos del usuario por tipo y fecha dentro de
	// la ventana, fecha descendente.
	StatsByUserID(ctx context.Context, wpUserID int64, w StatsWindow) ([]model.DailyStat, error)

	// LastByCardUID devuelve el evento más reciente de la tarjeta sin importar
	// su estado actual. Devuelve nil si no hay accesos previos.
	LastByCardUID(ctx context.Context, cardUID string) (*model.AccessLogDetail, error)

	// SummaryByDate agrupa los eventos de la fecha dada por tipo, tarjeta y
	// propietario.
	SummaryByDate(ctx context.Context, date string) ([]model.SummaryRow, error)
}
