package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/condo360/nfc-access/internal/model"
)

// MySQLCardRepo es la persistencia de tarjetas NFC sobre MySQL.
type MySQLCardRepo struct {
	db *sql.DB
}

// NewMySQLCardRepo crea un MySQLCardRepo.
func NewMySQLCardRepo(db *sql.DB) *MySQLCardRepo {
	return &MySQLCardRepo{db: db}
}

// FindByUID busca una tarjeta por UID en cualquier estado. Devuelve nil si no existe.
func (r *MySQLCardRepo) FindByUID(ctx context.Context, cardUID string) (*model.Card, error) {
	return r.findByUID(ctx,
		`SELECT id, wp_user_id, card_uid, label, active, created_at
		 FROM condo360_nfc_cards WHERE card_uid = ?`,
		cardUID,
	)
}

// FindActiveByUID busca una tarjeta activa por UID. Devuelve nil si no existe
// o está inactiva.
func (r *MySQLCardRepo) FindActiveByUID(ctx context.Context, cardUID string) (*model.Card, error) {
	return r.findByUID(ctx,
		`SELECT id, wp_user_id, card_uid, label, active, created_at
		 FROM condo360_nfc_cards WHERE card_uid = ? AND active = TRUE`,
		cardUID,
	)
}

func (r *MySQLCardRepo) findByUID(ctx context.Context, query, cardUID string) (*model.Card, error) {
	card := &model.Card{}
	var label sql.NullString

	err := r.db.QueryRowContext(ctx, query, cardUID).Scan(
		&card.ID, &card.WPUserID, &card.CardUID, &label, &card.Active, &card.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error al buscar tarjeta por UID: %w", err)
	}

	card.Label = label.String
	return card, nil
}

// Create inserta una tarjeta nueva y asigna card.ID.
// La restricción UNIQUE sobre card_uid es el punto real de aplicación de la
// unicidad bajo concurrencia; la verificación previa del servicio es solo una
// cortesía.
func (r *MySQLCardRepo) Create(ctx context.Context, card *model.Card) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO condo360_nfc_cards (wp_user_id, card_uid, label, active, created_at)
		 VALUES (?, ?, ?, TRUE, ?)`,
		card.WPUserID, card.CardUID, nullString(card.Label), card.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error al insertar tarjeta: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("error al obtener id de tarjeta: %w", err)
	}

	card.ID = id
	card.Active = true
	return nil
}

// ListActiveByUserID devuelve las tarjetas activas de un usuario con los datos
// del propietario, la más reciente primero.
func (r *MySQLCardRepo) ListActiveByUserID(ctx context.Context, wpUserID int64) ([]model.CardWithOwner, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.wp_user_id, c.card_uid, c.label, c.active, c.created_at,
		        u.user_login, u.display_name, u.user_email
		 FROM condo360_nfc_cards c
		 INNER JOIN wp_users u ON c.wp_user_id = u.ID
		 WHERE c.wp_user_id = ? AND c.active = TRUE
		 ORDER BY c.created_at DESC`,
		wpUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("error al listar tarjetas del usuario: %w", err)
	}
	defer rows.Close()

	return scanCardsWithOwner(rows)
}

// FindOwnerByUID devuelve la tarjeta activa con ese UID unida con su
// propietario. Devuelve nil si no hay tarjeta activa con ese UID.
func (r *MySQLCardRepo) FindOwnerByUID(ctx context.Context, cardUID string) (*model.CardWithOwner, error) {
	cw := &model.CardWithOwner{}
	var label sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT c.id, c.wp_user_id, c.card_uid, c.label, c.active,
		        u.user_login, u.display_name, u.user_email
		 FROM condo360_nfc_cards c
		 INNER JOIN wp_users u ON c.wp_user_id = u.ID
		 WHERE c.card_uid = ? AND c.active = TRUE`,
		cardUID,
	).Scan(
		&cw.ID, &cw.WPUserID, &cw.CardUID, &label, &cw.Active,
		&cw.UserLogin, &cw.DisplayName, &cw.UserEmail,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error al buscar propietario por UID: %w", err)
	}

	cw.Label = label.String
	return cw, nil
}

// Deactivate marca la tarjeta como inactiva y devuelve las filas afectadas.
func (r *MySQLCardRepo) Deactivate(ctx context.Context, cardUID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE condo360_nfc_cards SET active = FALSE WHERE card_uid = ?`,
		cardUID,
	)
	if err != nil {
		return 0, fmt.Errorf("error al desactivar tarjeta: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error al leer filas afectadas: %w", err)
	}
	return affected, nil
}

// SearchByOwner busca tarjetas (activas o no) cuyo propietario coincida con el
// término en login, nombre o email. La colación de MySQL hace la comparación
// insensible a mayúsculas.
func (r *MySQLCardRepo) SearchByOwner(ctx context.Context, term string) ([]model.CardWithOwner, error) {
	pattern := "%" + term + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.wp_user_id, c.card_uid, c.label, c.active, c.created_at,
		        u.user_login, u.display_name, u.user_email
		 FROM condo360_nfc_cards c
		 INNER JOIN wp_users u ON c.wp_user_id = u.ID
		 WHERE (u.user_login LIKE ? OR u.display_name LIKE ? OR u.user_email LIKE ?)
		 ORDER BY u.display_name, c.created_at DESC`,
		pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("error en búsqueda de tarjetas: %w", err)
	}
	defer rows.Close()

	return scanCardsWithOwner(rows)
}

// CountByUserID cuenta las tarjetas del usuario en cualquier estado.
func (r *MySQLCardRepo) CountByUserID(ctx context.Context, wpUserID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM condo360_nfc_cards WHERE wp_user_id = ?`,
		wpUserID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error al contar tarjetas del usuario: %w", err)
	}
	return count, nil
}

// scanCardsWithOwner recorre las filas de tarjeta+propietario.
func scanCardsWithOwner(rows *sql.Rows) ([]model.CardWithOwner, error) {
	var cards []model.CardWithOwner
	for rows.Next() {
		var cw model.CardWithOwner
		var label sql.NullString
		if err := rows.Scan(
			&cw.ID, &cw.WPUserID, &cw.CardUID, &label, &cw.Active, &cw.CreatedAt,
			&cw.UserLogin, &cw.DisplayName, &cw.UserEmail,
		); err != nil {
			return nil, fmt.Errorf("error al leer fila de tarjeta: %w", err)
		}
		cw.Label = label.String
		cards = append(cards, cw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al recorrer tarjetas: %w", err)
	}
	return cards, nil
}

// nullString convierte cadena vacía a NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// compile-time interface check
var _ CardRepository = (*MySQLCardRepo)(nil)
