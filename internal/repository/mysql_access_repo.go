package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/condo360/nfc-access/internal/model"
)

// MySQLAccessLogRepo es la persistencia del registro de accesos sobre MySQL.
// Solo inserta y lee; los eventos nunca se actualizan ni se borran.
type MySQLAccessLogRepo struct {
	db *sql.DB
}

// NewMySQLAccessLogRepo crea un MySQLAccessLogRepo.
func NewMySQLAccessLogRepo(db *sql.DB) *MySQLAccessLogRepo {
	return &MySQLAccessLogRepo{db: db}
}

// Create inserta un evento de acceso y asigna log.ID.
func (r *MySQLAccessLogRepo) Create(ctx context.Context, log *model.AccessLog) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO condo360_access_logs (card_id, access_type, timestamp, guard_user, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		log.CardID, log.AccessType, log.Timestamp, nullString(log.GuardUser), log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error al insertar evento de acceso: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("error al obtener id de evento: %w", err)
	}

	log.ID = id
	return nil
}

// CountByUserID cuenta todos los eventos de las tarjetas del usuario.
func (r *MySQLAccessLogRepo) CountByUserID(ctx context.Context, wpUserID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM condo360_access_logs al
		 INNER JOIN condo360_nfc_cards c ON al.card_id = c.id
		 WHERE c.wp_user_id = ?`,
		wpUserID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error al contar accesos del usuario: %w", err)
	}
	return count, nil
}

// CountByUserIDFiltered cuenta los eventos del usuario dentro del rango de
// fechas. Los filtros son inclusivos y comparan la porción de fecha de
// timestamp; un campo vacío no limita.
func (r *MySQLAccessLogRepo) CountByUserIDFiltered(ctx context.Context, wpUserID int64, startDate, endDate string) (int, error) {
	query := `SELECT COUNT(*)
	          FROM condo360_access_logs al
	          INNER JOIN condo360_nfc_cards c ON al.card_id = c.id
	          WHERE c.wp_user_id = ?`
	args := []any{wpUserID}

	if startDate != "" {
		query += ` AND DATE(al.timestamp) >= ?`
		args = append(args, startDate)
	}
	if endDate != "" {
		query += ` AND DATE(al.timestamp) <= ?`
		args = append(args, endDate)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error al contar accesos filtrados: %w", err)
	}
	return count, nil
}

// ListByUserID devuelve la página de eventos del usuario, el más reciente primero.
func (r *MySQLAccessLogRepo) ListByUserID(ctx context.Context, wpUserID int64, f HistoryFilter) ([]model.AccessLogDetail, error) {
	query := `SELECT al.id, al.access_type, al.timestamp, al.guard_user, al.created_at,
	                 c.card_uid, c.label, u.user_login, u.display_name
	          FROM condo360_access_logs al
	          INNER JOIN condo360_nfc_cards c ON al.card_id = c.id
	          INNER JOIN wp_users u ON c.wp_user_id = u.ID
	          WHERE c.wp_user_id = ?`
	args := []any{wpUserID}

	if f.StartDate != "" {
		query += ` AND DATE(al.timestamp) >= ?`
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		query += ` AND DATE(al.timestamp) <= ?`
		args = append(args, f.EndDate)
	}

	query += ` ORDER BY al.timestamp DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al consultar historial: %w", err)
	}
	defer rows.Close()

	var logs []model.AccessLogDetail
	for rows.Next() {
		var d model.AccessLogDetail
		var guardUser, cardLabel sql.NullString
		if err := rows.Scan(
			&d.ID, &d.AccessType, &d.Timestamp, &guardUser, &d.CreatedAt,
			&d.CardUID, &cardLabel, &d.UserLogin, &d.DisplayName,
		); err != nil {
			return nil, fmt.Errorf("error al leer fila de historial: %w", err)
		}
		d.GuardUser = guardUser.String
		d.CardLabel = cardLabel.String
		logs = append(logs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al recorrer historial: %w", err)
	}
	return logs, nil
}

// StatsByUserID agrupa los eventos del usuario por tipo y fecha dentro de la
// ventana, fecha descendente. La ventana llega ya resuelta en la zona horaria
// civil; aquí no se usa NOW() del servidor de base de datos.
func (r *MySQLAccessLogRepo) StatsByUserID(ctx context.Context, wpUserID int64, w StatsWindow) ([]model.DailyStat, error) {
	query := `SELECT al.access_type, COUNT(*) AS count, DATE(al.timestamp) AS date
	          FROM condo360_access_logs al
	          INNER JOIN condo360_nfc_cards c ON al.card_id = c.id
	          WHERE c.wp_user_id = ?`
	args := []any{wpUserID}

	switch {
	case w.OnDate != "":
		query += ` AND DATE(al.timestamp) = ?`
		args = append(args, w.OnDate)
	case w.Since != "":
		query += ` AND al.timestamp >= ?`
		args = append(args, w.Since)
	}

	query += ` GROUP BY al.access_type, DATE(al.timestamp) ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al consultar estadísticas: %w", err)
	}
	defer rows.Close()

	var stats []model.DailyStat
	for rows.Next() {
		var s model.DailyStat
		if err := rows.Scan(&s.AccessType, &s.Count, &s.Date); err != nil {
			return nil, fmt.Errorf("error al leer fila de estadísticas: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al recorrer estadísticas: %w", err)
	}
	return stats, nil
}

// LastByCardUID devuelve el evento más reciente de la tarjeta sin importar su
// estado actual. Devuelve nil si no hay accesos previos.
func (r *MySQLAccessLogRepo) LastByCardUID(ctx context.Context, cardUID string) (*model.AccessLogDetail, error) {
	d := &model.AccessLogDetail{}
	var guardUser, cardLabel sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT al.id, al.access_type, al.timestamp, al.guard_user, c.card_uid, c.label
		 FROM condo360_access_logs al
		 INNER JOIN condo360_nfc_cards c ON al.card_id = c.id
		 WHERE c.card_uid = ?
		 ORDER BY al.timestamp DESC
		 LIMIT 1`,
		cardUID,
	).Scan(&d.ID, &d.AccessType, &d.Timestamp, &guardUser, &d.CardUID, &cardLabel)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error al consultar último acceso: %w", err)
	}

	d.GuardUser = guardUser.String
	d.CardLabel = cardLabel.String
	return d, nil
}

// SummaryByDate agrupa los eventos de la fecha dada por tipo, tarjeta y propietario.
func (r *MySQLAccessLogRepo) SummaryByDate(ctx context.Context, date string) ([]model.SummaryRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT al.access_type, COUNT(*) AS count, c.card_uid, u.display_name, u.user_login
		 FROM condo360_access_logs al
		 INNER JOIN condo360_nfc_cards c ON al.card_id = c.id
		 INNER JOIN wp_users u ON c.wp_user_id = u.ID
		 WHERE DATE(al.timestamp) = ?
		 GROUP BY al.access_type, c.card_uid, u.display_name, u.user_login
		 ORDER BY al.access_type, u.display_name`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("error al consultar resumen del día: %w", err)
	}
	defer rows.Close()

	var summary []model.SummaryRow
	for rows.Next() {
		var s model.SummaryRow
		if err := rows.Scan(&s.AccessType, &s.Count, &s.CardUID, &s.DisplayName, &s.UserLogin); err != nil {
			return nil, fmt.Errorf("error al leer fila de resumen: %w", err)
		}
		summary = append(summary, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al recorrer resumen: %w", err)
	}
	return summary, nil
}

// compile-time interface check
var _ AccessLogRepository = (*MySQLAccessLogRepo)(nil)
