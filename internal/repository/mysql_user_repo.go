package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/condo360/nfc-access/internal/model"
)

// MySQLUserRepo es el acceso de solo lectura a wp_users sobre MySQL.
type MySQLUserRepo struct {
	db *sql.DB
}

// NewMySQLUserRepo crea un MySQLUserRepo.
func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo {
	return &MySQLUserRepo{db: db}
}

// FindByLogin busca un usuario por su login. Devuelve nil si no existe.
func (r *MySQLUserRepo) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT ID, user_login, display_name, user_email FROM wp_users WHERE user_login = ?`,
		login,
	).Scan(&user.ID, &user.Login, &user.DisplayName, &user.Email)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error al buscar usuario por login: %w", err)
	}

	return user, nil
}

// ExistsByID indica si existe un usuario con ese ID.
func (r *MySQLUserRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM wp_users WHERE ID = ?)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error al verificar usuario: %w", err)
	}
	return exists, nil
}

// compile-time interface check
var _ UserRepository = (*MySQLUserRepo)(nil)
