// Package database provee la conexión a la base de datos y la gestión de
// migraciones.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open abre el pool de conexiones a MySQL (la base de datos de WordPress).
// El DSN sigue el formato del driver go-sql-driver/mysql, por ejemplo
// "user:pass@tcp(localhost:3306)/wordpress_db?charset=utf8mb4".
//
// El DSN no debe incluir parseTime: las columnas DATETIME se leen como el
// mismo texto YYYY-MM-DD HH:mm:ss con el que se escribieron, de modo que la
// zona horaria civil se aplica una única vez al generar la marca de tiempo.
//
// sql.Open no establece la conexión; usar db.Ping() para verificarla.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Pool acotado, mismo límite que la instalación original.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
