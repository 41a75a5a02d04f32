// Package model define el modelo de dominio.
package model

// User es la proyección de solo lectura del directorio de usuarios de
// WordPress (tabla wp_users). Este sistema nunca muta esa tabla.
type User struct {
	ID          int64
	Login       string
	DisplayName string
	Email       string
}
