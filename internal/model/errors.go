package model

import "fmt"

// APIError es un error de dominio con código estable para el mapeo a HTTP.
// El mensaje es el texto que se devuelve al cliente.
type APIError struct {
	Code    string
	Message string
}

// Error implementa la interfaz error.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Códigos de error definidos
const (
	ErrCodeUserNotFound          = "USER_NOT_FOUND"
	ErrCodeCardNotFound          = "CARD_NOT_FOUND"
	ErrCodeCardInactive          = "CARD_NOT_FOUND_OR_INACTIVE"
	ErrCodeCardAlreadyRegistered = "CARD_ALREADY_REGISTERED"
	ErrCodeInvalidAccessType     = "INVALID_ACCESS_TYPE"
	ErrCodeInvalidSearchTerm     = "INVALID_SEARCH_TERM"
)

// NewUserNotFoundError indica que el login no existe en el directorio de usuarios.
func NewUserNotFoundError(login string) *APIError {
	return &APIError{
		Code:    ErrCodeUserNotFound,
		Message: fmt.Sprintf("Usuario '%s' no encontrado en Condominio360", login),
	}
}

// NewCardAlreadyRegisteredError indica un UID duplicado en el registro.
// El UID está bloqueado aunque la tarjeta existente esté inactiva.
func NewCardAlreadyRegisteredError(cardUID string) *APIError {
	return &APIError{
		Code:    ErrCodeCardAlreadyRegistered,
		Message: fmt.Sprintf("La tarjeta con UID '%s' ya está registrada", cardUID),
	}
}

// NewCardNotFoundError indica que ninguna tarjeta tiene ese UID.
func NewCardNotFoundError(cardUID string) *APIError {
	return &APIError{
		Code:    ErrCodeCardNotFound,
		Message: fmt.Sprintf("Tarjeta con UID '%s' no encontrada", cardUID),
	}
}

// NewCardInactiveError indica que ninguna tarjeta activa tiene ese UID.
func NewCardInactiveError(cardUID string) *APIError {
	return &APIError{
		Code:    ErrCodeCardInactive,
		Message: fmt.Sprintf("Tarjeta con UID '%s' no encontrada o inactiva", cardUID),
	}
}

// NewInvalidAccessTypeError indica un tipo de acceso fuera del conjunto permitido.
func NewInvalidAccessTypeError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidAccessType,
		Message: `Tipo de acceso debe ser "ingreso" o "salida"`,
	}
}

// NewInvalidSearchTermError indica un término de búsqueda demasiado corto.
func NewInvalidSearchTermError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidSearchTerm,
		Message: "Término de búsqueda debe tener al menos 2 caracteres",
	}
}
