package model

import (
	"errors"
	"testing"
)

func TestAPIError_ImplementsError(t *testing.T) {
	var err error = &APIError{Code: "X", Message: "y"}
	if err.Error() != "[X] y" {
		t.Errorf("Error() = %q, want %q", err.Error(), "[X] y")
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "user not found",
			err:      NewUserNotFoundError("jperez"),
			wantCode: ErrCodeUserNotFound,
			wantMsg:  "Usuario 'jperez' no encontrado en Condominio360",
		},
		{
			name:     "card already registered",
			err:      NewCardAlreadyRegisteredError("04A1B2C3D4"),
			wantCode: ErrCodeCardAlreadyRegistered,
			wantMsg:  "La tarjeta con UID '04A1B2C3D4' ya está registrada",
		},
		{
			name:     "card not found",
			err:      NewCardNotFoundError("04A1B2C3D4"),
			wantCode: ErrCodeCardNotFound,
			wantMsg:  "Tarjeta con UID '04A1B2C3D4' no encontrada",
		},
		{
			name:     "card not found or inactive",
			err:      NewCardInactiveError("04A1B2C3D4"),
			wantCode: ErrCodeCardInactive,
			wantMsg:  "Tarjeta con UID '04A1B2C3D4' no encontrada o inactiva",
		},
		{
			name:     "invalid access type",
			err:      NewInvalidAccessTypeError(),
			wantCode: ErrCodeInvalidAccessType,
			wantMsg:  `Tipo de acceso debe ser "ingreso" o "salida"`,
		},
		{
			name:     "invalid search term",
			err:      NewInvalidSearchTermError(),
			wantCode: ErrCodeInvalidSearchTerm,
			wantMsg:  "Término de búsqueda debe tener al menos 2 caracteres",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestAPIError_ErrorsAs(t *testing.T) {
	var wrapped error = NewCardNotFoundError("ABCD1234")

	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("expected errors.As to match *APIError")
	}
	if apiErr.Code != ErrCodeCardNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeCardNotFound)
	}
}
