// Package timezone provee la fuente única de fecha y hora de la aplicación.
//
// Todas las marcas de tiempo (escritura y presentación) se resuelven en una
// zona horaria civil fija (por defecto America/Caracas, GMT-4 sin horario de
// verano), independiente de la zona horaria del servidor.
package timezone

import (
	"fmt"
	"time"
)

const (
	// StoreLayout es el formato con el que se persisten las marcas de tiempo.
	StoreLayout = "2006-01-02 15:04:05"
	// DateLayout es el formato de fecha civil (límite de "hoy", filtros de rango).
	DateLayout = "2006-01-02"
	// DisplayLayout es el formato de presentación con AM/PM.
	DisplayLayout = "02/01/2006 03:04 PM"
)

// DefaultZone es la zona horaria por defecto del condominio.
const DefaultZone = "America/Caracas"

// Service resuelve "ahora" y formatea marcas de tiempo en la zona configurada.
type Service struct {
	loc *time.Location

	// nowFn permite fijar el reloj en pruebas.
	nowFn func() time.Time
}

// New crea un Service para la zona horaria indicada.
// Si la base de datos tz no está disponible en el sistema, se usa un
// desplazamiento fijo UTC-4 equivalente a America/Caracas.
func New(name string) *Service {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.FixedZone("-04", -4*60*60)
	}
	return &Service{loc: loc, nowFn: time.Now}
}

// NewFixed crea un Service cuyo reloj siempre devuelve now.
// Solo para pruebas.
func NewFixed(name string, now time.Time) *Service {
	s := New(name)
	s.nowFn = func() time.Time { return now }
	return s
}

// Location devuelve la zona horaria configurada.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Now devuelve la hora actual en la zona configurada.
func (s *Service) Now() time.Time {
	return s.nowFn().In(s.loc)
}

// NowString devuelve la hora actual en formato YYYY-MM-DD HH:mm:ss.
// Es el valor que se persiste en timestamp y created_at.
func (s *Service) NowString() string {
	return s.Now().Format(StoreLayout)
}

// Today devuelve la fecha civil actual en formato YYYY-MM-DD.
// Define el límite de "hoy" para el resumen diario.
func (s *Service) Today() string {
	return s.Now().Format(DateLayout)
}

// FormatDisplay convierte una marca de tiempo persistida (YYYY-MM-DD HH:mm:ss)
// al formato de presentación DD/MM/YYYY hh:mm AM/PM.
// Es una función pura de su entrada; no depende del reloj.
func (s *Service) FormatDisplay(ts string) (string, error) {
	t, err := time.ParseInLocation(StoreLayout, ts, s.loc)
	if err != nil {
		return "", fmt.Errorf("marca de tiempo inválida %q: %w", ts, err)
	}
	return t.Format(DisplayLayout), nil
}
