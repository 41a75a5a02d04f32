package model

// Tipos de evento de acceso. Son exactamente estos dos valores en minúsculas.
const (
	AccessTypeIngreso = "ingreso"
	AccessTypeSalida  = "salida"
)

// ValidAccessType indica si t es un tipo de acceso permitido.
func ValidAccessType(t string) bool {
	return t == AccessTypeIngreso || t == AccessTypeSalida
}

// AccessTypeLabel devuelve la etiqueta de presentación del tipo de acceso.
func AccessTypeLabel(t string) string {
	if t == AccessTypeIngreso {
		return "Ingreso"
	}
	return "Salida"
}

// AccessLog es un evento de acceso (ingreso o salida) registrado por una
// tarjeta. Los registros son inmutables: no existe operación de actualización
// ni de borrado.
type AccessLog struct {
	ID     int64
	CardID int64
	// AccessType es "ingreso" o "salida".
	AccessType string
	// Timestamp y CreatedAt se persisten como YYYY-MM-DD HH:mm:ss en la zona
	// horaria civil y son iguales en este sistema.
	Timestamp string
	GuardUser string
	CreatedAt string
}

// AccessLogDetail es un evento de acceso unido con la tarjeta y su propietario.
type AccessLogDetail struct {
	AccessLog
	CardUID     string
	CardLabel   string
	UserLogin   string
	DisplayName string
}

// DailyStat es el conteo de eventos agrupado por tipo de acceso y fecha.
type DailyStat struct {
	AccessType string
	Count      int
	Date       string
}

// SummaryRow es el conteo de eventos del día agrupado por tipo de acceso,
// tarjeta y propietario.
type SummaryRow struct {
	AccessType  string
	Count       int
	CardUID     string
	DisplayName string
	UserLogin   string
}
