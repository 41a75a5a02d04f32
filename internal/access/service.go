// Package access implementa el libro de accesos: el registro de solo
// inserción de ingresos y salidas y sus consultas derivadas.
package access

import (
	"context"
	"fmt"

	"github.com/condo360/nfc-access/internal/card"
	"github.com/condo360/nfc-access/internal/model"
	"github.com/condo360/nfc-access/internal/repository"
	"github.com/condo360/nfc-access/internal/timezone"
)

// Períodos de estadísticas soportados.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// Límites de paginación del historial.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Metrics son los contadores de dominio que el servicio alimenta.
type Metrics interface {
	RecordAccessEvent(accessType string)
}

// Service es la capa de servicio del libro de accesos.
type Service struct {
	users   repository.UserRepository
	cards   repository.CardRepository
	logs    repository.AccessLogRepository
	tz      *timezone.Service
	metrics Metrics
}

// NewService crea un Service. metrics puede ser nil.
func NewService(
	users repository.UserRepository,
	cards repository.CardRepository,
	logs repository.AccessLogRepository,
	tz *timezone.Service,
	metrics Metrics,
) *Service {
	return &Service{
		users:   users,
		cards:   cards,
		logs:    logs,
		tz:      tz,
		metrics: metrics,
	}
}

// Event es el resultado de registrar un acceso. Timestamp ya viene en formato
// de presentación (DD/MM/YYYY hh:mm AM/PM).
type Event struct {
	ID         int64
	CardUID    string
	AccessType string
	Timestamp  string
	GuardUser  string
}

// LogAccess registra un ingreso o una salida para la tarjeta con el UID dado.
//
// Falla con INVALID_ACCESS_TYPE si el tipo no es "ingreso" ni "salida" y con
// CARD_NOT_FOUND_OR_INACTIVE si no hay tarjeta activa con ese UID. timestamp y
// created_at se escriben con el mismo valor. No hay deduplicación: lecturas
// repetidas del lector se registran todas.
func (s *Service) LogAccess(ctx context.Context, cardUID, accessType, guardUser string) (*Event, error) {
	if !model.ValidAccessType(accessType) {
		return nil, model.NewInvalidAccessTypeError()
	}

	cardUID = card.NormalizeUID(cardUID)

	active, err := s.cards.FindActiveByUID(ctx, cardUID)
	if err != nil {
		return nil, fmt.Errorf("error al registrar acceso: %w", err)
	}
	if active == nil {
		return nil, model.NewCardInactiveError(cardUID)
	}

	ts := s.tz.NowString()
	entry := &model.AccessLog{
		CardID:     active.ID,
		AccessType: accessType,
		Timestamp:  ts,
		GuardUser:  guardUser,
		CreatedAt:  ts,
	}

	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("error al registrar acceso: %w", err)
	}

	formatted, err := s.tz.FormatDisplay(ts)
	if err != nil {
		return nil, fmt.Errorf("error al registrar acceso: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordAccessEvent(accessType)
	}

	return &Event{
		ID:         entry.ID,
		CardUID:    cardUID,
		AccessType: accessType,
		Timestamp:  formatted,
		GuardUser:  guardUser,
	}, nil
}

// HistoryOptions son los parámetros del historial de accesos.
type HistoryOptions struct {
	Limit     int
	Offset    int
	StartDate string
	EndDate   string
}

// HistoryEntry es un evento del historial con sus campos de presentación.
type HistoryEntry struct {
	model.AccessLogDetail
	TimestampFormatted string
	AccessTypeSpanish  string
}

// Pagination describe la página devuelta por History.
type Pagination struct {
	Total   int
	Limit   int
	Offset  int
	HasMore bool
}

// HistoryPage es el resultado de History. Message acompaña tanto a las
// páginas con datos como a los resultados vacíos suaves.
type HistoryPage struct {
	Message    string
	Logs       []HistoryEntry
	Pagination Pagination
}

// emptyReason distingue las tres ramas de resultado vacío suave del historial.
type emptyReason int

const (
	emptyUserNotFound emptyReason = iota
	emptyNoCards
	emptyNoLogs
)

// emptyMessages son los mensajes de cada rama vacía.
var emptyMessages = map[emptyReason]string{
	emptyUserNotFound: "Usuario no encontrado",
	emptyNoCards:      "Usuario no tiene tarjetas registradas",
	emptyNoLogs:       "No se encontraron registros de acceso",
}

// History devuelve el historial paginado de accesos del usuario.
//
// Política de vacío suave: usuario inexistente, usuario sin tarjetas (en
// cualquier estado) o usuario sin eventos producen una página vacía con
// mensaje explicativo, nunca un error, para que el llamador pueda presentar
// "sin datos" de forma uniforme.
func (s *Service) History(ctx context.Context, wpUserID int64, opts HistoryOptions) (*HistoryPage, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	if reason, empty, err := s.historyEmptyCheck(ctx, wpUserID); err != nil {
		return nil, fmt.Errorf("error al obtener historial: %w", err)
	} else if empty {
		return emptyHistoryPage(reason, opts), nil
	}

	filter := repository.HistoryFilter{
		StartDate: opts.StartDate,
		EndDate:   opts.EndDate,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
	}

	rows, err := s.logs.ListByUserID(ctx, wpUserID, filter)
	if err != nil {
		return nil, fmt.Errorf("error al obtener historial: %w", err)
	}

	total, err := s.logs.CountByUserIDFiltered(ctx, wpUserID, opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, fmt.Errorf("error al obtener historial: %w", err)
	}

	entries := make([]HistoryEntry, len(rows))
	for i, row := range rows {
		formatted, err := s.tz.FormatDisplay(row.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("error al obtener historial: %w", err)
		}
		entries[i] = HistoryEntry{
			AccessLogDetail:    row,
			TimestampFormatted: formatted,
			AccessTypeSpanish:  model.AccessTypeLabel(row.AccessType),
		}
	}

	return &HistoryPage{
		Message: "Historial obtenido exitosamente",
		Logs:    entries,
		Pagination: Pagination{
			Total:   total,
			Limit:   opts.Limit,
			Offset:  opts.Offset,
			HasMore: opts.Offset+opts.Limit < total,
		},
	}, nil
}

// historyEmptyCheck evalúa en orden las tres condiciones de vacío suave:
// ¿existe el usuario?, ¿tiene tarjetas?, ¿tiene eventos?
func (s *Service) historyEmptyCheck(ctx context.Context, wpUserID int64) (emptyReason, bool, error) {
	exists, err := s.users.ExistsByID(ctx, wpUserID)
	if err != nil {
		return 0, false, err
	}
	if !exists {
		return emptyUserNotFound, true, nil
	}

	cardCount, err := s.cards.CountByUserID(ctx, wpUserID)
	if err != nil {
		return 0, false, err
	}
	if cardCount == 0 {
		return emptyNoCards, true, nil
	}

	logCount, err := s.logs.CountByUserID(ctx, wpUserID)
	if err != nil {
		return 0, false, err
	}
	if logCount == 0 {
		return emptyNoLogs, true, nil
	}

	return 0, false, nil
}

// emptyHistoryPage construye la página vacía de la rama indicada.
func emptyHistoryPage(reason emptyReason, opts HistoryOptions) *HistoryPage {
	return &HistoryPage{
		Message: emptyMessages[reason],
		Logs:    []HistoryEntry{},
		Pagination: Pagination{
			Total:   0,
			Limit:   opts.Limit,
			Offset:  opts.Offset,
			HasMore: false,
		},
	}
}

// Totals es el acumulado de eventos por tipo.
type Totals struct {
	Ingresos int
	Salidas  int
	Total    int
}

// StatsResult es el resultado de Stats.
type StatsResult struct {
	Period     string
	Totals     Totals
	DailyStats []model.DailyStat
}

// Stats devuelve las estadísticas de acceso del usuario para el período dado.
//
// today cuenta el día civil actual; week, month y year son ventanas móviles de
// una unidad hacia atrás desde ahora, no alineadas al calendario. Un período
// desconocido se comporta exactamente como month, nunca es un error.
func (s *Service) Stats(ctx context.Context, wpUserID int64, period string) (*StatsResult, error) {
	period, window := s.statsWindow(period)

	stats, err := s.logs.StatsByUserID(ctx, wpUserID, window)
	if err != nil {
		return nil, fmt.Errorf("error al obtener estadísticas: %w", err)
	}

	var totals Totals
	for _, st := range stats {
		if st.AccessType == model.AccessTypeIngreso {
			totals.Ingresos += st.Count
		} else {
			totals.Salidas += st.Count
		}
		totals.Total += st.Count
	}

	if stats == nil {
		stats = []model.DailyStat{}
	}

	return &StatsResult{
		Period:     period,
		Totals:     totals,
		DailyStats: stats,
	}, nil
}

// statsWindow resuelve el período a una ventana temporal en la zona horaria
// civil. Los períodos desconocidos se normalizan a month.
func (s *Service) statsWindow(period string) (string, repository.StatsWindow) {
	now := s.tz.Now()

	switch period {
	case PeriodToday:
		return PeriodToday, repository.StatsWindow{OnDate: s.tz.Today()}
	case PeriodWeek:
		return PeriodWeek, repository.StatsWindow{Since: now.AddDate(0, 0, -7).Format(timezone.StoreLayout)}
	case PeriodYear:
		return PeriodYear, repository.StatsWindow{Since: now.AddDate(-1, 0, 0).Format(timezone.StoreLayout)}
	default:
		return PeriodMonth, repository.StatsWindow{Since: now.AddDate(0, -1, 0).Format(timezone.StoreLayout)}
	}
}

// LastAccess es el evento más reciente de una tarjeta.
type LastAccess struct {
	AccessType         string
	Timestamp          string
	GuardUser          string
	CardUID            string
	CardLabel          string
	TimestampFormatted string
	AccessTypeSpanish  string
}

// Last devuelve el acceso más reciente de la tarjeta, sin importar su estado
// actual. Devuelve nil sin error cuando no hay accesos previos.
func (s *Service) Last(ctx context.Context, cardUID string) (*LastAccess, error) {
	cardUID = card.NormalizeUID(cardUID)

	row, err := s.logs.LastByCardUID(ctx, cardUID)
	if err != nil {
		return nil, fmt.Errorf("error al obtener último acceso: %w", err)
	}
	if row == nil {
		return nil, nil
	}

	formatted, err := s.tz.FormatDisplay(row.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("error al obtener último acceso: %w", err)
	}

	return &LastAccess{
		AccessType:         row.AccessType,
		Timestamp:          row.Timestamp,
		GuardUser:          row.GuardUser,
		CardUID:            row.CardUID,
		CardLabel:          row.CardLabel,
		TimestampFormatted: formatted,
		AccessTypeSpanish:  model.AccessTypeLabel(row.AccessType),
	}, nil
}

// SummaryEntry es el conteo del día de una tarjeta para un tipo de acceso.
type SummaryEntry struct {
	CardUID   string
	UserName  string
	UserLogin string
	Count     int
}

// Summary agrupa los accesos del día por tipo con totales corridos.
type Summary struct {
	Ingresos      []SummaryEntry
	Salidas       []SummaryEntry
	TotalIngresos int
	TotalSalidas  int
}

// TodaySummary es el resumen global de accesos del día civil actual.
type TodaySummary struct {
	Date    string
	Summary Summary
}

// Today devuelve el resumen de accesos de hoy, con el límite de día calculado
// una sola vez en la zona horaria civil.
func (s *Service) Today(ctx context.Context) (*TodaySummary, error) {
	date := s.tz.Today()

	rows, err := s.logs.SummaryByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("error al obtener resumen del día: %w", err)
	}

	summary := Summary{
		Ingresos: []SummaryEntry{},
		Salidas:  []SummaryEntry{},
	}

	for _, row := range rows {
		entry := SummaryEntry{
			CardUID:   row.CardUID,
			UserName:  row.DisplayName,
			UserLogin: row.UserLogin,
			Count:     row.Count,
		}
		if row.AccessType == model.AccessTypeIngreso {
			summary.Ingresos = append(summary.Ingresos, entry)
			summary.TotalIngresos += row.Count
		} else {
			summary.Salidas = append(summary.Salidas, entry)
			summary.TotalSalidas += row.Count
		}
	}

	return &TodaySummary{Date: date, Summary: summary}, nil
}
