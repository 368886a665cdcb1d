package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Stylist мастер салона
type Stylist struct {
	ID          int64
	SalonID     int64
	DisplayName string

	// Идентификатор для уведомлений (Telegram chat), может отсутствовать
	TelegramChatID *int64

	// Timezone таймзона, в которой заданы рабочие часы мастера
	Timezone string
}

// Location возвращает таймзону мастера (или дефолтную, если не задана
// или не парсится)
func (s *Stylist) Location() *time.Location {
	name := s.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc, _ = time.LoadLocation(DefaultTimezone)
	}
	return loc
}

// StylistService услуга каталога в исполнении конкретного мастера с его ценой.
// Длительность приходит из связанной услуги каталога.
// Инвариант: уникальна на пару (stylist, catalog service).
type StylistService struct {
	ID               int64
	StylistID        int64
	CatalogServiceID int64
	Price            float64
	DurationMinutes  int
}

// WorkingHour повторяющийся еженедельный рабочий интервал мастера.
// Время локальное (настенное) в таймзоне мастера, [start, end).
// У мастера может быть несколько непересекающихся интервалов в один день.
type WorkingHour struct {
	ID        int64
	StylistID int64
	Weekday   int // 0 = понедельник
	StartTime types.TimeString
	EndTime   types.TimeString

	Breaks []BreakPeriod
}

// BreakPeriod перерыв внутри конкретного рабочего интервала.
// Инвариант: полностью содержится в родительском интервале.
type BreakPeriod struct {
	ID            int64
	WorkingHourID int64
	StartTime     types.TimeString
	EndTime       types.TimeString
}

// StylistDayOff разовый выходной мастера на конкретную дату.
// Если FromTime и ToTime не заданы - выходной на весь день,
// иначе мастер недоступен в интервале [FromTime, ToTime).
type StylistDayOff struct {
	ID        int64
	StylistID int64
	Date      time.Time
	FromTime  types.TimeString
	ToTime    types.TimeString
}

// IsFullDay возвращает true для выходного на весь день
func (d *StylistDayOff) IsFullDay() bool {
	return d.FromTime.IsZero() && d.ToTime.IsZero()
}

// SalonPaymentCard карта салона для приёма переводов.
// Активной может быть максимум одна карта салона одновременно.
type SalonPaymentCard struct {
	ID             int64
	SalonID        int64
	CardType       string
	CardholderName string
	CardNumber     string
	IsActive       bool
	UpdatedAt      time.Time
}

// DaySchedule рабочие интервалы и ограничения мастера на конкретную дату -
// всё, что нужно движку доступности, одним значением
type DaySchedule struct {
	WorkingHours []WorkingHour
	DaysOff      []StylistDayOff
}

// HasFullDayOff возвращает true, если на дату есть выходной на весь день
func (d *DaySchedule) HasFullDayOff() bool {
	for i := range d.DaysOff {
		if d.DaysOff[i].IsFullDay() {
			return true
		}
	}
	return false
}
