package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetStylist(ctx context.Context, stylistID int64) (*domain.Stylist, error)
	GetStylistServices(ctx context.Context, stylistID int64, catalogServiceIDs []int64) ([]domain.StylistService, error)
	GetDaySchedule(ctx context.Context, stylistID int64, weekday int, date time.Time) (*domain.DaySchedule, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	// GetActiveOverlapping внутри транзакции блокирует найденные строки (FOR UPDATE)
	GetActiveOverlapping(ctx context.Context, stylistID int64, from, to time.Time) ([]*domain.Appointment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// NotificationSender интерфейс для фоновых уведомлений мастерам
type NotificationSender interface {
	NotifyAsync(chatID int64, text string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
