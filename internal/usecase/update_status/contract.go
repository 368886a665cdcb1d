package update_status

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateFields(ctx context.Context, appointment *domain.Appointment, fields []string) error
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetStylist(ctx context.Context, stylistID int64) (*domain.Stylist, error)
}

// PaymentCardRepository интерфейс репозитория карт салона
type PaymentCardRepository interface {
	GetActiveBySalon(ctx context.Context, salonID int64) (*domain.SalonPaymentCard, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
