package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи.
// Запись создаётся либо на клиента (CustomerID), либо на гостя
// (GuestName + GuestPhone) - ровно одно из двух.
type Request struct {
	CustomerID *int64
	GuestName  string
	GuestPhone string

	StylistID         int64
	Date              time.Time        // Дата записи (без времени)
	StartTime         types.TimeString // Время начала в таймзоне мастера
	CatalogServiceIDs []int64

	PaymentMethod domain.PaymentMethod
	Notes         string
}

// Response модель ответа с созданной записью
type Response struct {
	ID         int64
	CustomerID *int64
	GuestName  string
	GuestPhone string

	StylistID int64
	StartTime time.Time
	EndTime   time.Time

	Status        domain.Status
	PaymentMethod domain.PaymentMethod
	PaymentStatus domain.PaymentStatus

	DurationMinutes int
	TotalPrice      float64
	ServiceIDs      []int64

	Notes     string
	CreatedAt time.Time
}
