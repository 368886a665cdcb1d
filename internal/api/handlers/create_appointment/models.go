package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model.
// Гостевые поля заполняет персонал салона при записи клиента без аккаунта.
type CreateAppointmentRequest struct {
	StylistID     int64   `json:"stylistId"`
	Date          string  `json:"date"`      // "2025-10-15"
	StartTime     string  `json:"startTime"` // "10:00"
	ServiceIDs    []int64 `json:"serviceIds"`
	PaymentMethod string  `json:"paymentMethod"` // "cash" | "card"
	Notes         string  `json:"notes,omitempty"`

	GuestName  string `json:"guestName,omitempty"`
	GuestPhone string `json:"guestPhone,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID         int64  `json:"id"`
	CustomerID *int64 `json:"customerId,omitempty"`
	GuestName  string `json:"guestName,omitempty"`
	GuestPhone string `json:"guestPhone,omitempty"`

	StylistID int64  `json:"stylistId"`
	StartTime string `json:"startTime"` // ISO 8601
	EndTime   string `json:"endTime"`   // ISO 8601

	Status        string `json:"status"`
	PaymentMethod string `json:"paymentMethod"`
	PaymentStatus string `json:"paymentStatus"`

	DurationMinutes int     `json:"durationMinutes"`
	TotalPrice      float64 `json:"totalPrice"`
	ServiceIDs      []int64 `json:"serviceIds"`

	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// IsGuest возвращает true для запроса гостевой записи
func (r *CreateAppointmentRequest) IsGuest() bool {
	return r.GuestName != "" || r.GuestPhone != ""
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// customerID равен nil для гостевой записи.
func (r *CreateAppointmentRequest) ToUseCaseRequest(customerID *int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		CustomerID:        customerID,
		GuestName:         r.GuestName,
		GuestPhone:        r.GuestPhone,
		StylistID:         r.StylistID,
		Date:              date,
		StartTime:         startTime,
		CatalogServiceIDs: r.ServiceIDs,
		PaymentMethod:     domain.PaymentMethod(r.PaymentMethod),
		Notes:             r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		CustomerID:      resp.CustomerID,
		GuestName:       resp.GuestName,
		GuestPhone:      resp.GuestPhone,
		StylistID:       resp.StylistID,
		StartTime:       resp.StartTime.Format(time.RFC3339),
		EndTime:         resp.EndTime.Format(time.RFC3339),
		Status:          string(resp.Status),
		PaymentMethod:   string(resp.PaymentMethod),
		PaymentStatus:   string(resp.PaymentStatus),
		DurationMinutes: resp.DurationMinutes,
		TotalPrice:      resp.TotalPrice,
		ServiceIDs:      resp.ServiceIDs,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
