package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// GetCustomerAppointmentsRequest запрос на историю записей клиента
type GetCustomerAppointmentsRequest struct {
	Actor  domain.Actor
	Status *string
}

// GetStylistAppointmentsRequest запрос на записи мастера за период
type GetStylistAppointmentsRequest struct {
	Actor            domain.Actor
	StylistID        int64
	From             time.Time
	To               time.Time
	IncludeCancelled bool
}

// Response модели

// ServiceLineResponse услуга в составе записи
type ServiceLineResponse struct {
	CatalogServiceID int64   `json:"catalogServiceId"`
	Price            float64 `json:"price"`
	DurationMinutes  int     `json:"durationMinutes"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID         int64  `json:"id"`
	CustomerID *int64 `json:"customerId,omitempty"`
	GuestName  string `json:"guestName,omitempty"`
	GuestPhone string `json:"guestPhone,omitempty"`

	StylistID int64     `json:"stylistId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`

	Status        string `json:"status"`
	PaymentMethod string `json:"paymentMethod"`
	PaymentStatus string `json:"paymentStatus"`
	PaymentCardID *int64 `json:"paymentCardId,omitempty"`

	ReceiptUploaded   bool       `json:"receiptUploaded"`
	RefundRequestedAt *time.Time `json:"refundRequestedAt,omitempty"`

	Services        []ServiceLineResponse `json:"services"`
	DurationMinutes int                   `json:"durationMinutes"`
	TotalPrice      float64               `json:"totalPrice"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// FromDomainAppointment конвертирует доменную модель в response
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	services := make([]ServiceLineResponse, 0, len(a.Services))
	for _, line := range a.Services {
		services = append(services, ServiceLineResponse{
			CatalogServiceID: line.CatalogServiceID,
			Price:            line.Price,
			DurationMinutes:  line.DurationMinutes,
		})
	}

	return &AppointmentResponse{
		ID:                a.ID,
		CustomerID:        a.CustomerID,
		GuestName:         a.GuestName,
		GuestPhone:        a.GuestPhone,
		StylistID:         a.StylistID,
		StartTime:         a.StartTime,
		EndTime:           a.EndTime,
		Status:            string(a.Status),
		PaymentMethod:     string(a.PaymentMethod),
		PaymentStatus:     string(a.PaymentStatus),
		PaymentCardID:     a.PaymentCardID,
		ReceiptUploaded:   a.HasReceipt(),
		RefundRequestedAt: a.RefundRequestedAt,
		Services:          services,
		DurationMinutes:   int(a.TotalDuration() / time.Minute),
		TotalPrice:        a.TotalPrice(),
		Notes:             a.Notes,
		CreatedAt:         a.CreatedAt,
	}
}

// FromDomainAppointmentList конвертирует список доменных моделей в response
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	result := make([]AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		result = append(result, *FromDomainAppointment(a))
	}
	return &AppointmentListResponse{
		Appointments: result,
		Total:        len(result),
	}
}

// ToDomainStatus конвертирует строковый статус в доменный
func ToDomainStatus(s string) (domain.Status, error) {
	status := domain.Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
