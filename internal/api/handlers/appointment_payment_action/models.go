package appointment_payment_action

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	paymentAction "github.com/m04kA/SMC-AppointmentService/internal/usecase/payment_action"
)

// PaymentActionRequest HTTP request model.
// Поля payload читаются в зависимости от действия.
type PaymentActionRequest struct {
	Action string `json:"action"`

	ReceiptFile string `json:"receiptFile,omitempty"`

	RefundCardholderName string `json:"refundCardholderName,omitempty"`
	RefundCardNumber     string `json:"refundCardNumber,omitempty"`
	RefundCardType       string `json:"refundCardType,omitempty"`

	RefundReceiptFile string `json:"refundReceiptFile,omitempty"`

	NewMethod string `json:"newMethod,omitempty"` // "cash" | "card"
}

// PaymentActionResponse HTTP response model
type PaymentActionResponse struct {
	ID            int64  `json:"id"`
	Status        string `json:"status"`
	PaymentMethod string `json:"paymentMethod"`
	PaymentStatus string `json:"paymentStatus"`
	PaymentCardID *int64 `json:"paymentCardId,omitempty"`
	UpdatedAt     string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PaymentActionRequest) ToUseCaseRequest(appointmentID int64, actor domain.Actor) *paymentAction.Request {
	return &paymentAction.Request{
		AppointmentID:        appointmentID,
		Actor:                actor,
		Action:               paymentAction.Action(r.Action),
		ReceiptFile:          r.ReceiptFile,
		RefundCardholderName: r.RefundCardholderName,
		RefundCardNumber:     r.RefundCardNumber,
		RefundCardType:       r.RefundCardType,
		RefundReceiptFile:    r.RefundReceiptFile,
		NewMethod:            domain.PaymentMethod(r.NewMethod),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *paymentAction.Response) *PaymentActionResponse {
	return &PaymentActionResponse{
		ID:            resp.ID,
		Status:        string(resp.Status),
		PaymentMethod: string(resp.PaymentMethod),
		PaymentStatus: string(resp.PaymentStatus),
		PaymentCardID: resp.PaymentCardID,
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
