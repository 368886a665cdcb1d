package payment_action

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Action действие над оплатой записи
type Action string

const (
	// ActionUploadReceipt клиент загружает чек о переводе
	ActionUploadReceipt Action = "upload_receipt"

	// ActionConfirmPaid мастер подтверждает поступление оплаты
	ActionConfirmPaid Action = "confirm_paid"

	// ActionRequestRefund персонал инициирует возврат по оплаченной записи
	ActionRequestRefund Action = "request_refund"

	// ActionRefundDetails клиент указывает реквизиты карты для возврата
	ActionRefundDetails Action = "refund_details"

	// ActionCompleteRefund персонал закрывает возврат после перевода денег
	ActionCompleteRefund Action = "complete_refund"

	// ActionChangeMethod смена способа оплаты
	ActionChangeMethod Action = "change_method"
)

// Request модель запроса на действие с оплатой.
// Поля payload читаются в зависимости от действия.
type Request struct {
	AppointmentID int64
	Actor         domain.Actor
	Action        Action

	// ReceiptFile для upload_receipt
	ReceiptFile string

	// Реквизиты карты клиента для refund_details
	RefundCardholderName string
	RefundCardNumber     string
	RefundCardType       string

	// RefundReceiptFile для complete_refund (необязательный)
	RefundReceiptFile string

	// NewMethod для change_method
	NewMethod domain.PaymentMethod
}

// Response модель ответа после действия с оплатой
type Response struct {
	ID            int64
	Status        domain.Status
	PaymentMethod domain.PaymentMethod
	PaymentStatus domain.PaymentStatus
	PaymentCardID *int64
	UpdatedAt     time.Time
}
