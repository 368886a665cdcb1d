package payment_action

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrPermissionDenied возвращается, когда роль вызывающего не допускает действие
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidPaymentState возвращается, когда действие неприменимо
	// к текущей паре (статус записи, статус оплаты)
	ErrInvalidPaymentState = errors.New("action is not applicable in current payment state")

	// ErrRefundDetailsRequired возвращается при завершении возврата
	// без реквизитов карты клиента
	ErrRefundDetailsRequired = errors.New("refund card details are required")

	// ErrReceiptAlreadyUploaded возвращается при смене способа оплаты
	// после загрузки чека
	ErrReceiptAlreadyUploaded = errors.New("receipt already uploaded")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
