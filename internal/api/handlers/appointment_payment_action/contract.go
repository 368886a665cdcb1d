package appointment_payment_action

import (
	"context"

	paymentAction "github.com/m04kA/SMC-AppointmentService/internal/usecase/payment_action"
)

type PaymentActionUseCase interface {
	Execute(ctx context.Context, req *paymentAction.Request) (*paymentAction.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
