package payment_action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	cardRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/paymentcard"
)

// UseCase use case для действий над оплатой записи.
// Каждое действие - отдельный шаг платёжной машины со своими
// предусловиями на пару (статус записи, статус оплаты).
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	cardRepo        PaymentCardRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	cardRepo PaymentCardRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		cardRepo:        cardRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет действие над оплатой записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PaymentAction: appointment=%d, action=%s, user=%d",
		req.AppointmentID, req.Action, req.Actor.UserID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("PaymentAction: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var appointment *domain.Appointment

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error

		appointment, err = uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("PaymentAction: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("PaymentAction: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		stylist, err := uc.scheduleRepo.GetStylist(txCtx, appointment.StylistID)
		if err != nil {
			uc.logger.Error("PaymentAction: failed to get stylist id=%d: %v", appointment.StylistID, err)
			return fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
		}

		role := domain.ResolveRole(req.Actor, appointment, stylist)
		if err := authorize(role, req.Action); err != nil {
			uc.logger.Warn("PaymentAction: role=%s denied action=%s on appointment id=%d",
				role, req.Action, req.AppointmentID)
			return err
		}

		fields, err := uc.apply(txCtx, appointment, stylist, req, now)
		if err != nil {
			uc.logger.Warn("PaymentAction: action=%s rejected for appointment id=%d (%s/%s): %v",
				req.Action, appointment.ID, appointment.Status, appointment.PaymentStatus, err)
			return err
		}

		if err := uc.appointmentRepo.UpdateFields(txCtx, appointment, fields); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("PaymentAction: failed to update appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("PaymentAction: appointment id=%d, action=%s done (payment: %s)",
		appointment.ID, req.Action, appointment.PaymentStatus)

	return &Response{
		ID:            appointment.ID,
		Status:        appointment.Status,
		PaymentMethod: appointment.PaymentMethod,
		PaymentStatus: appointment.PaymentStatus,
		PaymentCardID: appointment.PaymentCardID,
		UpdatedAt:     now,
	}, nil
}

// apply выполняет мутацию под конкретное действие и возвращает
// список изменённых полей
func (uc *UseCase) apply(ctx context.Context, a *domain.Appointment, stylist *domain.Stylist, req *Request, now time.Time) ([]string, error) {
	switch req.Action {
	case ActionUploadReceipt:
		return uploadReceipt(a, req.ReceiptFile, now)
	case ActionConfirmPaid:
		return confirmPaid(a)
	case ActionRequestRefund:
		return requestRefund(a, now)
	case ActionRefundDetails:
		return refundDetails(a, req)
	case ActionCompleteRefund:
		return completeRefund(a, req.RefundReceiptFile, now)
	case ActionChangeMethod:
		return uc.changeMethod(ctx, a, stylist, req.NewMethod)
	}
	return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, req.Action)
}

// uploadReceipt принимает чек о переводе и передаёт оплату на
// подтверждение мастеру. Чек уместен только по подтверждённой записи,
// ожидающей оплату.
func uploadReceipt(a *domain.Appointment, file string, now time.Time) ([]string, error) {
	if a.PaymentMethod != domain.PaymentMethodCard {
		return nil, fmt.Errorf("%w: cash appointment has no receipt", ErrInvalidPaymentState)
	}
	if a.Status != domain.StatusConfirmed || a.PaymentStatus != domain.PaymentAwaitingPayment {
		return nil, fmt.Errorf("%w: receipt is accepted only for confirmed appointment awaiting payment",
			ErrInvalidPaymentState)
	}
	if a.HasReceipt() {
		return nil, ErrReceiptAlreadyUploaded
	}

	a.ReceiptFile = &file
	a.ReceiptUploadedAt = &now
	a.PaymentStatus = domain.PaymentAwaitingConfirmation
	return []string{"receipt_file", "receipt_uploaded_at", "payment_status"}, nil
}

// confirmPaid фиксирует поступление денег на карту салона
func confirmPaid(a *domain.Appointment) ([]string, error) {
	if a.PaymentStatus != domain.PaymentAwaitingConfirmation {
		return nil, fmt.Errorf("%w: nothing awaits confirmation", ErrInvalidPaymentState)
	}

	a.PaymentStatus = domain.PaymentPaid
	return []string{"payment_status"}, nil
}

// requestRefund инициирует возврат по оплаченной (или ожидающей
// подтверждения) записи
func requestRefund(a *domain.Appointment, now time.Time) ([]string, error) {
	if a.PaymentStatus != domain.PaymentAwaitingConfirmation && a.PaymentStatus != domain.PaymentPaid {
		return nil, fmt.Errorf("%w: no payment to refund", ErrInvalidPaymentState)
	}

	a.PaymentStatus = domain.PaymentRefundRequested
	fields := []string{"payment_status"}
	if a.RefundRequestedAt == nil {
		a.RefundRequestedAt = &now
		fields = append(fields, "refund_requested_at")
	}
	return fields, nil
}

// refundDetails сохраняет реквизиты карты клиента для возврата
func refundDetails(a *domain.Appointment, req *Request) ([]string, error) {
	if a.PaymentStatus != domain.PaymentRefundRequested {
		return nil, fmt.Errorf("%w: refund is not requested", ErrInvalidPaymentState)
	}

	a.RefundCardholderName = req.RefundCardholderName
	a.RefundCardNumber = req.RefundCardNumber
	a.RefundCardType = req.RefundCardType
	return []string{"refund_cardholder_name", "refund_card_number", "refund_card_type"}, nil
}

// completeRefund закрывает возврат: деньги переведены клиенту.
// Возврат возможен только по отменённой записи и только когда клиент
// указал реквизиты.
func completeRefund(a *domain.Appointment, receiptFile string, now time.Time) ([]string, error) {
	if a.Status != domain.StatusCancelled || a.PaymentStatus != domain.PaymentRefundRequested {
		return nil, fmt.Errorf("%w: refund completion requires cancelled appointment with requested refund",
			ErrInvalidPaymentState)
	}
	if !a.HasRefundDetails() {
		return nil, ErrRefundDetailsRequired
	}

	a.PaymentStatus = domain.PaymentRefunded
	fields := []string{"payment_status"}

	if receiptFile != "" {
		a.RefundReceiptFile = &receiptFile
		a.RefundReceiptUploadedAt = &now
		fields = append(fields, "refund_receipt_file", "refund_receipt_uploaded_at")
	}
	return fields, nil
}

// changeMethod меняет способ оплаты записи.
// Карта -> наличные возможна только до загрузки чека и стирает все
// платёжные артефакты. Наличные -> карта переводит оплату в состояние,
// соответствующее текущему статусу записи.
func (uc *UseCase) changeMethod(ctx context.Context, a *domain.Appointment, stylist *domain.Stylist, newMethod domain.PaymentMethod) ([]string, error) {
	if newMethod == a.PaymentMethod {
		return nil, fmt.Errorf("%w: payment method is already %q", ErrInvalidInput, newMethod)
	}
	if a.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: appointment is %s", ErrInvalidPaymentState, a.Status)
	}

	if newMethod == domain.PaymentMethodCash {
		if a.HasReceipt() {
			return nil, ErrReceiptAlreadyUploaded
		}

		a.PaymentMethod = domain.PaymentMethodCash
		a.PaymentStatus = domain.PaymentNotRequired
		a.PaymentCardID = nil
		a.ReceiptFile = nil
		a.ReceiptUploadedAt = nil
		a.RefundCardholderName = ""
		a.RefundCardNumber = ""
		a.RefundCardType = ""
		a.RefundRequestedAt = nil
		a.RefundReceiptFile = nil
		a.RefundReceiptUploadedAt = nil

		return []string{
			"payment_method",
			"payment_status",
			"payment_card_id",
			"receipt_file",
			"receipt_uploaded_at",
			"refund_cardholder_name",
			"refund_card_number",
			"refund_card_type",
			"refund_requested_at",
			"refund_receipt_file",
			"refund_receipt_uploaded_at",
		}, nil
	}

	a.PaymentMethod = domain.PaymentMethodCard
	fields := []string{"payment_method", "payment_status"}

	if a.Status == domain.StatusConfirmed {
		a.PaymentStatus = domain.PaymentAwaitingPayment

		// По подтверждённой записи сразу привязываем активную карту салона
		if a.PaymentCardID == nil {
			card, err := uc.cardRepo.GetActiveBySalon(ctx, stylist.SalonID)
			if err != nil && !errors.Is(err, cardRepo.ErrNoActiveCard) {
				return nil, fmt.Errorf("%w: failed to get active card: %v", ErrInternal, err)
			}
			if card != nil {
				a.PaymentCardID = &card.ID
				fields = append(fields, "payment_card_id")
			}
		}
	} else {
		a.PaymentStatus = domain.PaymentPending
	}

	return fields, nil
}

// authorize проверяет право роли на действие.
// Клиент распоряжается только своей оплатой: чек, реквизиты возврата
// и способ оплаты. Подтверждение денег и возвраты - за персоналом.
func authorize(role domain.Role, action Action) error {
	switch action {
	case ActionUploadReceipt, ActionRefundDetails, ActionChangeMethod:
		if !role.CanCancelOwn() {
			return ErrPermissionDenied
		}
	case ActionConfirmPaid, ActionRequestRefund, ActionCompleteRefund:
		if !role.CanManageAppointment() {
			return ErrPermissionDenied
		}
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}
	return nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	switch req.Action {
	case ActionUploadReceipt:
		if req.ReceiptFile == "" {
			return fmt.Errorf("%w: receipt file is required", ErrInvalidInput)
		}
	case ActionRefundDetails:
		if req.RefundCardholderName == "" || req.RefundCardNumber == "" || req.RefundCardType == "" {
			return fmt.Errorf("%w: cardholder name, card number and card type are required", ErrInvalidInput)
		}
	case ActionChangeMethod:
		if req.NewMethod != domain.PaymentMethodCash && req.NewMethod != domain.PaymentMethodCard {
			return fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, req.NewMethod)
		}
	case ActionConfirmPaid, ActionRequestRefund, ActionCompleteRefund:
		// без payload
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, req.Action)
	}

	return nil
}
