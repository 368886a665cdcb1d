package update_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	cardRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/paymentcard"
)

// UseCase use case для перехода записи по статусной машине.
// Статус и каскад оплаты меняются атомарно, в одной транзакции.
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	cardRepo        PaymentCardRepository
	txManager       TransactionManager
	notifier        NotificationSender
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// notifier может быть nil, если уведомления выключены.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	cardRepo PaymentCardRepository,
	txManager TransactionManager,
	notifier NotificationSender,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		cardRepo:        cardRepo,
		txManager:       txManager,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case смены статуса записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateStatus: appointment=%d, action=%s, user=%d",
		req.AppointmentID, req.Action, req.Actor.UserID)

	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	target, ok := req.Action.targetStatus()
	if !ok {
		uc.logger.Warn("UpdateStatus: unknown action %q", req.Action)
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, req.Action)
	}

	now := uc.timeProvider.Now()

	var (
		appointment *domain.Appointment
		stylist     *domain.Stylist
		role        domain.Role
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error

		appointment, err = uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("UpdateStatus: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("UpdateStatus: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		stylist, err = uc.scheduleRepo.GetStylist(txCtx, appointment.StylistID)
		if err != nil {
			uc.logger.Error("UpdateStatus: failed to get stylist id=%d: %v", appointment.StylistID, err)
			return fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
		}

		role = domain.ResolveRole(req.Actor, appointment, stylist)
		if err := authorize(role, target); err != nil {
			uc.logger.Warn("UpdateStatus: role=%s denied action=%s on appointment id=%d",
				role, req.Action, req.AppointmentID)
			return err
		}

		if !appointment.CanTransitionTo(target) {
			uc.logger.Warn("UpdateStatus: transition %s -> %s is not allowed", appointment.Status, target)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, target)
		}

		// Для подтверждения картой без привязанной карты подтягиваем
		// активную карту салона; её отсутствие не блокирует переход
		var activeCard *domain.SalonPaymentCard
		if target == domain.StatusConfirmed &&
			appointment.PaymentMethod == domain.PaymentMethodCard &&
			appointment.PaymentCardID == nil {
			activeCard, err = uc.cardRepo.GetActiveBySalon(txCtx, stylist.SalonID)
			if err != nil && !errors.Is(err, cardRepo.ErrNoActiveCard) {
				uc.logger.Error("UpdateStatus: failed to get active card for salon id=%d: %v", stylist.SalonID, err)
				return fmt.Errorf("%w: failed to get active card: %v", ErrInternal, err)
			}
		}

		appointment.Status = target
		fields := append([]string{"status"}, appointment.ApplyStatusChange(target, activeCard, now)...)

		if err := uc.appointmentRepo.UpdateFields(txCtx, appointment, fields); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("UpdateStatus: failed to update appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateStatus: appointment id=%d -> %s (payment: %s)",
		appointment.ID, appointment.Status, appointment.PaymentStatus)

	// Мастеру сообщаем о чужих изменениях его расписания
	if uc.notifier != nil && role != domain.RoleStylist && stylist.TelegramChatID != nil {
		uc.notifier.NotifyAsync(*stylist.TelegramChatID, notificationText(appointment))
	}

	return &Response{
		ID:            appointment.ID,
		Status:        appointment.Status,
		PaymentStatus: appointment.PaymentStatus,
		PaymentCardID: appointment.PaymentCardID,
		UpdatedAt:     now,
	}, nil
}

// authorize проверяет, что роль допускает целевой переход.
// Клиент может только отменить собственную запись, остальные переходы -
// за мастером, администратором салона и суперпользователем.
func authorize(role domain.Role, target domain.Status) error {
	if target == domain.StatusCancelled {
		if !role.CanCancelOwn() {
			return ErrPermissionDenied
		}
		return nil
	}

	if !role.CanManageAppointment() {
		return ErrPermissionDenied
	}
	return nil
}

func notificationText(a *domain.Appointment) string {
	switch a.Status {
	case domain.StatusCancelled:
		return fmt.Sprintf("Запись №%d отменена", a.ID)
	case domain.StatusConfirmed:
		return fmt.Sprintf("Запись №%d подтверждена", a.ID)
	default:
		return fmt.Sprintf("Запись №%d: статус %s", a.ID, a.Status)
	}
}
