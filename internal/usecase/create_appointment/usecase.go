package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/calendar"
)

// UseCase use case для создания записи к мастеру
type UseCase struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	notifier        NotificationSender
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// notifier может быть nil, если уведомления выключены.
func NewUseCase(
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	notifier NotificationSender,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка занятости и вставка идут в одной сериализуемой транзакции;
// кандидаты на пересечение блокируются FOR UPDATE, а финальным арбитром
// остаётся частичный уникальный индекс в БД.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: stylist=%d, date=%s, time=%s, services=%v",
		req.StylistID, req.Date.Format(domain.DateFormat), req.StartTime, req.CatalogServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем мастера
	stylist, err := uc.scheduleRepo.GetStylist(ctx, req.StylistID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrStylistNotFound) {
			uc.logger.Warn("CreateAppointment: stylist id=%d not found", req.StylistID)
			return nil, ErrStylistNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get stylist id=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}

	// 4. Разрешаем услуги: цена мастера + длительность из каталога
	services, err := uc.scheduleRepo.GetStylistServices(ctx, req.StylistID, req.CatalogServiceIDs)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get stylist services: %v", err)
		return nil, fmt.Errorf("%w: failed to get stylist services: %v", ErrInternal, err)
	}

	if missing := missingServiceIDs(req.CatalogServiceIDs, services); len(missing) > 0 {
		uc.logger.Warn("CreateAppointment: stylist id=%d does not offer services %v", req.StylistID, missing)
		return nil, fmt.Errorf("%w: services %v", ErrServiceNotOffered, missing)
	}

	totalDuration := 0
	totalPrice := 0.0
	lines := make([]domain.AppointmentLine, 0, len(services))
	for _, s := range services {
		totalDuration += s.DurationMinutes
		totalPrice += s.Price
		lines = append(lines, domain.AppointmentLine{
			StylistServiceID: s.ID,
			CatalogServiceID: s.CatalogServiceID,
			Price:            s.Price,
			DurationMinutes:  s.DurationMinutes,
		})
	}

	// 5. Вычисляем окно записи в таймзоне мастера
	loc := stylist.Location()
	absStart := req.StartTime.OnDate(req.Date, loc)

	endTime, err := req.StartTime.AddMinutes(totalDuration)
	if err != nil {
		uc.logger.Warn("CreateAppointment: window crosses midnight: %v", err)
		return nil, fmt.Errorf("%w: appointment window must not cross midnight", ErrInvalidInput)
	}
	absEnd := endTime.OnDate(req.Date, loc)

	if !absStart.After(now) {
		uc.logger.Warn("CreateAppointment: time %s is in the past", absStart)
		return nil, ErrTimeInPast
	}

	// 6. Проверка расписания, занятости и вставка - в одной транзакции
	var result *domain.Appointment

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		daySchedule, err := uc.scheduleRepo.GetDaySchedule(txCtx, req.StylistID, calendar.Weekday(req.Date), req.Date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get day schedule: %v", err)
			return fmt.Errorf("%w: failed to get day schedule: %v", ErrInternal, err)
		}

		if daySchedule.HasFullDayOff() {
			uc.logger.Warn("CreateAppointment: stylist id=%d has a day off on %s",
				req.StylistID, req.Date.Format(domain.DateFormat))
			return ErrStylistDayOff
		}

		if overlapsPartialDayOff(daySchedule, req.StartTime.String(), endTime.String()) {
			uc.logger.Warn("CreateAppointment: window overlaps partial day off")
			return ErrStylistDayOff
		}

		if !fitsSchedule(daySchedule, req.StartTime.String(), endTime.String()) {
			uc.logger.Warn("CreateAppointment: window %s-%s does not fit working hours",
				req.StartTime, endTime)
			return ErrOutsideWorkingHours
		}

		// Кандидаты на пересечение блокируются до конца транзакции
		overlapping, err := uc.appointmentRepo.GetActiveOverlapping(txCtx, req.StylistID, absStart, absEnd)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get overlapping appointments: %v", err)
			return fmt.Errorf("%w: failed to get overlapping appointments: %v", ErrInternal, err)
		}

		if len(overlapping) > 0 {
			uc.logger.Warn("CreateAppointment: slot %s is taken by appointment id=%d",
				req.StartTime, overlapping[0].ID)
			return ErrSlotNotAvailable
		}

		appointment := &domain.Appointment{
			CustomerID:    req.CustomerID,
			GuestName:     req.GuestName,
			GuestPhone:    req.GuestPhone,
			StylistID:     req.StylistID,
			StartTime:     absStart,
			EndTime:       absEnd,
			Status:        domain.StatusPending,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: initialPaymentStatus(req.PaymentMethod),
			Notes:         req.Notes,
			Services:      lines,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateAppointment: slot %s lost to concurrent appointment", req.StartTime)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	if uc.notifier != nil && stylist.TelegramChatID != nil {
		uc.notifier.NotifyAsync(*stylist.TelegramChatID, fmt.Sprintf(
			"Новая запись №%d на %s, услуг: %d",
			result.ID, result.StartTime.In(loc).Format("02.01.2006 15:04"), len(result.Services)))
	}

	return &Response{
		ID:              result.ID,
		CustomerID:      result.CustomerID,
		GuestName:       result.GuestName,
		GuestPhone:      result.GuestPhone,
		StylistID:       result.StylistID,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		Status:          result.Status,
		PaymentMethod:   result.PaymentMethod,
		PaymentStatus:   result.PaymentStatus,
		DurationMinutes: totalDuration,
		TotalPrice:      totalPrice,
		ServiceIDs:      req.CatalogServiceIDs,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
	}, nil
}

// initialPaymentStatus возвращает стартовый статус оплаты по способу:
// наличные не требуют онлайн-оплаты
func initialPaymentStatus(method domain.PaymentMethod) domain.PaymentStatus {
	if method == domain.PaymentMethodCard {
		return domain.PaymentPending
	}
	return domain.PaymentNotRequired
}

// missingServiceIDs возвращает ID запрошенных услуг, которых нет среди услуг мастера
func missingServiceIDs(requested []int64, resolved []domain.StylistService) []int64 {
	offered := make(map[int64]struct{}, len(resolved))
	for _, s := range resolved {
		offered[s.CatalogServiceID] = struct{}{}
	}

	missing := make([]int64, 0)
	for _, id := range requested {
		if _, ok := offered[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
