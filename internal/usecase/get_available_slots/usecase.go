package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/calendar"
)

// UseCase use case для получения доступных слотов записи к мастеру
type UseCase struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: stylist=%d, date=%s, services=%v",
		req.StylistID, req.Date.Format(domain.DateFormat), req.CatalogServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем мастера
	stylist, err := uc.scheduleRepo.GetStylist(ctx, req.StylistID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrStylistNotFound) {
			uc.logger.Warn("GetAvailableSlots: stylist id=%d not found", req.StylistID)
			return nil, ErrStylistNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get stylist id=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}

	// 4. Разрешаем услуги: цена мастера + длительность из каталога
	services, err := uc.scheduleRepo.GetStylistServices(ctx, req.StylistID, req.CatalogServiceIDs)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get stylist services: %v", err)
		return nil, fmt.Errorf("%w: failed to get stylist services: %v", ErrInternal, err)
	}

	if missing := missingServiceIDs(req.CatalogServiceIDs, services); len(missing) > 0 {
		uc.logger.Warn("GetAvailableSlots: stylist id=%d does not offer services %v", req.StylistID, missing)
		return nil, fmt.Errorf("%w: services %v", ErrServiceNotOffered, missing)
	}

	totalDuration := 0
	totalPrice := 0.0
	for _, s := range services {
		totalDuration += s.DurationMinutes
		totalPrice += s.Price
	}

	loc := stylist.Location()
	response := &Response{
		Date:                 req.Date,
		StylistID:            req.StylistID,
		TotalDurationMinutes: totalDuration,
		TotalPrice:           totalPrice,
		Slots:                []domain.Slot{},
	}

	// 5. Прошедшая дата - слотов нет, но это не ошибка
	if calendar.IsDateInPast(req.Date, now.In(loc)) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return response, nil
	}

	// 6. Расписание мастера на этот день
	daySchedule, err := uc.scheduleRepo.GetDaySchedule(ctx, req.StylistID, calendar.Weekday(req.Date), req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get day schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get day schedule: %v", ErrInternal, err)
	}

	if len(daySchedule.WorkingHours) == 0 || daySchedule.HasFullDayOff() {
		uc.logger.Info("GetAvailableSlots: stylist id=%d is not working on %s",
			req.StylistID, req.Date.Format(domain.DateFormat))
		return response, nil
	}

	// 7. Активные записи мастера, пересекающиеся с сутками запроса
	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	appointments, err := uc.appointmentRepo.GetActiveOverlapping(ctx, req.StylistID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 8. Генерируем слоты по сетке
	step := req.StepMinutes
	if step == 0 {
		step = domain.DefaultSlotStepMinutes
	}
	slots := buildSlots(daySchedule, appointments, req.Date, now, loc, step, totalDuration, totalPrice, req.CatalogServiceIDs)

	uc.logger.Info("GetAvailableSlots: generated %d slots for stylist=%d, date=%s",
		len(slots), req.StylistID, req.Date.Format(domain.DateFormat))

	response.Slots = slots
	return response, nil
}
