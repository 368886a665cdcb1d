package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис чтения записей: карточка, история клиента, день мастера
type Service struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Запись видят только её клиент, мастер, администратор салона и суперпользователь.
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, actor.UserID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	stylist, err := s.scheduleRepo.GetStylist(ctx, appointment.StylistID)
	if err != nil {
		s.logger.Error("GetByID: failed to get stylist id=%d: %v", appointment.StylistID, err)
		return nil, fmt.Errorf("%w: GetByID - failed to get stylist: %v", ErrInternal, err)
	}

	if domain.ResolveRole(actor, appointment, stylist) == domain.RoleNone {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", actor.UserID, id)
		return nil, ErrPermissionDenied
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetCustomerAppointments получает историю записей клиента (новые сверху).
// Клиент видит только собственную историю.
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: fetching appointments for user=%d, status=%v",
		req.Actor.UserID, req.Status)

	var status *domain.Status
	if req.Status != nil {
		converted, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &converted
	}

	appointments, err := s.appointmentRepo.GetByCustomer(ctx, req.Actor.UserID, status)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for user=%d: %v", req.Actor.UserID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: fetched %d appointments for user=%d",
		len(appointments), req.Actor.UserID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetStylistAppointments получает записи мастера за период.
// Доступно самому мастеру, администратору его салона и суперпользователю.
func (s *Service) GetStylistAppointments(ctx context.Context, req *models.GetStylistAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetStylistAppointments: stylist=%d, from=%s, to=%s, user=%d",
		req.StylistID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat), req.Actor.UserID)

	if !req.From.Before(req.To) {
		return nil, fmt.Errorf("%w: period start must be before its end", ErrInvalidInput)
	}

	stylist, err := s.scheduleRepo.GetStylist(ctx, req.StylistID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrStylistNotFound) {
			s.logger.Warn("GetStylistAppointments: stylist id=%d not found", req.StylistID)
			return nil, ErrStylistNotFound
		}
		s.logger.Error("GetStylistAppointments: failed to get stylist id=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}

	if err := s.checkStylistAccess(req.Actor, stylist); err != nil {
		s.logger.Warn("GetStylistAppointments: access denied for user=%d to stylist id=%d",
			req.Actor.UserID, req.StylistID)
		return nil, err
	}

	appointments, err := s.appointmentRepo.GetByStylistBetween(ctx, req.StylistID, req.From, req.To, req.IncludeCancelled)
	if err != nil {
		s.logger.Error("GetStylistAppointments: repository error for stylist=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: GetStylistAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStylistAppointments: fetched %d appointments for stylist=%d",
		len(appointments), req.StylistID)
	return models.FromDomainAppointmentList(appointments), nil
}

// checkStylistAccess проверяет право смотреть расписание мастера
func (s *Service) checkStylistAccess(actor domain.Actor, stylist *domain.Stylist) error {
	if actor.IsSuperuser {
		return nil
	}
	if actor.StylistID != nil && *actor.StylistID == stylist.ID {
		return nil
	}
	if actor.AdminSalonID != nil && *actor.AdminSalonID == stylist.SalonID {
		return nil
	}
	return ErrPermissionDenied
}
