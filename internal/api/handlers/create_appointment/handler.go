package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgGuestForbidden     = "гостевая запись доступна только персоналу салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgStylistNotFound    = "мастер не найден"
	msgSlotNotAvailable   = "выбранное время уже занято"
)

// Handler обработчик создания записи
type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle обрабатывает POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.GetActor(ctx)
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Гостевую запись (без аккаунта клиента) может оформить только персонал
	var customerID *int64
	if req.IsGuest() {
		if !actor.IsSuperuser && actor.StylistID == nil && actor.AdminSalonID == nil {
			handlers.RespondForbidden(w, msgGuestForbidden)
			return
		}
	} else {
		customerID = &actor.UserID
	}

	ucReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /appointments - Invalid request fields: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(ctx, ucReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrStylistNotFound):
			handlers.RespondNotFound(w, msgStylistNotFound)
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			handlers.RespondConflict(w, msgSlotNotAvailable)
		case errors.Is(err, createAppointment.ErrServiceNotOffered),
			errors.Is(err, createAppointment.ErrDuplicateService),
			errors.Is(err, createAppointment.ErrTimeInPast),
			errors.Is(err, createAppointment.ErrOutsideWorkingHours),
			errors.Is(err, createAppointment.ErrStylistDayOff),
			errors.Is(err, createAppointment.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /appointments - Failed to create appointment: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}
