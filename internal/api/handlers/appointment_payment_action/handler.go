package appointment_payment_action

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	paymentAction "github.com/m04kA/SMC-AppointmentService/internal/usecase/payment_action"
)

const (
	msgUnauthorized         = "требуется авторизация"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgAppointmentNotFound  = "запись не найдена"
	msgPermissionDenied     = "недостаточно прав для действия с оплатой"
	msgInvalidPaymentState  = "действие неприменимо к текущему состоянию оплаты"
	msgRefundDetailsMissing = "не указаны реквизиты карты для возврата"
	msgReceiptAlreadyExists = "чек об оплате уже загружен"
)

// Handler обработчик действий с оплатой записи
type Handler struct {
	useCase PaymentActionUseCase
	logger  Logger
}

func NewHandler(useCase PaymentActionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle обрабатывает POST /api/v1/appointments/{appointmentId}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.GetActor(ctx)
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/payment - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req PaymentActionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(ctx, req.ToUseCaseRequest(appointmentID, actor))
	if err != nil {
		switch {
		case errors.Is(err, paymentAction.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgAppointmentNotFound)
		case errors.Is(err, paymentAction.ErrPermissionDenied):
			handlers.RespondForbidden(w, msgPermissionDenied)
		case errors.Is(err, paymentAction.ErrInvalidPaymentState):
			handlers.RespondConflict(w, msgInvalidPaymentState)
		case errors.Is(err, paymentAction.ErrReceiptAlreadyUploaded):
			handlers.RespondConflict(w, msgReceiptAlreadyExists)
		case errors.Is(err, paymentAction.ErrRefundDetailsRequired):
			handlers.RespondBadRequest(w, msgRefundDetailsMissing)
		case errors.Is(err, paymentAction.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /appointments/{id}/payment - Failed to apply payment action: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
