package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidStylistID  = "некорректный ID мастера"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidServices   = "некорректный список услуг"
	msgInvalidStep       = "некорректный шаг сетки слотов"
	msgStylistNotFound   = "мастер не найден"
	msgServiceNotOffered = "мастер не оказывает часть запрошенных услуг"
	msgDuplicateService  = "услуга указана более одного раза"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/stylists/{stylistId}/available-slots?date=YYYY-MM-DD&services=1,2&step=30
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	stylistID, err := strconv.ParseInt(vars["stylistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid stylist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStylistID)
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	serviceIDs, err := parseServiceIDs(r.URL.Query().Get("services"))
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid services: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServices)
		return
	}

	stepMinutes, err := parseStep(r.URL.Query().Get("step"))
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid step: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStep)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		StylistID:         stylistID,
		Date:              date,
		CatalogServiceIDs: serviceIDs,
		StepMinutes:       stepMinutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrStylistNotFound):
			h.logger.Warn("GET /available-slots - Stylist not found: stylist_id=%d", stylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotOffered):
			h.logger.Warn("GET /available-slots - Service not offered: stylist_id=%d", stylistID)
			handlers.RespondBadRequest(w, msgServiceNotOffered)

		case errors.Is(err, getAvailableSlots.ErrDuplicateService):
			h.logger.Warn("GET /available-slots - Duplicate service: stylist_id=%d", stylistID)
			handlers.RespondBadRequest(w, msgDuplicateService)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /available-slots - Failed: stylist_id=%d, error=%v", stylistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-slots - Returned %d slots: stylist_id=%d, date=%s",
		len(result.Slots), stylistID, r.URL.Query().Get("date"))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, serviceIDs))
}

// parseStep разбирает необязательный шаг сетки слотов в минутах
func parseStep(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// parseServiceIDs разбирает список ID услуг из query параметра "1,2,3"
func parseServiceIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, errors.New("services query parameter is required")
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
