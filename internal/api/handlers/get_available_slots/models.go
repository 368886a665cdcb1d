package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartTime       string  `json:"startTime"` // "10:00"
	EndTime         string  `json:"endTime"`   // "10:45"
	DurationMinutes int     `json:"durationMinutes"`
	TotalPrice      float64 `json:"totalPrice"`
}

// AvailableSlotsResponse HTTP модель ответа
type AvailableSlotsResponse struct {
	Date                 string         `json:"date"`
	StylistID            int64          `json:"stylistId"`
	ServiceIDs           []int64        `json:"serviceIds"`
	TotalDurationMinutes int            `json:"totalDurationMinutes"`
	TotalPrice           float64        `json:"totalPrice"`
	Slots                []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response, serviceIDs []int64) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:       s.StartTime.Format(domain.TimeFormat),
			EndTime:         s.EndTime.Format(domain.TimeFormat),
			DurationMinutes: s.DurationMinutes,
			TotalPrice:      s.TotalPrice,
		})
	}

	return &AvailableSlotsResponse{
		Date:                 resp.Date.Format(domain.DateFormat),
		StylistID:            resp.StylistID,
		ServiceIDs:           serviceIDs,
		TotalDurationMinutes: resp.TotalDurationMinutes,
		TotalPrice:           resp.TotalPrice,
		Slots:                slots,
	}
}

// parseDate парсит дату формата YYYY-MM-DD
func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateFormat, s)
}
