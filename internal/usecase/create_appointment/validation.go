package create_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StylistID <= 0 {
		return fmt.Errorf("%w: stylistID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if _, err := req.StartTime.Minutes(); err != nil {
		return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}

	if len(req.CatalogServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(req.CatalogServiceIDs))
	for _, id := range req.CatalogServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: service id=%d", ErrDuplicateService, id)
		}
		seen[id] = struct{}{}
	}

	if err := validateParty(req); err != nil {
		return err
	}

	if req.PaymentMethod != domain.PaymentMethodCash && req.PaymentMethod != domain.PaymentMethodCard {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, req.PaymentMethod)
	}

	if len(req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateParty проверяет инвариант "ровно одна сторона":
// либо клиент, либо гость с именем и телефоном
func validateParty(req *Request) error {
	if req.CustomerID != nil {
		if *req.CustomerID <= 0 {
			return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
		}
		if req.GuestName != "" || req.GuestPhone != "" {
			return fmt.Errorf("%w: guest fields must be empty for customer appointment", ErrInvalidInput)
		}
		return nil
	}

	if req.GuestName == "" || req.GuestPhone == "" {
		return fmt.Errorf("%w: guest appointment requires name and phone", ErrInvalidInput)
	}
	if len(req.GuestName) > domain.MaxGuestNameLength {
		return fmt.Errorf("%w: guest name must not exceed %d characters", ErrInvalidInput, domain.MaxGuestNameLength)
	}
	if len(req.GuestPhone) > domain.MaxGuestPhoneLength {
		return fmt.Errorf("%w: guest phone must not exceed %d characters", ErrInvalidInput, domain.MaxGuestPhoneLength)
	}

	return nil
}

// fitsSchedule проверяет, что окно [start, end) целиком лежит в одном из
// рабочих интервалов дня и не накрывает его перерывы.
// Сравнение идёт по локальному времени мастера.
func fitsSchedule(daySchedule *domain.DaySchedule, start, end string) bool {
	for i := range daySchedule.WorkingHours {
		wh := &daySchedule.WorkingHours[i]

		if start < wh.StartTime.String() || end > wh.EndTime.String() {
			continue
		}

		for j := range wh.Breaks {
			b := &wh.Breaks[j]
			if b.StartTime.String() < end && start < b.EndTime.String() {
				return false
			}
		}
		return true
	}
	return false
}

// overlapsPartialDayOff проверяет пересечение окна с частичными выходными
func overlapsPartialDayOff(daySchedule *domain.DaySchedule, start, end string) bool {
	for i := range daySchedule.DaysOff {
		d := &daySchedule.DaysOff[i]
		if d.IsFullDay() {
			continue
		}
		if d.FromTime.String() < end && start < d.ToTime.String() {
			return true
		}
	}
	return false
}
