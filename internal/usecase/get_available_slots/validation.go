package get_available_slots

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

	if len(req.CatalogServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if req.StepMinutes != 0 &&
		(req.StepMinutes < domain.MinSlotStepMinutes || req.StepMinutes > domain.MaxSlotStepMinutes) {
		return fmt.Errorf("%w: step must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
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

	return nil
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
