package update_appointment_status

import (
	"time"

	updateStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_status"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Action string `json:"action"` // "confirm" | "cancel" | "done"
}

// UpdateStatusResponse HTTP response model
type UpdateStatusResponse struct {
	ID            int64  `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	PaymentCardID *int64 `json:"paymentCardId,omitempty"`
	UpdatedAt     string `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateStatus.Response) *UpdateStatusResponse {
	return &UpdateStatusResponse{
		ID:            resp.ID,
		Status:        string(resp.Status),
		PaymentStatus: string(resp.PaymentStatus),
		PaymentCardID: resp.PaymentCardID,
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
