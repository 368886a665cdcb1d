package update_status

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Action действие над статусом записи
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
	ActionDone    Action = "done"
)

// targetStatus отображает действие на целевой статус записи
func (a Action) targetStatus() (domain.Status, bool) {
	switch a {
	case ActionConfirm:
		return domain.StatusConfirmed, true
	case ActionCancel:
		return domain.StatusCancelled, true
	case ActionDone:
		return domain.StatusDone, true
	}
	return "", false
}

// Request модель запроса на смену статуса записи
type Request struct {
	AppointmentID int64
	Actor         domain.Actor
	Action        Action
}

// Response модель ответа после смены статуса
type Response struct {
	ID            int64
	Status        domain.Status
	PaymentStatus domain.PaymentStatus
	PaymentCardID *int64
	UpdatedAt     time.Time
}
