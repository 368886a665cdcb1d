package domain

import "time"

// ApplyStatusChange применяет к оплате побочные эффекты смены статуса записи
// и возвращает список изменённых полей (для точечного UPDATE).
//
// Для оплаты наличными эффектов нет - запись остаётся в PaymentNotRequired,
// расчёт происходит вне системы.
//
// Таблица переходов для оплаты картой:
//   - -> Confirmed: Pending/NotRequired -> AwaitingPayment; если карта не
//     привязана, привязывается активная карта салона (activeCard)
//   - -> Cancelled: AwaitingPayment -> NotRequired (ничего не оплачено);
//     AwaitingConfirmation/Paid -> RefundRequested + отметка времени
//     (деньги нужно вернуть)
//   - -> Done: AwaitingPayment при загруженном чеке -> AwaitingConfirmation
//     (мастер ещё должен подтвердить поступление средств)
func (a *Appointment) ApplyStatusChange(newStatus Status, activeCard *SalonPaymentCard, now time.Time) []string {
	var updated []string

	if a.PaymentMethod != PaymentMethodCard {
		return updated
	}

	switch newStatus {
	case StatusConfirmed:
		if a.PaymentStatus == PaymentPending || a.PaymentStatus == PaymentNotRequired {
			a.PaymentStatus = PaymentAwaitingPayment
			updated = append(updated, "payment_status")

			if a.PaymentCardID == nil && activeCard != nil {
				cardID := activeCard.ID
				a.PaymentCardID = &cardID
				updated = append(updated, "payment_card_id")
			}
		}

	case StatusCancelled:
		switch a.PaymentStatus {
		case PaymentAwaitingPayment:
			a.PaymentStatus = PaymentNotRequired
			updated = append(updated, "payment_status")
		case PaymentAwaitingConfirmation, PaymentPaid:
			a.PaymentStatus = PaymentRefundRequested
			updated = append(updated, "payment_status")
			if a.RefundRequestedAt == nil {
				a.RefundRequestedAt = &now
				updated = append(updated, "refund_requested_at")
			}
		}

	case StatusDone:
		if a.PaymentStatus == PaymentAwaitingPayment && a.HasReceipt() {
			a.PaymentStatus = PaymentAwaitingConfirmation
			updated = append(updated, "payment_status")
		}
	}

	return updated
}
