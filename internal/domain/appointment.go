package domain

import "time"

// Status статус записи. Коды совпадают с историческими значениями в БД.
type Status string

const (
	StatusPending   Status = "P" // ожидает подтверждения мастером
	StatusConfirmed Status = "C" // подтверждена
	StatusCancelled Status = "X" // отменена (слот снова свободен)
	StatusDone      Status = "D" // выполнена
)

// PaymentMethod способ оплаты записи
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

// PaymentStatus статус оплаты записи
type PaymentStatus string

const (
	PaymentNotRequired          PaymentStatus = "not_required"
	PaymentPending              PaymentStatus = "pending"
	PaymentAwaitingPayment      PaymentStatus = "awaiting_payment"
	PaymentAwaitingConfirmation PaymentStatus = "awaiting_confirmation"
	PaymentPaid                 PaymentStatus = "paid"
	PaymentRefundRequested      PaymentStatus = "refund_requested"
	PaymentRefunded             PaymentStatus = "refunded"
)

// Appointment запись клиента (или гостя) к мастеру на набор услуг.
//
// start_time/end_time хранятся как абсолютные моменты (UTC в БД);
// end_time всегда равен start_time + суммарная длительность услуг.
// Записи никогда не удаляются физически - только переводятся в StatusCancelled,
// иначе частичный уникальный индекс по активным записям теряет смысл.
type Appointment struct {
	ID int64

	// Ровно одно из двух: либо CustomerID, либо пара GuestName+GuestPhone
	CustomerID *int64
	GuestName  string
	GuestPhone string

	StylistID int64

	StartTime time.Time
	EndTime   time.Time

	Status Status

	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	PaymentCardID *int64

	// Ссылка на файл чека об оплате (хранилище файлов - внешнее)
	ReceiptFile       *string
	ReceiptUploadedAt *time.Time

	RefundCardholderName string
	RefundCardNumber     string
	RefundCardType       string
	RefundRequestedAt    *time.Time

	RefundReceiptFile       *string
	RefundReceiptUploadedAt *time.Time

	Notes     string
	CreatedAt time.Time

	// Services строки записи; цена и длительность читаются через живую
	// связь StylistService -> каталог, а не копируются на запись
	Services []AppointmentLine
}

// AppointmentLine связь записи с конкретной услугой мастера
type AppointmentLine struct {
	ID               int64
	AppointmentID    int64
	StylistServiceID int64

	// Данные, прочитанные через связь на момент запроса
	CatalogServiceID int64
	Price            float64
	DurationMinutes  int
}

// validTransitions допустимые переходы статуса записи.
// Cancelled и Done - терминальные состояния.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusDone},
}

// CanTransitionTo возвращает true, если переход из текущего статуса в next разрешён
func (a *Appointment) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[a.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal возвращает true для терминальных статусов
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusDone
}

// IsValid возвращает true для известного статуса
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusDone:
		return true
	}
	return false
}

// IsActive возвращает true, если запись занимает слот
// (любой статус кроме отменённой)
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsGuest возвращает true для гостевой записи
func (a *Appointment) IsGuest() bool {
	return a.CustomerID == nil
}

// HasReceipt возвращает true, если клиент загрузил чек об оплате
func (a *Appointment) HasReceipt() bool {
	return a.ReceiptFile != nil && *a.ReceiptFile != ""
}

// HasRefundDetails возвращает true, если клиент указал реквизиты для возврата
func (a *Appointment) HasRefundDetails() bool {
	return a.RefundCardNumber != "" && a.RefundCardholderName != "" && a.RefundCardType != ""
}

// TotalPrice возвращает суммарную цену услуг записи
func (a *Appointment) TotalPrice() float64 {
	var total float64
	for _, line := range a.Services {
		total += line.Price
	}
	return total
}

// TotalDuration возвращает суммарную длительность услуг записи
func (a *Appointment) TotalDuration() time.Duration {
	var minutes int
	for _, line := range a.Services {
		minutes += line.DurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// CatalogServiceIDs возвращает список ID услуг каталога в записи
func (a *Appointment) CatalogServiceIDs() []int64 {
	ids := make([]int64, 0, len(a.Services))
	for _, line := range a.Services {
		ids = append(ids, line.CatalogServiceID)
	}
	return ids
}
