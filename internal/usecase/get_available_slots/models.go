package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	StylistID         int64     // ID мастера
	Date              time.Time // Дата для получения слотов (без времени)
	CatalogServiceIDs []int64   // ID запрошенных услуг каталога
	StepMinutes       int       // Шаг сетки слотов в минутах, 0 - шаг по умолчанию
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date                 time.Time     // Дата, на которую запрашивались слоты
	StylistID            int64         // ID мастера
	TotalDurationMinutes int           // Суммарная длительность запрошенных услуг
	TotalPrice           float64       // Суммарная цена запрошенных услуг у этого мастера
	Slots                []domain.Slot // Список доступных слотов
}
