package domain

// Default configuration values
const (
	// DefaultSlotStepMinutes шаг сетки слотов по умолчанию: с этим шагом
	// движок доступности перебирает кандидатов от начала рабочего интервала
	DefaultSlotStepMinutes = 15

	// DefaultTimezone таймзона салона, если у мастера не указана явно
	DefaultTimezone = "Asia/Tashkent"
)

// Business validation constants
const (
	MinSlotStepMinutes  = 5
	MaxSlotStepMinutes  = 120
	MaxNotesLength      = 500
	MaxGuestNameLength  = 100
	MaxGuestPhoneLength = 20
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
