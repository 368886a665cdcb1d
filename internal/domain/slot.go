package domain

import "time"

// Slot кандидат на бронирование, возвращаемый движком доступности
type Slot struct {
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	TotalPrice      float64
	ServiceIDs      []int64 // ID услуг каталога
}
