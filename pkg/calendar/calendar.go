// Package calendar содержит чистые функции работы с временными интервалами.
//
// Все интервалы полуоткрытые: [start, end). Бронирование, заканчивающееся
// ровно там, где начинается другое, пересечением не считается.
package calendar

import "time"

// Overlaps возвращает true, если полуоткрытые интервалы [aStart, aEnd)
// и [bStart, bEnd) действительно пересекаются
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CombineDateTime совмещает дату date с временем дня t (часы/минуты)
// в таймзоне loc и возвращает абсолютный момент
func CombineDateTime(date time.Time, t time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

// DateOnly обнуляет время, оставляя только дату в той же таймзоне
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsSameDay возвращает true, если обе даты относятся к одному календарному дню
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast возвращает true, если дата раньше сегодняшнего дня
// (время суток не учитывается)
func IsDateInPast(date, now time.Time) bool {
	return DateOnly(date).Before(DateOnly(now))
}

// Weekday возвращает день недели в нумерации расписания: 0 = понедельник,
// 6 = воскресенье (time.Weekday считает с воскресенья)
func Weekday(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}
