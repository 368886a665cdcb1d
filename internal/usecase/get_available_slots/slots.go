package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/calendar"
)

// buildSlots генерирует доступные слоты на день.
//
// Кандидаты идут по сетке с шагом stepMinutes от начала каждого рабочего
// интервала. Кандидат выживает, если окно [start, start+duration) целиком
// лежит в рабочем интервале и не пересекается с перерывами, частичными
// выходными и активными записями.
// Пересечение везде полуоткрытое: запись до 10:00 не блокирует слот с 10:00.
func buildSlots(
	daySchedule *domain.DaySchedule,
	appointments []*domain.Appointment,
	date time.Time,
	now time.Time,
	loc *time.Location,
	stepMinutes int,
	durationMinutes int,
	totalPrice float64,
	serviceIDs []int64,
) []domain.Slot {
	slots := make([]domain.Slot, 0)

	if daySchedule.HasFullDayOff() {
		return slots
	}

	for i := range daySchedule.WorkingHours {
		wh := &daySchedule.WorkingHours[i]

		candidate := wh.StartTime
		for {
			end, err := candidate.AddMinutes(durationMinutes)
			if err != nil {
				// Окно вылезло за полночь - дальше по сетке смысла нет
				break
			}
			if end.IsAfter(wh.EndTime) {
				break
			}

			absStart := candidate.OnDate(date, loc)
			absEnd := end.OnDate(date, loc)

			if absStart.After(now) &&
				!overlapsBreaks(absStart, absEnd, wh.Breaks, date, loc) &&
				!overlapsDaysOff(absStart, absEnd, daySchedule.DaysOff, date, loc) &&
				!overlapsAppointments(absStart, absEnd, appointments) {
				slots = append(slots, domain.Slot{
					StartTime:       absStart,
					EndTime:         absEnd,
					DurationMinutes: durationMinutes,
					TotalPrice:      totalPrice,
					ServiceIDs:      serviceIDs,
				})
			}

			candidate, err = candidate.AddMinutes(stepMinutes)
			if err != nil {
				break
			}
		}
	}

	return slots
}

// overlapsBreaks проверяет пересечение окна с перерывами рабочего интервала
func overlapsBreaks(start, end time.Time, breaks []domain.BreakPeriod, date time.Time, loc *time.Location) bool {
	for i := range breaks {
		b := &breaks[i]
		if calendar.Overlaps(start, end, b.StartTime.OnDate(date, loc), b.EndTime.OnDate(date, loc)) {
			return true
		}
	}
	return false
}

// overlapsDaysOff проверяет пересечение окна с частичными выходными.
// Выходные на весь день отсекаются раньше, до генерации кандидатов.
func overlapsDaysOff(start, end time.Time, daysOff []domain.StylistDayOff, date time.Time, loc *time.Location) bool {
	for i := range daysOff {
		d := &daysOff[i]
		if d.IsFullDay() {
			continue
		}
		if calendar.Overlaps(start, end, d.FromTime.OnDate(date, loc), d.ToTime.OnDate(date, loc)) {
			return true
		}
	}
	return false
}

// overlapsAppointments проверяет пересечение окна с активными записями мастера
func overlapsAppointments(start, end time.Time, appointments []*domain.Appointment) bool {
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		if calendar.Overlaps(start, end, a.StartTime, a.EndTime) {
			return true
		}
	}
	return false
}
