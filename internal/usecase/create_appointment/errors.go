package create_appointment

import "errors"

var (
	// ErrStylistNotFound возвращается, когда мастер не найден
	ErrStylistNotFound = errors.New("stylist not found")

	// ErrServiceNotOffered возвращается, когда мастер не оказывает часть запрошенных услуг
	ErrServiceNotOffered = errors.New("stylist does not offer requested service")

	// ErrDuplicateService возвращается, когда одна услуга запрошена дважды
	ErrDuplicateService = errors.New("duplicate service in request")

	// ErrTimeInPast возвращается при попытке записи на прошедшее время
	ErrTimeInPast = errors.New("appointment time is in the past")

	// ErrOutsideWorkingHours возвращается, когда окно записи не помещается
	// в рабочие часы мастера или накрывает перерыв
	ErrOutsideWorkingHours = errors.New("appointment is outside working hours")

	// ErrStylistDayOff возвращается, когда на дату у мастера выходной
	ErrStylistDayOff = errors.New("stylist has a day off")

	// ErrSlotNotAvailable возвращается, когда слот занят другой активной записью
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
