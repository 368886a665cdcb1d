package get_available_slots

import "errors"

var (
	// ErrStylistNotFound возвращается, когда мастер не найден
	ErrStylistNotFound = errors.New("stylist not found")

	// ErrServiceNotOffered возвращается, когда мастер не оказывает часть запрошенных услуг
	ErrServiceNotOffered = errors.New("stylist does not offer requested service")

	// ErrDuplicateService возвращается, когда одна услуга запрошена дважды
	ErrDuplicateService = errors.New("duplicate service in request")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
