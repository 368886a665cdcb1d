package paymentcard

import "errors"

var (
	// ErrNoActiveCard у салона нет активной карты для приёма переводов
	ErrNoActiveCard = errors.New("no active payment card")

	// ErrBuildQuery ошибка построения SQL запроса
	ErrBuildQuery = errors.New("failed to build query")

	// ErrScanRow ошибка сканирования результата
	ErrScanRow = errors.New("failed to scan row")
)
