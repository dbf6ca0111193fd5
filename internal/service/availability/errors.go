package availability

import "errors"

var (
	// ErrSlotNotFound возвращается, когда окно доступности не найдено
	ErrSlotNotFound = errors.New("availability: availability slot not found")

	// ErrTenantNotFound возвращается, когда арендатор не найден
	ErrTenantNotFound = errors.New("availability: tenant not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец арендатора
	ErrAccessDenied = errors.New("availability: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
