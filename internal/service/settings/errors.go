package settings

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не найден
	ErrTenantNotFound = errors.New("settings: tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому арендатору
	ErrServiceNotFound = errors.New("settings: service not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец арендатора
	ErrAccessDenied = errors.New("settings: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("settings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("settings: internal error")
)
