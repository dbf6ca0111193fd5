package tenants

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не найден
	ErrTenantNotFound = errors.New("tenants: tenant not found")

	// ErrSlugTaken возвращается, когда slug уже занят другим арендатором
	ErrSlugTaken = errors.New("tenants: slug already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("tenants: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("tenants: internal error")
)
