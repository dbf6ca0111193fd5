package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrTenantNotFound возвращается, когда арендатор не найден
	ErrTenantNotFound = errors.New("appointments: tenant not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец арендатора
	ErrAccessDenied = errors.New("appointments: access denied")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("appointments: invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)

var knownErrors = []error{
	ErrAppointmentNotFound,
	ErrTenantNotFound,
	ErrAccessDenied,
	ErrInvalidTransition,
	ErrInvalidInput,
	ErrInternal,
}

func isKnownError(err error) bool {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
