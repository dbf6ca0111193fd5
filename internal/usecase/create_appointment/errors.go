package create_appointment

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не найден
	ErrTenantNotFound = errors.New("create_appointment: tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому арендатору
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrServiceInactive возвращается, когда услуга снята с публикации
	ErrServiceInactive = errors.New("create_appointment: service is not active")

	// ErrInvalidDate возвращается, когда дата записи в прошлом
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_appointment: date is too far in the future")

	// ErrTooLateToBook возвращается, когда запись нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("create_appointment: too late to book this slot")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает ни с одним слотом расписания
	ErrInvalidTimeSlot = errors.New("create_appointment: invalid time slot")

	// ErrSlotNotAvailable возвращается, когда слот уже занят (в том числе при гонке)
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)

// knownErrors ошибки, которые usecase возвращает вызывающему как есть
var knownErrors = []error{
	ErrTenantNotFound,
	ErrServiceNotFound,
	ErrServiceInactive,
	ErrInvalidDate,
	ErrDateTooFarInFuture,
	ErrTooLateToBook,
	ErrInvalidTimeSlot,
	ErrSlotNotAvailable,
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
