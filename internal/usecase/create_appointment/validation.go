package create_appointment

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// FieldError ошибка валидации конкретного поля запроса
// errors.Is(err, ErrInvalidInput) == true
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

func fieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// validateCustomer проверяет данные клиента и возвращает первое нарушение
// Порядок проверки: имя, email, телефон, заметки
func validateCustomer(req *Request) error {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fieldError("customerName", "customer name is required")
	}
	if utf8.RuneCountInString(name) > domain.MaxCustomerNameLength {
		return fieldError("customerName", fmt.Sprintf("customer name must be at most %d characters", domain.MaxCustomerNameLength))
	}

	email := strings.TrimSpace(req.CustomerEmail)
	if email == "" {
		return fieldError("customerEmail", "customer email is required")
	}
	if len(email) > domain.MaxCustomerEmailLength {
		return fieldError("customerEmail", fmt.Sprintf("customer email must be at most %d characters", domain.MaxCustomerEmailLength))
	}
	if !isValidEmail(email) {
		return fieldError("customerEmail", "customer email is not valid")
	}

	if req.CustomerPhone != nil && utf8.RuneCountInString(*req.CustomerPhone) > domain.MaxCustomerPhoneLength {
		return fieldError("customerPhone", fmt.Sprintf("customer phone must be at most %d characters", domain.MaxCustomerPhoneLength))
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fieldError("notes", fmt.Sprintf("notes must be at most %d characters", domain.MaxNotesLength))
	}

	return nil
}

// validateRequest валидирует идентификаторы, дату и время
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fieldError("tenantId", "tenantId must be positive")
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fieldError("serviceId", "serviceId must be positive")
	}

	if req.Date.IsZero() {
		return fieldError("date", "date is required")
	}

	if req.StartTime.IsZero() {
		return fieldError("startTime", "startTime is required")
	}
	if err := req.StartTime.Validate(); err != nil {
		return fieldError("startTime", "startTime must be in HH:MM format")
	}

	return nil
}

// isValidEmail принимает только адрес без отображаемого имени: "user@example.com"
func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@")+1:], ".")
}

// validateDate проверяет, что дата подходит для записи
func validateDate(date, now time.Time, settings *domain.BookingSettings) error {
	dateOnly := truncateToDay(date)
	today := truncateToDay(now)

	// Проверяем, что дата не в прошлом
	if dateOnly.Before(today) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if !settings.HasAdvanceBookingLimit() {
		return nil
	}

	if dateOnly.After(today.AddDate(0, 0, settings.AdvanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, settings.AdvanceBookingDays)
	}

	return nil
}

// validateBookingTime проверяет, что запись на сегодня не нарушает minBookingNoticeMinutes
func validateBookingTime(date time.Time, startTime types.TimeString, now time.Time, noticeMinutes int) error {
	// Если дата записи не сегодня, проверка не нужна
	if !isSameDay(date, now) {
		return nil
	}

	minAllowed, err := types.NewTimeString(now).AddMinutes(noticeMinutes)
	if err != nil {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, noticeMinutes)
	}

	if startTime.IsBefore(minAllowed) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, noticeMinutes)
	}

	return nil
}

// findCandidate ищет кандидата с указанным временем начала
func findCandidate(candidates []domain.Candidate, start types.TimeString) (domain.Candidate, bool) {
	for _, c := range candidates {
		if c.StartTime.Equal(start) {
			return c, true
		}
	}
	return domain.Candidate{}, false
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
