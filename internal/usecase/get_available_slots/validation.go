package get_available_slots

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// hasUnknownIDs сообщает, что ID не может ссылаться на существующую запись
// Такой запрос обрабатывается как неизвестный арендатор или услуга
func hasUnknownIDs(req *Request) bool {
	if req.TenantID <= 0 {
		return true
	}

	return req.ServiceID != nil && *req.ServiceID <= 0
}
