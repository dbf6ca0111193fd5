package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	TenantID  int64     // ID арендатора
	ServiceID *int64    // ID услуги (опционально, без нее длительность берется из окна)
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time
	TenantID  int64
	ServiceID *int64
	Slots     []Slot // Отсортированы по времени начала
}

// Slot модель свободного интервала
type Slot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}
