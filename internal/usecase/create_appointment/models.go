package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	TenantID  int64            // ID арендатора
	ServiceID *int64           // ID услуги (опционально)
	Date      time.Time        // Дата записи (без времени)
	StartTime types.TimeString // Время начала (например, "10:00")

	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	Notes         *string
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	TenantID        int64
	ServiceID       *int64
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Status          domain.AppointmentStatus

	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	Notes         *string

	// Данные услуги на момент записи
	ServiceName *string
	Price       *float64

	CreatedAt time.Time
}

func newResponse(appt *domain.Appointment) *Response {
	return &Response{
		ID:              appt.ID,
		TenantID:        appt.TenantID,
		ServiceID:       appt.ServiceID,
		AppointmentDate: appt.AppointmentDate,
		StartTime:       appt.StartTime,
		EndTime:         appt.EndTime,
		Status:          appt.Status,
		CustomerName:    appt.CustomerName,
		CustomerEmail:   appt.CustomerEmail,
		CustomerPhone:   appt.CustomerPhone,
		Notes:           appt.Notes,
		ServiceName:     appt.ServiceName,
		Price:           appt.Price,
		CreatedAt:       appt.CreatedAt,
	}
}
