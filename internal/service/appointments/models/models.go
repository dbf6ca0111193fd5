package models

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// ListAppointmentsRequest запрос на получение записей арендатора
// Date задает один день и имеет приоритет над StartDate/EndDate
type ListAppointmentsRequest struct {
	TenantID         int64
	UserID           int64
	Date             *time.Time
	StartDate        *time.Time
	EndDate          *time.Time
	Status           *string
	IncludeCancelled bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		TenantID:         r.TenantID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Date != nil {
		filter.StartDate = r.Date
		filter.EndDate = r.Date
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 int64      `json:"id"`
	TenantID           int64      `json:"tenantId"`
	ServiceID          *int64     `json:"serviceId,omitempty"`
	ServiceName        *string    `json:"serviceName,omitempty"`
	Price              *float64   `json:"price,omitempty"`
	AppointmentDate    string     `json:"appointmentDate"` // "2025-10-15"
	StartTime          string     `json:"startTime"`       // "10:00"
	EndTime            string     `json:"endTime"`         // "10:30"
	DurationMinutes    int        `json:"durationMinutes"`
	Status             string     `json:"status"`
	CustomerName       string     `json:"customerName"`
	CustomerEmail      string     `json:"customerEmail"`
	CustomerPhone      *string    `json:"customerPhone,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Total        int                    `json:"total"`
}

// Функции конвертации

// ToDomainStatus конвертирует строку в domain статус
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(strings.ToLower(strings.TrimSpace(status)))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:                 a.ID,
		TenantID:           a.TenantID,
		ServiceID:          a.ServiceID,
		ServiceName:        a.ServiceName,
		Price:              a.Price,
		AppointmentDate:    a.AppointmentDate.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		EndTime:            a.EndTime.String(),
		DurationMinutes:    a.DurationMinutes(),
		Status:             string(a.Status),
		CustomerName:       a.CustomerName,
		CustomerEmail:      a.CustomerEmail,
		CustomerPhone:      a.CustomerPhone,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CancelledAt:        a.CancelledAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	appointments := make([]*AppointmentResponse, 0, len(list))
	for _, a := range list {
		appointments = append(appointments, FromDomainAppointment(a))
	}

	return &AppointmentListResponse{
		Appointments: appointments,
		Total:        len(appointments),
	}
}
