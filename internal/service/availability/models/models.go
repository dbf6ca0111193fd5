package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateSlotRequest запрос на создание окна доступности
// Незаданные поля заполняются значениями по умолчанию (09:00-17:00, 30 минут)
type CreateSlotRequest struct {
	DayOfWeek           *int    `json:"dayOfWeek"`
	StartTime           *string `json:"startTime,omitempty"`
	EndTime             *string `json:"endTime,omitempty"`
	SlotDurationMinutes *int    `json:"slotDurationMinutes,omitempty"`
}

// ToDomain конвертирует запрос в domain модель с учетом значений по умолчанию
// Формат времени проверяется отдельно
func (r *CreateSlotRequest) ToDomain(tenantID int64) *domain.AvailabilitySlot {
	slot := &domain.AvailabilitySlot{
		TenantID:            tenantID,
		StartTime:           types.TimeString(domain.DefaultWindowStart),
		EndTime:             types.TimeString(domain.DefaultWindowEnd),
		SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
	}

	if r.DayOfWeek != nil {
		slot.DayOfWeek = *r.DayOfWeek
	}
	if r.StartTime != nil {
		slot.StartTime = types.TimeString(*r.StartTime)
	}
	if r.EndTime != nil {
		slot.EndTime = types.TimeString(*r.EndTime)
	}
	if r.SlotDurationMinutes != nil {
		slot.SlotDurationMinutes = *r.SlotDurationMinutes
	}

	return slot
}

// SlotResponse DTO окна доступности
type SlotResponse struct {
	ID                  int64     `json:"id"`
	TenantID            int64     `json:"tenantId"`
	DayOfWeek           int       `json:"dayOfWeek"`
	StartTime           string    `json:"startTime"`
	EndTime             string    `json:"endTime"`
	SlotDurationMinutes int       `json:"slotDurationMinutes"`
	CreatedAt           time.Time `json:"createdAt"`
}

// SlotListResponse список окон доступности
type SlotListResponse struct {
	Slots []*SlotResponse `json:"slots"`
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.AvailabilitySlot) *SlotResponse {
	if s == nil {
		return nil
	}

	return &SlotResponse{
		ID:                  s.ID,
		TenantID:            s.TenantID,
		DayOfWeek:           s.DayOfWeek,
		StartTime:           s.StartTime.String(),
		EndTime:             s.EndTime.String(),
		SlotDurationMinutes: s.SlotDurationMinutes,
		CreatedAt:           s.CreatedAt,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(list []*domain.AvailabilitySlot) *SlotListResponse {
	slots := make([]*SlotResponse, 0, len(list))
	for _, s := range list {
		slots = append(slots, FromDomainSlot(s))
	}
	return &SlotListResponse{Slots: slots}
}
