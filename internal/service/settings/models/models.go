package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Уровень, с которого взяты действующие настройки
const (
	SourceService = "service"
	SourceTenant  = "tenant"
	SourceDefault = "default"
)

// UpdateSettingsRequest запрос на изменение настроек
// Незаданные поля берутся из действующих настроек
type UpdateSettingsRequest struct {
	MinBookingNoticeMinutes *int  `json:"minBookingNoticeMinutes,omitempty"`
	AdvanceBookingDays      *int  `json:"advanceBookingDays,omitempty"`
	AutoConfirm             *bool `json:"autoConfirm,omitempty"`
}

// ApplyTo применяет изменения к настройкам
func (r *UpdateSettingsRequest) ApplyTo(s *domain.BookingSettings) {
	if r.MinBookingNoticeMinutes != nil {
		s.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.AdvanceBookingDays != nil {
		s.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.AutoConfirm != nil {
		s.AutoConfirm = *r.AutoConfirm
	}
}

// SettingsResponse действующие настройки бронирования
type SettingsResponse struct {
	TenantID                int64      `json:"tenantId"`
	ServiceID               *int64     `json:"serviceId,omitempty"`
	MinBookingNoticeMinutes int        `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int        `json:"advanceBookingDays"`
	AutoConfirm             bool       `json:"autoConfirm"`
	Source                  string     `json:"source"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.BookingSettings, source string) *SettingsResponse {
	if s == nil {
		return nil
	}

	resp := &SettingsResponse{
		TenantID:                s.TenantID,
		ServiceID:               s.ServiceID,
		MinBookingNoticeMinutes: s.MinBookingNoticeMinutes,
		AdvanceBookingDays:      s.AdvanceBookingDays,
		AutoConfirm:             s.AutoConfirm,
		Source:                  source,
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
