package models

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	Name            string   `json:"name"`
	DurationMinutes int      `json:"durationMinutes"`
	Price           *float64 `json:"price,omitempty"`
	Description     *string  `json:"description,omitempty"`
}

// ToDomain конвертирует запрос в domain модель
func (r *CreateServiceRequest) ToDomain(tenantID int64) *domain.Service {
	return &domain.Service{
		TenantID:        tenantID,
		Name:            strings.TrimSpace(r.Name),
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		Description:     r.Description,
		IsActive:        true,
	}
}

// UpdateServiceRequest запрос на частичное обновление услуги
// Обновляются только указанные поля
type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	Description     *string  `json:"description,omitempty"`
	IsActive        *bool    `json:"isActive,omitempty"`
}

// ApplyTo применяет изменения к услуге
func (r *UpdateServiceRequest) ApplyTo(s *domain.Service) {
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
	}
	if r.DurationMinutes != nil {
		s.DurationMinutes = *r.DurationMinutes
	}
	if r.Price != nil {
		s.Price = r.Price
	}
	if r.Description != nil {
		s.Description = r.Description
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
}

// ServiceResponse DTO услуги
type ServiceResponse struct {
	ID              int64     `json:"id"`
	TenantID        int64     `json:"tenantId"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           *float64  `json:"price,omitempty"`
	Description     *string   `json:"description,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []*ServiceResponse `json:"services"`
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}

	return &ServiceResponse{
		ID:              s.ID,
		TenantID:        s.TenantID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		Description:     s.Description,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(list []*domain.Service) *ServiceListResponse {
	services := make([]*ServiceResponse, 0, len(list))
	for _, s := range list {
		services = append(services, FromDomainService(s))
	}
	return &ServiceListResponse{Services: services}
}
