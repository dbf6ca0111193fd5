package models

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const defaultTimezone = "UTC"

// CreateTenantRequest запрос на создание арендатора
type CreateTenantRequest struct {
	BusinessName string  `json:"businessName"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Timezone     string  `json:"timezone,omitempty"`
}

// ToDomain конвертирует запрос в domain модель, владелец - текущий пользователь
func (r *CreateTenantRequest) ToDomain(ownerUserID int64) *domain.Tenant {
	timezone := strings.TrimSpace(r.Timezone)
	if timezone == "" {
		timezone = defaultTimezone
	}

	return &domain.Tenant{
		OwnerUserID:  ownerUserID,
		BusinessName: strings.TrimSpace(r.BusinessName),
		Slug:         strings.ToLower(strings.TrimSpace(r.Slug)),
		Description:  r.Description,
		Email:        r.Email,
		Phone:        r.Phone,
		Timezone:     timezone,
	}
}

// TenantResponse публичный профиль арендатора
type TenantResponse struct {
	ID           int64     `json:"id"`
	BusinessName string    `json:"businessName"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Timezone     string    `json:"timezone"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromDomainTenant конвертирует domain модель в DTO
func FromDomainTenant(t *domain.Tenant) *TenantResponse {
	if t == nil {
		return nil
	}

	return &TenantResponse{
		ID:           t.ID,
		BusinessName: t.BusinessName,
		Slug:         t.Slug,
		Description:  t.Description,
		Email:        t.Email,
		Phone:        t.Phone,
		Timezone:     t.Timezone,
		CreatedAt:    t.CreatedAt,
	}
}
