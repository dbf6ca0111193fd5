package domain

import "time"

// Tenant is a business account and the unit of data isolation
type Tenant struct {
	ID           int64
	OwnerUserID  int64
	BusinessName string
	Slug         string // unique, immutable
	Description  *string
	Email        *string
	Phone        *string
	Timezone     string // informational, no conversion is performed
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Service is something a tenant offers for booking
type Service struct {
	ID              int64
	TenantID        int64
	Name            string
	DurationMinutes int
	Price           *float64
	Description     *string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BelongsTo reports whether the service is owned by tenantID
func (s *Service) BelongsTo(tenantID int64) bool {
	return s.TenantID == tenantID
}
