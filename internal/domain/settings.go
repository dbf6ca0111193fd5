package domain

import "time"

// BookingSettings represents the booking policy of a tenant
// Supports hierarchical configuration:
// 1. Service-specific (tenant_id, service_id)
// 2. Tenant-wide (tenant_id, NULL)
type BookingSettings struct {
	ID                      int64
	TenantID                int64
	ServiceID               *int64 // NULL = settings for all services
	MinBookingNoticeMinutes int
	AdvanceBookingDays      int  // 0 = unlimited
	AutoConfirm             bool // new appointments start as confirmed instead of scheduled
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// IsTenantWide returns true if the settings apply to every service of the tenant
func (s *BookingSettings) IsTenantWide() bool {
	return s.ServiceID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (s *BookingSettings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}

// InitialStatus returns the status a freshly booked appointment gets
func (s *BookingSettings) InitialStatus() AppointmentStatus {
	if s.AutoConfirm {
		return StatusConfirmed
	}
	return StatusScheduled
}
