package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// IsValid reports whether s is a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for statuses that allow no further transitions
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Appointment represents a booked time interval of a tenant on a calendar date
type Appointment struct {
	ID              int64
	TenantID        int64
	ServiceID       *int64 // NULL = booked without a specific service
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString // start + duration, stored at creation
	Status          AppointmentStatus

	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	Notes         *string

	// Snapshot of the service at booking time
	ServiceName *string
	Price       *float64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its interval
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanTransitionTo reports whether the status change is allowed:
// scheduled -> confirmed | cancelled | completed,
// confirmed -> cancelled | completed.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case StatusScheduled:
		return next == StatusConfirmed || next == StatusCancelled || next == StatusCompleted
	case StatusConfirmed:
		return next == StatusCancelled || next == StatusCompleted
	default:
		return false
	}
}

// DurationMinutes returns the stored interval length
func (a *Appointment) DurationMinutes() int {
	start, err := a.StartTime.Minutes()
	if err != nil {
		return 0
	}
	end, err := a.EndTime.Minutes()
	if err != nil {
		return 0
	}
	return end - start
}

// Overlaps reports strict half-open intersection of [start, end) with the appointment
func (a *Appointment) Overlaps(start, end types.TimeString) bool {
	return start.IsBefore(a.EndTime) && end.IsAfter(a.StartTime)
}

// AppointmentsFilter selects a tenant's appointments
type AppointmentsFilter struct {
	TenantID         int64              // required
	StartDate        *time.Time         // inclusive, optional
	EndDate          *time.Time         // inclusive, optional
	Status           *AppointmentStatus // optional
	IncludeCancelled bool               // cancelled appointments are skipped unless set
}

// IsSingleDay returns true when the filter targets exactly one date
func (f AppointmentsFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}
