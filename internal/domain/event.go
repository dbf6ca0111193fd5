package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Appointment event types published to the change feed
const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

// AppointmentEvent is a change notification stored in the outbox
// and relayed to the broker after commit.
type AppointmentEvent struct {
	ID            int64
	EventID       string // uuid, used for consumer-side deduplication
	EventType     string
	TenantID      int64
	AppointmentID int64
	Payload       []byte // JSON
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// AppointmentEventPayload is the JSON body of an appointment event
type AppointmentEventPayload struct {
	EventID         string            `json:"eventId"`
	EventType       string            `json:"eventType"`
	OccurredAt      time.Time         `json:"occurredAt"`
	AppointmentID   int64             `json:"appointmentId"`
	TenantID        int64             `json:"tenantId"`
	ServiceID       *int64            `json:"serviceId,omitempty"`
	AppointmentDate string            `json:"appointmentDate"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Status          AppointmentStatus `json:"status"`
	PreviousStatus  AppointmentStatus `json:"previousStatus,omitempty"`
}

// NewAppointmentEvent builds an outbox record for appt.
// previous is empty for appointment.created.
func NewAppointmentEvent(eventType string, appt *Appointment, previous AppointmentStatus, occurredAt time.Time) (*AppointmentEvent, error) {
	eventID := uuid.NewString()

	payload, err := json.Marshal(AppointmentEventPayload{
		EventID:         eventID,
		EventType:       eventType,
		OccurredAt:      occurredAt.UTC(),
		AppointmentID:   appt.ID,
		TenantID:        appt.TenantID,
		ServiceID:       appt.ServiceID,
		AppointmentDate: appt.AppointmentDate.Format(DateFormat),
		StartTime:       appt.StartTime.String(),
		EndTime:         appt.EndTime.String(),
		Status:          appt.Status,
		PreviousStatus:  previous,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return &AppointmentEvent{
		EventID:       eventID,
		EventType:     eventType,
		TenantID:      appt.TenantID,
		AppointmentID: appt.ID,
		Payload:       payload,
	}, nil
}
