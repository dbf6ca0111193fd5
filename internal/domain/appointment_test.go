package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointment_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusScheduled, false},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			a := &Appointment{Status: tt.from}
			assert.Equal(t, tt.want, a.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointment_Overlaps(t *testing.T) {
	a := &Appointment{StartTime: "10:00", EndTime: "10:30", Status: StatusScheduled}

	assert.True(t, a.Overlaps("09:45", "10:15"))
	assert.True(t, a.Overlaps("10:15", "10:45"))
	assert.True(t, a.Overlaps("09:00", "11:00"))
	assert.False(t, a.Overlaps("09:30", "10:00"), "ending at start is not a conflict")
	assert.False(t, a.Overlaps("10:30", "11:00"), "starting at end is not a conflict")
	assert.Equal(t, 30, a.DurationMinutes())
}

func TestBookingSettings_InitialStatus(t *testing.T) {
	assert.Equal(t, StatusScheduled, (&BookingSettings{}).InitialStatus())
	assert.Equal(t, StatusConfirmed, (&BookingSettings{AutoConfirm: true}).InitialStatus())
}

func TestAppointmentStatus_IsValid(t *testing.T) {
	assert.True(t, StatusCompleted.IsValid())
	assert.False(t, AppointmentStatus("no_show").IsValid())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
}
