package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AvailabilitySlot is a recurring weekly window during which a tenant accepts bookings.
// It applies to every date whose weekday equals DayOfWeek.
type AvailabilitySlot struct {
	ID                  int64
	TenantID            int64
	DayOfWeek           int // 0 = Sunday .. 6 = Saturday
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int // default appointment length when no service is chosen
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// WeekdayIndex returns the 0..6 (Sunday first) index used by AvailabilitySlot.DayOfWeek
func WeekdayIndex(date time.Time) int {
	return int(date.Weekday())
}
