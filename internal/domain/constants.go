package domain

// Slot engine
const (
	ScanGranularityMinutes = 15 // step used to advance through an availability window
)

// Default configuration values
const (
	DefaultSlotDurationMinutes     = 30
	DefaultWindowStart             = "09:00"
	DefaultWindowEnd               = "17:00"
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 0
)

// Business validation constants
const (
	MinDurationMinutes          = 15
	MaxDurationMinutes          = 480 // 8 hours
	DurationStepMinutes         = 15
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxCustomerNameLength       = 100
	MaxCustomerEmailLength      = 255
	MaxCustomerPhoneLength      = 20
	MaxNotesLength              = 1000
	MaxCancellationReasonLength = 500
	MaxBusinessNameLength       = 100
	MaxServiceNameLength        = 100
	MaxDescriptionLength        = 500
	MinSlugLength               = 3
	MaxSlugLength               = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses are the statuses whose appointments occupy their interval
var ActiveStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusCompleted,
}
