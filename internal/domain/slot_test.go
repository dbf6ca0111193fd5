package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func window(start, end types.TimeString, slotDuration int) *AvailabilitySlot {
	return &AvailabilitySlot{DayOfWeek: 1, StartTime: start, EndTime: end, SlotDurationMinutes: slotDuration}
}

func starts(candidates []Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.StartTime.String()
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestResolveCandidates_NoWindows(t *testing.T) {
	assert.Empty(t, ResolveCandidates(nil, nil))
	assert.Empty(t, ResolveCandidates([]*AvailabilitySlot{}, intPtr(30)))
}

func TestResolveCandidates_FullDayThirtyMinutes(t *testing.T) {
	got := ResolveCandidates([]*AvailabilitySlot{window("09:00", "17:00", 30)}, intPtr(30))

	require.Len(t, got, 31)
	assert.Equal(t, "09:00", got[0].StartTime.String())
	assert.Equal(t, "09:15", got[1].StartTime.String())
	assert.Equal(t, "16:30", got[len(got)-1].StartTime.String())
	for _, c := range got {
		assert.Equal(t, 30, c.DurationMinutes)
	}
}

func TestResolveCandidates_TailDiscarded(t *testing.T) {
	got := ResolveCandidates([]*AvailabilitySlot{window("09:00", "10:00", 30)}, intPtr(45))

	assert.Equal(t, []string{"09:00", "09:15"}, starts(got))
}

func TestResolveCandidates_WindowSlotDurationWithoutService(t *testing.T) {
	got := ResolveCandidates([]*AvailabilitySlot{window("09:00", "10:00", 60)}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "09:00", got[0].StartTime.String())
	assert.Equal(t, 60, got[0].DurationMinutes)
}

func TestResolveCandidates_ServiceLongerThanWindow(t *testing.T) {
	got := ResolveCandidates([]*AvailabilitySlot{window("09:00", "09:30", 30)}, intPtr(60))
	assert.Empty(t, got)
}

func TestResolveCandidates_OverlappingWindowsDeduplicated(t *testing.T) {
	windows := []*AvailabilitySlot{
		window("09:00", "10:00", 30),
		window("09:30", "10:30", 30),
	}

	got := ResolveCandidates(windows, intPtr(30))

	assert.Equal(t, []string{"09:00", "09:15", "09:30", "09:45", "10:00"}, starts(got))
}

func TestResolveCandidates_SortedAcrossWindows(t *testing.T) {
	windows := []*AvailabilitySlot{
		window("14:00", "15:00", 30),
		window("09:00", "10:00", 30),
	}

	got := ResolveCandidates(windows, nil)

	assert.Equal(t, []string{"09:00", "09:15", "09:30", "14:00", "14:15", "14:30"}, starts(got))
}

func TestResolveCandidates_FirstWindowWinsOnDuplicateStart(t *testing.T) {
	windows := []*AvailabilitySlot{
		window("09:00", "10:00", 30),
		window("09:00", "11:00", 60),
	}

	got := ResolveCandidates(windows, nil)

	require.NotEmpty(t, got)
	assert.Equal(t, "09:00", got[0].StartTime.String())
	assert.Equal(t, 30, got[0].DurationMinutes)
}

func TestResolveCandidates_SkipsMalformedWindow(t *testing.T) {
	windows := []*AvailabilitySlot{
		window("10:00", "09:00", 30),
		window("bad", "10:00", 30),
		window("09:00", "09:30", 30),
	}

	assert.Equal(t, []string{"09:00"}, starts(ResolveCandidates(windows, nil)))
}

func TestResolveCandidates_EndOfDay(t *testing.T) {
	got := ResolveCandidates([]*AvailabilitySlot{window("23:00", "24:00", 30)}, nil)

	assert.Equal(t, []string{"23:00", "23:15", "23:30"}, starts(got))
}

func scannedEndOfDay(t *testing.T) types.TimeString {
	t.Helper()
	var end types.TimeString
	require.NoError(t, end.Scan(time.Date(0, 1, 2, 0, 0, 0, 0, time.UTC)))
	return end
}

func TestResolveCandidates_EndOfDayFromDatabase(t *testing.T) {
	got := ResolveCandidates([]*AvailabilitySlot{window("23:00", scannedEndOfDay(t), 30)}, nil)

	assert.Equal(t, []string{"23:00", "23:15", "23:30"}, starts(got))
}

func TestFilterAvailable_AppointmentEndingAtMidnightFromDatabase(t *testing.T) {
	candidates := []Candidate{{StartTime: "23:30", DurationMinutes: 30}}
	appointments := []*Appointment{
		{StartTime: "23:30", EndTime: scannedEndOfDay(t), Status: StatusScheduled},
	}

	assert.Empty(t, FilterAvailable(candidates, appointments))
}

func TestFilterAvailable_BookedInterval(t *testing.T) {
	candidates := ResolveCandidates([]*AvailabilitySlot{window("09:00", "17:00", 30)}, intPtr(30))
	appointments := []*Appointment{
		{StartTime: "10:00", EndTime: "10:30", Status: StatusScheduled},
	}

	got := starts(FilterAvailable(candidates, appointments))

	assert.NotContains(t, got, "09:45")
	assert.NotContains(t, got, "10:00")
	assert.NotContains(t, got, "10:15")
	assert.Contains(t, got, "09:00")
	assert.Contains(t, got, "09:30")
	assert.Contains(t, got, "10:30")
	assert.Len(t, got, 28)
}

func TestFilterAvailable_CancelledDoesNotBlock(t *testing.T) {
	candidates := ResolveCandidates([]*AvailabilitySlot{window("09:00", "17:00", 30)}, intPtr(30))
	appointments := []*Appointment{
		{StartTime: "10:00", EndTime: "10:30", Status: StatusCancelled},
	}

	got := FilterAvailable(candidates, appointments)

	assert.Equal(t, candidates, got)
	assert.Contains(t, starts(got), "10:00")
}

func TestFilterAvailable_NoAppointmentsUnchanged(t *testing.T) {
	candidates := ResolveCandidates([]*AvailabilitySlot{window("09:00", "11:00", 30)}, nil)

	assert.Equal(t, candidates, FilterAvailable(candidates, nil))
}

func TestFilterAvailable_Idempotent(t *testing.T) {
	candidates := ResolveCandidates([]*AvailabilitySlot{window("09:00", "12:00", 30)}, intPtr(45))
	appointments := []*Appointment{
		{StartTime: "09:30", EndTime: "10:15", Status: StatusConfirmed},
		{StartTime: "11:00", EndTime: "11:30", Status: StatusScheduled},
	}

	once := FilterAvailable(candidates, appointments)
	twice := FilterAvailable(once, appointments)

	assert.Equal(t, once, twice)
}

func TestFilterAvailable_NoOverlapWithActiveAppointments(t *testing.T) {
	candidates := ResolveCandidates([]*AvailabilitySlot{
		window("08:00", "13:00", 30),
		window("12:00", "18:00", 30),
	}, intPtr(60))
	appointments := []*Appointment{
		{StartTime: "08:30", EndTime: "09:15", Status: StatusScheduled},
		{StartTime: "12:00", EndTime: "12:15", Status: StatusConfirmed},
		{StartTime: "15:00", EndTime: "16:00", Status: StatusCompleted},
	}

	for _, c := range FilterAvailable(candidates, appointments) {
		end, err := c.EndTime()
		require.NoError(t, err)
		for _, a := range appointments {
			assert.False(t, a.Overlaps(c.StartTime, end), "%s overlaps %s-%s", c.StartTime, a.StartTime, a.EndTime)
		}
	}
}
