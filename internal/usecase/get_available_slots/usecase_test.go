package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// 2026-03-02 - понедельник
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type nopMetrics struct{}

func (nopMetrics) ObserveSlotsReturned(int) {}

type fakeTenants map[int64]*domain.Tenant

func (f fakeTenants) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	if t, ok := f[id]; ok {
		return t, nil
	}
	return nil, tenantRepo.ErrTenantNotFound
}

type fakeServices map[int64]*domain.Service

func (f fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, serviceRepo.ErrServiceNotFound
}

type fakeAvailability struct {
	windows []*domain.AvailabilitySlot
	err     error
}

func (f *fakeAvailability) ListByTenantAndDay(_ context.Context, tenantID int64, day int) ([]*domain.AvailabilitySlot, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*domain.AvailabilitySlot, 0)
	for _, w := range f.windows {
		if w.TenantID == tenantID && w.DayOfWeek == day {
			result = append(result, w)
		}
	}
	return result, nil
}

type fakeAppointments struct {
	items []*domain.Appointment
}

func (f *fakeAppointments) GetByTenantWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range f.items {
		if a.TenantID != filter.TenantID || !a.AppointmentDate.Equal(*filter.StartDate) {
			continue
		}
		if !filter.IncludeCancelled && a.Status == domain.StatusCancelled {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

type fakeSettings struct {
	settings *domain.BookingSettings
}

func (f *fakeSettings) GetWithHierarchy(context.Context, int64, *int64) (*domain.BookingSettings, error) {
	if f.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

type fixture struct {
	availability *fakeAvailability
	appointments *fakeAppointments
	settings     *fakeSettings
	uc           *UseCase
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		availability: &fakeAvailability{windows: []*domain.AvailabilitySlot{
			{ID: 1, TenantID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", SlotDurationMinutes: 30},
		}},
		appointments: &fakeAppointments{},
		settings:     &fakeSettings{},
	}

	f.uc = NewUseCase(
		fakeTenants{1: {ID: 1, Slug: "studio"}, 2: {ID: 2, Slug: "other"}},
		fakeServices{
			10: {ID: 10, TenantID: 1, Name: "Haircut", DurationMinutes: 30, IsActive: true},
			11: {ID: 11, TenantID: 1, Name: "Color", DurationMinutes: 45, IsActive: true},
			12: {ID: 12, TenantID: 1, Name: "Old", DurationMinutes: 30, IsActive: false},
			20: {ID: 20, TenantID: 2, Name: "Foreign", DurationMinutes: 30, IsActive: true},
		},
		f.availability,
		f.appointments,
		f.settings,
		domain.BookingSettings{AdvanceBookingDays: 30},
		nopMetrics{},
		nopLogger{},
	)
	f.uc.timeProvider = fixedClock{now: now}

	return f
}

func startsOf(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime.String()
	}
	return out
}

func TestExecute_FullDay(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -1))

	resp, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: ptr.Ptr(int64(10)), Date: monday})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 31)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "09:30", resp.Slots[0].EndTime.String())
	assert.Equal(t, "16:30", resp.Slots[30].StartTime.String())
}

func TestExecute_ExistingAppointmentBlocksOverlaps(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -1))
	f.appointments.items = []*domain.Appointment{
		{ID: 1, TenantID: 1, AppointmentDate: monday, StartTime: "10:00", EndTime: "10:30", Status: domain.StatusScheduled},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: ptr.Ptr(int64(10)), Date: monday})
	require.NoError(t, err)

	got := startsOf(resp.Slots)
	assert.NotContains(t, got, "09:45")
	assert.NotContains(t, got, "10:00")
	assert.NotContains(t, got, "10:15")
	assert.Contains(t, got, "09:30")
	assert.Contains(t, got, "10:30")
}

func TestExecute_LongServiceDiscardsTail(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -1))
	f.availability.windows = []*domain.AvailabilitySlot{
		{ID: 1, TenantID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", SlotDurationMinutes: 30},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: ptr.Ptr(int64(11)), Date: monday})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:15"}, startsOf(resp.Slots))
	assert.Equal(t, 45, resp.Slots[0].DurationMinutes)
}

func TestExecute_CancelledAppointmentFreesInterval(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -1))
	f.appointments.items = []*domain.Appointment{
		{ID: 1, TenantID: 1, AppointmentDate: monday, StartTime: "10:00", EndTime: "10:30", Status: domain.StatusCancelled},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: ptr.Ptr(int64(10)), Date: monday})
	require.NoError(t, err)

	assert.Len(t, resp.Slots, 31)
	assert.Contains(t, startsOf(resp.Slots), "10:00")
}

func TestExecute_WithoutServiceUsesWindowDuration(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -1))
	f.availability.windows = []*domain.AvailabilitySlot{
		{ID: 1, TenantID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", SlotDurationMinutes: 60},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, Date: monday})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "10:00", resp.Slots[0].EndTime.String())
}

func TestExecute_EmptyResults(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"unknown tenant", Request{TenantID: 99, Date: monday}},
		{"unknown service", Request{TenantID: 1, ServiceID: ptr.Ptr(int64(999)), Date: monday}},
		{"inactive service", Request{TenantID: 1, ServiceID: ptr.Ptr(int64(12)), Date: monday}},
		{"service of another tenant", Request{TenantID: 1, ServiceID: ptr.Ptr(int64(20)), Date: monday}},
		{"no windows on weekday", Request{TenantID: 1, Date: monday.AddDate(0, 0, 1)}},
		{"date in the past", Request{TenantID: 1, Date: monday.AddDate(0, 0, -7)}},
		{"beyond advance limit", Request{TenantID: 1, Date: monday.AddDate(0, 0, 35)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(monday.AddDate(0, 0, -1))

			resp, err := f.uc.Execute(context.Background(), &tt.req)
			require.NoError(t, err)
			assert.Empty(t, resp.Slots)
		})
	}
}

func TestExecute_TodayRespectsNotice(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 2, 12, 5, 0, 0, time.UTC))
	f.settings.settings = &domain.BookingSettings{TenantID: 1, MinBookingNoticeMinutes: 60}

	resp, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: ptr.Ptr(int64(10)), Date: monday})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "13:15", resp.Slots[0].StartTime.String())
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(monday)

	_, err := f.uc.Execute(context.Background(), &Request{TenantID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_NonPositiveIDsReturnNoSlots(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"zero tenant", Request{TenantID: 0, Date: monday}},
		{"negative tenant", Request{TenantID: -3, Date: monday}},
		{"zero service", Request{TenantID: 1, ServiceID: ptr.Ptr(int64(0)), Date: monday}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(monday.AddDate(0, 0, -1))

			resp, err := f.uc.Execute(context.Background(), &tt.req)
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Empty(t, resp.Slots)
			assert.Equal(t, tt.req.TenantID, resp.TenantID)
		})
	}
}

func TestExecute_StorageFailure(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -1))
	f.availability.err = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, Date: monday})
	assert.ErrorIs(t, err, ErrInternal)
}
