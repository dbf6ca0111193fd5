package availability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	ownerID  int64 = 3
	tenantID int64 = 10
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type memTenants struct{}

func (memTenants) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	if id != tenantID {
		return nil, tenantRepo.ErrTenantNotFound
	}
	return &domain.Tenant{ID: tenantID, OwnerUserID: ownerID}, nil
}

type memSlots struct {
	items  []*domain.AvailabilitySlot
	nextID int64
}

func (m *memSlots) Create(_ context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	m.nextID++
	slot.ID = m.nextID
	m.items = append(m.items, slot)
	return slot, nil
}

func (m *memSlots) GetByID(_ context.Context, id int64) (*domain.AvailabilitySlot, error) {
	for _, s := range m.items {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, availabilityRepo.ErrSlotNotFound
}

func (m *memSlots) ListByTenant(_ context.Context, tid int64, _ *int) ([]*domain.AvailabilitySlot, error) {
	out := make([]*domain.AvailabilitySlot, 0)
	for _, s := range m.items {
		if s.TenantID == tid {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSlots) Delete(_ context.Context, id int64) error {
	for i, s := range m.items {
		if s.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return availabilityRepo.ErrSlotNotFound
}

func TestCreate_Defaults(t *testing.T) {
	svc := NewService(&memSlots{}, memTenants{}, nopLogger{})

	resp, err := svc.Create(context.Background(), tenantID, ownerID, &models.CreateSlotRequest{DayOfWeek: ptr.Ptr(1)})
	require.NoError(t, err)

	assert.Equal(t, "09:00", resp.StartTime)
	assert.Equal(t, "17:00", resp.EndTime)
	assert.Equal(t, 30, resp.SlotDurationMinutes)
}

func TestCreate_NormalizesSeconds(t *testing.T) {
	repo := &memSlots{}
	svc := NewService(repo, memTenants{}, nopLogger{})

	_, err := svc.Create(context.Background(), tenantID, ownerID, &models.CreateSlotRequest{
		DayOfWeek: ptr.Ptr(0),
		StartTime: ptr.Ptr("08:30:00"),
		EndTime:   ptr.Ptr("12:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("08:30"), repo.items[0].StartTime)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateSlotRequest
	}{
		{"missing day", models.CreateSlotRequest{}},
		{"day out of range", models.CreateSlotRequest{DayOfWeek: ptr.Ptr(7)}},
		{"start after end", models.CreateSlotRequest{DayOfWeek: ptr.Ptr(2), StartTime: ptr.Ptr("18:00")}},
		{"start equals end", models.CreateSlotRequest{DayOfWeek: ptr.Ptr(2), StartTime: ptr.Ptr("10:00"), EndTime: ptr.Ptr("10:00")}},
		{"bad time", models.CreateSlotRequest{DayOfWeek: ptr.Ptr(2), StartTime: ptr.Ptr("9am")}},
		{"short duration", models.CreateSlotRequest{DayOfWeek: ptr.Ptr(2), SlotDurationMinutes: ptr.Ptr(10)}},
		{"duration step", models.CreateSlotRequest{DayOfWeek: ptr.Ptr(2), SlotDurationMinutes: ptr.Ptr(25)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&memSlots{}, memTenants{}, nopLogger{})
			_, err := svc.Create(context.Background(), tenantID, ownerID, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestListAndDelete(t *testing.T) {
	repo := &memSlots{}
	svc := NewService(repo, memTenants{}, nopLogger{})
	ctx := context.Background()

	created, err := svc.Create(ctx, tenantID, ownerID, &models.CreateSlotRequest{DayOfWeek: ptr.Ptr(3)})
	require.NoError(t, err)

	_, err = svc.List(ctx, tenantID, ownerID+1)
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID, ownerID+1), ErrAccessDenied)
	require.NoError(t, svc.Delete(ctx, created.ID, ownerID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID, ownerID), ErrSlotNotFound)

	list, err := svc.List(ctx, tenantID, ownerID)
	require.NoError(t, err)
	assert.Empty(t, list.Slots)
}
