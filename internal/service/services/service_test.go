package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/service/services/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const (
	ownerID    int64 = 7
	strangerID int64 = 8
	tenantID   int64 = 1
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
	return &domain.Tenant{ID: tenantID, OwnerUserID: ownerID, Slug: "shop"}, nil
}

type memServices struct {
	items   map[int64]*domain.Service
	nextID  int64
	failAll bool
}

func newMemServices() *memServices {
	return &memServices{items: map[int64]*domain.Service{}, nextID: 1}
}

func (m *memServices) Create(_ context.Context, s *domain.Service) (*domain.Service, error) {
	if m.failAll {
		return nil, errors.New("db down")
	}
	s.ID = m.nextID
	m.nextID++
	cp := *s
	m.items[s.ID] = &cp
	return s, nil
}

func (m *memServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memServices) ListByTenant(_ context.Context, tid int64, activeOnly bool) ([]*domain.Service, error) {
	out := make([]*domain.Service, 0)
	for id := int64(1); id < m.nextID; id++ {
		s, ok := m.items[id]
		if !ok || s.TenantID != tid || (activeOnly && !s.IsActive) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memServices) Update(_ context.Context, s *domain.Service) (*domain.Service, error) {
	if _, ok := m.items[s.ID]; !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	cp := *s
	m.items[s.ID] = &cp
	return s, nil
}

func (m *memServices) Deactivate(_ context.Context, id int64) error {
	s, ok := m.items[id]
	if !ok {
		return serviceRepo.ErrServiceNotFound
	}
	s.IsActive = false
	return nil
}

func newTestService() (*Service, *memServices) {
	repo := newMemServices()
	return NewService(repo, memTenants{}, nopLogger{}), repo
}

func TestCreateAndListActive(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	haircut, err := svc.Create(ctx, tenantID, ownerID, &models.CreateServiceRequest{
		Name: "Haircut", DurationMinutes: 45, Price: ptr.Ptr(25.0),
	})
	require.NoError(t, err)
	assert.True(t, haircut.IsActive)

	shave, err := svc.Create(ctx, tenantID, ownerID, &models.CreateServiceRequest{Name: "Shave", DurationMinutes: 15})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, shave.ID, ownerID))

	list, err := svc.ListActive(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, list.Services, 1)
	assert.Equal(t, "Haircut", list.Services[0].Name)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateServiceRequest
	}{
		{"empty name", models.CreateServiceRequest{Name: "  ", DurationMinutes: 30}},
		{"too short", models.CreateServiceRequest{Name: "X", DurationMinutes: 10}},
		{"too long", models.CreateServiceRequest{Name: "X", DurationMinutes: 495}},
		{"not a multiple of 15", models.CreateServiceRequest{Name: "X", DurationMinutes: 40}},
		{"negative price", models.CreateServiceRequest{Name: "X", DurationMinutes: 30, Price: ptr.Ptr(-1.0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			_, err := svc.Create(context.Background(), tenantID, ownerID, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreate_AccessChecks(t *testing.T) {
	svc, _ := newTestService()
	req := &models.CreateServiceRequest{Name: "X", DurationMinutes: 30}

	_, err := svc.Create(context.Background(), tenantID, strangerID, req)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Create(context.Background(), 99, ownerID, req)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestCreate_RepositoryFailure(t *testing.T) {
	svc, repo := newTestService()
	repo.failAll = true

	_, err := svc.Create(context.Background(), tenantID, ownerID, &models.CreateServiceRequest{Name: "X", DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUpdate_Partial(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, tenantID, ownerID, &models.CreateServiceRequest{Name: "Massage", DurationMinutes: 60})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, ownerID, &models.UpdateServiceRequest{Price: ptr.Ptr(80.0)})
	require.NoError(t, err)
	assert.Equal(t, "Massage", updated.Name)
	assert.Equal(t, 60, updated.DurationMinutes)
	require.NotNil(t, updated.Price)
	assert.Equal(t, 80.0, *updated.Price)

	_, err = svc.Update(ctx, created.ID, ownerID, &models.UpdateServiceRequest{DurationMinutes: ptr.Ptr(50)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, created.ID, strangerID, &models.UpdateServiceRequest{Name: ptr.Ptr("Other")})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestDeactivate_NotFound(t *testing.T) {
	svc, _ := newTestService()
	assert.ErrorIs(t, svc.Deactivate(context.Background(), 404, ownerID), ErrServiceNotFound)
}

func TestListActive_UnknownTenant(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.ListActive(context.Background(), 99)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}
