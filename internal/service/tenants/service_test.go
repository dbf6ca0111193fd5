package tenants

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/service/tenants/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type memTenants struct {
	bySlug map[string]*domain.Tenant
}

func (m *memTenants) Create(_ context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	if _, ok := m.bySlug[t.Slug]; ok {
		return nil, tenantRepo.ErrSlugTaken
	}
	t.ID = int64(len(m.bySlug) + 1)
	m.bySlug[t.Slug] = t
	return t, nil
}

func (m *memTenants) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	for _, t := range m.bySlug {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, tenantRepo.ErrTenantNotFound
}

func (m *memTenants) GetBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	if t, ok := m.bySlug[slug]; ok {
		return t, nil
	}
	return nil, tenantRepo.ErrTenantNotFound
}

func newService() *Service {
	return NewService(&memTenants{bySlug: map[string]*domain.Tenant{}}, nopLogger{})
}

func TestCreate_Success(t *testing.T) {
	svc := newService()

	resp, err := svc.Create(context.Background(), 42, &models.CreateTenantRequest{
		BusinessName: " Blue Barber ",
		Slug:         "Blue-Barber",
		Email:        ptr.Ptr("owner@bluebarber.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Blue Barber", resp.BusinessName)
	assert.Equal(t, "blue-barber", resp.Slug)
	assert.Equal(t, "UTC", resp.Timezone)

	got, err := svc.GetBySlug(context.Background(), "blue-barber")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
}

func TestCreate_DuplicateSlug(t *testing.T) {
	svc := newService()
	req := &models.CreateTenantRequest{BusinessName: "Nails", Slug: "nails"}

	_, err := svc.Create(context.Background(), 1, req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 2, req)
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateTenantRequest
	}{
		{"missing name", models.CreateTenantRequest{Slug: "valid-slug"}},
		{"short slug", models.CreateTenantRequest{BusinessName: "X", Slug: "ab"}},
		{"slug with spaces", models.CreateTenantRequest{BusinessName: "X", Slug: "my shop"}},
		{"slug with trailing hyphen", models.CreateTenantRequest{BusinessName: "X", Slug: "shop-"}},
		{"bad email", models.CreateTenantRequest{BusinessName: "X", Slug: "shop", Email: ptr.Ptr("nope")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService().Create(context.Background(), 1, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGetBySlug_NotFound(t *testing.T) {
	_, err := newService().GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}
