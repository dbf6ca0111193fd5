package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

var errNotFound = errors.New("not found")

type fakeTenantRepo struct {
	tenants map[int64]*domain.Tenant
	calls   int
}

func (f *fakeTenantRepo) Create(_ context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	t.ID = int64(len(f.tenants) + 1)
	f.tenants[t.ID] = t
	return t, nil
}

func (f *fakeTenantRepo) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	f.calls++
	t, ok := f.tenants[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTenantRepo) GetBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	f.calls++
	for _, t := range f.tenants {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func TestTenants_GetBySlugHitsRepositoryOnce(t *testing.T) {
	repo := &fakeTenantRepo{tenants: map[int64]*domain.Tenant{
		1: {ID: 1, Slug: "barber-shop", BusinessName: "Barber"},
	}}
	c, err := NewTenants(repo, 16)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := c.GetBySlug(context.Background(), "barber-shop")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
	}
	assert.Equal(t, 1, repo.calls)

	// поиск по id обслуживается той же записью кэша
	_, err = c.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}

func TestTenants_ErrorsAreNotCached(t *testing.T) {
	repo := &fakeTenantRepo{tenants: map[int64]*domain.Tenant{}}
	c, err := NewTenants(repo, 16)
	require.NoError(t, err)

	_, err = c.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, errNotFound)
	_, err = c.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, errNotFound)
	assert.Equal(t, 2, repo.calls)
}

func TestTenants_Invalidate(t *testing.T) {
	repo := &fakeTenantRepo{tenants: map[int64]*domain.Tenant{
		7: {ID: 7, Slug: "nails"},
	}}
	c, err := NewTenants(repo, 16)
	require.NoError(t, err)

	_, err = c.GetBySlug(context.Background(), "nails")
	require.NoError(t, err)
	c.Invalidate(7)
	_, err = c.GetBySlug(context.Background(), "nails")
	require.NoError(t, err)

	assert.Equal(t, 2, repo.calls)
}

func TestNewTenants_InvalidSize(t *testing.T) {
	_, err := NewTenants(&fakeTenantRepo{}, 0)
	assert.Error(t, err)
}

type fakeServiceRepo struct {
	services map[int64]*domain.Service
	calls    int
}

func (f *fakeServiceRepo) Create(_ context.Context, s *domain.Service) (*domain.Service, error) {
	f.services[s.ID] = s
	return s, nil
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	f.calls++
	s, ok := f.services[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeServiceRepo) ListByTenant(_ context.Context, _ int64, _ bool) ([]*domain.Service, error) {
	return nil, nil
}

func (f *fakeServiceRepo) Update(_ context.Context, s *domain.Service) (*domain.Service, error) {
	cp := *s
	f.services[s.ID] = &cp
	return s, nil
}

func (f *fakeServiceRepo) Deactivate(_ context.Context, id int64) error {
	f.services[id].IsActive = false
	return nil
}

func TestServices_DeactivateInvalidatesEntry(t *testing.T) {
	repo := &fakeServiceRepo{services: map[int64]*domain.Service{
		3: {ID: 3, TenantID: 1, Name: "Haircut", DurationMinutes: 30, IsActive: true},
	}}
	c, err := NewServices(repo, 16)
	require.NoError(t, err)

	got, err := c.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	require.NoError(t, c.Deactivate(context.Background(), 3))

	got, err = c.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, 2, repo.calls)
}

func TestServices_UpdateInvalidatesEntry(t *testing.T) {
	repo := &fakeServiceRepo{services: map[int64]*domain.Service{
		3: {ID: 3, TenantID: 1, Name: "Haircut", DurationMinutes: 30, IsActive: true},
	}}
	c, err := NewServices(repo, 16)
	require.NoError(t, err)

	_, err = c.GetByID(context.Background(), 3)
	require.NoError(t, err)

	_, err = c.Update(context.Background(), &domain.Service{ID: 3, TenantID: 1, Name: "Haircut", DurationMinutes: 45, IsActive: true})
	require.NoError(t, err)

	got, err := c.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 45, got.DurationMinutes)
}

// stallingServiceRepo останавливает первое чтение после загрузки строки
type stallingServiceRepo struct {
	*fakeServiceRepo
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (f *stallingServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	s, err := f.fakeServiceRepo.GetByID(ctx, id)
	f.once.Do(func() {
		close(f.loaded)
		<-f.release
	})
	return s, err
}

func TestServices_LoadRacingUpdateDoesNotCacheStaleRow(t *testing.T) {
	repo := &stallingServiceRepo{
		fakeServiceRepo: &fakeServiceRepo{services: map[int64]*domain.Service{
			3: {ID: 3, TenantID: 1, Name: "Haircut", DurationMinutes: 30, Price: ptr.Ptr(10.0), IsActive: true},
		}},
		loaded:  make(chan struct{}),
		release: make(chan struct{}),
	}
	c, err := NewServices(repo, 16)
	require.NoError(t, err)

	stale := make(chan *domain.Service, 1)
	go func() {
		s, _ := c.GetByID(context.Background(), 3)
		stale <- s
	}()

	<-repo.loaded
	_, err = c.Update(context.Background(), &domain.Service{
		ID: 3, TenantID: 1, Name: "Haircut", DurationMinutes: 30, Price: ptr.Ptr(99.0), IsActive: true,
	})
	require.NoError(t, err)
	close(repo.release)

	old := <-stale
	require.NotNil(t, old)
	assert.Equal(t, 10.0, *old.Price)

	got, err := c.GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, got.Price)
	assert.Equal(t, 99.0, *got.Price)
}

func TestTenants_LoadRacingInvalidateIsNotCached(t *testing.T) {
	repo := &fakeTenantRepo{tenants: map[int64]*domain.Tenant{
		5: {ID: 5, Slug: "spa", BusinessName: "Old name"},
	}}
	c, err := NewTenants(repo, 16)
	require.NoError(t, err)

	c.mu.RLock()
	generation := c.generation
	c.mu.RUnlock()

	loaded, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	c.Invalidate(5)
	c.store(loaded, generation)

	repo.tenants[5].BusinessName = "New name"
	got, err := c.GetBySlug(context.Background(), "spa")
	require.NoError(t, err)
	assert.Equal(t, "New name", got.BusinessName)
}
