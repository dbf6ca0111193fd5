package cache

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// TenantRepository источник арендаторов за кэшем
type TenantRepository interface {
	Create(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error)
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// Tenants кэширует арендаторов по id и по slug
// Slug неизменяем, поэтому оба ключа указывают на одну и ту же запись
type Tenants struct {
	repo TenantRepository

	mu         sync.RWMutex
	byID       *lru.Cache[int64, domain.Tenant]
	bySlug     *lru.Cache[string, int64]
	generation uint64
}

// NewTenants создает кэш арендаторов указанного размера
func NewTenants(repo TenantRepository, size int) (*Tenants, error) {
	byID, err := lru.New[int64, domain.Tenant](size)
	if err != nil {
		return nil, fmt.Errorf("cache: create tenants by id: %w", err)
	}
	bySlug, err := lru.New[string, int64](size)
	if err != nil {
		return nil, fmt.Errorf("cache: create tenants by slug: %w", err)
	}

	return &Tenants{repo: repo, byID: byID, bySlug: bySlug}, nil
}

// Create создает арендатора и сразу кладет его в кэш
func (c *Tenants) Create(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	c.mu.RLock()
	generation := c.generation
	c.mu.RUnlock()

	created, err := c.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	c.store(created, generation)
	return created, nil
}

// GetByID возвращает арендатора из кэша или из репозитория
func (c *Tenants) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	c.mu.RLock()
	cached, ok := c.byID.Get(id)
	generation := c.generation
	c.mu.RUnlock()
	if ok {
		return &cached, nil
	}

	t, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(t, generation)
	return t, nil
}

// GetBySlug возвращает арендатора по slug из кэша или из репозитория
func (c *Tenants) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	c.mu.RLock()
	id, ok := c.bySlug.Get(slug)
	var cached domain.Tenant
	if ok {
		cached, ok = c.byID.Get(id)
	}
	generation := c.generation
	c.mu.RUnlock()
	if ok {
		return &cached, nil
	}

	t, err := c.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	c.store(t, generation)
	return t, nil
}

// Invalidate удаляет арендатора из кэша
func (c *Tenants) Invalidate(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	if t, ok := c.byID.Peek(id); ok {
		c.bySlug.Remove(t.Slug)
	}
	c.byID.Remove(id)
}

// store кладет арендатора в кэш, если с момента начала загрузки не было инвалидаций
func (c *Tenants) store(t *domain.Tenant, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != generation {
		return
	}
	c.byID.Add(t.ID, *t)
	c.bySlug.Add(t.Slug, t.ID)
}
