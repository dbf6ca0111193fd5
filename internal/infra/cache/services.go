package cache

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ServiceRepository источник услуг за кэшем
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	ListByTenant(ctx context.Context, tenantID int64, activeOnly bool) ([]*domain.Service, error)
	Update(ctx context.Context, s *domain.Service) (*domain.Service, error)
	Deactivate(ctx context.Context, id int64) error
}

// Services кэширует услуги по id
// Списки не кэшируются: они меняются при любом изменении услуги арендатора
type Services struct {
	repo ServiceRepository

	mu   sync.RWMutex
	byID *lru.Cache[int64, domain.Service]

	// generation растет при каждой инвалидации; загрузка, начатая до нее, в кэш не попадает
	generation uint64
}

// NewServices создает кэш услуг указанного размера
func NewServices(repo ServiceRepository, size int) (*Services, error) {
	byID, err := lru.New[int64, domain.Service](size)
	if err != nil {
		return nil, fmt.Errorf("cache: create services by id: %w", err)
	}

	return &Services{repo: repo, byID: byID}, nil
}

func (c *Services) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	return c.repo.Create(ctx, s)
}

// GetByID возвращает услугу из кэша или из репозитория
func (c *Services) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	c.mu.RLock()
	cached, ok := c.byID.Get(id)
	generation := c.generation
	c.mu.RUnlock()
	if ok {
		return &cached, nil
	}

	s, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generation == generation {
		c.byID.Add(s.ID, *s)
	}
	c.mu.Unlock()

	return s, nil
}

func (c *Services) ListByTenant(ctx context.Context, tenantID int64, activeOnly bool) ([]*domain.Service, error) {
	return c.repo.ListByTenant(ctx, tenantID, activeOnly)
}

// Update обновляет услугу и сбрасывает ее из кэша
func (c *Services) Update(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	updated, err := c.repo.Update(ctx, s)
	c.Invalidate(s.ID)
	return updated, err
}

// Deactivate скрывает услугу и сбрасывает ее из кэша
func (c *Services) Deactivate(ctx context.Context, id int64) error {
	err := c.repo.Deactivate(ctx, id)
	c.Invalidate(id)
	return err
}

// Invalidate удаляет услугу из кэша
func (c *Services) Invalidate(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.byID.Remove(id)
}
