package services

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	ListByTenant(ctx context.Context, tenantID int64, activeOnly bool) ([]*domain.Service, error)
	Update(ctx context.Context, s *domain.Service) (*domain.Service, error)
	Deactivate(ctx context.Context, id int64) error
}

// TenantRepository интерфейс репозитория арендаторов
type TenantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
