package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/service/services/models"
)

// Service сервис управления услугами арендатора
type Service struct {
	serviceRepo ServiceRepository
	tenantRepo  TenantRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса услуг
func NewService(serviceRepo ServiceRepository, tenantRepo TenantRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		tenantRepo:  tenantRepo,
		logger:      logger,
	}
}

// Create создает услугу
// Доступно только владельцу арендатора
func (s *Service) Create(ctx context.Context, tenantID, userID int64, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service for tenant=%d by user=%d", tenantID, userID)

	// 1. Проверяем права доступа
	if err := s.checkOwnerAccess(ctx, "Create", tenantID, userID); err != nil {
		return nil, err
	}

	// 2. Валидируем данные
	svc := req.ToDomain(tenantID)
	if err := validateService(svc); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 3. Сохраняем
	created, err := s.serviceRepo.Create(ctx, svc)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created service id=%d", created.ID)
	return models.FromDomainService(created), nil
}

// ListActive получает активные услуги арендатора
// Публичный метод - используется страницей бронирования
func (s *Service) ListActive(ctx context.Context, tenantID int64) (*models.ServiceListResponse, error) {
	if _, err := s.getTenant(ctx, "ListActive", tenantID); err != nil {
		return nil, err
	}

	list, err := s.serviceRepo.ListByTenant(ctx, tenantID, true)
	if err != nil {
		s.logger.Error("ListActive: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(list), nil
}

// Update частично обновляет услугу
// Доступно только владельцу арендатора
func (s *Service) Update(ctx context.Context, serviceID, userID int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d by user=%d", serviceID, userID)

	// 1. Получаем услугу
	svc, err := s.getService(ctx, "Update", serviceID)
	if err != nil {
		return nil, err
	}

	// 2. Проверяем права доступа
	if err := s.checkOwnerAccess(ctx, "Update", svc.TenantID, userID); err != nil {
		return nil, err
	}

	// 3. Применяем изменения к копии и валидируем
	updated := *svc
	req.ApplyTo(&updated)
	if err := validateService(&updated); err != nil {
		s.logger.Warn("Update: validation failed for service id=%d: %v", serviceID, err)
		return nil, err
	}

	// 4. Сохраняем
	saved, err := s.serviceRepo.Update(ctx, &updated)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated service id=%d", serviceID)
	return models.FromDomainService(saved), nil
}

// Deactivate скрывает услугу (мягкое удаление)
// Доступно только владельцу арендатора
func (s *Service) Deactivate(ctx context.Context, serviceID, userID int64) error {
	s.logger.Info("Deactivate: deactivating service id=%d by user=%d", serviceID, userID)

	svc, err := s.getService(ctx, "Deactivate", serviceID)
	if err != nil {
		return err
	}

	if err := s.checkOwnerAccess(ctx, "Deactivate", svc.TenantID, userID); err != nil {
		return err
	}

	if err := s.serviceRepo.Deactivate(ctx, serviceID); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		s.logger.Error("Deactivate: repository error for service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Deactivate: successfully deactivated service id=%d", serviceID)
	return nil
}

func (s *Service) getService(ctx context.Context, op string, serviceID int64) (*domain.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("%s: service id=%d not found", op, serviceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("%s: failed to get service id=%d: %v", op, serviceID, err)
		return nil, fmt.Errorf("%w: %s - get service: %v", ErrInternal, op, err)
	}
	return svc, nil
}

func (s *Service) getTenant(ctx context.Context, op string, tenantID int64) (*domain.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("%s: tenant id=%d not found", op, tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("%s: failed to get tenant id=%d: %v", op, tenantID, err)
		return nil, fmt.Errorf("%w: %s - get tenant: %v", ErrInternal, op, err)
	}
	return tenant, nil
}

// checkOwnerAccess проверяет, что пользователь владеет арендатором
func (s *Service) checkOwnerAccess(ctx context.Context, op string, tenantID, userID int64) error {
	tenant, err := s.getTenant(ctx, op, tenantID)
	if err != nil {
		return err
	}

	if tenant.OwnerUserID != userID {
		s.logger.Warn("%s: user=%d is not the owner of tenant=%d", op, userID, tenantID)
		return ErrAccessDenied
	}

	return nil
}

func validateService(svc *domain.Service) error {
	if svc.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(svc.Name) > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxServiceNameLength)
	}

	if svc.DurationMinutes < domain.MinDurationMinutes || svc.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}
	if svc.DurationMinutes%domain.DurationStepMinutes != 0 {
		return fmt.Errorf("%w: durationMinutes must be a multiple of %d", ErrInvalidInput, domain.DurationStepMinutes)
	}

	if svc.Price != nil && *svc.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if svc.Description != nil && utf8.RuneCountInString(*svc.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}

	return nil
}
