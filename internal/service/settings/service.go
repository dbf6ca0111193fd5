package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/service/settings/models"
)

// Service сервис настроек бронирования
// Приоритет: настройки услуги > настройки арендатора > значения по умолчанию
type Service struct {
	settingsRepo SettingsRepository
	tenantRepo   TenantRepository
	serviceRepo  ServiceRepository
	defaults     domain.BookingSettings
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	tenantRepo TenantRepository,
	serviceRepo ServiceRepository,
	defaults domain.BookingSettings,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		tenantRepo:   tenantRepo,
		serviceRepo:  serviceRepo,
		defaults:     defaults,
		logger:       logger,
	}
}

// Get получает действующие настройки для арендатора или его услуги
func (s *Service) Get(ctx context.Context, tenantID, userID int64, serviceID *int64) (*models.SettingsResponse, error) {
	s.logger.Info("Get: fetching settings for tenant=%d, service=%v by user=%d", tenantID, serviceID, userID)

	if err := s.checkAccess(ctx, "Get", tenantID, userID, serviceID); err != nil {
		return nil, err
	}

	current, source, err := s.effective(ctx, tenantID, serviceID)
	if err != nil {
		s.logger.Error("Get: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(current, source), nil
}

// Update сохраняет настройки уровня (tenantID, serviceID)
// Поля, не указанные в запросе, наследуются от действующих настроек
func (s *Service) Update(ctx context.Context, tenantID, userID int64, serviceID *int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating settings for tenant=%d, service=%v by user=%d", tenantID, serviceID, userID)

	// 1. Проверяем права доступа и услугу
	if err := s.checkAccess(ctx, "Update", tenantID, userID, serviceID); err != nil {
		return nil, err
	}

	// 2. Берем действующие настройки за основу
	current, _, err := s.effective(ctx, tenantID, serviceID)
	if err != nil {
		s.logger.Error("Update: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	updated := domain.BookingSettings{
		TenantID:                tenantID,
		ServiceID:               serviceID,
		MinBookingNoticeMinutes: current.MinBookingNoticeMinutes,
		AdvanceBookingDays:      current.AdvanceBookingDays,
		AutoConfirm:             current.AutoConfirm,
	}
	req.ApplyTo(&updated)

	// 3. Валидируем
	if err := validateSettings(&updated); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 4. Сохраняем
	saved, err := s.settingsRepo.Upsert(ctx, &updated)
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	source := models.SourceTenant
	if serviceID != nil {
		source = models.SourceService
	}

	s.logger.Info("Update: successfully saved settings id=%d (level: %s)", saved.ID, source)
	return models.FromDomainSettings(saved, source), nil
}

func (s *Service) effective(ctx context.Context, tenantID int64, serviceID *int64) (*domain.BookingSettings, string, error) {
	found, err := s.settingsRepo.GetWithHierarchy(ctx, tenantID, serviceID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			defaults := s.defaults
			defaults.TenantID = tenantID
			defaults.ServiceID = serviceID
			return &defaults, models.SourceDefault, nil
		}
		return nil, "", err
	}

	if found.IsTenantWide() {
		return found, models.SourceTenant, nil
	}
	return found, models.SourceService, nil
}

// checkAccess проверяет владельца арендатора и принадлежность услуги
func (s *Service) checkAccess(ctx context.Context, op string, tenantID, userID int64, serviceID *int64) error {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("%s: tenant id=%d not found", op, tenantID)
			return ErrTenantNotFound
		}
		s.logger.Error("%s: failed to get tenant id=%d: %v", op, tenantID, err)
		return fmt.Errorf("%w: %s - get tenant: %v", ErrInternal, op, err)
	}

	if tenant.OwnerUserID != userID {
		s.logger.Warn("%s: user=%d is not the owner of tenant=%d", op, userID, tenantID)
		return ErrAccessDenied
	}

	if serviceID == nil {
		return nil
	}

	svc, err := s.serviceRepo.GetByID(ctx, *serviceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("%s: service id=%d not found", op, *serviceID)
			return ErrServiceNotFound
		}
		s.logger.Error("%s: failed to get service id=%d: %v", op, *serviceID, err)
		return fmt.Errorf("%w: %s - get service: %v", ErrInternal, op, err)
	}
	if !svc.BelongsTo(tenantID) {
		s.logger.Warn("%s: service id=%d does not belong to tenant=%d", op, *serviceID, tenantID)
		return ErrServiceNotFound
	}

	return nil
}

func validateSettings(s *domain.BookingSettings) error {
	if s.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || s.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}
	if s.AdvanceBookingDays < domain.MinAdvanceBookingDays || s.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	return nil
}
