package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service сервис управления недельными окнами доступности
// Все операции доступны только владельцу арендатора
type Service struct {
	availabilityRepo AvailabilityRepository
	tenantRepo       TenantRepository
	logger           Logger
}

// NewService создает новый экземпляр сервиса окон доступности
func NewService(availabilityRepo AvailabilityRepository, tenantRepo TenantRepository, logger Logger) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		tenantRepo:       tenantRepo,
		logger:           logger,
	}
}

// Create создает окно доступности
func (s *Service) Create(ctx context.Context, tenantID, userID int64, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Create: creating availability slot for tenant=%d by user=%d", tenantID, userID)

	// 1. Проверяем права доступа
	if err := s.checkOwnerAccess(ctx, "Create", tenantID, userID); err != nil {
		return nil, err
	}

	// 2. Валидируем данные
	if req.DayOfWeek == nil {
		return nil, fmt.Errorf("%w: dayOfWeek is required", ErrInvalidInput)
	}
	slot := req.ToDomain(tenantID)
	if err := validateSlot(slot); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 3. Сохраняем
	created, err := s.availabilityRepo.Create(ctx, slot)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created availability slot id=%d", created.ID)
	return models.FromDomainSlot(created), nil
}

// List получает окна арендатора, отсортированные по дню недели и времени
func (s *Service) List(ctx context.Context, tenantID, userID int64) (*models.SlotListResponse, error) {
	if err := s.checkOwnerAccess(ctx, "List", tenantID, userID); err != nil {
		return nil, err
	}

	slots, err := s.availabilityRepo.ListByTenant(ctx, tenantID, nil)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlotList(slots), nil
}

// Delete удаляет окно доступности
// Уже созданные записи остаются в силе
func (s *Service) Delete(ctx context.Context, slotID, userID int64) error {
	s.logger.Info("Delete: deleting availability slot id=%d by user=%d", slotID, userID)

	slot, err := s.availabilityRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrSlotNotFound) {
			s.logger.Warn("Delete: slot id=%d not found", slotID)
			return ErrSlotNotFound
		}
		s.logger.Error("Delete: failed to get slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: Delete - get slot: %v", ErrInternal, err)
	}

	if err := s.checkOwnerAccess(ctx, "Delete", slot.TenantID, userID); err != nil {
		return err
	}

	if err := s.availabilityRepo.Delete(ctx, slotID); err != nil {
		if errors.Is(err, availabilityRepo.ErrSlotNotFound) {
			return ErrSlotNotFound
		}
		s.logger.Error("Delete: repository error for slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted availability slot id=%d", slotID)
	return nil
}

// checkOwnerAccess проверяет, что пользователь владеет арендатором
func (s *Service) checkOwnerAccess(ctx context.Context, op string, tenantID, userID int64) error {
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

	return nil
}

func validateSlot(slot *domain.AvailabilitySlot) error {
	if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
		return fmt.Errorf("%w: dayOfWeek must be between 0 and 6", ErrInvalidInput)
	}

	start, err := types.NewTimeStringFromString(slot.StartTime.String())
	if err != nil {
		return fmt.Errorf("%w: startTime must be in HH:MM format", ErrInvalidInput)
	}
	end, err := types.NewTimeStringFromString(slot.EndTime.String())
	if err != nil {
		return fmt.Errorf("%w: endTime must be in HH:MM format", ErrInvalidInput)
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	slot.StartTime = start
	slot.EndTime = end

	if slot.SlotDurationMinutes < domain.MinDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be at least %d", ErrInvalidInput, domain.MinDurationMinutes)
	}
	if slot.SlotDurationMinutes%domain.DurationStepMinutes != 0 {
		return fmt.Errorf("%w: slotDurationMinutes must be a multiple of %d", ErrInvalidInput, domain.DurationStepMinutes)
	}

	return nil
}
