package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями в кабинете арендатора
type Service struct {
	appointmentRepo AppointmentRepository
	tenantRepo      TenantRepository
	outboxRepo      OutboxRepository
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	tenantRepo TenantRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		tenantRepo:      tenantRepo,
		outboxRepo:      outboxRepo,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    RealTimeProvider{},
		logger:          logger,
	}
}

// List получает записи арендатора по фильтру
// Сортировка: дата, затем время начала
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for tenant=%d by user=%d", req.TenantID, req.UserID)

	// 1. Проверяем права доступа
	if err := s.checkOwnerAccess(ctx, "List", req.TenantID, req.UserID); err != nil {
		return nil, err
	}

	// 2. Строим фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, fmt.Errorf("%w: startDate must not be after endDate", ErrInvalidInput)
	}

	// 3. Получаем записи
	list, err := s.appointmentRepo.GetByTenantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: found %d appointments for tenant=%d", len(list), req.TenantID)
	return models.FromDomainAppointmentList(list), nil
}

// GetByID получает запись по ID
// Доступно только владельцу арендатора
func (s *Service) GetByID(ctx context.Context, appointmentID, userID int64) (*models.AppointmentResponse, error) {
	appt, err := s.getAppointment(ctx, "GetByID", appointmentID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnerAccess(ctx, "GetByID", appt.TenantID, userID); err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// UpdateStatus меняет статус записи
// Допустимые переходы: scheduled -> confirmed | cancelled | completed,
// confirmed -> cancelled | completed
// Смена статуса и событие журнала сохраняются в одной транзакции
func (s *Service) UpdateStatus(ctx context.Context, appointmentID, userID int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, req.Status, userID)

	// 1. Валидируем запрос
	next, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%q for appointment id=%d", req.Status, appointmentID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	reason := normalizeReason(req.Reason)
	if reason != nil && utf8.RuneCountInString(*reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var (
		appt     *domain.Appointment
		previous domain.AppointmentStatus
	)

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		// 2. Получаем запись (строка блокируется до конца транзакции)
		current, err := s.getAppointment(ctx, "UpdateStatus", appointmentID)
		if err != nil {
			return err
		}

		// 3. Проверяем права доступа
		if err := s.checkOwnerAccess(ctx, "UpdateStatus", current.TenantID, userID); err != nil {
			return err
		}

		// 4. Проверяем допустимость перехода
		if !current.CanTransitionTo(next) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
				current.Status, next, appointmentID)
			return ErrInvalidTransition
		}

		// 5. Сохраняем новый статус
		now := s.timeProvider.Now()
		if next == domain.StatusCancelled {
			err = s.appointmentRepo.Cancel(ctx, appointmentID, reason)
			current.CancellationReason = reason
			current.CancelledAt = &now
		} else {
			err = s.appointmentRepo.UpdateStatus(ctx, appointmentID, next)
		}
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		previous = current.Status
		current.Status = next
		current.UpdatedAt = now

		// 6. Пишем событие в журнал
		event, err := domain.NewAppointmentEvent(domain.EventAppointmentStatusChanged, current, previous, now)
		if err != nil {
			return fmt.Errorf("%w: UpdateStatus - build event: %v", ErrInternal, err)
		}
		if err := s.outboxRepo.Insert(ctx, event); err != nil {
			return fmt.Errorf("%w: UpdateStatus - outbox insert: %v", ErrInternal, err)
		}

		appt = current
		return nil
	})

	if err != nil {
		if isKnownError(err) {
			if errors.Is(err, ErrInternal) {
				s.logger.Error("UpdateStatus: appointment id=%d: %v", appointmentID, err)
			}
			return nil, err
		}
		s.logger.Error("UpdateStatus: transaction failed for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - transaction: %v", ErrInternal, err)
	}

	s.metrics.IncStatusTransition(string(previous), string(next))
	s.logger.Info("UpdateStatus: appointment id=%d moved %s -> %s", appointmentID, previous, next)

	return models.FromDomainAppointment(appt), nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, appointmentID int64) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, appointmentID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
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

func normalizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
