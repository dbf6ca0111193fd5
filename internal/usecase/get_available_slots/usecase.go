package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
)

// UseCase use case для получения свободных слотов на дату
// Отсутствие арендатора, услуги или окон на день недели - не ошибка, а пустой список
type UseCase struct {
	tenantRepo       TenantRepository
	serviceRepo      ServiceRepository
	availabilityRepo AvailabilityRepository
	appointmentRepo  AppointmentRepository
	settingsRepo     SettingsRepository
	defaults         domain.BookingSettings
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
// defaults - политика бронирования для арендаторов без собственных настроек
func NewUseCase(
	tenantRepo TenantRepository,
	serviceRepo ServiceRepository,
	availabilityRepo AvailabilityRepository,
	appointmentRepo AppointmentRepository,
	settingsRepo SettingsRepository,
	defaults domain.BookingSettings,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		tenantRepo:       tenantRepo,
		serviceRepo:      serviceRepo,
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		settingsRepo:     settingsRepo,
		defaults:         defaults,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%d, service=%s, date=%s",
		req.TenantID, formatServiceID(req.ServiceID), req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	resp := &Response{
		Date:      req.Date,
		TenantID:  req.TenantID,
		ServiceID: req.ServiceID,
		Slots:     []Slot{},
	}

	if hasUnknownIDs(req) {
		uc.logger.Warn("GetAvailableSlots: non-positive id (tenant=%d, service=%s), returning no slots",
			req.TenantID, formatServiceID(req.ServiceID))
		return resp, nil
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем арендатора
	if _, err := uc.tenantRepo.GetByID(ctx, req.TenantID); err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("GetAvailableSlots: tenant id=%d not found, returning no slots", req.TenantID)
			return resp, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	// 4. Получаем услугу: длительность записи берется из нее
	var serviceDuration *int
	if req.ServiceID != nil {
		service, err := uc.serviceRepo.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%d not found, returning no slots", *req.ServiceID)
				return resp, nil
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if !service.BelongsTo(req.TenantID) || !service.IsActive {
			uc.logger.Warn("GetAvailableSlots: service id=%d is not bookable for tenant id=%d", service.ID, req.TenantID)
			return resp, nil
		}

		serviceDuration = &service.DurationMinutes
	}

	// 5. Получаем настройки бронирования с учетом иерархии
	settings, err := uc.loadSettings(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	// 6. Дата вне окна бронирования - свободных слотов нет
	if !isBookableDate(req.Date, now, settings) {
		uc.logger.Info("GetAvailableSlots: date %s is outside the booking window", req.Date.Format(domain.DateFormat))
		return resp, nil
	}

	// 7. Получаем окна доступности на день недели
	windows, err := uc.availabilityRepo.ListByTenantAndDay(ctx, req.TenantID, domain.WeekdayIndex(req.Date))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get availability: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}
	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: no availability on %s", req.Date.Weekday())
		return resp, nil
	}

	// 8. Получаем активные записи на дату
	date := req.Date
	appointments, err := uc.appointmentRepo.GetByTenantWithFilter(ctx, domain.AppointmentsFilter{
		TenantID:  req.TenantID,
		StartDate: &date,
		EndDate:   &date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 9. Генерируем кандидатов и убираем занятые
	candidates := domain.ResolveCandidates(windows, serviceDuration)
	available := domain.FilterAvailable(candidates, appointments)
	available = dropBeforeNotice(available, req.Date, now, settings.MinBookingNoticeMinutes)

	resp.Slots = toSlots(available)
	uc.metrics.ObserveSlotsReturned(len(resp.Slots))

	uc.logger.Info("GetAvailableSlots: %d of %d slots free for tenant=%d, date=%s",
		len(resp.Slots), len(candidates), req.TenantID, req.Date.Format(domain.DateFormat))

	return resp, nil
}

func (uc *UseCase) loadSettings(ctx context.Context, tenantID int64, serviceID *int64) (*domain.BookingSettings, error) {
	settings, err := uc.settingsRepo.GetWithHierarchy(ctx, tenantID, serviceID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	defaults := uc.defaults
	defaults.TenantID = tenantID
	return &defaults, nil
}

func formatServiceID(id *int64) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *id)
}
