package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// Стадии, на которых обнаружен конфликт (метка метрики)
const (
	conflictStageRecheck = "recheck"
	conflictStageStorage = "storage"
)

// UseCase use case для создания записи клиента
type UseCase struct {
	tenantRepo       TenantRepository
	serviceRepo      ServiceRepository
	availabilityRepo AvailabilityRepository
	appointmentRepo  AppointmentRepository
	settingsRepo     SettingsRepository
	outboxRepo       OutboxRepository
	txManager        TransactionManager
	defaults         domain.BookingSettings
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepo TenantRepository,
	serviceRepo ServiceRepository,
	availabilityRepo AvailabilityRepository,
	appointmentRepo AppointmentRepository,
	settingsRepo SettingsRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
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
		outboxRepo:       outboxRepo,
		txManager:        txManager,
		defaults:         defaults,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания записи
// Свободность слота перепроверяется в сериализуемой транзакции по текущему состоянию БД,
// а не по списку, который видел клиент
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: tenant=%d, date=%s, time=%s",
		req.TenantID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация данных клиента и запроса
	if err := validateCustomer(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем арендатора
	if _, err := uc.tenantRepo.GetByID(ctx, req.TenantID); err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("CreateAppointment: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	// 4. Получаем настройки бронирования с учетом иерархии
	settings, err := uc.loadSettings(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	// 5. Валидация даты и времени с учетом настроек
	if err := validateDate(req.Date, now, settings); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}
	if err := validateBookingTime(req.Date, req.StartTime, now, settings.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateAppointment: booking time validation failed: %v", err)
		return nil, err
	}

	var result *domain.Appointment

	// 6. Перепроверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Услуга читается в транзакции: снимок цены и длительности
		// соответствует состоянию БД на момент вставки
		service, err := uc.loadService(txCtx, req)
		if err != nil {
			return err
		}

		// 6.2. Окна доступности на день недели
		windows, err := uc.availabilityRepo.ListByTenantAndDay(txCtx, req.TenantID, domain.WeekdayIndex(req.Date))
		if err != nil {
			return fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
		}

		// 6.3. Активные записи на дату с блокировкой (FOR UPDATE)
		date := req.Date
		appointments, err := uc.appointmentRepo.GetByTenantWithFilter(txCtx, domain.AppointmentsFilter{
			TenantID:  req.TenantID,
			StartDate: &date,
			EndDate:   &date,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrConcurrentUpdate) {
				uc.metrics.IncBookingConflict(conflictStageStorage)
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 6.4. Запрошенное время должно быть свободным кандидатом
		var serviceDuration *int
		if service != nil {
			serviceDuration = &service.DurationMinutes
		}

		candidates := domain.ResolveCandidates(windows, serviceDuration)
		candidate, ok := findCandidate(candidates, req.StartTime)
		if !ok {
			uc.logger.Warn("CreateAppointment: %s is not a slot of tenant id=%d on %s",
				req.StartTime, req.TenantID, req.Date.Format(domain.DateFormat))
			return ErrInvalidTimeSlot
		}

		if len(domain.FilterAvailable([]domain.Candidate{candidate}, appointments)) == 0 {
			uc.logger.Warn("CreateAppointment: slot %s on %s is already taken",
				req.StartTime, req.Date.Format(domain.DateFormat))
			uc.metrics.IncBookingConflict(conflictStageRecheck)
			return ErrSlotNotAvailable
		}

		endTime, err := candidate.EndTime()
		if err != nil {
			return fmt.Errorf("%w: failed to compute end time: %v", ErrInternal, err)
		}

		// 6.5. Создаем запись со снимком услуги
		appt := &domain.Appointment{
			TenantID:        req.TenantID,
			ServiceID:       req.ServiceID,
			AppointmentDate: req.Date,
			StartTime:       candidate.StartTime,
			EndTime:         endTime,
			Status:          settings.InitialStatus(),
			CustomerName:    strings.TrimSpace(req.CustomerName),
			CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
			CustomerPhone:   req.CustomerPhone,
			Notes:           req.Notes,
		}
		if service != nil {
			appt.ServiceName = &service.Name
			appt.Price = service.Price
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) || errors.Is(err, appointmentRepo.ErrConcurrentUpdate) {
				uc.logger.Warn("CreateAppointment: storage rejected overlapping appointment: %v", err)
				uc.metrics.IncBookingConflict(conflictStageStorage)
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		// 6.6. Событие в outbox в той же транзакции
		event, err := domain.NewAppointmentEvent(domain.EventAppointmentCreated, created, "", now)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if err := uc.outboxRepo.Insert(txCtx, event); err != nil {
			return fmt.Errorf("%w: failed to store event: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.classifyTxError(err)
	}

	uc.metrics.IncAppointmentCreated(string(result.Status))
	uc.logger.Info("CreateAppointment: created appointment id=%d (%s %s-%s, status=%s)",
		result.ID, result.AppointmentDate.Format(domain.DateFormat), result.StartTime, result.EndTime, result.Status)

	return newResponse(result), nil
}

// classifyTxError приводит ошибку транзакции к ошибкам usecase
// Проигрыш сериализуемой транзакции при коммите означает, что слот занял конкурент
func (uc *UseCase) classifyTxError(err error) error {
	if errors.Is(err, txmanager.ErrSerializationFailure) {
		uc.logger.Warn("CreateAppointment: serialization failure: %v", err)
		uc.metrics.IncBookingConflict(conflictStageStorage)
		return ErrSlotNotAvailable
	}

	if isKnownError(err) {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateAppointment: %v", err)
		}
		return err
	}

	uc.logger.Error("CreateAppointment: transaction failed: %v", err)
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

// loadService возвращает услугу запроса или nil, если запись без услуги
func (uc *UseCase) loadService(ctx context.Context, req *Request) (*domain.Service, error) {
	if req.ServiceID == nil {
		return nil, nil
	}

	s, err := uc.serviceRepo.GetByID(ctx, *req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", *req.ServiceID)
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: failed to get service id=%d: %v", ErrInternal, *req.ServiceID, err)
	}

	if !s.BelongsTo(req.TenantID) {
		uc.logger.Warn("CreateAppointment: service id=%d belongs to tenant id=%d, not %d", s.ID, s.TenantID, req.TenantID)
		return nil, ErrServiceNotFound
	}
	if !s.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is not active", s.ID)
		return nil, ErrServiceInactive
	}

	return s, nil
}

func (uc *UseCase) loadSettings(ctx context.Context, tenantID int64, serviceID *int64) (*domain.BookingSettings, error) {
	settings, err := uc.settingsRepo.GetWithHierarchy(ctx, tenantID, serviceID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		uc.logger.Error("CreateAppointment: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	defaults := uc.defaults
	defaults.TenantID = tenantID
	return &defaults, nil
}
