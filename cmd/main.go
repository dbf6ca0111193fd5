package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	createAvailabilityHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_availability"
	createServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_service"
	createTenantHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_tenant"
	deleteAvailabilityHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_availability"
	deleteServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_service"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getSettingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_settings"
	getTenantHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_tenant"
	healthHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/health"
	listAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_appointments"
	listAvailabilityHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_availability"
	listServicesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_services"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment_status"
	updateServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_service"
	updateSettingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	outboxRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/outbox"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	availabilityService "github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	servicesService "github.com/m04kA/SMC-AppointmentService/internal/service/services"
	settingsService "github.com/m04kA/SMC-AppointmentService/internal/service/settings"
	tenantsService "github.com/m04kA/SMC-AppointmentService/internal/service/tenants"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/otelx"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")

	// Трейсинг
	shutdownTracing, err := otelx.Setup(context.Background(), otelx.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing: %v", err)
	}

	// Метрики: nil-коллектор отключает запись во всех слоях
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}
	stopMetricsCh := make(chan struct{})

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Redis: rate limit и readiness
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		log.Info("Redis client initialized (addr=%s)", cfg.Redis.Addr)
	}

	// Репозитории
	// serviceStore читается в транзакции записи напрямую, минуя кэш
	serviceStore := serviceRepo.NewRepository(wrappedDB)
	var (
		tenants  cache.TenantRepository  = tenantRepo.NewRepository(wrappedDB)
		services cache.ServiceRepository = serviceStore
	)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)
	outboxRepository := outboxRepo.NewRepository(wrappedDB)

	if cfg.Cache.Enabled {
		tenantCache, err := cache.NewTenants(tenants, cfg.Cache.Size)
		if err != nil {
			log.Fatal("Failed to create tenant cache: %v", err)
		}
		serviceCache, err := cache.NewServices(services, cfg.Cache.Size)
		if err != nil {
			log.Fatal("Failed to create service cache: %v", err)
		}
		tenants, services = tenantCache, serviceCache
		log.Info("LRU cache enabled (size=%d)", cfg.Cache.Size)
	}

	defaults := domain.BookingSettings{
		MinBookingNoticeMinutes: cfg.Booking.MinBookingNoticeMinutes,
		AdvanceBookingDays:      cfg.Booking.AdvanceBookingDays,
		AutoConfirm:             cfg.Booking.AutoConfirm,
	}

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		tenants,
		serviceStore,
		availabilityRepository,
		appointmentRepository,
		settingsRepository,
		outboxRepository,
		txMgr,
		defaults,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		tenants,
		services,
		availabilityRepository,
		appointmentRepository,
		settingsRepository,
		defaults,
		metricsCollector,
		log,
	)

	// Сервисы
	tenantSvc := tenantsService.NewService(tenants, log)
	serviceSvc := servicesService.NewService(services, tenants, log)
	availabilitySvc := availabilityService.NewService(availabilityRepository, tenants, log)
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		tenants,
		outboxRepository,
		txMgr,
		metricsCollector,
		log,
	)
	settingsSvc := settingsService.NewService(settingsRepository, tenants, services, defaults, log)

	// Инициализируем handlers
	createTenant := createTenantHandler.NewHandler(tenantSvc, log)
	getTenant := getTenantHandler.NewHandler(tenantSvc, log)
	listServices := listServicesHandler.NewHandler(serviceSvc, log)
	createService := createServiceHandler.NewHandler(serviceSvc, log)
	updateService := updateServiceHandler.NewHandler(serviceSvc, log)
	deleteService := deleteServiceHandler.NewHandler(serviceSvc, log)
	listAvailability := listAvailabilityHandler.NewHandler(availabilitySvc, log)
	createAvailability := createAvailabilityHandler.NewHandler(availabilitySvc, log)
	deleteAvailability := deleteAvailabilityHandler.NewHandler(availabilitySvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	checks := map[string]healthHandler.Pinger{"postgres": wrappedDB}
	if rdb != nil {
		checks["redis"] = healthHandler.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	health := healthHandler.NewHandler(checks, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log), middleware.RequestID, middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", health.Live).Methods(http.MethodGet)
	r.HandleFunc("/readyz", health.Ready).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (страница бронирования)
	// ============================================================

	api.HandleFunc("/tenants/{slug}", getTenant.Handle).Methods(http.MethodGet)
	api.HandleFunc("/tenants/{tenantId:[0-9]+}/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/tenants/{tenantId:[0-9]+}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	var createAppointmentRoute http.Handler = http.HandlerFunc(createAppointment.Handle)
	if cfg.RateLimit.Enabled && rdb != nil {
		limiter := middleware.NewRateLimiter(
			rdb,
			cfg.RateLimit.Limit,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			cfg.RateLimit.Prefix,
			cfg.RateLimit.FailOpen,
			log,
		)
		createAppointmentRoute = limiter.Middleware(createAppointmentRoute)
		log.Info("Rate limit enabled for public booking (limit=%d, window=%ds)",
			cfg.RateLimit.Limit, cfg.RateLimit.WindowSeconds)
	}
	api.Handle("/tenants/{tenantId:[0-9]+}/appointments", createAppointmentRoute).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Арендаторы ---
	protected.HandleFunc("/tenants", createTenant.Handle).Methods(http.MethodPost)

	// --- Услуги ---
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/services/{serviceId}", updateService.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/services/{serviceId}", deleteService.Handle).Methods(http.MethodDelete)

	// --- Окна доступности ---
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}/availability", listAvailability.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}/availability", createAvailability.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/availability/{slotId}", deleteAvailability.Handle).Methods(http.MethodDelete)

	// --- Записи ---
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Настройки бронирования ---
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}/settings", getSettings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}/settings", updateSettings.Handle).Methods(http.MethodPut)

	// Реле событий outbox -> Kafka
	relayCtx, stopRelay := context.WithCancel(context.Background())
	var writer events.MessageWriter
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaWriter := events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaWriter.Close()
		writer = kafkaWriter
	}
	relay := events.NewRelay(txMgr, outboxRepository, writer, metricsCollector, log, events.Config{
		Topic:        cfg.Kafka.Topic,
		PollInterval: time.Duration(cfg.Outbox.PollIntervalSeconds) * time.Second,
		BatchSize:    cfg.Outbox.BatchSize,
	})
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relay.Run(relayCtx)
	}()

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Metrics.ServiceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stopRelay()
	<-relayDone

	close(stopMetricsCh)

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
