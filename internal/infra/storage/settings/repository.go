package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const tableName = "booking_settings"

// Repository репозиторий настроек бронирования
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает или обновляет настройки для пары (tenant_id, service_id)
// Уникальность пары обеспечивается индексом с COALESCE(service_id, 0)
func (r *Repository) Upsert(ctx context.Context, s *domain.BookingSettings) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"tenant_id",
			"service_id",
			"min_booking_notice_minutes",
			"advance_booking_days",
			"auto_confirm",
		).
		Values(
			s.TenantID,
			s.ServiceID,
			s.MinBookingNoticeMinutes,
			s.AdvanceBookingDays,
			s.AutoConfirm,
		).
		Suffix(`ON CONFLICT (tenant_id, COALESCE(service_id, 0)) DO UPDATE SET
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			auto_confirm = EXCLUDED.auto_confirm,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByTenantAndService получает настройки ровно для указанного уровня:
// serviceID == nil означает настройки арендатора целиком
func (r *Repository) GetByTenantAndService(ctx context.Context, tenantID int64, serviceID *int64) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"tenant_id",
		"service_id",
		"min_booking_notice_minutes",
		"advance_booking_days",
		"auto_confirm",
		"created_at",
		"updated_at",
	).
		From(tableName).
		Where(squirrel.Eq{"tenant_id": tenantID})

	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantAndService - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.BookingSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.TenantID,
		&s.ServiceID,
		&s.MinBookingNoticeMinutes,
		&s.AdvanceBookingDays,
		&s.AutoConfirm,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantAndService - scan settings: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// GetWithHierarchy получает настройки с учетом иерархии приоритетов
// 1. Настройки конкретной услуги (tenantID, serviceID)
// 2. Настройки арендатора (tenantID, NULL)
//
// Если настройки не найдены ни на одном уровне, возвращает ErrSettingsNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, tenantID int64, serviceID *int64) (*domain.BookingSettings, error) {
	if serviceID != nil {
		s, err := r.GetByTenantAndService(ctx, tenantID, serviceID)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrSettingsNotFound) {
			return nil, fmt.Errorf("%w: GetWithHierarchy - service level: %v", ErrExecQuery, err)
		}
	}

	s, err := r.GetByTenantAndService(ctx, tenantID, nil)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrSettingsNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - tenant level: %v", ErrExecQuery, err)
	}

	return nil, ErrSettingsNotFound
}
