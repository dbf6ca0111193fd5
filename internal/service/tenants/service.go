package tenants

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/service/tenants/models"
)

// slugPattern строчные латинские буквы, цифры и дефисы, без дефиса по краям
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Service сервис для работы с арендаторами
type Service struct {
	tenantRepo TenantRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса арендаторов
func NewService(tenantRepo TenantRepository, logger Logger) *Service {
	return &Service{
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

// Create создает арендатора, владельцем становится userID
func (s *Service) Create(ctx context.Context, userID int64, req *models.CreateTenantRequest) (*models.TenantResponse, error) {
	s.logger.Info("Create: creating tenant slug=%q by user=%d", req.Slug, userID)

	tenant := req.ToDomain(userID)

	// 1. Валидируем входные данные
	if err := validateTenant(tenant); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Сохраняем (уникальность slug гарантирует БД)
	created, err := s.tenantRepo.Create(ctx, tenant)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrSlugTaken) {
			s.logger.Warn("Create: slug %q already taken", tenant.Slug)
			return nil, ErrSlugTaken
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created tenant id=%d", created.ID)
	return models.FromDomainTenant(created), nil
}

// GetBySlug получает публичный профиль арендатора
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.TenantResponse, error) {
	tenant, err := s.tenantRepo.GetBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("GetBySlug: tenant slug=%q not found", slug)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("GetBySlug: repository error for slug=%q: %v", slug, err)
		return nil, fmt.Errorf("%w: GetBySlug - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTenant(tenant), nil
}

func validateTenant(t *domain.Tenant) error {
	if t.BusinessName == "" {
		return fmt.Errorf("%w: businessName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(t.BusinessName) > domain.MaxBusinessNameLength {
		return fmt.Errorf("%w: businessName must be at most %d characters", ErrInvalidInput, domain.MaxBusinessNameLength)
	}

	if len(t.Slug) < domain.MinSlugLength || len(t.Slug) > domain.MaxSlugLength {
		return fmt.Errorf("%w: slug must be %d-%d characters", ErrInvalidInput, domain.MinSlugLength, domain.MaxSlugLength)
	}
	if !slugPattern.MatchString(t.Slug) {
		return fmt.Errorf("%w: slug may contain only lowercase letters, digits and hyphens", ErrInvalidInput)
	}

	if t.Description != nil && utf8.RuneCountInString(*t.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}

	if t.Email != nil {
		if len(*t.Email) > domain.MaxCustomerEmailLength {
			return fmt.Errorf("%w: email is too long", ErrInvalidInput)
		}
		if _, err := mail.ParseAddress(*t.Email); err != nil {
			return fmt.Errorf("%w: email is not valid", ErrInvalidInput)
		}
	}

	if t.Phone != nil && utf8.RuneCountInString(*t.Phone) > domain.MaxCustomerPhoneLength {
		return fmt.Errorf("%w: phone must be at most %d characters", ErrInvalidInput, domain.MaxCustomerPhoneLength)
	}

	return nil
}
