package get_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/settings"
)

const (
	msgInvalidParams   = "некорректный ID арендатора или услуги"
	msgTenantNotFound  = "арендатор не найден"
	msgServiceNotFound = "услуга не найдена"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/settings?serviceId=
// Возвращает действующие настройки с учетом иерархии
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, serviceID, err := ParsePath(r)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/settings - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /tenants/{id}/settings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.Get(r.Context(), tenantID, userID, serviceID)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrTenantNotFound):
			h.logger.Warn("GET /tenants/{id}/settings - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, settings.ErrServiceNotFound):
			h.logger.Warn("GET /tenants/{id}/settings - Service not found: tenant_id=%d, service_id=%v", tenantID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, settings.ErrAccessDenied):
			h.logger.Warn("GET /tenants/{id}/settings - Access denied: tenant_id=%d, user_id=%d", tenantID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /tenants/{id}/settings - Failed to get settings: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/settings - Settings retrieved: tenant_id=%d, source=%s", tenantID, result.Source)
	handlers.RespondJSON(w, http.StatusOK, result)
}
