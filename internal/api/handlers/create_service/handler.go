package create_service

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/services"
	"github.com/m04kA/SMC-AppointmentService/internal/service/services/models"
)

const (
	msgInvalidTenantID    = "некорректный ID арендатора"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgTenantNotFound     = "арендатор не найден"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service ServiceCatalog
	logger  Logger
}

func NewHandler(service ServiceCatalog, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := strconv.ParseInt(mux.Vars(r)["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/services - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /tenants/{id}/services - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{id}/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), tenantID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			h.logger.Warn("POST /tenants/{id}/services - Validation failed: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, handlers.TrimSentinel(err, services.ErrInvalidInput))

		case errors.Is(err, services.ErrTenantNotFound):
			h.logger.Warn("POST /tenants/{id}/services - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, services.ErrAccessDenied):
			h.logger.Warn("POST /tenants/{id}/services - Access denied: tenant_id=%d, user_id=%d", tenantID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /tenants/{id}/services - Failed to create service: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tenants/{id}/services - Service created: tenant_id=%d, service_id=%d", tenantID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
