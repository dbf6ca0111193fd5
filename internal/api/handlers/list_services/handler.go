package list_services

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/services"
)

const (
	msgInvalidTenantID = "некорректный ID арендатора"
	msgTenantNotFound  = "арендатор не найден"
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

// Handle GET /api/v1/tenants/{tenantId}/services
// Публичный список активных услуг
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := strconv.ParseInt(mux.Vars(r)["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/services - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	result, err := h.service.ListActive(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, services.ErrTenantNotFound) {
			h.logger.Warn("GET /tenants/{id}/services - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)
			return
		}
		h.logger.Error("GET /tenants/{id}/services - Failed to list services: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
