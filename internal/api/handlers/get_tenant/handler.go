package get_tenant

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/tenants"
)

const msgNotFound = "арендатор не найден"

type Handler struct {
	service TenantService
	logger  Logger
}

func NewHandler(service TenantService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{slug}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	tenant, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, tenants.ErrTenantNotFound) {
			h.logger.Warn("GET /tenants/{slug} - Tenant not found: slug=%q", slug)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /tenants/{slug} - Failed to get tenant: slug=%q, error=%v", slug, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, tenant)
}
