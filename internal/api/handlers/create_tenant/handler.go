package create_tenant

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/tenants"
	"github.com/m04kA/SMC-AppointmentService/internal/service/tenants/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSlugTaken          = "адрес страницы уже занят"
	msgMissingUserID      = "отсутствует ID пользователя"
)

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

// Handle POST /api/v1/tenants
// Владельцем становится пользователь из X-User-ID
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /tenants - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateTenantRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	tenant, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, tenants.ErrInvalidInput):
			h.logger.Warn("POST /tenants - Validation failed: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, validationMessage(err))

		case errors.Is(err, tenants.ErrSlugTaken):
			h.logger.Warn("POST /tenants - Slug taken: slug=%q", req.Slug)
			handlers.RespondConflict(w, msgSlugTaken)

		default:
			h.logger.Error("POST /tenants - Failed to create tenant: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tenants - Tenant created: tenant_id=%d, slug=%s, owner=%d", tenant.ID, tenant.Slug, userID)
	handlers.RespondJSON(w, http.StatusCreated, tenant)
}

// validationMessage убирает префикс сентинела из текста ошибки
func validationMessage(err error) string {
	return handlers.TrimSentinel(err, tenants.ErrInvalidInput)
}
