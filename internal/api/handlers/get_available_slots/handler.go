package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidTenantID = "некорректный ID арендатора"
	msgMissingDate     = "дата обязательна"
	msgInvalidQuery    = "некорректные параметры: date ожидается в формате YYYY-MM-DD, serviceId - число"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/available-slots
// Query params: date (required, YYYY-MM-DD), serviceId (optional)
// Неизвестный арендатор или услуга дают пустой список, а не ошибку
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := strconv.ParseInt(mux.Vars(r)["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	query := r.URL.Query()
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /tenants/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(tenantID, query.Get("serviceId"), dateStr)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if errors.Is(err, getAvailableSlots.ErrInvalidInput) {
			h.logger.Warn("GET /tenants/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.TrimSentinel(err, getAvailableSlots.ErrInvalidInput))
			return
		}
		h.logger.Error("GET /tenants/{id}/available-slots - Failed to get slots: tenant_id=%d, date=%s, error=%v",
			tenantID, useCaseReq.Date.Format(time.DateOnly), err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tenants/{id}/available-slots - Slots retrieved: tenant_id=%d, service_id=%v, slots_count=%d",
		tenantID, useCaseReq.ServiceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
