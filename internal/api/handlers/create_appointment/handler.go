package create_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidTenantID       = "некорректный ID арендатора"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDate           = "некорректный формат даты записи, ожидается YYYY-MM-DD"
	msgInvalidTime           = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidInput          = "некорректные данные запроса"
	msgSlotNotAvailable      = "выбранное время уже занято"
	msgTenantNotFound        = "арендатор не найден"
	msgServiceNotFound       = "услуга не найдена"
	msgServiceInactive       = "услуга недоступна для записи"
	msgInvalidAppointmentDay = "нельзя записаться на прошедшую дату"
	msgDateTooFar            = "дата записи слишком далеко в будущем"
	msgInvalidTimeSlot       = "выбранное время не соответствует расписанию"
	msgTooLateToBook         = "слишком поздно для записи на это время"
)

var (
	errInvalidDate = errors.New(msgInvalidDate)
	errInvalidTime = errors.New(msgInvalidTime)
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := strconv.ParseInt(mux.Vars(r)["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/appointments - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{id}/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(tenantID)
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var fieldErr *createAppointment.FieldError

		switch {
		case errors.As(err, &fieldErr):
			h.logger.Warn("POST /tenants/{id}/appointments - Validation failed: tenant_id=%d, field=%s", tenantID, fieldErr.Field)
			handlers.RespondBadRequest(w, fieldErr.Message)

		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /tenants/{id}/appointments - Slot not available: tenant_id=%d, date=%s, start=%s",
				tenantID, req.AppointmentDate, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrTenantNotFound):
			h.logger.Warn("POST /tenants/{id}/appointments - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /tenants/{id}/appointments - Service not found: tenant_id=%d, service_id=%v", tenantID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrServiceInactive):
			h.logger.Warn("POST /tenants/{id}/appointments - Service inactive: tenant_id=%d, service_id=%v", tenantID, req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /tenants/{id}/appointments - Date in the past: tenant_id=%d, date=%s", tenantID, req.AppointmentDate)
			handlers.RespondBadRequest(w, msgInvalidAppointmentDay)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /tenants/{id}/appointments - Date too far in future: tenant_id=%d, date=%s", tenantID, req.AppointmentDate)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /tenants/{id}/appointments - Too late to book: tenant_id=%d, start=%s", tenantID, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /tenants/{id}/appointments - Invalid time slot: tenant_id=%d, start=%s", tenantID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /tenants/{id}/appointments - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /tenants/{id}/appointments - Failed to create appointment: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tenants/{id}/appointments - Appointment created: appointment_id=%d, tenant_id=%d, status=%s",
		result.ID, tenantID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
