package create_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubUseCase struct {
	got  *createAppointment.Request
	resp *createAppointment.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	s.got = req
	return s.resp, s.err
}

const validBody = `{
	"serviceId": 3,
	"appointmentDate": "2025-03-12",
	"startTime": "10:00",
	"customerName": "Ann",
	"customerEmail": "ann@example.com"
}`

func serve(uc *stubUseCase, tenant, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/tenants/{tenantId}/appointments", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/tenants/"+tenant+"/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandle_Created(t *testing.T) {
	serviceID := int64(3)
	uc := &stubUseCase{resp: &createAppointment.Response{
		ID:              11,
		TenantID:        1,
		ServiceID:       &serviceID,
		AppointmentDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		EndTime:         "10:45",
		Status:          domain.StatusScheduled,
		CustomerName:    "Ann",
		CustomerEmail:   "ann@example.com",
	}}

	rec := serve(uc, "1", validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, "2025-03-12", resp.AppointmentDate)
	assert.Equal(t, "10:45", resp.EndTime)
	assert.Equal(t, "scheduled", resp.Status)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(1), uc.got.TenantID)
	assert.Equal(t, "10:00", uc.got.StartTime.String())
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "field validation message returned verbatim",
			err:     &createAppointment.FieldError{Field: "customerEmail", Message: "customer email is not valid"},
			status:  http.StatusBadRequest,
			message: "customer email is not valid",
		},
		{
			name:    "conflict",
			err:     fmt.Errorf("%w: recheck", createAppointment.ErrSlotNotAvailable),
			status:  http.StatusConflict,
			message: msgSlotNotAvailable,
		},
		{"tenant missing", createAppointment.ErrTenantNotFound, http.StatusNotFound, msgTenantNotFound},
		{"service missing", createAppointment.ErrServiceNotFound, http.StatusNotFound, msgServiceNotFound},
		{"service inactive", createAppointment.ErrServiceInactive, http.StatusBadRequest, msgServiceInactive},
		{"past date", createAppointment.ErrInvalidDate, http.StatusBadRequest, msgInvalidAppointmentDay},
		{"too far", createAppointment.ErrDateTooFarInFuture, http.StatusBadRequest, msgDateTooFar},
		{"notice", createAppointment.ErrTooLateToBook, http.StatusBadRequest, msgTooLateToBook},
		{"not in schedule", createAppointment.ErrInvalidTimeSlot, http.StatusBadRequest, msgInvalidTimeSlot},
		{
			name:    "internal",
			err:     fmt.Errorf("%w: db down", createAppointment.ErrInternal),
			status:  http.StatusInternalServerError,
			message: "внутренняя ошибка сервера",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, "1", validBody)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec).Message)
		})
	}
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		tenant  string
		body    string
		message string
	}{
		{"tenant id", "abc", validBody, msgInvalidTenantID},
		{"malformed json", "1", `{"customerName":`, msgInvalidRequestBody},
		{"unknown field", "1", `{"foo":"bar"}`, msgInvalidRequestBody},
		{"date format", "1", strings.Replace(validBody, "2025-03-12", "12.03.2025", 1), msgInvalidDate},
		{"time format", "1", strings.Replace(validBody, `"10:00"`, `"10am"`, 1), msgInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(uc, tt.tenant, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec).Message)
			assert.Nil(t, uc.got)
		})
	}
}
