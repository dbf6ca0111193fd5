package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.got = req
	return s.resp, s.err
}

func serve(uc *stubUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/tenants/{tenantId}/available-slots", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_ReturnsSlots(t *testing.T) {
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &getAvailableSlots.Response{
		Date:     date,
		TenantID: 4,
		Slots: []getAvailableSlots.Slot{
			{StartTime: "09:00", EndTime: "09:30", DurationMinutes: 30},
			{StartTime: "09:15", EndTime: "09:45", DurationMinutes: 30},
		},
	}}

	rec := serve(uc, "/tenants/4/available-slots?date=2025-03-12&serviceId=9")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(4), uc.got.TenantID)
	require.NotNil(t, uc.got.ServiceID)
	assert.Equal(t, int64(9), *uc.got.ServiceID)
	assert.True(t, uc.got.Date.Equal(date))

	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-03-12", resp.Date)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, AvailableSlot{StartTime: "09:15", EndTime: "09:45", DurationMinutes: 30}, resp.Slots[1])
}

func TestHandle_EmptyListIsArray(t *testing.T) {
	uc := &stubUseCase{resp: &getAvailableSlots.Response{
		Date:     time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		TenantID: 4,
	}}

	rec := serve(uc, "/tenants/4/available-slots?date=2025-03-12")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "non-numeric tenant", target: "/tenants/abc/available-slots?date=2025-03-12"},
		{name: "missing date", target: "/tenants/4/available-slots"},
		{name: "bad date", target: "/tenants/4/available-slots?date=12-03-2025"},
		{name: "bad service id", target: "/tenants/4/available-slots?date=2025-03-12&serviceId=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(uc, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_UseCaseError(t *testing.T) {
	uc := &stubUseCase{err: errors.New("db down")}

	rec := serve(uc, "/tenants/4/available-slots?date=2025-03-12")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandle_InvalidInputIsBadRequest(t *testing.T) {
	uc := &stubUseCase{err: fmt.Errorf("%w: date is required", getAvailableSlots.ErrInvalidInput)}

	rec := serve(uc, "/tenants/4/available-slots?date=2025-03-12")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "date is required")
}

func TestHandle_ZeroTenantGetsEmptyList(t *testing.T) {
	date := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)
	uc := getAvailableSlots.NewUseCase(
		nil, nil, nil, nil, nil,
		domain.BookingSettings{AdvanceBookingDays: 30},
		nil,
		nopLogger{},
	)

	r := mux.NewRouter()
	r.HandleFunc("/tenants/{tenantId}/available-slots", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tenants/0/available-slots?date=2030-01-07", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, date.Format(time.DateOnly), resp.Date)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}
