package list_appointments

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос к сервису из query параметров
// date, startDate, endDate - YYYY-MM-DD; status; includeCancelled - bool
func ToServiceRequest(tenantID, userID int64, query url.Values) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{
		TenantID: tenantID,
		UserID:   userID,
	}

	var err error
	if req.Date, err = parseDate(query.Get("date")); err != nil {
		return nil, err
	}
	if req.StartDate, err = parseDate(query.Get("startDate")); err != nil {
		return nil, err
	}
	if req.EndDate, err = parseDate(query.Get("endDate")); err != nil {
		return nil, err
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if v := query.Get("includeCancelled"); v != "" {
		if req.IncludeCancelled, err = strconv.ParseBool(v); err != nil {
			return nil, err
		}
	}

	return req, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	date, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
