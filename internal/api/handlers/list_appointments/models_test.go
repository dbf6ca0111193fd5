package list_appointments

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	query := url.Values{
		"startDate":        {"2025-03-01"},
		"endDate":          {"2025-03-31"},
		"status":           {"confirmed"},
		"includeCancelled": {"true"},
	}

	req, err := ToServiceRequest(5, 42, query)
	require.NoError(t, err)

	assert.Equal(t, int64(5), req.TenantID)
	assert.Equal(t, int64(42), req.UserID)
	assert.Nil(t, req.Date)
	require.NotNil(t, req.StartDate)
	require.NotNil(t, req.EndDate)
	assert.Equal(t, "2025-03-01", req.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2025-03-31", req.EndDate.Format("2006-01-02"))
	require.NotNil(t, req.Status)
	assert.Equal(t, "confirmed", *req.Status)
	assert.True(t, req.IncludeCancelled)
}

func TestToServiceRequest_Empty(t *testing.T) {
	req, err := ToServiceRequest(5, 42, url.Values{})
	require.NoError(t, err)

	assert.Nil(t, req.Date)
	assert.Nil(t, req.StartDate)
	assert.Nil(t, req.EndDate)
	assert.Nil(t, req.Status)
	assert.False(t, req.IncludeCancelled)
}

func TestToServiceRequest_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
	}{
		{name: "bad date", query: url.Values{"date": {"12.03.2025"}}},
		{name: "bad start date", query: url.Values{"startDate": {"2025-13-01"}}},
		{name: "bad includeCancelled", query: url.Values{"includeCancelled": {"maybe"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToServiceRequest(5, 42, tt.query)
			assert.Error(t, err)
		})
	}
}
