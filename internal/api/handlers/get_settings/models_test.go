package get_settings

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name          string
		tenant        string
		rawQuery      string
		wantTenant    int64
		wantServiceID *int64
		wantErr       bool
	}{
		{name: "tenant only", tenant: "7", wantTenant: 7},
		{name: "with service", tenant: "7", rawQuery: "serviceId=12", wantTenant: 7, wantServiceID: func() *int64 { v := int64(12); return &v }()},
		{name: "bad tenant", tenant: "x", wantErr: true},
		{name: "bad service", tenant: "7", rawQuery: "serviceId=abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/tenants/"+tt.tenant+"/settings?"+tt.rawQuery, nil)
			r = mux.SetURLVars(r, map[string]string{"tenantId": tt.tenant})

			tenantID, serviceID, err := ParsePath(r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTenant, tenantID)
			assert.Equal(t, tt.wantServiceID, serviceID)
		})
	}
}
