package get_settings

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// ParsePath извлекает tenantId из пути и необязательный serviceId из query
func ParsePath(r *http.Request) (tenantID int64, serviceID *int64, err error) {
	tenantID, err = strconv.ParseInt(mux.Vars(r)["tenantId"], 10, 64)
	if err != nil {
		return 0, nil, err
	}

	if v := r.URL.Query().Get("serviceId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, nil, err
		}
		serviceID = &id
	}

	return tenantID, serviceID, nil
}
