package create_tenant

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/tenants/models"
)

type TenantService interface {
	Create(ctx context.Context, userID int64, req *models.CreateTenantRequest) (*models.TenantResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
