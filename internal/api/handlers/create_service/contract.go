package create_service

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/services/models"
)

type ServiceCatalog interface {
	Create(ctx context.Context, tenantID, userID int64, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
