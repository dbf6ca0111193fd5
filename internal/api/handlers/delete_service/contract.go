package delete_service

import "context"

type ServiceCatalog interface {
	Deactivate(ctx context.Context, serviceID, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
