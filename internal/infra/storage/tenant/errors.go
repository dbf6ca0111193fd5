package tenant

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не найден
	ErrTenantNotFound = errors.New("tenant.repository: tenant not found")

	// ErrSlugTaken возвращается при нарушении уникальности slug
	ErrSlugTaken = errors.New("tenant.repository: slug already taken")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("tenant.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("tenant.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("tenant.repository: failed to scan row")
)
