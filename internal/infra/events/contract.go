package events

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// OutboxRepository хранилище неотправленных событий
type OutboxRepository interface {
	FetchUnpublished(ctx context.Context, limit int) ([]*domain.AppointmentEvent, error)
	MarkPublished(ctx context.Context, ids []int64) error
}

// TxManager интерфейс для управления транзакциями
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MessageWriter отправляет сообщения в брокер (*kafka.Writer)
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Metrics счетчики отправки
type Metrics interface {
	AddOutboxPublished(result string, count int)
}
