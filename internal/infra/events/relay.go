package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 50
)

// Config настройки реле
type Config struct {
	Topic        string
	PollInterval time.Duration
	BatchSize    int
}

// Relay переносит события из таблицы outbox в Kafka
// Событие отмечается отправленным в той же транзакции, в которой было выбрано,
// поэтому при сбое отправки оно будет отправлено повторно (at-least-once)
type Relay struct {
	txManager TxManager
	repo      OutboxRepository
	writer    MessageWriter
	metrics   Metrics
	logger    Logger
	cfg       Config
}

// NewRelay создает реле. writer == nil отключает отправку
func NewRelay(txManager TxManager, repo OutboxRepository, writer MessageWriter, metrics Metrics, logger Logger, cfg Config) *Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	return &Relay{
		txManager: txManager,
		repo:      repo,
		writer:    writer,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// NewKafkaWriter создает writer с партиционированием по ключу (id записи),
// чтобы события одной записи сохраняли порядок
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})
}

// Run опрашивает outbox до отмены контекста
func (r *Relay) Run(ctx context.Context) {
	if r.writer == nil {
		r.logger.Warn("OutboxRelay: disabled (no kafka brokers configured)")
		return
	}

	r.logger.Info("OutboxRelay: started (topic=%s, interval=%s, batch=%d)", r.cfg.Topic, r.cfg.PollInterval, r.cfg.BatchSize)

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("OutboxRelay: stopped")
			return
		case <-ticker.C:
			n, err := r.PublishBatch(ctx)
			if err != nil {
				r.metrics.AddOutboxPublished("error", 1)
				r.logger.Error("OutboxRelay: publish failed: %v", err)
				continue
			}
			if n > 0 {
				r.metrics.AddOutboxPublished("ok", n)
			}
		}
	}
}

// PublishBatch отправляет одну пачку событий и возвращает количество отправленных
func (r *Relay) PublishBatch(ctx context.Context) (int, error) {
	published := 0

	err := r.txManager.Do(ctx, func(txCtx context.Context) error {
		records, err := r.repo.FetchUnpublished(txCtx, r.cfg.BatchSize)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		msgs := make([]kafka.Message, 0, len(records))
		ids := make([]int64, 0, len(records))
		for _, rec := range records {
			headers := []kafka.Header{
				{Key: "event_id", Value: []byte(rec.EventID)},
				{Key: "event_type", Value: []byte(rec.EventType)},
				{Key: "tenant_id", Value: []byte(strconv.FormatInt(rec.TenantID, 10))},
			}
			carrier := &headerCarrier{headers: headers}
			otel.GetTextMapPropagator().Inject(txCtx, carrier)

			msgs = append(msgs, kafka.Message{
				Key:     []byte(strconv.FormatInt(rec.AppointmentID, 10)),
				Value:   rec.Payload,
				Headers: carrier.headers,
			})
			ids = append(ids, rec.ID)
		}

		if err := r.writer.WriteMessages(txCtx, msgs...); err != nil {
			return fmt.Errorf("write %d messages: %w", len(msgs), err)
		}

		if err := r.repo.MarkPublished(txCtx, ids); err != nil {
			return err
		}

		published = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return published, nil
}

// headerCarrier W3C trace context в заголовках Kafka
type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	for i := range c.headers {
		if c.headers[i].Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}
