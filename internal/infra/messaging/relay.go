package messaging

import (
	"context"
	"log/slog"
	"time"

	"garage-booking/internal/pkg/config"
	"garage-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const defaultMaxAttempts = 5

// MessageWriter is the subset of *kafka.Writer the relay needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaWriter(brokers []string) *kafka.Writer {
	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Balancer: &kafka.Hash{},
	})
}

// Relay drains the notification outbox into Kafka, where the mail sender consumes it.
type Relay struct {
	uow         shared.UnitOfWork
	writer      MessageWriter
	logger      *slog.Logger
	pollEvery   time.Duration
	batchSize   int
	maxAttempts int
}

func NewRelay(uow shared.UnitOfWork, writer MessageWriter, logger *slog.Logger, cfg config.KafkaConfig) *Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &Relay{
		uow:         uow,
		writer:      writer,
		logger:      logger,
		pollEvery:   cfg.PollInterval,
		batchSize:   cfg.BatchSize,
		maxAttempts: defaultMaxAttempts,
	}
}

func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.PublishBatch(ctx); err != nil {
				r.logger.Error("notification relay batch failed", "error", err)
			}
		}
	}
}

// PublishBatch sends one batch and returns how many jobs were delivered.
// A job whose write fails stays queued with its attempt counter bumped.
func (r *Relay) PublishBatch(ctx context.Context) (int, error) {
	sent := 0
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		jobs, err := tx.Notifications().FetchQueued(ctx, r.batchSize)
		if err != nil {
			return err
		}

		delivered := make([]uuid.UUID, 0, len(jobs))
		for _, job := range jobs {
			if err := r.writer.WriteMessages(ctx, toMessage(job)); err != nil {
				r.logger.Warn("notification publish failed",
					"job_id", job.ID.String(),
					"kind", job.Kind,
					"attempt", job.Attempts+1,
					"error", err)
				if markErr := tx.Notifications().MarkAttemptFailed(ctx, job.ID, err.Error(), r.maxAttempts); markErr != nil {
					return markErr
				}
				continue
			}
			delivered = append(delivered, job.ID)
		}

		if err := tx.Notifications().MarkSent(ctx, delivered); err != nil {
			return err
		}
		sent = len(delivered)
		return nil
	})
	return sent, err
}

func toMessage(job shared.NotificationJob) kafka.Message {
	return kafka.Message{
		Topic: job.Topic,
		Key:   []byte(job.Key),
		Value: job.Payload,
		Headers: []kafka.Header{
			{Key: "job_id", Value: []byte(job.ID.String())},
			{Key: "kind", Value: []byte(job.Kind)},
		},
	}
}
