package bootstrap

import (
	"context"
	"log/slog"

	"garage-booking/internal/infra/messaging"
	"garage-booking/internal/pkg/config"
	"garage-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var KafkaModule = fx.Module("kafka",
	fx.Invoke(StartNotificationRelay),
)

// StartNotificationRelay drains the notification outbox until shutdown.
// Without brokers the jobs stay queued for a later deployment to pick up.
func StartNotificationRelay(lc fx.Lifecycle, uow shared.UnitOfWork, cfg config.Config, logger *slog.Logger) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("kafka not configured, notification relay disabled")
		return
	}

	writer := messaging.NewKafkaWriter(cfg.Kafka.Brokers)
	relay := messaging.NewRelay(uow, writer, logger, cfg.Kafka)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				relay.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return writer.Close()
		},
	})
}
