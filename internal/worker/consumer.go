package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/aslonhq/vendor-portal/internal/approval"
	"github.com/aslonhq/vendor-portal/internal/domain"
)

// setupConsumer sets up the RabbitMQ consumer with QoS and returns the delivery channel
func (w *Worker) setupConsumer(ctx context.Context) (<-chan amqp.Delivery, error) {
	channel := w.rabbitClient.GetChannel()
	if channel == nil {
		return nil, fmt.Errorf("rabbitmq channel is nil")
	}

	// Cap unacknowledged deliveries per consumer.
	err := channel.Qos(
		w.prefetchCount, // prefetch count
		0,               // prefetch size
		false,           // global
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	w.logger.Info("RabbitMQ QoS configured",
		slog.Int("prefetch_count", w.prefetchCount),
	)

	deliveries, err := w.rabbitClient.Consume(w.workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	w.logger.Info("RabbitMQ consumer started",
		slog.String("consumer_tag", w.workerID),
		slog.String("queue", w.queueName),
	)

	return deliveries, nil
}

// startMessageDispatcher decodes deliveries and hands valid payment events to
// the worker pool. Malformed messages are rejected without requeue.
func (w *Worker) startMessageDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) {
	w.logger.Info("Message dispatcher started",
		slog.String("worker_id", w.workerID),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Message dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("RabbitMQ delivery channel closed")
				return
			}

			var event domain.JobPaidEvent
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				w.logger.Error("Failed to parse payment event JSON",
					slog.String("error", err.Error()),
					slog.String("body", string(delivery.Body)),
				)
				w.rejectDelivery(delivery, false)
				continue
			}

			if err := validateEvent(&event); err != nil {
				w.logger.Error("Invalid payment event",
					slog.String("job_id", event.JobID),
					slog.String("error", err.Error()),
				)
				w.rejectDelivery(delivery, false)
				continue
			}

			msg := &auditMessage{
				Event:       event,
				DeliveryTag: delivery.DeliveryTag,
			}

			select {
			case w.eventsChan <- msg:
				w.logger.Debug("Payment event dispatched to worker pool",
					slog.String("job_id", event.JobID),
					slog.Uint64("delivery_tag", delivery.DeliveryTag),
				)
			case <-ctx.Done():
				w.logger.Info("Message dispatcher stopped while dispatching event")
				// Requeue so another consumer can record it.
				w.rejectDelivery(delivery, true)
				return
			}
		}
	}
}

func (w *Worker) rejectDelivery(delivery amqp.Delivery, requeue bool) {
	if err := delivery.Nack(false, requeue); err != nil {
		w.logger.Error("Failed to NACK message",
			slog.Uint64("delivery_tag", delivery.DeliveryTag),
			slog.String("error", err.Error()),
		)
	}
}

// validateEvent checks the fields a payment event must carry before it can be
// written to the audit table.
func validateEvent(event *domain.JobPaidEvent) error {
	if event.JobID == "" {
		return fmt.Errorf("missing job_id")
	}
	if event.VendorID == "" {
		return fmt.Errorf("missing vendor_id")
	}
	if !approval.Valid(event.ApprovalCode) {
		return fmt.Errorf("malformed approval code: %q", event.ApprovalCode)
	}
	if event.AmountCents <= 0 {
		return fmt.Errorf("invalid amount: %d", event.AmountCents)
	}
	if event.PaidAt.IsZero() {
		return fmt.Errorf("missing paid_at")
	}
	return nil
}
