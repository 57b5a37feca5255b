// Package worker consumes job.paid events from RabbitMQ and writes payment
// audit records.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/aslonhq/vendor-portal/internal/worker/storage"
	"github.com/aslonhq/vendor-portal/shared/rabbitmq"
)

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Store         storage.Store
	RabbitClient  *rabbitmq.Client
	QueueName     string
	Concurrency   int
	PrefetchCount int
	JobTimeout    time.Duration
}

// auditMessage pairs a decoded payment event with its broker delivery tag.
type auditMessage struct {
	Event       domain.JobPaidEvent
	DeliveryTag uint64
}

// Worker represents the payment audit worker
type Worker struct {
	logger        *slog.Logger
	store         storage.Store
	rabbitClient  *rabbitmq.Client
	workerID      string
	queueName     string
	concurrency   int
	prefetchCount int
	jobTimeout    time.Duration
	eventsChan    chan *auditMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	return &Worker{
		logger:        cfg.Logger,
		store:         cfg.Store,
		rabbitClient:  cfg.RabbitClient,
		workerID:      fmt.Sprintf("audit-worker-%s", uuid.New().String()[:8]),
		queueName:     cfg.QueueName,
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		jobTimeout:    cfg.JobTimeout,
		eventsChan:    make(chan *auditMessage),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming payment events. It blocks until the context is
// canceled or the broker delivery channel closes.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting payment audit worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping payment audit worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Payment audit worker stopped")
}
