package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aslonhq/vendor-portal/internal/domain"
)

// processEvent writes the audit record for one payment event. Duplicate
// deliveries are treated as success so the message gets acknowledged.
func (w *Worker) processEvent(ctx context.Context, msg *auditMessage) error {
	ctx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	event := msg.Event
	w.logger.Info("Processing payment event",
		slog.String("job_id", event.JobID),
		slog.String("approval_code", event.ApprovalCode),
	)

	inserted, err := w.store.RecordPayment(ctx, &domain.PaymentRecord{
		JobID:        event.JobID,
		VendorID:     event.VendorID,
		ApprovalCode: event.ApprovalCode,
		AmountCents:  event.AmountCents,
		PaidAt:       event.PaidAt,
	})
	if err != nil {
		return fmt.Errorf("failed to record payment for job %s: %w", event.JobID, err)
	}

	if !inserted {
		w.logger.Warn("Payment event redelivered, record already present",
			slog.String("job_id", event.JobID),
		)
		return nil
	}

	w.logger.Info("Payment audit record written",
		slog.String("job_id", event.JobID),
		slog.Int64("amount_cents", event.AmountCents),
	)

	return nil
}
