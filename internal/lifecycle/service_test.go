package lifecycle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aslonhq/vendor-portal/internal/approval"
	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/aslonhq/vendor-portal/internal/identity"
	"github.com/aslonhq/vendor-portal/internal/ledger"
	"github.com/aslonhq/vendor-portal/internal/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	vendorCaller = domain.Caller{ID: "vendor-1", Role: domain.RoleVendor}
	adminCaller  = domain.Caller{ID: "admin-1", Role: domain.RoleAdmin}
)

type capturingPublisher struct {
	bodies [][]byte
}

func (p *capturingPublisher) PublishWithRetry(_ context.Context, body []byte, _ string) error {
	p.bodies = append(p.bodies, body)
	return nil
}

func newTestService(t *testing.T) (*Service, *ledger.MemoryStore, *capturingPublisher) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dir := identity.NewMemoryDirectory()
	require.NoError(t, dir.Seed(identity.DemoUsers()))

	store := ledger.NewMemoryStore()
	publisher := &capturingPublisher{}

	svc := NewService(&Config{
		Jobs:      store,
		Directory: dir,
		Composer:  receipt.NewComposer(logger, nil),
		Publisher: publisher,
		Logger:    logger,
	})
	return svc, store, publisher
}

func TestService_CreateJob(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, vendorCaller, "Jane Doe", "XYZ-999")
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.Nil(t, job.ApprovalCode)
	assert.Nil(t, job.PaidAt)
	assert.Equal(t, domain.ServiceFeeCents, job.AmountCents)
	assert.Equal(t, "vendor-1", job.VendorID)
}

func TestService_CreateJob_Rejections(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateJob(ctx, adminCaller, "Jane Doe", "XYZ-999")
	assert.ErrorIs(t, err, domain.ErrForbidden, "admins cannot create vendor jobs")

	_, err = svc.CreateJob(ctx, vendorCaller, "", "XYZ-999")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateJob(ctx, vendorCaller, "Jane Doe", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestService_ProcessPayment(t *testing.T) {
	svc, _, publisher := newTestService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, vendorCaller, "Jane Doe", "XYZ-999")
	require.NoError(t, err)

	paid, err := svc.ProcessPayment(ctx, vendorCaller, job.JobID)
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusPaid, paid.Status)
	require.NotNil(t, paid.ApprovalCode)
	assert.True(t, approval.Valid(*paid.ApprovalCode))
	require.NotNil(t, paid.PaidAt)

	// One job.paid event published with the ledger's values.
	require.Len(t, publisher.bodies, 1)
	var event domain.JobPaidEvent
	require.NoError(t, json.Unmarshal(publisher.bodies[0], &event))
	assert.Equal(t, paid.JobID, event.JobID)
	assert.Equal(t, *paid.ApprovalCode, event.ApprovalCode)
	assert.Equal(t, domain.ServiceFeeCents, event.AmountCents)
}

func TestService_ProcessPayment_Idempotent(t *testing.T) {
	svc, _, publisher := newTestService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, vendorCaller, "Jane Doe", "XYZ-999")
	require.NoError(t, err)

	first, err := svc.ProcessPayment(ctx, vendorCaller, job.JobID)
	require.NoError(t, err)

	_, err = svc.ProcessPayment(ctx, vendorCaller, job.JobID)
	require.ErrorIs(t, err, domain.ErrAlreadyPaid)

	// The first payment's code and timestamp are unchanged, and no second
	// event was published.
	got, err := svc.GetJob(ctx, vendorCaller, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, *first.ApprovalCode, *got.ApprovalCode)
	assert.True(t, got.PaidAt.Equal(*first.PaidAt))
	assert.Len(t, publisher.bodies, 1)
}

func TestService_ProcessPayment_Rejections(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, vendorCaller, "Jane Doe", "XYZ-999")
	require.NoError(t, err)

	_, err = svc.ProcessPayment(ctx, vendorCaller, "no-such-job")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	other := domain.Caller{ID: "vendor-2", Role: domain.RoleVendor}
	_, err = svc.ProcessPayment(ctx, other, job.JobID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// collidingStore forces MarkPaid collisions to exercise the retry path.
type collidingStore struct {
	ledger.Store
	collisions int
}

func (s *collidingStore) MarkPaid(ctx context.Context, jobID, code string, paidAt time.Time) (*domain.Job, error) {
	if s.collisions > 0 {
		s.collisions--
		return nil, domain.ErrCodeCollision
	}
	return s.Store.MarkPaid(ctx, jobID, code, paidAt)
}

func TestService_ProcessPayment_CollisionRetry(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, vendorCaller, "Jane Doe", "XYZ-999")
	require.NoError(t, err)

	// One collision: the service regenerates and succeeds.
	svc.jobs = &collidingStore{Store: store, collisions: 1}
	paid, err := svc.ProcessPayment(ctx, vendorCaller, job.JobID)
	require.NoError(t, err)
	assert.NotNil(t, paid.ApprovalCode)
}

func TestService_ProcessPayment_CollisionExhausted(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, vendorCaller, "Jane Doe", "XYZ-999")
	require.NoError(t, err)

	// Two consecutive collisions escalate as a fatal configuration error.
	svc.jobs = &collidingStore{Store: store, collisions: 2}
	_, err = svc.ProcessPayment(ctx, vendorCaller, job.JobID)
	assert.ErrorIs(t, err, domain.ErrCodeExhausted)
}

func TestService_IssueReceipt(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, vendorCaller, "Jane Doe", "XYZ-999")
	require.NoError(t, err)

	paidAt := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	_, err = store.MarkPaid(ctx, job.JobID, "ASLN-AB12-CD34", paidAt)
	require.NoError(t, err)

	issued, err := svc.IssueReceipt(ctx, vendorCaller, job.JobID)
	require.NoError(t, err)

	assert.Equal(t, "receipt-ASLN-AB12-CD34.pdf", issued.Filename)
	for _, literal := range []string{
		"Demo Vendor", "Jane Doe", "XYZ-999", "$150.00",
		"ASLN-AB12-CD34", "Jun 1, 2024", "10:30:00 AM",
	} {
		assert.True(t, bytes.Contains(issued.PDF, []byte(literal)), "missing literal %q", literal)
	}

	// Re-issuing reproduces the same textual content. The documents are not
	// compared byte for byte: object ordering varies between renders.
	again, err := svc.IssueReceipt(ctx, vendorCaller, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, issued.Filename, again.Filename)
	for _, literal := range []string{
		"Demo Vendor", "Jane Doe", "XYZ-999", "$150.00",
		"ASLN-AB12-CD34", "Jun 1, 2024", "10:30:00 AM",
	} {
		assert.True(t, bytes.Contains(again.PDF, []byte(literal)), "missing literal %q on reissue", literal)
	}

	// Admins may fetch any vendor's receipt.
	_, err = svc.IssueReceipt(ctx, adminCaller, job.JobID)
	assert.NoError(t, err)
}

func TestService_IssueReceipt_NotPaid(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, vendorCaller, "Jane Doe", "XYZ-999")
	require.NoError(t, err)

	issued, err := svc.IssueReceipt(ctx, vendorCaller, job.JobID)
	assert.ErrorIs(t, err, domain.ErrNotPaid)
	assert.Nil(t, issued)
}

func TestService_IssueReceipt_Forbidden(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, vendorCaller, "Jane Doe", "XYZ-999")
	require.NoError(t, err)
	_, err = svc.ProcessPayment(ctx, vendorCaller, job.JobID)
	require.NoError(t, err)

	other := domain.Caller{ID: "vendor-2", Role: domain.RoleVendor}
	issued, err := svc.IssueReceipt(ctx, other, job.JobID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, issued)
}

func TestService_ListJobs(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateJob(ctx, vendorCaller, "Jane Doe", "XYZ-999")
	require.NoError(t, err)

	other := domain.Caller{ID: "vendor-2", Role: domain.RoleVendor}
	_, err = svc.CreateJob(ctx, other, "John Roe", "ABC-123")
	require.NoError(t, err)

	mine, err := svc.ListJobs(ctx, vendorCaller)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "vendor-1", mine[0].VendorID)

	all, err := svc.ListJobs(ctx, adminCaller)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Vendors cannot read another vendor's job directly either.
	_, err = svc.GetJob(ctx, vendorCaller, mine[0].JobID)
	require.NoError(t, err)
	_, err = svc.GetJob(ctx, other, mine[0].JobID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
