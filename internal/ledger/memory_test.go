package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Create(t *testing.T) {
	tests := []struct {
		name        string
		vendorID    string
		amountCents int64
		wantErr     error
	}{
		{name: "valid job", vendorID: "vendor-1", amountCents: domain.ServiceFeeCents},
		{name: "empty vendor id", vendorID: "", amountCents: domain.ServiceFeeCents, wantErr: domain.ErrInvalidInput},
		{name: "zero amount", vendorID: "vendor-1", amountCents: 0, wantErr: domain.ErrInvalidInput},
		{name: "negative amount", vendorID: "vendor-1", amountCents: -5, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			job, err := store.Create(context.Background(), tt.vendorID, "Jane Doe", "XYZ-999", tt.amountCents)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, job)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, job.JobID)
			assert.Equal(t, domain.JobStatusPending, job.Status)
			assert.Nil(t, job.ApprovalCode)
			assert.Nil(t, job.PaidAt)
			assert.Equal(t, tt.amountCents, job.AmountCents)
			assert.False(t, job.CreatedAt.IsZero())
		})
	}
}

func TestMemoryStore_MarkPaid(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	job, err := store.Create(ctx, "vendor-1", "Jane Doe", "XYZ-999", domain.ServiceFeeCents)
	require.NoError(t, err)

	paidAt := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	paid, err := store.MarkPaid(ctx, job.JobID, "ASLN-AB12-CD34", paidAt)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPaid, paid.Status)
	require.NotNil(t, paid.ApprovalCode)
	assert.Equal(t, "ASLN-AB12-CD34", *paid.ApprovalCode)
	require.NotNil(t, paid.PaidAt)
	assert.True(t, paid.PaidAt.Equal(paidAt))

	// Second payment attempt must fail and leave the first result untouched.
	_, err = store.MarkPaid(ctx, job.JobID, "ASLN-ZZ99-YY88", time.Now())
	require.ErrorIs(t, err, domain.ErrAlreadyPaid)

	got, err := store.FindByID(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, "ASLN-AB12-CD34", *got.ApprovalCode)
	assert.True(t, got.PaidAt.Equal(paidAt))

	_, err = store.MarkPaid(ctx, "no-such-job", "ASLN-AA11-BB22", time.Now())
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestMemoryStore_MarkPaid_CodeCollision(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := store.Create(ctx, "vendor-1", "Jane Doe", "XYZ-999", domain.ServiceFeeCents)
	require.NoError(t, err)
	second, err := store.Create(ctx, "vendor-1", "John Roe", "ABC-123", domain.ServiceFeeCents)
	require.NoError(t, err)

	_, err = store.MarkPaid(ctx, first.JobID, "ASLN-AB12-CD34", time.Now())
	require.NoError(t, err)

	_, err = store.MarkPaid(ctx, second.JobID, "ASLN-AB12-CD34", time.Now())
	assert.ErrorIs(t, err, domain.ErrCodeCollision)
}

func TestMemoryStore_MarkPaid_Concurrent(t *testing.T) {
	// Double-submit race: many concurrent payment attempts on one job must
	// produce exactly one success.
	ctx := context.Background()
	store := NewMemoryStore()
	job, err := store.Create(ctx, "vendor-1", "Jane Doe", "XYZ-999", domain.ServiceFeeCents)
	require.NoError(t, err)

	const attempts = 32
	var wg sync.WaitGroup
	successes := make(chan string, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := "ASLN-" + string(rune('A'+i%26)) + "A11-BB22"
			if _, err := store.MarkPaid(ctx, job.JobID, code, time.Now()); err == nil {
				successes <- code
			}
		}(i)
	}
	wg.Wait()
	close(successes)

	var winners []string
	for code := range successes {
		winners = append(winners, code)
	}
	require.Len(t, winners, 1)

	got, err := store.FindByID(ctx, job.JobID)
	require.NoError(t, err)
	require.NotNil(t, got.ApprovalCode)
	assert.Equal(t, winners[0], *got.ApprovalCode)
}

func TestMemoryStore_ListByVendor(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a, err := store.Create(ctx, "vendor-1", "A", "AAA-111", domain.ServiceFeeCents)
	require.NoError(t, err)
	b, err := store.Create(ctx, "vendor-1", "B", "BBB-222", domain.ServiceFeeCents)
	require.NoError(t, err)
	_, err = store.Create(ctx, "vendor-2", "C", "CCC-333", domain.ServiceFeeCents)
	require.NoError(t, err)

	// Force distinct creation times so the newest-first ordering is observable.
	store.mu.Lock()
	store.jobs[a.JobID].CreatedAt = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	store.jobs[b.JobID].CreatedAt = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	store.mu.Unlock()

	jobs, err := store.ListByVendor(ctx, "vendor-1")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, b.JobID, jobs[0].JobID)
	assert.Equal(t, a.JobID, jobs[1].JobID)

	jobs, err = store.ListByVendor(ctx, "vendor-none")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestMemoryStore_ListByVendor_TieOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var ids []string
	for i := 0; i < 4; i++ {
		job, err := store.Create(ctx, "vendor-1", "A", "AAA-111", domain.ServiceFeeCents)
		require.NoError(t, err)
		ids = append(ids, job.JobID)
	}

	// Equal creation times must break ties on job id descending, the same
	// order the SQL implementation yields.
	createdAt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	store.mu.Lock()
	for _, id := range ids {
		store.jobs[id].CreatedAt = createdAt
	}
	store.mu.Unlock()

	jobs, err := store.ListByVendor(ctx, "vendor-1")
	require.NoError(t, err)
	require.Len(t, jobs, len(ids))
	for i := 1; i < len(jobs); i++ {
		assert.Greater(t, jobs[i-1].JobID, jobs[i].JobID)
	}
}

func TestMemoryStore_MarkCompleted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	job, err := store.Create(ctx, "vendor-1", "Jane Doe", "XYZ-999", domain.ServiceFeeCents)
	require.NoError(t, err)

	_, err = store.MarkCompleted(ctx, job.JobID)
	require.ErrorIs(t, err, domain.ErrNotPaid)

	_, err = store.MarkPaid(ctx, job.JobID, "ASLN-AB12-CD34", time.Now())
	require.NoError(t, err)

	done, err := store.MarkCompleted(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, done.Status)
	assert.Equal(t, "ASLN-AB12-CD34", *done.ApprovalCode)
}

func TestMemoryStore_RevenueSummary(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	paid, err := store.Create(ctx, "vendor-1", "A", "AAA-111", domain.ServiceFeeCents)
	require.NoError(t, err)
	_, err = store.MarkPaid(ctx, paid.JobID, "ASLN-AB12-CD34", time.Now())
	require.NoError(t, err)

	_, err = store.Create(ctx, "vendor-1", "B", "BBB-222", domain.ServiceFeeCents)
	require.NoError(t, err)

	summary, err := store.RevenueSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceFeeCents, summary.TotalCents)
	assert.Equal(t, int64(1), summary.PaidJobs)
}
