package portal

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/aslonhq/vendor-portal/internal/identity"
	"github.com/aslonhq/vendor-portal/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	vendorCaller = domain.Caller{ID: "vendor-1", Role: domain.RoleVendor}
	adminCaller  = domain.Caller{ID: "admin-1", Role: domain.RoleAdmin}
)

func newTestService(t *testing.T) (*Service, *ledger.MemoryStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dir := identity.NewMemoryDirectory()
	require.NoError(t, dir.Seed(identity.DemoUsers()))

	store := NewMemoryStore()
	require.NoError(t, SeedFixtures(store))

	jobs := ledger.NewMemoryStore()
	return NewService(store, dir, jobs, logger), jobs
}

func TestService_Announcements(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.PublishAnnouncement(ctx, vendorCaller, "Nope", "vendors cannot publish")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.PublishAnnouncement(ctx, adminCaller, "", "missing title")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	published, err := svc.PublishAnnouncement(ctx, adminCaller, "Maintenance Window", "Portal down Sunday 02:00-04:00.")
	require.NoError(t, err)

	list, err := svc.ListAnnouncements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// Newest first: the fresh announcement precedes both seeded ones.
	assert.Equal(t, published.AnnouncementID, list[0].AnnouncementID)
	assert.Equal(t, "ann-1", list[1].AnnouncementID)
	assert.Equal(t, "ann-2", list[2].AnnouncementID)
}

func TestService_Forum(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, vendorCaller, "Fitting advice", "Any tips for older trucks?")
	require.NoError(t, err)
	assert.Equal(t, "Demo Vendor", post.AuthorName)

	reply, err := svc.AddReply(ctx, adminCaller, post.PostID, "Check the updated guidelines.")
	require.NoError(t, err)
	assert.Equal(t, "Admin User", reply.AuthorName)

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Len(t, posts[0].Replies, 1)
	assert.Equal(t, reply.ReplyID, posts[0].Replies[0].ReplyID)

	_, err = svc.AddReply(ctx, vendorCaller, "no-such-post", "hello?")
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestService_DeletePost(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, vendorCaller, "To be deleted", "content")
	require.NoError(t, err)

	other := domain.Caller{ID: "vendor-2", Role: domain.RoleVendor}
	assert.ErrorIs(t, svc.DeletePost(ctx, other, post.PostID), domain.ErrForbidden)

	// Author may delete own post; admin may delete anyone's.
	require.NoError(t, svc.DeletePost(ctx, vendorCaller, post.PostID))
	assert.ErrorIs(t, svc.DeletePost(ctx, adminCaller, post.PostID), domain.ErrPostNotFound)
}

func TestService_CourseProgress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	courses, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 3)

	_, err = svc.UpdateProgress(ctx, vendorCaller, "no-such-course", 50)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)

	p, err := svc.UpdateProgress(ctx, vendorCaller, "course-1", 40)
	require.NoError(t, err)
	assert.Equal(t, 40, p.Progress)
	assert.False(t, p.Completed)
	assert.Nil(t, p.CompletedAt)

	// Out-of-range progress is clamped.
	p, err = svc.UpdateProgress(ctx, vendorCaller, "course-1", 250)
	require.NoError(t, err)
	assert.Equal(t, 100, p.Progress)
	assert.True(t, p.Completed)
	require.NotNil(t, p.CompletedAt)
	firstCompletion := *p.CompletedAt

	// Re-completing keeps the original completion timestamp.
	time.Sleep(10 * time.Millisecond)
	_, err = svc.UpdateProgress(ctx, vendorCaller, "course-1", 100)
	require.NoError(t, err)

	list, err := svc.MyProgress(ctx, vendorCaller)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].CompletedAt)
	assert.True(t, list[0].CompletedAt.Equal(firstCompletion))
}

func TestService_Tickets(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, vendorCaller, "Login trouble", "Cannot reach the dashboard.")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)

	_, err = svc.ListTickets(ctx, vendorCaller)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	tickets, err := svc.ListTickets(ctx, adminCaller)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, ticket.TicketID, tickets[0].TicketID)
}

func TestService_Revenue(t *testing.T) {
	svc, jobs := newTestService(t)
	ctx := context.Background()

	job, err := jobs.Create(ctx, "vendor-1", "Jane Doe", "XYZ-999", domain.ServiceFeeCents)
	require.NoError(t, err)
	_, err = jobs.MarkPaid(ctx, job.JobID, "ASLN-AB12-CD34", time.Now())
	require.NoError(t, err)
	_, err = jobs.Create(ctx, "vendor-1", "John Roe", "ABC-123", domain.ServiceFeeCents)
	require.NoError(t, err)

	_, err = svc.Revenue(ctx, vendorCaller)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	summary, err := svc.Revenue(ctx, adminCaller)
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceFeeCents, summary.TotalCents)
	assert.Equal(t, int64(1), summary.PaidJobs)
}

func TestService_VendorAdministration(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateVendor(ctx, vendorCaller, "x@example.com", "secret12", "X")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	created, err := svc.CreateVendor(ctx, adminCaller, "new-vendor@example.com", "secret12", "New Vendor")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVendor, created.Role)
	assert.Equal(t, domain.UserStatusActive, created.Status)

	suspended, err := svc.SetVendorStatus(ctx, adminCaller, created.UserID, domain.UserStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusSuspended, suspended.Status)

	vendors, err := svc.ListVendors(ctx, adminCaller)
	require.NoError(t, err)
	assert.Len(t, vendors, 2)

	_, err = svc.ListVendors(ctx, vendorCaller)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
