// Package portal implements the shared-portal features around the job core:
// admin announcements, the vendor forum, e-learning courses with per-user
// progress, and support tickets.
package portal

import (
	"context"

	"github.com/aslonhq/vendor-portal/internal/domain"
)

// Store is the portal persistence contract. Listings that the UI presents by
// recency (announcements, forum posts, tickets) are returned newest-first.
type Store interface {
	CreateAnnouncement(ctx context.Context, a *domain.Announcement) error
	ListAnnouncements(ctx context.Context) ([]domain.Announcement, error)

	CreateForumPost(ctx context.Context, p *domain.ForumPost) error
	// FindForumPost returns domain.ErrPostNotFound for unknown ids.
	FindForumPost(ctx context.Context, postID string) (*domain.ForumPost, error)
	ListForumPosts(ctx context.Context) ([]domain.ForumPost, error)
	DeleteForumPost(ctx context.Context, postID string) error
	AddForumReply(ctx context.Context, r *domain.ForumReply) error

	// FindCourse returns domain.ErrCourseNotFound for unknown ids.
	FindCourse(ctx context.Context, courseID string) (*domain.Course, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	ListProgress(ctx context.Context, userID string) ([]domain.CourseProgress, error)
	// SaveProgress upserts one user's progress for one course. CompletedAt,
	// once set, is never overwritten.
	SaveProgress(ctx context.Context, p *domain.CourseProgress) error

	CreateTicket(ctx context.Context, t *domain.SupportTicket) error
	ListTickets(ctx context.Context) ([]domain.SupportTicket, error)
}
