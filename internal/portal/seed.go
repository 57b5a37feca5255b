package portal

import (
	"context"
	"time"

	"github.com/aslonhq/vendor-portal/internal/domain"
)

// SeedFixtures loads the demo catalog and announcements into a memory store.
// Only mock mode uses this; production data comes from migrations and admins.
func SeedFixtures(store *MemoryStore) error {
	ctx := context.Background()
	now := time.Now().UTC()

	store.mu.Lock()
	store.courses = []domain.Course{
		{
			CourseID:        "course-1",
			Title:           "Speedlimiter Installation Basics",
			Description:     "Learn the fundamentals of speedlimiter installation and safety procedures.",
			VideoURL:        "https://example.com/video1",
			DurationMinutes: 30,
		},
		{
			CourseID:        "course-2",
			Title:           "Customer Service Excellence",
			Description:     "Best practices for customer interaction and service delivery.",
			VideoURL:        "https://example.com/video2",
			DurationMinutes: 45,
		},
		{
			CourseID:        "course-3",
			Title:           "Payment Processing",
			Description:     "Understanding payment workflows and receipt generation.",
			VideoURL:        "https://example.com/video3",
			DurationMinutes: 20,
		},
	}
	store.mu.Unlock()

	announcements := []domain.Announcement{
		{
			AnnouncementID: "ann-1",
			Title:          "Welcome to ASLON Vendor Portal",
			Content:        "We're excited to have you on board! Please complete your profile and review the training materials.",
			AuthorID:       "admin-1",
			CreatedAt:      now.Add(-24 * time.Hour),
		},
		{
			AnnouncementID: "ann-2",
			Title:          "New Speedlimiter Service Guidelines",
			Content:        "Please review the updated guidelines for speedlimiter installation procedures.",
			AuthorID:       "admin-1",
			CreatedAt:      now.Add(-48 * time.Hour),
		},
	}
	for i := range announcements {
		if err := store.CreateAnnouncement(ctx, &announcements[i]); err != nil {
			return err
		}
	}
	return nil
}
