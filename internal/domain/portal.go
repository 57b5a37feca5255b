package domain

import "time"

// Announcement is an admin-published notice shown to all vendors.
type Announcement struct {
	AnnouncementID string    `db:"announcement_id" json:"announcement_id"`
	Title          string    `db:"title" json:"title"`
	Content        string    `db:"content" json:"content"`
	AuthorID       string    `db:"author_id" json:"author_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ForumPost is a shared forum thread. Replies are loaded with the post.
type ForumPost struct {
	PostID     string       `db:"post_id" json:"post_id"`
	Title      string       `db:"title" json:"title"`
	Content    string       `db:"content" json:"content"`
	AuthorID   string       `db:"author_id" json:"author_id"`
	AuthorName string       `db:"author_name" json:"author_name"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	Replies    []ForumReply `db:"-" json:"replies"`
}

// ForumReply is a reply attached to a forum post.
type ForumReply struct {
	ReplyID    string    `db:"reply_id" json:"reply_id"`
	PostID     string    `db:"post_id" json:"post_id"`
	Content    string    `db:"content" json:"content"`
	AuthorID   string    `db:"author_id" json:"author_id"`
	AuthorName string    `db:"author_name" json:"author_name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Course is an e-learning course from the fixed catalog.
type Course struct {
	CourseID        string `db:"course_id" json:"course_id"`
	Title           string `db:"title" json:"title"`
	Description     string `db:"description" json:"description"`
	VideoURL        string `db:"video_url" json:"video_url"`
	DurationMinutes int    `db:"duration_minutes" json:"duration_minutes"`
}

// CourseProgress tracks one user's progress through one course.
// CompletedAt is set exactly once, on the first update that completes the course.
type CourseProgress struct {
	UserID      string     `db:"user_id" json:"user_id"`
	CourseID    string     `db:"course_id" json:"course_id"`
	Progress    int        `db:"progress" json:"progress"`
	Completed   bool       `db:"completed" json:"completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// Support ticket statuses
const (
	TicketStatusOpen     = "open"
	TicketStatusResolved = "resolved"
)

// SupportTicket is a help request raised by a user.
type SupportTicket struct {
	TicketID  string    `db:"ticket_id" json:"ticket_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RevenueSummary is the admin dashboard aggregate over paid and completed jobs.
type RevenueSummary struct {
	TotalCents int64 `db:"total_cents" json:"total_cents"`
	PaidJobs   int64 `db:"paid_jobs" json:"paid_jobs"`
}
