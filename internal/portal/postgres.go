package portal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/aslonhq/vendor-portal/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

// PostgresStore is the production portal Store over PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a PostgresStore from the shared client.
func NewPostgresStore(pg *postgresql.Client) *PostgresStore {
	return &PostgresStore{db: pg.GetDB()}
}

func (s *PostgresStore) CreateAnnouncement(ctx context.Context, a *domain.Announcement) error {
	query := `
		INSERT INTO announcements (announcement_id, title, content, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		a.AnnouncementID, a.Title, a.Content, a.AuthorID, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	query := `
		SELECT announcement_id, title, content, author_id, created_at
		FROM announcements
		ORDER BY created_at DESC, announcement_id DESC
	`
	var out []domain.Announcement
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CreateForumPost(ctx context.Context, p *domain.ForumPost) error {
	query := `
		INSERT INTO forum_posts (post_id, title, content, author_id, author_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.PostID, p.Title, p.Content, p.AuthorID, p.AuthorName, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create forum post: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindForumPost(ctx context.Context, postID string) (*domain.ForumPost, error) {
	query := `
		SELECT post_id, title, content, author_id, author_name, created_at
		FROM forum_posts
		WHERE post_id = $1
	`
	var post domain.ForumPost
	if err := s.db.GetContext(ctx, &post, query, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get forum post: %w", err)
	}

	replies, err := s.repliesFor(ctx, []string{postID})
	if err != nil {
		return nil, err
	}
	post.Replies = replies[postID]
	if post.Replies == nil {
		post.Replies = []domain.ForumReply{}
	}
	return &post, nil
}

func (s *PostgresStore) ListForumPosts(ctx context.Context) ([]domain.ForumPost, error) {
	query := `
		SELECT post_id, title, content, author_id, author_name, created_at
		FROM forum_posts
		ORDER BY created_at DESC, post_id DESC
	`
	var posts []domain.ForumPost
	if err := s.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("failed to list forum posts: %w", err)
	}
	if len(posts) == 0 {
		return posts, nil
	}

	ids := make([]string, len(posts))
	for i, post := range posts {
		ids[i] = post.PostID
	}
	replies, err := s.repliesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Replies = replies[posts[i].PostID]
		if posts[i].Replies == nil {
			posts[i].Replies = []domain.ForumReply{}
		}
	}
	return posts, nil
}

func (s *PostgresStore) repliesFor(ctx context.Context, postIDs []string) (map[string][]domain.ForumReply, error) {
	query, args, err := sqlx.In(`
		SELECT reply_id, post_id, content, author_id, author_name, created_at
		FROM forum_replies
		WHERE post_id IN (?)
		ORDER BY created_at ASC, reply_id ASC
	`, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build replies query: %w", err)
	}

	var replies []domain.ForumReply
	if err := s.db.SelectContext(ctx, &replies, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list forum replies: %w", err)
	}

	byPost := make(map[string][]domain.ForumReply, len(postIDs))
	for _, reply := range replies {
		byPost[reply.PostID] = append(byPost[reply.PostID], reply)
	}
	return byPost, nil
}

func (s *PostgresStore) DeleteForumPost(ctx context.Context, postID string) error {
	// Replies go with the post (ON DELETE CASCADE).
	result, err := s.db.ExecContext(ctx, `DELETE FROM forum_posts WHERE post_id = $1`, postID)
	if err != nil {
		return fmt.Errorf("failed to delete forum post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (s *PostgresStore) AddForumReply(ctx context.Context, r *domain.ForumReply) error {
	query := `
		INSERT INTO forum_replies (reply_id, post_id, content, author_id, author_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ReplyID, r.PostID, r.Content, r.AuthorID, r.AuthorName, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add forum reply: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	query := `
		SELECT course_id, title, description, video_url, duration_minutes
		FROM courses
		WHERE course_id = $1
	`
	var course domain.Course
	if err := s.db.GetContext(ctx, &course, query, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &course, nil
}

func (s *PostgresStore) ListCourses(ctx context.Context) ([]domain.Course, error) {
	query := `
		SELECT course_id, title, description, video_url, duration_minutes
		FROM courses
		ORDER BY course_id
	`
	var courses []domain.Course
	if err := s.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *PostgresStore) ListProgress(ctx context.Context, userID string) ([]domain.CourseProgress, error) {
	query := `
		SELECT user_id, course_id, progress, completed, completed_at
		FROM course_progress
		WHERE user_id = $1
		ORDER BY course_id
	`
	var out []domain.CourseProgress
	if err := s.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list course progress: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SaveProgress(ctx context.Context, p *domain.CourseProgress) error {
	// COALESCE keeps the first completion timestamp on re-completion.
	query := `
		INSERT INTO course_progress (user_id, course_id, progress, completed, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, course_id) DO UPDATE
		SET progress = EXCLUDED.progress,
		    completed = EXCLUDED.completed,
		    completed_at = COALESCE(course_progress.completed_at, EXCLUDED.completed_at)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.UserID, p.CourseID, p.Progress, p.Completed, p.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to save course progress: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateTicket(ctx context.Context, t *domain.SupportTicket) error {
	query := `
		INSERT INTO support_tickets (ticket_id, user_id, subject, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		t.TicketID, t.UserID, t.Subject, t.Message, t.Status, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create support ticket: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListTickets(ctx context.Context) ([]domain.SupportTicket, error) {
	query := `
		SELECT ticket_id, user_id, subject, message, status, created_at
		FROM support_tickets
		ORDER BY created_at DESC, ticket_id DESC
	`
	var out []domain.SupportTicket
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to list support tickets: %w", err)
	}
	return out, nil
}
