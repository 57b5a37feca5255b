package portal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aslonhq/vendor-portal/internal/auth"
	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/aslonhq/vendor-portal/internal/identity"
	"github.com/aslonhq/vendor-portal/internal/ledger"
	"github.com/google/uuid"
)

// Service exposes the portal features with explicit caller authorization.
type Service struct {
	store     Store
	directory identity.Directory
	jobs      ledger.Store
	logger    *slog.Logger
}

// NewService creates a portal service.
func NewService(store Store, directory identity.Directory, jobs ledger.Store, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		directory: directory,
		jobs:      jobs,
		logger:    logger,
	}
}

// PublishAnnouncement creates an announcement. Admin only.
func (s *Service) PublishAnnouncement(ctx context.Context, caller domain.Caller, title, content string) (*domain.Announcement, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if title == "" || content == "" {
		return nil, domain.ErrInvalidInput
	}

	a := &domain.Announcement{
		AnnouncementID: uuid.New().String(),
		Title:          title,
		Content:        content,
		AuthorID:       caller.ID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.CreateAnnouncement(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Announcement published",
		slog.String("announcement_id", a.AnnouncementID),
		slog.String("author_id", caller.ID),
	)
	return a, nil
}

// ListAnnouncements returns announcements newest-first. Any authenticated role.
func (s *Service) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	return s.store.ListAnnouncements(ctx)
}

// CreatePost starts a forum thread, stamping the caller's display name.
func (s *Service) CreatePost(ctx context.Context, caller domain.Caller, title, content string) (*domain.ForumPost, error) {
	if title == "" || content == "" {
		return nil, domain.ErrInvalidInput
	}

	author, err := s.directory.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	post := &domain.ForumPost{
		PostID:     uuid.New().String(),
		Title:      title,
		Content:    content,
		AuthorID:   caller.ID,
		AuthorName: author.Name,
		CreatedAt:  time.Now().UTC(),
		Replies:    []domain.ForumReply{},
	}
	if err := s.store.CreateForumPost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns forum threads newest-first with replies attached.
func (s *Service) ListPosts(ctx context.Context) ([]domain.ForumPost, error) {
	return s.store.ListForumPosts(ctx)
}

// DeletePost removes a thread. Only the author or an admin may delete.
func (s *Service) DeletePost(ctx context.Context, caller domain.Caller, postID string) error {
	post, err := s.store.FindForumPost(ctx, postID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && post.AuthorID != caller.ID {
		return domain.ErrForbidden
	}
	return s.store.DeleteForumPost(ctx, postID)
}

// AddReply appends a reply to a thread, stamping the caller's display name.
func (s *Service) AddReply(ctx context.Context, caller domain.Caller, postID, content string) (*domain.ForumReply, error) {
	if content == "" {
		return nil, domain.ErrInvalidInput
	}

	author, err := s.directory.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	reply := &domain.ForumReply{
		ReplyID:    uuid.New().String(),
		PostID:     postID,
		Content:    content,
		AuthorID:   caller.ID,
		AuthorName: author.Name,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.AddForumReply(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// ListCourses returns the course catalog.
func (s *Service) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.store.ListCourses(ctx)
}

// MyProgress returns the caller's progress across all courses.
func (s *Service) MyProgress(ctx context.Context, caller domain.Caller) ([]domain.CourseProgress, error) {
	return s.store.ListProgress(ctx, caller.ID)
}

// UpdateProgress records the caller's progress through a course. Progress is
// clamped to 0-100; reaching 100 marks the course completed and sets the
// completion timestamp on the first completion only.
func (s *Service) UpdateProgress(ctx context.Context, caller domain.Caller, courseID string, progress int) (*domain.CourseProgress, error) {
	if _, err := s.store.FindCourse(ctx, courseID); err != nil {
		return nil, err
	}

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	p := &domain.CourseProgress{
		UserID:    caller.ID,
		CourseID:  courseID,
		Progress:  progress,
		Completed: progress >= 100,
	}
	if p.Completed {
		now := time.Now().UTC()
		p.CompletedAt = &now
	}

	if err := s.store.SaveProgress(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateTicket raises a support ticket for the caller.
func (s *Service) CreateTicket(ctx context.Context, caller domain.Caller, subject, message string) (*domain.SupportTicket, error) {
	if subject == "" || message == "" {
		return nil, domain.ErrInvalidInput
	}

	ticket := &domain.SupportTicket{
		TicketID:  uuid.New().String(),
		UserID:    caller.ID,
		Subject:   subject,
		Message:   message,
		Status:    domain.TicketStatusOpen,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ListTickets returns all tickets newest-first. Admin only.
func (s *Service) ListTickets(ctx context.Context, caller domain.Caller) ([]domain.SupportTicket, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.store.ListTickets(ctx)
}

// Revenue aggregates paid and completed job amounts. Admin only.
func (s *Service) Revenue(ctx context.Context, caller domain.Caller) (*domain.RevenueSummary, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.jobs.RevenueSummary(ctx)
}

// CreateVendor registers a vendor account. Admin only.
func (s *Service) CreateVendor(ctx context.Context, caller domain.Caller, email, password, name string) (*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	vendor := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         domain.RoleVendor,
		Status:       domain.UserStatusActive,
	}
	if err := s.directory.Create(ctx, vendor); err != nil {
		return nil, err
	}

	s.logger.Info("Vendor account created",
		slog.String("user_id", vendor.UserID),
		slog.String("created_by", caller.ID),
	)
	return vendor, nil
}

// SetVendorStatus suspends or reactivates a vendor account. Admin only.
// Suspension blocks future logins; the vendor's jobs are unaffected.
func (s *Service) SetVendorStatus(ctx context.Context, caller domain.Caller, userID, status string) (*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	user, err := s.directory.UpdateStatus(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Vendor status updated",
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.String("updated_by", caller.ID),
	)
	return user, nil
}

// ListVendors returns all vendor accounts. Admin only.
func (s *Service) ListVendors(ctx context.Context, caller domain.Caller) ([]domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.directory.ListVendors(ctx)
}
