package portal

import (
	"context"
	"sort"
	"sync"

	"github.com/aslonhq/vendor-portal/internal/domain"
)

// MemoryStore is a mutex-guarded in-memory Store for tests and mock mode.
type MemoryStore struct {
	mu            sync.RWMutex
	announcements []domain.Announcement
	posts         map[string]*domain.ForumPost
	postOrder     []string
	courses       []domain.Course
	progress      map[string]*domain.CourseProgress // userID+"/"+courseID
	tickets       []domain.SupportTicket
}

// NewMemoryStore creates an empty in-memory portal store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:    make(map[string]*domain.ForumPost),
		progress: make(map[string]*domain.CourseProgress),
	}
}

func (s *MemoryStore) CreateAnnouncement(_ context.Context, a *domain.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announcements = append(s.announcements, *a)
	return nil
}

func (s *MemoryStore) ListAnnouncements(_ context.Context) ([]domain.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Announcement, len(s.announcements))
	copy(out, s.announcements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) CreateForumPost(_ context.Context, p *domain.ForumPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	cp.Replies = []domain.ForumReply{}
	s.posts[cp.PostID] = &cp
	s.postOrder = append(s.postOrder, cp.PostID)
	return nil
}

func (s *MemoryStore) FindForumPost(_ context.Context, postID string) (*domain.ForumPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	cp := *post
	cp.Replies = append([]domain.ForumReply{}, post.Replies...)
	return &cp, nil
}

func (s *MemoryStore) ListForumPosts(_ context.Context) ([]domain.ForumPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ForumPost, 0, len(s.postOrder))
	for _, id := range s.postOrder {
		post := s.posts[id]
		cp := *post
		cp.Replies = append([]domain.ForumReply{}, post.Replies...)
		out = append(out, cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) DeleteForumPost(_ context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return domain.ErrPostNotFound
	}
	delete(s.posts, postID)
	for i, id := range s.postOrder {
		if id == postID {
			s.postOrder = append(s.postOrder[:i], s.postOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) AddForumReply(_ context.Context, r *domain.ForumReply) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[r.PostID]
	if !ok {
		return domain.ErrPostNotFound
	}
	post.Replies = append(post.Replies, *r)
	return nil
}

func (s *MemoryStore) FindCourse(_ context.Context, courseID string) (*domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, course := range s.courses {
		if course.CourseID == courseID {
			cp := course
			return &cp, nil
		}
	}
	return nil, domain.ErrCourseNotFound
}

func (s *MemoryStore) ListCourses(_ context.Context) ([]domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Course, len(s.courses))
	copy(out, s.courses)
	return out, nil
}

func (s *MemoryStore) ListProgress(_ context.Context, userID string) ([]domain.CourseProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CourseProgress
	for _, p := range s.progress {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CourseID < out[j].CourseID
	})
	return out, nil
}

func (s *MemoryStore) SaveProgress(_ context.Context, p *domain.CourseProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := p.UserID + "/" + p.CourseID
	if existing, ok := s.progress[key]; ok && existing.CompletedAt != nil {
		// Completion timestamp is set exactly once.
		p.CompletedAt = existing.CompletedAt
	}
	cp := *p
	s.progress[key] = &cp
	return nil
}

func (s *MemoryStore) CreateTicket(_ context.Context, t *domain.SupportTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = append(s.tickets, *t)
	return nil
}

func (s *MemoryStore) ListTickets(_ context.Context) ([]domain.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SupportTicket, len(s.tickets))
	copy(out, s.tickets)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
