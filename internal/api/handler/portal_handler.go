package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aslonhq/vendor-portal/internal/api/dto"
	"github.com/aslonhq/vendor-portal/internal/portal"
)

// PortalHandler handles announcements, forum, courses and support tickets
type PortalHandler struct {
	logger *slog.Logger
	portal *portal.Service
}

// NewPortalHandler creates a new PortalHandler instance
func NewPortalHandler(deps *Dependencies) *PortalHandler {
	return &PortalHandler{
		logger: deps.Logger,
		portal: deps.Portal,
	}
}

// ListAnnouncements handles GET /api/v1/announcements
func (h *PortalHandler) ListAnnouncements(c *gin.Context) {
	announcements, err := h.portal.ListAnnouncements(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcements": announcements})
}

// CreateAnnouncement handles POST /api/v1/announcements (admin only)
func (h *PortalHandler) CreateAnnouncement(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	announcement, err := h.portal.PublishAnnouncement(c.Request.Context(), caller, req.Title, req.Content)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

// ListPosts handles GET /api/v1/forum/posts
func (h *PortalHandler) ListPosts(c *gin.Context) {
	posts, err := h.portal.ListPosts(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// CreatePost handles POST /api/v1/forum/posts
func (h *PortalHandler) CreatePost(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	post, err := h.portal.CreatePost(c.Request.Context(), caller, req.Title, req.Content)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// DeletePost handles DELETE /api/v1/forum/posts/:post_id
// Only the author or an admin may delete a post.
func (h *PortalHandler) DeletePost(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.portal.DeletePost(c.Request.Context(), caller, c.Param("post_id")); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateReply handles POST /api/v1/forum/posts/:post_id/replies
func (h *PortalHandler) CreateReply(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reply, err := h.portal.AddReply(c.Request.Context(), caller, c.Param("post_id"), req.Content)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, reply)
}

// ListCourses handles GET /api/v1/courses
func (h *PortalHandler) ListCourses(c *gin.Context) {
	courses, err := h.portal.ListCourses(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// MyProgress handles GET /api/v1/courses/progress
func (h *PortalHandler) MyProgress(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	progress, err := h.portal.MyProgress(c.Request.Context(), caller)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

// UpdateProgress handles PUT /api/v1/courses/:course_id/progress
func (h *PortalHandler) UpdateProgress(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Progress == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	progress, err := h.portal.UpdateProgress(c.Request.Context(), caller, c.Param("course_id"), *req.Progress)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// CreateTicket handles POST /api/v1/tickets
func (h *PortalHandler) CreateTicket(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ticket, err := h.portal.CreateTicket(c.Request.Context(), caller, req.Subject, req.Message)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// ListTickets handles GET /api/v1/tickets (admin only)
func (h *PortalHandler) ListTickets(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	tickets, err := h.portal.ListTickets(c.Request.Context(), caller)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}
