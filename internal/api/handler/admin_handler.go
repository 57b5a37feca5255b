package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aslonhq/vendor-portal/internal/api/dto"
	"github.com/aslonhq/vendor-portal/internal/portal"
)

// AdminHandler handles vendor administration and the revenue dashboard
type AdminHandler struct {
	logger *slog.Logger
	portal *portal.Service
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(deps *Dependencies) *AdminHandler {
	return &AdminHandler{
		logger: deps.Logger,
		portal: deps.Portal,
	}
}

// ListVendors handles GET /api/v1/admin/vendors
func (h *AdminHandler) ListVendors(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	vendors, err := h.portal.ListVendors(c.Request.Context(), caller)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response := make([]dto.UserDTO, len(vendors))
	for i := range vendors {
		response[i] = dto.NewUserDTO(&vendors[i])
	}

	c.JSON(http.StatusOK, gin.H{"vendors": response})
}

// CreateVendor handles POST /api/v1/admin/vendors
func (h *AdminHandler) CreateVendor(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	vendor, err := h.portal.CreateVendor(c.Request.Context(), caller, req.Email, req.Password, req.Name)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserDTO(vendor))
}

// SetVendorStatus handles PATCH /api/v1/admin/vendors/:user_id/status
// Suspends or reactivates a vendor account.
func (h *AdminHandler) SetVendorStatus(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.SetVendorStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	vendor, err := h.portal.SetVendorStatus(c.Request.Context(), caller, c.Param("user_id"), req.Status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserDTO(vendor))
}

// Revenue handles GET /api/v1/admin/revenue
func (h *AdminHandler) Revenue(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	summary, err := h.portal.Revenue(c.Request.Context(), caller)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
