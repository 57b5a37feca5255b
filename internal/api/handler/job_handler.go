package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aslonhq/vendor-portal/internal/api/dto"
	"github.com/aslonhq/vendor-portal/internal/lifecycle"
)

// JobHandler handles job lifecycle HTTP requests
type JobHandler struct {
	logger    *slog.Logger
	lifecycle *lifecycle.Service
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:    deps.Logger,
		lifecycle: deps.Lifecycle,
	}
}

// CreateJob handles POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	job, err := h.lifecycle.CreateJob(c.Request.Context(), caller, req.CustomerName, req.VehicleNo)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewJobDTO(job))
}

// ListJobs handles GET /api/v1/jobs
// Vendors see their own jobs, admins see every job.
func (h *JobHandler) ListJobs(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	jobs, err := h.lifecycle.ListJobs(c.Request.Context(), caller)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response := make([]dto.JobDTO, len(jobs))
	for i := range jobs {
		response[i] = dto.NewJobDTO(&jobs[i])
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{Jobs: response})
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	job, err := h.lifecycle.GetJob(c.Request.Context(), caller, c.Param("job_id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJobDTO(job))
}

// PayJob handles POST /api/v1/jobs/:job_id/pay
// Runs the mock payment and mints the approval code.
func (h *JobHandler) PayJob(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	job, err := h.lifecycle.ProcessPayment(c.Request.Context(), caller, c.Param("job_id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJobDTO(job))
}

// DownloadReceipt handles GET /api/v1/jobs/:job_id/receipt
// Streams the receipt PDF as an attachment.
func (h *JobHandler) DownloadReceipt(c *gin.Context) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	receipt, err := h.lifecycle.IssueReceipt(c.Request.Context(), caller, c.Param("job_id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", receipt.Filename))
	c.Data(http.StatusOK, "application/pdf", receipt.PDF)
}
