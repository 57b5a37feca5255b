package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aslonhq/vendor-portal/internal/api/handler"
	"github.com/aslonhq/vendor-portal/internal/metrics"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, m *metrics.Metrics) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "vendor-portal-api",
		})
	})

	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	authHandler := handler.NewAuthHandler(deps)
	jobHandler := handler.NewJobHandler(deps)
	portalHandler := handler.NewPortalHandler(deps)
	adminHandler := handler.NewAdminHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")

	// POST /api/v1/auth/login is the only route without a session
	v1.POST("/auth/login", authHandler.Login)

	authed := v1.Group("")
	authed.Use(AuthMiddleware(deps.Auth))
	{
		authed.POST("/auth/logout", authHandler.Logout)

		jobs := authed.Group("/jobs")
		{
			// POST /api/v1/jobs - Create a new job (vendor)
			jobs.POST("", jobHandler.CreateJob)

			// GET /api/v1/jobs - List own jobs (vendor) or all jobs (admin)
			jobs.GET("", jobHandler.ListJobs)

			// GET /api/v1/jobs/:job_id - Get job details
			jobs.GET("/:job_id", jobHandler.GetJob)

			// POST /api/v1/jobs/:job_id/pay - Run the mock payment
			jobs.POST("/:job_id/pay", jobHandler.PayJob)

			// GET /api/v1/jobs/:job_id/receipt - Download the receipt PDF
			jobs.GET("/:job_id/receipt", jobHandler.DownloadReceipt)
		}

		authed.GET("/announcements", portalHandler.ListAnnouncements)
		authed.POST("/announcements", portalHandler.CreateAnnouncement)

		forum := authed.Group("/forum/posts")
		{
			forum.GET("", portalHandler.ListPosts)
			forum.POST("", portalHandler.CreatePost)
			forum.DELETE("/:post_id", portalHandler.DeletePost)
			forum.POST("/:post_id/replies", portalHandler.CreateReply)
		}

		courses := authed.Group("/courses")
		{
			courses.GET("", portalHandler.ListCourses)
			courses.GET("/progress", portalHandler.MyProgress)
			courses.PUT("/:course_id/progress", portalHandler.UpdateProgress)
		}

		authed.POST("/tickets", portalHandler.CreateTicket)
		authed.GET("/tickets", portalHandler.ListTickets)

		admin := authed.Group("/admin")
		admin.Use(RequireAdmin())
		{
			admin.GET("/vendors", adminHandler.ListVendors)
			admin.POST("/vendors", adminHandler.CreateVendor)
			admin.PATCH("/vendors/:user_id/status", adminHandler.SetVendorStatus)
			admin.GET("/revenue", adminHandler.Revenue)
		}
	}

	return r
}
