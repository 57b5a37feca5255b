// Package dto defines the request and response bodies of the HTTP API.
package dto

import (
	"time"

	"github.com/aslonhq/vendor-portal/internal/domain"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expires_at"`
	User      UserDTO `json:"user"`
}

type UserDTO struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func NewUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		UserID: u.UserID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		Status: u.Status,
	}
}

type CreateJobRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	VehicleNo    string `json:"vehicle_no" binding:"required"`
}

type JobDTO struct {
	JobID        string  `json:"job_id"`
	VendorID     string  `json:"vendor_id"`
	CustomerName string  `json:"customer_name"`
	VehicleNo    string  `json:"vehicle_no"`
	AmountCents  int64   `json:"amount_cents"`
	Status       string  `json:"status"`
	ApprovalCode *string `json:"approval_code,omitempty"`
	CreatedAt    string  `json:"created_at"`
	PaidAt       *string `json:"paid_at,omitempty"`
}

func NewJobDTO(job *domain.Job) JobDTO {
	d := JobDTO{
		JobID:        job.JobID,
		VendorID:     job.VendorID,
		CustomerName: job.CustomerName,
		VehicleNo:    job.VehicleNo,
		AmountCents:  job.AmountCents,
		Status:       job.Status,
		ApprovalCode: job.ApprovalCode,
		CreatedAt:    job.CreatedAt.Format(time.RFC3339),
	}
	if job.PaidAt != nil {
		paidAt := job.PaidAt.Format(time.RFC3339)
		d.PaidAt = &paidAt
	}
	return d
}

type ListJobsResponse struct {
	Jobs []JobDTO `json:"jobs"`
}

type CreateAnnouncementRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type CreateReplyRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

type CreateTicketRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type CreateVendorRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type SetVendorStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
