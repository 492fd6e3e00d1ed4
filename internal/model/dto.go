package model

import (
	"time"

	"github.com/google/uuid"
)

// ========== Auth DTOs ==========

type RequestOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Code      string `json:"code" binding:"required,len=6"`
}

type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// OTPFailure classifies the expected, retry-recoverable failure modes of the
// passcode lifecycle. Handlers map every one of these to HTTP 400.
type OTPFailure string

const (
	OTPFailureInvalidAddress  OTPFailure = "invalid_address"
	OTPFailureDeliveryFailed  OTPFailure = "delivery_failed"
	OTPFailureSessionNotFound OTPFailure = "session_not_found"
	OTPFailureExpired         OTPFailure = "expired"
	OTPFailureTooManyAttempts OTPFailure = "too_many_attempts"
	OTPFailureCodeMismatch    OTPFailure = "code_mismatch"
)

// OTPResult is the outcome of a request or resend operation. Expected
// failures are carried here as values; errors are reserved for faults.
type OTPResult struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Reason    OTPFailure `json:"-"`
	SessionID string     `json:"session_id,omitempty"`
}

// VerifyResult is the outcome of a verify operation. Token is set only on
// success and is the caller's session credential from then on.
type VerifyResult struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Reason  OTPFailure `json:"-"`
	Token   string     `json:"token,omitempty"`
}

// ========== Educator DTOs ==========

type CreateEducatorRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"omitempty,email"`
	Subject  string `json:"subject" binding:"max=100"`
	JoinDate string `json:"join_date" binding:"omitempty"`
}

type UpdateEducatorRequest struct {
	Name    string          `json:"name" binding:"omitempty,min=2,max=100"`
	Email   string          `json:"email" binding:"omitempty,email"`
	Subject string          `json:"subject" binding:"max=100"`
	Status  *EducatorStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}

type EducatorResponse struct {
	Educator
	Initials   string  `json:"initials"`
	VideoCount int64   `json:"video_count"`
	TotalHours float64 `json:"total_hours"`
}

// ========== Video DTOs ==========

type AddVideoRequest struct {
	EducatorID uuid.UUID `json:"educator_id" binding:"required"`
	URL        string    `json:"url" binding:"required,url"`
}

type VideoListRequest struct {
	EducatorID string `form:"educator_id"`
	Status     string `form:"status"`
	Limit      int    `form:"limit,default=50"`
}

// ========== Stats DTOs ==========

type StatsOverview struct {
	EducatorCount int64   `json:"educator_count"`
	VideoCount    int64   `json:"video_count"`
	TotalMinutes  float64 `json:"total_minutes"`
	TotalHours    string  `json:"total_hours"` // display form, "123h 45m"
	TotalViews    int64   `json:"total_views"`
	AvgEngagement float64 `json:"avg_engagement"`
}

type EducatorStats struct {
	EducatorID   uuid.UUID `json:"educator_id"`
	Name         string    `json:"name"`
	Subject      string    `json:"subject"`
	VideoCount   int64     `json:"video_count"`
	TotalMinutes float64   `json:"total_minutes"`
	TotalHours   string    `json:"total_hours"`
	TotalViews   int64     `json:"total_views"`
	Engagement   float64   `json:"engagement"`
}

// ========== WebSocket Event DTOs ==========

type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocket event types published to dashboard clients
const (
	WSEventEducatorCreated = "educator.created"
	WSEventEducatorUpdated = "educator.updated"
	WSEventEducatorDeleted = "educator.deleted"
	WSEventVideoAdded      = "video.added"
	WSEventVideoRefreshed  = "video.refreshed"
	WSEventVideoDeleted    = "video.deleted"
)

// ========== Dev OTP side channel ==========

// DevOTPEntry is an issued passcode retained by the dev delivery gateway so
// local environments can read codes without a real mailbox.
type DevOTPEntry struct {
	Email    string    `json:"email"`
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issued_at"`
}

// ========== Common ==========

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
