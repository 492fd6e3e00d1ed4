package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/edutrack/edutrack-api/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles the OTP authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RequestOTP godoc
// @Summary Request a login passcode by email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body model.RequestOTPRequest true "Request OTP"
// @Success 200 {object} model.OTPResult
// @Failure 400 {object} model.OTPResult
// @Router /auth/request-otp [post]
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req model.RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.OTPResult{Success: false, Message: "A valid email address is required"})
		return
	}

	result, err := h.authService.RequestOTP(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("❌ RequestOTP failed: %v", err)
		c.JSON(http.StatusInternalServerError, model.OTPResult{Success: false, Message: "An error occurred while sending OTP. Please try again."})
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}

// VerifyOTP godoc
// @Summary Exchange a passcode for a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body model.VerifyOTPRequest true "Verify OTP"
// @Success 200 {object} model.VerifyResult
// @Failure 400 {object} model.VerifyResult
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req model.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.VerifyResult{Success: false, Message: "Session id and 6-digit code are required"})
		return
	}

	result, err := h.authService.VerifyOTP(c.Request.Context(), req.SessionID, req.Code)
	if err != nil {
		log.Printf("❌ VerifyOTP failed: %v", err)
		c.JSON(http.StatusInternalServerError, model.VerifyResult{Success: false, Message: "An error occurred while verifying OTP. Please try again."})
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}

// ResendOTP godoc
// @Summary Invalidate pending passcodes and send a fresh one
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body model.ResendOTPRequest true "Resend OTP"
// @Success 200 {object} model.OTPResult
// @Failure 400 {object} model.OTPResult
// @Router /auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req model.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.OTPResult{Success: false, Message: "A valid email address is required"})
		return
	}

	result, err := h.authService.ResendOTP(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("❌ ResendOTP failed: %v", err)
		c.JSON(http.StatusInternalServerError, model.OTPResult{Success: false, Message: "An error occurred while sending OTP. Please try again."})
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}

// Logout godoc
// @Summary Revoke the current session token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SuccessResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Token required"})
		return
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Invalid token format"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), parts[1]); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Logged out successfully"})
}
