package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edutrack/edutrack-api/internal/config"
	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/edutrack/edutrack-api/internal/repository"
	"github.com/edutrack/edutrack-api/internal/service"
	"github.com/edutrack/edutrack-api/pkg/auth"
	"github.com/edutrack/edutrack-api/pkg/mailer"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *mailer.DevSender) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sender := mailer.NewDevSender()
	svc := service.NewAuthService(
		repository.NewMemoryOTPStore(),
		service.NewGenerator(),
		sender,
		auth.NewJWTManager("test-secret", time.Hour),
		nil,
		config.OTPConfig{
			AllowedDomain: "edutrack.io",
			Expiry:        5 * time.Minute,
			MaxAttempts:   3,
		},
	)

	h := NewAuthHandler(svc)
	router := gin.New()
	router.POST("/auth/request-otp", h.RequestOTP)
	router.POST("/auth/verify-otp", h.VerifyOTP)
	router.POST("/auth/resend-otp", h.ResendOTP)
	return router, sender
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestOTPEndpoint_HappyPath(t *testing.T) {
	router, sender := newAuthRouter(t)

	rec := postJSON(t, router, "/auth/request-otp", model.RequestOTPRequest{Email: "alice@edutrack.io"})

	assert.Equal(t, http.StatusOK, rec.Code)

	var result model.OTPResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.SessionID)

	require.Len(t, sender.Recent(), 1)
	assert.Equal(t, "alice@edutrack.io", sender.Recent()[0].Email)
	assert.Len(t, sender.Recent()[0].Code, 6)
}

func TestRequestOTPEndpoint_MalformedEmail(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := postJSON(t, router, "/auth/request-otp", map[string]string{"email": "not-an-email"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestOTPEndpoint_ForeignDomain(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := postJSON(t, router, "/auth/request-otp", model.RequestOTPRequest{Email: "alice@gmail.com"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var result model.OTPResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "@edutrack.io")
}

func TestVerifyOTPEndpoint_FullExchange(t *testing.T) {
	router, sender := newAuthRouter(t)

	rec := postJSON(t, router, "/auth/request-otp", model.RequestOTPRequest{Email: "alice@edutrack.io"})
	require.Equal(t, http.StatusOK, rec.Code)

	var issued model.OTPResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))
	code := sender.Recent()[0].Code

	rec = postJSON(t, router, "/auth/verify-otp", model.VerifyOTPRequest{
		SessionID: issued.SessionID,
		Code:      code,
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var verified model.VerifyResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verified))
	assert.True(t, verified.Success)
	assert.NotEmpty(t, verified.Token)
}

func TestVerifyOTPEndpoint_WrongCode(t *testing.T) {
	router, sender := newAuthRouter(t)

	rec := postJSON(t, router, "/auth/request-otp", model.RequestOTPRequest{Email: "alice@edutrack.io"})
	require.Equal(t, http.StatusOK, rec.Code)

	var issued model.OTPResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))

	// Flip the real code to a guaranteed miss
	wrong := "000000"
	if sender.Recent()[0].Code == wrong {
		wrong = "000001"
	}

	rec = postJSON(t, router, "/auth/verify-otp", model.VerifyOTPRequest{
		SessionID: issued.SessionID,
		Code:      wrong,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var result model.VerifyResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "attempts remaining")
	assert.Empty(t, result.Token)
}

func TestVerifyOTPEndpoint_ShortCodeRejectedByBinding(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := postJSON(t, router, "/auth/verify-otp", map[string]string{
		"session_id": "whatever",
		"code":       "123",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyOTPEndpoint_UnknownSession(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := postJSON(t, router, "/auth/verify-otp", model.VerifyOTPRequest{
		SessionID: "no-such-session",
		Code:      "123456",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var result model.VerifyResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Contains(t, result.Message, "request a new OTP")
}

func TestResendOTPEndpoint_InvalidatesOldCode(t *testing.T) {
	router, sender := newAuthRouter(t)

	rec := postJSON(t, router, "/auth/request-otp", model.RequestOTPRequest{Email: "alice@edutrack.io"})
	require.Equal(t, http.StatusOK, rec.Code)

	var first model.OTPResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	firstCode := sender.Recent()[0].Code

	rec = postJSON(t, router, "/auth/resend-otp", model.ResendOTPRequest{Email: "alice@edutrack.io"})
	require.Equal(t, http.StatusOK, rec.Code)

	// The original session is gone regardless of the code submitted
	rec = postJSON(t, router, "/auth/verify-otp", model.VerifyOTPRequest{
		SessionID: first.SessionID,
		Code:      firstCode,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
