package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/edutrack/edutrack-api/internal/config"
	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/edutrack/edutrack-api/internal/repository"
	"github.com/edutrack/edutrack-api/pkg/auth"
	"github.com/edutrack/edutrack-api/pkg/mailer"
	"github.com/redis/go-redis/v9"
)

// AuthService drives the passcode lifecycle: request, verify, resend. All
// expected failure modes come back as structured results; errors are reserved
// for faults like an unreachable store.
type AuthService struct {
	store      repository.OTPStore
	generator  Generator
	sender     mailer.Sender
	jwtManager *auth.JWTManager
	rdb        *redis.Client
	cfg        config.OTPConfig

	// Serializes verify's read-compare-increment and resend's purge-then-insert
	// so concurrent calls cannot lose attempt increments or resurrect purged
	// entries. Delivery always happens outside this lock.
	mu  sync.Mutex
	now func() time.Time
}

func NewAuthService(
	store repository.OTPStore,
	generator Generator,
	sender mailer.Sender,
	jwtManager *auth.JWTManager,
	rdb *redis.Client,
	cfg config.OTPConfig,
) *AuthService {
	return &AuthService{
		store:      store,
		generator:  generator,
		sender:     sender,
		jwtManager: jwtManager,
		rdb:        rdb,
		cfg:        cfg,
		now:        time.Now,
	}
}

// SetClock overrides the service's time source (tests only)
func (s *AuthService) SetClock(now func() time.Time) {
	s.now = now
}

// RequestOTP issues a passcode for an allowed address and attempts delivery.
// Prior entries for the same address are left untouched; only resend purges
// them. A failed delivery keeps the stored entry so the code in flight, if it
// somehow arrived, can still be verified.
func (s *AuthService) RequestOTP(ctx context.Context, email string) (*model.OTPResult, error) {
	if !s.isAllowedDomain(email) {
		return &model.OTPResult{
			Success: false,
			Reason:  model.OTPFailureInvalidAddress,
			Message: fmt.Sprintf("Only @%s email addresses are allowed", s.cfg.AllowedDomain),
		}, nil
	}

	return s.issue(ctx, email)
}

// ResendOTP purges every pending passcode for the address, then issues a
// fresh one exactly as RequestOTP does.
func (s *AuthService) ResendOTP(ctx context.Context, email string) (*model.OTPResult, error) {
	if !s.isAllowedDomain(email) {
		return &model.OTPResult{
			Success: false,
			Reason:  model.OTPFailureInvalidAddress,
			Message: fmt.Sprintf("Only @%s email addresses are allowed", s.cfg.AllowedDomain),
		}, nil
	}

	s.mu.Lock()
	err := s.store.DeleteByEmail(ctx, email)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to purge pending codes: %w", err)
	}

	return s.issue(ctx, email)
}

// issue generates, stores and delivers a fresh passcode. The entry is stored
// before delivery is attempted, so a verify racing the email send is legal.
func (s *AuthService) issue(ctx context.Context, email string) (*model.OTPResult, error) {
	code, err := s.generator.Code()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	session := &model.OTPSession{
		SessionID: s.generator.SessionID(),
		Code:      code,
		Email:     email,
		ExpiresAt: s.now().Add(s.cfg.Expiry),
		Attempts:  0,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	err = s.store.Put(ctx, session)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to store otp session: %w", err)
	}

	expiryMinutes := int(s.cfg.Expiry / time.Minute)
	if err := s.sender.SendOTP(email, code, expiryMinutes); err != nil {
		// The entry stays; the caller is told to try again
		return &model.OTPResult{
			Success: false,
			Reason:  model.OTPFailureDeliveryFailed,
			Message: "Failed to send OTP. Please try again.",
		}, nil
	}

	return &model.OTPResult{
		Success:   true,
		Message:   fmt.Sprintf("OTP sent to %s. Please check your inbox.", email),
		SessionID: session.SessionID,
	}, nil
}

// VerifyOTP checks a submitted code against the stored session. A correct
// code consumes the entry and yields a session token; a wrong one burns an
// attempt, and the third wrong attempt destroys the entry outright.
func (s *AuthService) VerifyOTP(ctx context.Context, sessionID, submittedCode string) (*model.VerifyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.store.Get(ctx, sessionID)
	if err == repository.ErrSessionNotFound {
		return &model.VerifyResult{
			Success: false,
			Reason:  model.OTPFailureSessionNotFound,
			Message: "Invalid or expired OTP session. Please request a new OTP.",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up otp session: %w", err)
	}

	if session.IsExpired(s.now()) {
		if err := s.store.Delete(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("failed to discard expired session: %w", err)
		}
		return &model.VerifyResult{
			Success: false,
			Reason:  model.OTPFailureExpired,
			Message: "OTP has expired. Please request a new OTP.",
		}, nil
	}

	if session.IsExhausted(s.cfg.MaxAttempts) {
		if err := s.store.Delete(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("failed to discard exhausted session: %w", err)
		}
		return &model.VerifyResult{
			Success: false,
			Reason:  model.OTPFailureTooManyAttempts,
			Message: "Too many failed attempts. Please request a new OTP.",
		}, nil
	}

	if session.Code != submittedCode {
		session.Attempts++
		if session.IsExhausted(s.cfg.MaxAttempts) {
			// The limit is reached: the entry is deleted, not merely marked
			if err := s.store.Delete(ctx, sessionID); err != nil {
				return nil, fmt.Errorf("failed to discard exhausted session: %w", err)
			}
			return &model.VerifyResult{
				Success: false,
				Reason:  model.OTPFailureTooManyAttempts,
				Message: "Too many failed attempts. Please request a new OTP.",
			}, nil
		}
		if err := s.store.Put(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to record failed attempt: %w", err)
		}
		return &model.VerifyResult{
			Success: false,
			Reason:  model.OTPFailureCodeMismatch,
			Message: fmt.Sprintf("Invalid OTP. %d attempts remaining.", s.cfg.MaxAttempts-session.Attempts),
		}, nil
	}

	// Single use: the entry is gone before the token exists
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to consume otp session: %w", err)
	}

	token, err := s.jwtManager.Issue(session.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &model.VerifyResult{
		Success: true,
		Message: "OTP verified successfully!",
		Token:   token,
	}, nil
}

// Logout blacklists the token in Redis until its natural expiry
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtManager.ValidateToken(tokenString)
	if err != nil {
		return err
	}

	expiresIn := time.Until(claims.ExpiresAt.Time)
	if expiresIn <= 0 {
		return nil
	}

	return s.rdb.Set(ctx, "blacklist:"+tokenString, "revoked", expiresIn).Err()
}

// isAllowedDomain checks the single-suffix organizational allow-list
func (s *AuthService) isAllowedDomain(email string) bool {
	return strings.HasSuffix(email, "@"+s.cfg.AllowedDomain)
}
