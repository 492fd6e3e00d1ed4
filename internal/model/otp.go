package model

import "time"

// OTPSession is a pending one-time passcode issued for an email address.
// It lives in the OTP store under its SessionID until it is consumed,
// expires, exhausts its attempts, or is superseded by a resend.
type OTPSession struct {
	SessionID string    `json:"session_id"`
	Code      string    `json:"-"` // 6-digit numeric code, never serialized to clients
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the passcode has aged out at the given instant.
func (s *OTPSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsExhausted reports whether the failed-attempt limit has been reached.
func (s *OTPSession) IsExhausted(maxAttempts int) bool {
	return s.Attempts >= maxAttempts
}
