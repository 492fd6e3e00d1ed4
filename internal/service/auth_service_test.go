package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/edutrack/edutrack-api/internal/config"
	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/edutrack/edutrack-api/internal/repository"
	"github.com/edutrack/edutrack-api/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

// stubGenerator hands out a fixed sequence of codes and predictable session ids
type stubGenerator struct {
	codes []string
	calls int
}

func (g *stubGenerator) Code() (string, error) {
	if g.calls >= len(g.codes) {
		return "", errors.New("stub generator exhausted")
	}
	code := g.codes[g.calls]
	g.calls++
	return code, nil
}

func (g *stubGenerator) SessionID() string {
	return fmt.Sprintf("session-%d", g.calls)
}

// fakeSender records deliveries and can be told to fail
type fakeSender struct {
	sent []struct {
		email string
		code  string
	}
	failNext bool
}

func (f *fakeSender) SendOTP(toEmail, code string, expiryMinutes int) error {
	if f.failNext {
		f.failNext = false
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, struct {
		email string
		code  string
	}{toEmail, code})
	return nil
}

// --- builder ---

type testEnv struct {
	svc    *AuthService
	store  *repository.MemoryOTPStore
	sender *fakeSender
	gen    *stubGenerator
	clock  time.Time
}

func newTestEnv(t *testing.T, codes ...string) *testEnv {
	t.Helper()
	if len(codes) == 0 {
		codes = []string{"123456"}
	}

	env := &testEnv{
		store:  repository.NewMemoryOTPStore(),
		sender: &fakeSender{},
		gen:    &stubGenerator{codes: codes},
		clock:  time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}

	env.svc = NewAuthService(
		env.store,
		env.gen,
		env.sender,
		auth.NewJWTManager("test-secret", time.Hour),
		nil,
		config.OTPConfig{
			AllowedDomain: "edutrack.io",
			Expiry:        5 * time.Minute,
			MaxAttempts:   3,
		},
	)
	env.svc.SetClock(func() time.Time { return env.clock })
	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.clock = e.clock.Add(d)
}

// --- RequestOTP ---

func TestRequestOTP_RejectsForeignDomain(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.svc.RequestOTP(context.Background(), "alice@gmail.com")

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, model.OTPFailureInvalidAddress, result.Reason)
	assert.Empty(t, env.sender.sent)
	assert.Equal(t, 0, env.store.Len())
}

func TestRequestOTP_HappyPath(t *testing.T) {
	env := newTestEnv(t, "482913")

	result, err := env.svc.RequestOTP(context.Background(), "alice@edutrack.io")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.SessionID)

	require.Len(t, env.sender.sent, 1)
	assert.Equal(t, "alice@edutrack.io", env.sender.sent[0].email)
	assert.Equal(t, "482913", env.sender.sent[0].code)

	session, err := env.store.Get(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "alice@edutrack.io", session.Email)
	assert.Equal(t, 0, session.Attempts)
	assert.Equal(t, env.clock.Add(5*time.Minute), session.ExpiresAt)
}

func TestRequestOTP_IsAdditive(t *testing.T) {
	env := newTestEnv(t, "111111", "222222")

	first, err := env.svc.RequestOTP(context.Background(), "alice@edutrack.io")
	require.NoError(t, err)
	second, err := env.svc.RequestOTP(context.Background(), "alice@edutrack.io")
	require.NoError(t, err)

	// A plain request never invalidates a code already in flight
	assert.Equal(t, 2, env.store.Len())

	result, err := env.svc.VerifyOTP(context.Background(), first.SessionID, "111111")
	require.NoError(t, err)
	assert.True(t, result.Success)

	result, err = env.svc.VerifyOTP(context.Background(), second.SessionID, "222222")
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestRequestOTP_DeliveryFailureKeepsEntry(t *testing.T) {
	env := newTestEnv(t, "482913")
	env.sender.failNext = true

	result, err := env.svc.RequestOTP(context.Background(), "alice@edutrack.io")

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, model.OTPFailureDeliveryFailed, result.Reason)

	// The stored code stays verifiable in case the email made it out
	assert.Equal(t, 1, env.store.Len())
	verify, err := env.svc.VerifyOTP(context.Background(), "session-1", "482913")
	require.NoError(t, err)
	assert.True(t, verify.Success)
}

// --- VerifyOTP ---

func TestVerifyOTP_UnknownSession(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.svc.VerifyOTP(context.Background(), "no-such-session", "123456")

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, model.OTPFailureSessionNotFound, result.Reason)
}

func TestVerifyOTP_Expired(t *testing.T) {
	env := newTestEnv(t, "123456")

	issued, err := env.svc.RequestOTP(context.Background(), "alice@edutrack.io")
	require.NoError(t, err)

	env.advance(5*time.Minute + time.Second)

	result, err := env.svc.VerifyOTP(context.Background(), issued.SessionID, "123456")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, model.OTPFailureExpired, result.Reason)

	// The expired entry is discarded on first touch
	assert.Equal(t, 0, env.store.Len())
	result, err = env.svc.VerifyOTP(context.Background(), issued.SessionID, "123456")
	require.NoError(t, err)
	assert.Equal(t, model.OTPFailureSessionNotFound, result.Reason)
}

func TestVerifyOTP_ExactExpiryInstantStillValid(t *testing.T) {
	env := newTestEnv(t, "123456")

	issued, err := env.svc.RequestOTP(context.Background(), "alice@edutrack.io")
	require.NoError(t, err)

	env.advance(5 * time.Minute)

	result, err := env.svc.VerifyOTP(context.Background(), issued.SessionID, "123456")
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestVerifyOTP_WrongCodeBurnsAttempts(t *testing.T) {
	env := newTestEnv(t, "123456")

	issued, err := env.svc.RequestOTP(context.Background(), "alice@edutrack.io")
	require.NoError(t, err)

	result, err := env.svc.VerifyOTP(context.Background(), issued.SessionID, "000000")
	require.NoError(t, err)
	assert.Equal(t, model.OTPFailureCodeMismatch, result.Reason)
	assert.Equal(t, "Invalid OTP. 2 attempts remaining.", result.Message)

	result, err = env.svc.VerifyOTP(context.Background(), issued.SessionID, "000000")
	require.NoError(t, err)
	assert.Equal(t, model.OTPFailureCodeMismatch, result.Reason)
	assert.Equal(t, "Invalid OTP. 1 attempts remaining.", result.Message)

	// Third miss destroys the entry outright
	result, err = env.svc.VerifyOTP(context.Background(), issued.SessionID, "000000")
	require.NoError(t, err)
	assert.Equal(t, model.OTPFailureTooManyAttempts, result.Reason)
	assert.Equal(t, 0, env.store.Len())

	result, err = env.svc.VerifyOTP(context.Background(), issued.SessionID, "123456")
	require.NoError(t, err)
	assert.Equal(t, model.OTPFailureSessionNotFound, result.Reason)
}

func TestVerifyOTP_CorrectCodeAfterMisses(t *testing.T) {
	env := newTestEnv(t, "123456")

	issued, err := env.svc.RequestOTP(context.Background(), "alice@edutrack.io")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		result, err := env.svc.VerifyOTP(context.Background(), issued.SessionID, "999999")
		require.NoError(t, err)
		assert.False(t, result.Success)
	}

	result, err := env.svc.VerifyOTP(context.Background(), issued.SessionID, "123456")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.Token)
}

func TestVerifyOTP_SingleUse(t *testing.T) {
	env := newTestEnv(t, "123456")

	issued, err := env.svc.RequestOTP(context.Background(), "alice@edutrack.io")
	require.NoError(t, err)

	result, err := env.svc.VerifyOTP(context.Background(), issued.SessionID, "123456")
	require.NoError(t, err)
	assert.True(t, result.Success)

	// The consumed code is dead even if replayed correctly
	result, err = env.svc.VerifyOTP(context.Background(), issued.SessionID, "123456")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, model.OTPFailureSessionNotFound, result.Reason)
}

func TestVerifyOTP_TokenCarriesEmail(t *testing.T) {
	env := newTestEnv(t, "123456")

	issued, err := env.svc.RequestOTP(context.Background(), "alice@edutrack.io")
	require.NoError(t, err)

	result, err := env.svc.VerifyOTP(context.Background(), issued.SessionID, "123456")
	require.NoError(t, err)
	require.True(t, result.Success)

	claims, err := auth.NewJWTManager("test-secret", time.Hour).ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@edutrack.io", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

// --- ResendOTP ---

func TestResendOTP_PurgesPendingCodes(t *testing.T) {
	env := newTestEnv(t, "111111", "222222", "333333")

	first, err := env.svc.RequestOTP(context.Background(), "alice@edutrack.io")
	require.NoError(t, err)
	second, err := env.svc.RequestOTP(context.Background(), "alice@edutrack.io")
	require.NoError(t, err)

	resent, err := env.svc.ResendOTP(context.Background(), "alice@edutrack.io")
	require.NoError(t, err)
	assert.True(t, resent.Success)
	assert.Equal(t, 1, env.store.Len())

	// Every pre-resend code for the address is dead
	for _, sessionID := range []string{first.SessionID, second.SessionID} {
		result, err := env.svc.VerifyOTP(context.Background(), sessionID, "111111")
		require.NoError(t, err)
		assert.Equal(t, model.OTPFailureSessionNotFound, result.Reason)
	}

	result, err := env.svc.VerifyOTP(context.Background(), resent.SessionID, "333333")
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestResendOTP_LeavesOtherAddressesAlone(t *testing.T) {
	env := newTestEnv(t, "111111", "222222", "333333")

	alice, err := env.svc.RequestOTP(context.Background(), "alice@edutrack.io")
	require.NoError(t, err)
	_, err = env.svc.RequestOTP(context.Background(), "bob@edutrack.io")
	require.NoError(t, err)

	_, err = env.svc.ResendOTP(context.Background(), "bob@edutrack.io")
	require.NoError(t, err)

	result, err := env.svc.VerifyOTP(context.Background(), alice.SessionID, "111111")
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestResendOTP_RejectsForeignDomain(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.svc.ResendOTP(context.Background(), "alice@gmail.com")

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, model.OTPFailureInvalidAddress, result.Reason)
}
