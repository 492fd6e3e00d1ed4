package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/redis/go-redis/v9"
)

const (
	otpSessionKeyPrefix = "otp:session:"
	otpEmailKeyPrefix   = "otp:email:"
)

// RedisOTPStore is the multi-instance OTPStore. Entries carry a native TTL so
// Redis evicts them at expiry on its own; SweepExpired only trims the
// per-email index sets.
type RedisOTPStore struct {
	rdb *redis.Client
}

// NewRedisOTPStore creates a store backed by the given Redis client
func NewRedisOTPStore(rdb *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{rdb: rdb}
}

func sessionKey(id string) string  { return otpSessionKeyPrefix + id }
func emailKey(email string) string { return otpEmailKeyPrefix + email }

// redisSession is the wire form of a session. The model hides Code from JSON
// so it never leaks to API clients; the store needs it persisted, so it
// serializes through this struct instead of the model.
type redisSession struct {
	SessionID string    `json:"session_id"`
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}

func toWire(session *model.OTPSession) redisSession {
	return redisSession{
		SessionID: session.SessionID,
		Code:      session.Code,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
		Attempts:  session.Attempts,
		CreatedAt: session.CreatedAt,
	}
}

func (w redisSession) toModel() *model.OTPSession {
	return &model.OTPSession{
		SessionID: w.SessionID,
		Code:      w.Code,
		Email:     w.Email,
		ExpiresAt: w.ExpiresAt,
		Attempts:  w.Attempts,
		CreatedAt: w.CreatedAt,
	}
}

// Put stores the entry as JSON with a TTL matching its expiry and records the
// session id in the per-email index set
func (s *RedisOTPStore) Put(ctx context.Context, session *model.OTPSession) error {
	data, err := json.Marshal(toWire(session))
	if err != nil {
		return fmt.Errorf("failed to encode otp session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(session.SessionID), data, ttl)
	pipe.SAdd(ctx, emailKey(session.Email), session.SessionID)
	pipe.Expire(ctx, emailKey(session.Email), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store otp session: %w", err)
	}
	return nil
}

// Get returns the entry, or ErrSessionNotFound once Redis has evicted it
func (s *RedisOTPStore) Get(ctx context.Context, sessionID string) (*model.OTPSession, error) {
	data, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read otp session: %w", err)
	}

	var wire redisSession
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode otp session: %w", err)
	}
	return wire.toModel(), nil
}

// Delete removes the entry and its index membership
func (s *RedisOTPStore) Delete(ctx context.Context, sessionID string) error {
	session, err := s.Get(ctx, sessionID)
	if err == ErrSessionNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, emailKey(session.Email), sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete otp session: %w", err)
	}
	return nil
}

// DeleteByEmail removes every entry issued for the given address
func (s *RedisOTPStore) DeleteByEmail(ctx context.Context, email string) error {
	ids, err := s.rdb.SMembers(ctx, emailKey(email)).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to list otp sessions for email: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, sessionKey(id))
	}
	pipe.Del(ctx, emailKey(email))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to purge otp sessions for email: %w", err)
	}
	return nil
}

// SweepExpired is a no-op for entries themselves (Redis TTL handles them);
// it drops index members whose session key is already gone
func (s *RedisOTPStore) SweepExpired(ctx context.Context) (int, error) {
	removed := 0
	iter := s.rdb.Scan(ctx, 0, otpEmailKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		ids, err := s.rdb.SMembers(ctx, key).Result()
		if err != nil {
			continue
		}
		for _, id := range ids {
			exists, err := s.rdb.Exists(ctx, sessionKey(id)).Result()
			if err == nil && exists == 0 {
				s.rdb.SRem(ctx, key, id)
				removed++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to sweep otp index: %w", err)
	}
	return removed, nil
}
