package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChallengeStore keeps the live OTP challenge per candidate email. At most
// one challenge is live per email: Put overwrites any prior entry. Entries
// are ephemeral; no durability across restarts is promised.
type ChallengeStore interface {
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	// Get returns the live code for email, or ok=false when none exists
	// or the prior one has expired (expired entries are evicted).
	Get(ctx context.Context, email string) (code string, ok bool, err error)
	Delete(ctx context.Context, email string) error
}

type challengeEntry struct {
	code      string
	expiresAt time.Time
}

type memoryChallengeStore struct {
	mu      sync.Mutex
	entries map[string]challengeEntry
	now     func() time.Time
}

// NewMemoryChallengeStore is the in-process backend, used in tests and when
// no Redis address is configured.
func NewMemoryChallengeStore() ChallengeStore {
	return &memoryChallengeStore{entries: make(map[string]challengeEntry), now: time.Now}
}

func (s *memoryChallengeStore) Put(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = challengeEntry{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *memoryChallengeStore) Get(_ context.Context, email string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[email]
	if !ok {
		return "", false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, email)
		return "", false, nil
	}
	return entry.code, true, nil
}

func (s *memoryChallengeStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}

type redisChallengeStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisChallengeStore is the production backend; Redis TTLs reclaim
// expired challenges without a sweep.
func NewRedisChallengeStore(rdb *redis.Client) ChallengeStore {
	return &redisChallengeStore{rdb: rdb, prefix: "otp:"}
}

func (s *redisChallengeStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.prefix+email, code, ttl).Err()
}

func (s *redisChallengeStore) Get(ctx context.Context, email string) (string, bool, error) {
	code, err := s.rdb.Get(ctx, s.prefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return code, true, nil
}

func (s *redisChallengeStore) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, s.prefix+email).Err()
}
