package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CheckoutStore keeps serialized checkout sessions for a limited time.
// Get returns nil, nil for unknown or expired ids.
type CheckoutStore interface {
	Save(ctx context.Context, id uuid.UUID, payload []byte, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) ([]byte, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ==================== REDIS ====================

type redisCheckoutStore struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisCheckoutStore(rdb *redis.Client, log *zap.Logger) CheckoutStore {
	return &redisCheckoutStore{
		rdb: rdb,
		log: log.With(zap.String("repository", "checkout_redis")),
	}
}

func checkoutKey(id uuid.UUID) string {
	return "checkout:" + id.String()
}

func (s *redisCheckoutStore) Save(ctx context.Context, id uuid.UUID, payload []byte, ttl time.Duration) error {
	if err := s.rdb.SetEx(ctx, checkoutKey(id), payload, ttl).Err(); err != nil {
		s.log.Error("Failed to save checkout", zap.Error(err), zap.String("checkout_id", id.String()))
		return fmt.Errorf("save checkout %s: %w", id.String(), err)
	}
	return nil
}

func (s *redisCheckoutStore) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	payload, err := s.rdb.Get(ctx, checkoutKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("Failed to get checkout", zap.Error(err), zap.String("checkout_id", id.String()))
		return nil, fmt.Errorf("get checkout %s: %w", id.String(), err)
	}
	return payload, nil
}

func (s *redisCheckoutStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.rdb.Del(ctx, checkoutKey(id)).Err(); err != nil {
		s.log.Error("Failed to delete checkout", zap.Error(err), zap.String("checkout_id", id.String()))
		return fmt.Errorf("delete checkout %s: %w", id.String(), err)
	}
	return nil
}

// ==================== IN-MEMORY ====================

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

type memoryCheckoutStore struct {
	mu      sync.Mutex
	entries map[uuid.UUID]memoryEntry
	now     func() time.Time
}

// NewMemoryCheckoutStore is used when Redis is not configured. Expired entries
// are dropped lazily on access.
func NewMemoryCheckoutStore(now func() time.Time) CheckoutStore {
	if now == nil {
		now = time.Now
	}
	return &memoryCheckoutStore{
		entries: make(map[uuid.UUID]memoryEntry),
		now:     now,
	}
}

func (s *memoryCheckoutStore) Save(_ context.Context, id uuid.UUID, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.entries[id] = memoryEntry{payload: cp, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *memoryCheckoutStore) Get(_ context.Context, id uuid.UUID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		return nil, nil
	}

	cp := make([]byte, len(entry.payload))
	copy(cp, entry.payload)
	return cp, nil
}

func (s *memoryCheckoutStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}
