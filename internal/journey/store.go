package journey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const journeyKeyPrefix = "visits:journey:"

// Store persists journeys by id.
type Store interface {
	Get(ctx context.Context, id string) (*Journey, error)
	Save(ctx context.Context, j *Journey) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps journeys as JSON values that expire after ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return journeyKeyPrefix + id
}

// Get returns ErrNotFound for unknown or expired journeys.
func (s *RedisStore) Get(ctx context.Context, id string) (*Journey, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("journey store: get: %w", err)
	}
	var j Journey
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("journey store: unmarshal: %w", err)
	}
	return &j, nil
}

// Save writes j and restarts its expiry.
func (s *RedisStore) Save(ctx context.Context, j *Journey) error {
	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("journey store: marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.key(j.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("journey store: set: %w", err)
	}
	return nil
}

// Delete removes a journey. Deleting an unknown id is not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("journey store: delete: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// NewMemoryStore creates an in-memory store. A zero ttl never expires.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Journey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expires.IsZero() && !s.now().Before(entry.expires) {
		delete(s.entries, id)
		return nil, ErrNotFound
	}
	var j Journey
	if err := json.Unmarshal(entry.data, &j); err != nil {
		return nil, fmt.Errorf("journey store: unmarshal: %w", err)
	}
	return &j, nil
}

func (s *MemoryStore) Save(_ context.Context, j *Journey) error {
	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("journey store: marshal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{data: data}
	if s.ttl > 0 {
		entry.expires = s.now().Add(s.ttl)
	}
	s.entries[j.ID] = entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
