package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrFlowNotFound is returned when a session has expired or never existed.
var ErrFlowNotFound = errors.New("booking flow not found")

// Sessions are short-lived: an abandoned flow disappears on its own, matching
// the no-partial-session-persistence rule.
const flowTTL = 30 * time.Minute

// FlowStore is the session storage port. The Redis implementation backs the
// running service; the in-memory one backs tests.
type FlowStore interface {
	Save(ctx context.Context, flow *Flow) error
	Get(ctx context.Context, id string) (*Flow, error)
	Delete(ctx context.Context, id string) error
}

type redisFlowStore struct {
	client *redis.Client
}

func NewRedisFlowStore(client *redis.Client) FlowStore {
	return &redisFlowStore{client: client}
}

func flowKey(id string) string {
	return "booking:flow:" + id
}

func (s *redisFlowStore) Save(ctx context.Context, flow *Flow) error {
	data, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("marshal flow %s: %w", flow.ID, err)
	}
	if err := s.client.Set(ctx, flowKey(flow.ID), data, flowTTL).Err(); err != nil {
		return fmt.Errorf("save flow %s: %w", flow.ID, err)
	}
	return nil
}

func (s *redisFlowStore) Get(ctx context.Context, id string) (*Flow, error) {
	data, err := s.client.Get(ctx, flowKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flow %s: %w", id, err)
	}
	var flow Flow
	if err := json.Unmarshal(data, &flow); err != nil {
		return nil, fmt.Errorf("unmarshal flow %s: %w", id, err)
	}
	return &flow, nil
}

func (s *redisFlowStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, flowKey(id)).Err(); err != nil {
		return fmt.Errorf("delete flow %s: %w", id, err)
	}
	return nil
}

type memoryFlowStore struct {
	mu    sync.RWMutex
	flows map[string]*Flow
}

// NewMemoryFlowStore returns an in-memory FlowStore for tests.
func NewMemoryFlowStore() FlowStore {
	return &memoryFlowStore{flows: make(map[string]*Flow)}
}

func (s *memoryFlowStore) Save(_ context.Context, flow *Flow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *flow
	s.flows[flow.ID] = &copy
	return nil
}

func (s *memoryFlowStore) Get(_ context.Context, id string) (*Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flow, ok := s.flows[id]
	if !ok {
		return nil, ErrFlowNotFound
	}
	copy := *flow
	return &copy, nil
}

func (s *memoryFlowStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, id)
	return nil
}
