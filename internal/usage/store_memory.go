package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu        sync.RWMutex
	data      map[string]Usage
	freeLimit int
}

func newMemoryStore(freeLimit int) *memoryStore {
	return &memoryStore{
		data:      make(map[string]Usage),
		freeLimit: freeLimit,
	}
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(userID), nil
}

func (s *memoryStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	if n <= 0 || u.Unlimited() {
		return u, nil
	}
	if u.Used+n > u.Limit {
		return Usage{}, ErrLimitReached
	}
	u.Used += n
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) Upgrade(ctx context.Context, userID, paymentID string, upgradedAt time.Time) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	u.Plan = PlanPro
	u.PaymentID = paymentID
	u.UpgradedAt = &upgradedAt
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) Reset(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := defaultUsage(s.freeLimit)
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) ensureLocked(userID string) Usage {
	u, ok := s.data[userID]
	if !ok {
		u = defaultUsage(s.freeLimit)
		s.data[userID] = u
	}
	return u
}
