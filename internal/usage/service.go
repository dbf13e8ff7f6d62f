package usage

import (
	"context"
	"time"
)

type store interface {
	Get(ctx context.Context, userID string) (Usage, error)
	Consume(ctx context.Context, userID string, n int) (Usage, error)
	Upgrade(ctx context.Context, userID, paymentID string, upgradedAt time.Time) (Usage, error)
	Reset(ctx context.Context, userID string) (Usage, error)
}

// Service manages plan and consumption data via an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store.
func NewService(freeLimit int) *Service {
	return &Service{store: newMemoryStore(freeLimit)}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore}
}

// Get returns the current usage for a user, initializing defaults if absent.
func (s *Service) Get(ctx context.Context, userID string) (Usage, error) {
	return s.store.Get(ctx, userID)
}

// CanConsume reports whether the user can consume n more analyses.
func (s *Service) CanConsume(ctx context.Context, userID string, n int) (bool, Usage, error) {
	u, err := s.store.Get(ctx, userID)
	if err != nil {
		return false, Usage{}, err
	}
	if n <= 0 || u.Unlimited() {
		return true, u, nil
	}
	if u.Used+n > u.Limit {
		return false, u, nil
	}
	return true, u, nil
}

// Consume increments usage by n if within the plan allowance.
func (s *Service) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	return s.store.Consume(ctx, userID, n)
}

// Upgrade moves the user to the pro plan, recording the payment reference.
func (s *Service) Upgrade(ctx context.Context, userID, paymentID string) (Usage, error) {
	return s.store.Upgrade(ctx, userID, paymentID, time.Now().UTC())
}

// Reset returns the user to a fresh free plan. Development use only.
func (s *Service) Reset(ctx context.Context, userID string) (Usage, error) {
	return s.store.Reset(ctx, userID)
}
