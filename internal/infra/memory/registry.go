package memory

import (
	"context"
	"sync"

	"github.com/PranaviDevireddy/cs212project/internal/domain"
)

// Registry is the in-memory implementation of app.Registry. A single mutex
// covers the whole check-and-claim sequence and the whole result write, which
// is what makes registration race-free across concurrent sessions.
//
// Both the roll number and the address are claimed at registration time, so a
// roll can never start two sessions in parallel (the original end-of-session
// registration left that window open).
type Registry struct {
	rng domain.RollRange

	mu        sync.Mutex
	addresses map[string]struct{}
	rolls     map[string]struct{}
	recorded  map[string]struct{}
	results   []domain.Result
}

func NewRegistry(rng domain.RollRange) *Registry {
	return &Registry{
		rng:       rng,
		addresses: make(map[string]struct{}),
		rolls:     make(map[string]struct{}),
		recorded:  make(map[string]struct{}),
	}
}

func (r *Registry) TryRegister(_ context.Context, address, roll string) error {
	if !r.rng.Contains(roll) {
		return domain.ErrUnauthorizedRoll
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rolls[roll]; ok {
		return domain.ErrDuplicateRoll
	}
	if _, ok := r.addresses[address]; ok {
		return domain.ErrDuplicateAddress
	}
	r.rolls[roll] = struct{}{}
	r.addresses[address] = struct{}{}
	return nil
}

func (r *Registry) RecordResult(_ context.Context, res domain.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rolls[res.Roll]; !ok {
		return domain.ErrResultNotRegistered
	}
	if _, ok := r.recorded[res.Roll]; ok {
		return domain.ErrDuplicateRoll
	}
	r.recorded[res.Roll] = struct{}{}

	stored := res
	stored.Answers = append([]string(nil), res.Answers...)
	r.results = append(r.results, stored)
	return nil
}

// Results returns recorded results in completion order.
func (r *Registry) Results(_ context.Context) ([]domain.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Result, len(r.results))
	copy(out, r.results)
	return out, nil
}
