package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/PranaviDevireddy/cs212project/internal/domain"
)

// Registry is the shared, concurrency-safe store of participation state. It
// enforces at-most-once participation per roll number and per source address:
// TryRegister performs the range check and both duplicate checks together with
// the claim as one atomic unit, so two concurrent sessions presenting the same
// roll (or the same address) cannot both be accepted.
type Registry interface {
	// TryRegister claims both the address and the roll, or returns
	// domain.ErrUnauthorizedRoll, domain.ErrDuplicateRoll or
	// domain.ErrDuplicateAddress without mutating anything.
	TryRegister(ctx context.Context, address, roll string) error
	// RecordResult stores the final score and answer log for a session whose
	// registration previously succeeded. Called at most once per session.
	RecordResult(ctx context.Context, res domain.Result) error
	// Results returns all recorded results in registration order.
	Results(ctx context.Context) ([]domain.Result, error)
}

// QuizService contains the core quiz use cases shared by the TCP transport,
// the monitor endpoint and the report generator.
type QuizService struct {
	registry Registry
	catalog  domain.Catalog
	now      func() time.Time

	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewQuizService(registry Registry, cat domain.Catalog) *QuizService {
	return &QuizService{
		registry:    registry,
		catalog:     cat,
		now:         time.Now,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Catalog returns the catalog administered to every participant.
func (s *QuizService) Catalog() domain.Catalog {
	return s.catalog
}

// Register authenticates one session: range check plus duplicate checks plus
// the claim, atomically in the registry.
func (s *QuizService) Register(ctx context.Context, address, roll string) error {
	return s.registry.TryRegister(ctx, address, roll)
}

// Complete records a finished session and pushes a fresh leaderboard to
// monitor subscribers.
func (s *QuizService) Complete(ctx context.Context, res domain.Result) error {
	if err := s.registry.RecordResult(ctx, res); err != nil {
		return err
	}
	if lb, err := s.Leaderboard(ctx); err == nil {
		s.broadcast(lb)
	}
	return nil
}

// Results exposes the answer log for report generation.
func (s *QuizService) Results(ctx context.Context) ([]domain.Result, error) {
	return s.registry.Results(ctx)
}

// Leaderboard returns all scored participants sorted by score descending,
// ties broken by ascending roll so output is deterministic.
func (s *QuizService) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	results, err := s.registry.Results(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	entries := make([]domain.LeaderboardEntry, 0, len(results))
	for _, res := range results {
		entries = append(entries, domain.LeaderboardEntry{Roll: res.Roll, Score: res.Score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Roll < entries[j].Roll
	})
	return domain.Leaderboard{
		CatalogID: s.catalog.ID,
		Entries:   entries,
		UpdatedAt: s.now(),
	}, nil
}

// Subscribe returns a channel that receives leaderboard updates as sessions
// complete. The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(ctx context.Context) (<-chan domain.Leaderboard, func(), error) {
	initial, err := s.Leaderboard(ctx)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan domain.Leaderboard, 8)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

func (s *QuizService) broadcast(lb domain.Leaderboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- lb:
		default:
			// drop the stale update so a slow monitor cannot block completion
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
