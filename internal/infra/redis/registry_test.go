package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/PranaviDevireddy/cs212project/internal/domain"
)

var testRange = domain.RollRange{Min: 2303101, Max: 2303140}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewRegistry(client, testRange)
}

func TestTryRegisterClaimsAtomically(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	require.NoError(t, reg.TryRegister(ctx, "10.0.0.1", "2303105"))
	require.ErrorIs(t, reg.TryRegister(ctx, "10.0.0.2", "2303105"), domain.ErrDuplicateRoll)
	require.ErrorIs(t, reg.TryRegister(ctx, "10.0.0.1", "2303106"), domain.ErrDuplicateAddress)
}

func TestTryRegisterRangeCheckBeforeMutation(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	require.ErrorIs(t, reg.TryRegister(ctx, "10.0.0.1", "9999999"), domain.ErrUnauthorizedRoll)
	require.ErrorIs(t, reg.TryRegister(ctx, "10.0.0.1", "notanumber"), domain.ErrUnauthorizedRoll)

	// the failed attempts left no claim behind
	require.NoError(t, reg.TryRegister(ctx, "10.0.0.1", "2303105"))
}

func TestTryRegisterConcurrentSameRoll(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	const attempts = 16
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = reg.TryRegister(ctx, fmt.Sprintf("10.0.0.%d", i+1), "2303110")
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		}
	}
	require.Equal(t, 1, accepted)
}

func TestRecordResultRoundTrip(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	require.NoError(t, reg.TryRegister(ctx, "10.0.0.1", "2303105"))
	res := domain.Result{
		Roll:    "2303105",
		Address: "10.0.0.1",
		Answers: []string{"A", "A B", "Router"},
		Score:   9,
	}
	require.NoError(t, reg.RecordResult(ctx, res))

	results, err := reg.Results(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, res, results[0])
}

func TestRecordResultGuards(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	err := reg.RecordResult(ctx, domain.Result{Roll: "2303105", Address: "10.0.0.1"})
	require.ErrorIs(t, err, domain.ErrResultNotRegistered)

	require.NoError(t, reg.TryRegister(ctx, "10.0.0.1", "2303105"))
	res := domain.Result{Roll: "2303105", Address: "10.0.0.1", Answers: []string{"A"}, Score: 2}
	require.NoError(t, reg.RecordResult(ctx, res))
	require.ErrorIs(t, reg.RecordResult(ctx, res), domain.ErrDuplicateRoll)
}

func TestResultsPreserveCompletionOrder(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	for i := 0; i < 3; i++ {
		roll := fmt.Sprintf("23031%02d", i+1)
		addr := fmt.Sprintf("10.0.1.%d", i+1)
		require.NoError(t, reg.TryRegister(ctx, addr, roll))
		require.NoError(t, reg.RecordResult(ctx, domain.Result{Roll: roll, Address: addr, Answers: []string{"A"}, Score: i}))
	}

	results, err := reg.Results(ctx)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, res := range results {
		require.Equal(t, i, res.Score)
	}
}
