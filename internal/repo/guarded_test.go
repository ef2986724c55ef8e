package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/invoice-engine/internal/invoice"
	"github.com/noah-isme/invoice-engine/internal/repo"
	"github.com/noah-isme/invoice-engine/internal/resilience"
)

type scriptedStore struct {
	errs  []error
	calls int
}

func (s *scriptedStore) GetByNumber(_ context.Context, number string) (invoice.Invoice, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return invoice.Invoice{}, s.errs[i]
	}
	return invoice.Invoice{Number: number}, nil
}

func TestGuardedStoreFailsFastWhenOpen(t *testing.T) {
	down := errors.New("dial tcp: connection refused")
	store := &scriptedStore{errs: []error{down, down}}
	guarded := repo.GuardedStore{Store: store, Breaker: resilience.NewBreaker(2, 0.5, time.Hour)}
	ctx := context.Background()

	for range 2 {
		_, err := guarded.GetByNumber(ctx, "INV-1")
		require.ErrorIs(t, err, down)
	}

	_, err := guarded.GetByNumber(ctx, "INV-1")
	require.ErrorIs(t, err, invoice.ErrStoreUnavailable)
	require.ErrorIs(t, err, resilience.ErrOpenCircuit)
	require.Equal(t, 2, store.calls)
}

func TestGuardedStoreMissesDoNotTrip(t *testing.T) {
	missing := invoice.ErrNotFound
	store := &scriptedStore{errs: []error{missing, missing, missing}}
	guarded := repo.GuardedStore{Store: store, Breaker: resilience.NewBreaker(1, 0.5, time.Hour)}
	ctx := context.Background()

	for range 3 {
		_, err := guarded.GetByNumber(ctx, "nope")
		require.ErrorIs(t, err, invoice.ErrNotFound)
	}
	inv, err := guarded.GetByNumber(ctx, "INV-9")
	require.NoError(t, err)
	require.Equal(t, "INV-9", inv.Number)
	require.Equal(t, resilience.Closed, guarded.Breaker.State())
}

func TestGuardedStoreWithoutBreaker(t *testing.T) {
	store := &scriptedStore{}
	inv, err := repo.GuardedStore{Store: store}.GetByNumber(context.Background(), "INV-2")
	require.NoError(t, err)
	require.Equal(t, "INV-2", inv.Number)
}
