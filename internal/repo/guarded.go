package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/invoice-engine/internal/invoice"
	"github.com/noah-isme/invoice-engine/internal/resilience"
)

// GuardedStore fails fast with invoice.ErrStoreUnavailable while the breaker
// is open. Lookups that miss, or are cancelled by the caller, do not count
// against the database.
type GuardedStore struct {
	Store   invoice.Store
	Breaker *resilience.Breaker
}

// GetByNumber implements invoice.Store.
func (g GuardedStore) GetByNumber(ctx context.Context, number string) (invoice.Invoice, error) {
	if g.Breaker == nil {
		return g.Store.GetByNumber(ctx, number)
	}
	var inv invoice.Invoice
	err := g.Breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		inv, err = g.Store.GetByNumber(ctx, number)
		return err
	}, countsAsOutage)
	if errors.Is(err, resilience.ErrOpenCircuit) {
		return invoice.Invoice{}, fmt.Errorf("%w: %w", invoice.ErrStoreUnavailable, err)
	}
	return inv, err
}

func countsAsOutage(err error) bool {
	return !errors.Is(err, invoice.ErrNotFound) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, ErrCorruptRow)
}
