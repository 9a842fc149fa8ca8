package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/permit-odds/internal/store"
)

// StoreProvider opens a fresh SQLite-backed repository per call
type StoreProvider struct {
	locator *store.Locator
}

// NewStoreProvider creates a provider over the given store locator
func NewStoreProvider(locator *store.Locator) (*StoreProvider, error) {
	if locator == nil {
		return nil, fmt.Errorf("store locator is required")
	}
	return &StoreProvider{locator: locator}, nil
}

// Open opens the record store for year. The caller owns the returned
// repository and must Close it.
func (p *StoreProvider) Open(ctx context.Context, year int) (WinsRepository, error) {
	st, err := p.locator.Open(ctx, year)
	if err != nil {
		return nil, err
	}
	return NewSQLiteWinsRepository(st), nil
}
