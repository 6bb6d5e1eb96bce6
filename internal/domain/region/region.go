// Package region holds the customer's chosen storefront locale and its
// session-scoped persistence.
//
// Exactly two regions exist. IN is the default and the fallback for any
// unrecognized input, so reads never fail and never surface an error.
package region

import (
	"context"
	"strings"
	"sync"

	"github.com/threadkart/storefront/internal/domain/money"
	"github.com/threadkart/storefront/internal/storage/kv"
)

// Region is the customer's chosen storefront locale.
type Region string

const (
	// IN is the India storefront, priced in INR. Default region.
	IN Region = "IN"
	// US is the United States storefront, priced in USD where a USD price exists.
	US Region = "US"
)

// Normalize maps arbitrary input to a valid Region. Matching is
// case-insensitive; "US" and "USA" select the US region, everything else
// (including empty and garbage values) falls back to IN.
func Normalize(candidate string) Region {
	switch strings.ToUpper(strings.TrimSpace(candidate)) {
	case "US", "USA":
		return US
	default:
		return IN
	}
}

// Currency returns the region's default display currency. It decides the
// currency of the zero-amount fallback when no price field resolves.
func (r Region) Currency() money.Currency {
	if r == US {
		return money.USD
	}
	return money.INR
}

// Store holds one session's region selection backed by a key/value store.
//
// The store never returns errors across its contract: a failed load yields
// the default region and a failed persist keeps the in-memory value correct
// for the current session, silently losing durability.
type Store struct {
	store kv.Store
	key   string

	mu      sync.RWMutex
	current Region
}

// NewStore loads the persisted region for the given session key, falling back
// to IN when the stored value is absent, unreadable, or unrecognized. The raw
// stored value is renormalized on every load.
func NewStore(ctx context.Context, store kv.Store, key string) *Store {
	s := &Store{store: store, key: key, current: IN}
	if raw, err := store.Get(ctx, key); err == nil {
		s.current = Normalize(string(raw))
	}
	return s
}

// Get returns the current in-memory region.
func (s *Store) Get() Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set normalizes candidate, updates the in-memory region, and persists it.
// Persistence failures are swallowed. Returns the normalized region.
func (s *Store) Set(ctx context.Context, candidate string) Region {
	r := Normalize(candidate)

	s.mu.Lock()
	s.current = r
	s.mu.Unlock()

	// Best effort: the session keeps the correct value even if the write fails.
	_ = s.store.Set(ctx, s.key, []byte(r))

	return r
}
