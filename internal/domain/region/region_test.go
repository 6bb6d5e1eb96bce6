package region

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadkart/storefront/internal/domain/money"
	"github.com/threadkart/storefront/internal/storage/memory"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Region
	}{
		{"US", US},
		{"us", US},
		{"Us", US},
		{"USA", US},
		{"usa", US},
		{" usa ", US},
		{"IN", IN},
		{"in", IN},
		{"", IN},
		{"GB", IN},
		{"united states", IN},
		{"\x00garbage", IN},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, money.USD, US.Currency())
	assert.Equal(t, money.INR, IN.Currency())
	// Unrecognized values behave like the default region.
	assert.Equal(t, money.INR, Region("XX").Currency())
}

func TestStoreDefaultsToIN(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, memory.New(), "region:s1")
	assert.Equal(t, IN, s.Get())
}

func TestStoreSetPersistsNormalized(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()

	s := NewStore(ctx, kvs, "region:s1")
	got := s.Set(ctx, "usa")
	assert.Equal(t, US, got)
	assert.Equal(t, US, s.Get())

	// A fresh store for the same session sees the persisted value.
	reloaded := NewStore(ctx, kvs, "region:s1")
	assert.Equal(t, US, reloaded.Get())

	raw, err := kvs.Get(ctx, "region:s1")
	require.NoError(t, err)
	assert.Equal(t, "US", string(raw))
}

func TestStoreRenormalizesStoredGarbage(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()
	require.NoError(t, kvs.Set(ctx, "region:s1", []byte("aus")))

	s := NewStore(ctx, kvs, "region:s1")
	assert.Equal(t, IN, s.Get())
}

// failingStore rejects all operations, standing in for unavailable storage.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage unavailable")
}

func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("storage unavailable")
}

func (failingStore) Delete(context.Context, string) error {
	return errors.New("storage unavailable")
}

func TestStoreSwallowsPersistenceFailure(t *testing.T) {
	ctx := context.Background()

	s := NewStore(ctx, failingStore{}, "region:s1")
	assert.Equal(t, IN, s.Get())

	// The in-memory value still updates even though the write fails.
	s.Set(ctx, "US")
	assert.Equal(t, US, s.Get())
}
