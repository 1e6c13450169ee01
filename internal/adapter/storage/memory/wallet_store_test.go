package memory

import (
	"context"
	"sync"
	"testing"

	"wallet-service/internal/core/domain"
	"wallet-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletStore_CreateAndGet(t *testing.T) {
	store := NewWalletStore()
	w := domain.NewWallet(uuid.New(), decimal.NewFromInt(1000))
	require.NoError(t, store.Create(context.Background(), w))

	got, err := store.Get(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, *w, *got)

	// Returned wallet is a copy.
	got.Balance = decimal.Zero
	again, _ := store.Get(context.Background(), w.ID)
	assert.True(t, again.Balance.Equal(decimal.NewFromInt(1000)))
}

func TestWalletStore_Create_Rejects(t *testing.T) {
	store := NewWalletStore()
	w := domain.NewWallet(uuid.New(), decimal.NewFromInt(1))
	require.NoError(t, store.Create(context.Background(), w))

	assert.Error(t, store.Create(context.Background(), w))
	assert.Error(t, store.Create(context.Background(), domain.NewWallet(uuid.New(), decimal.NewFromInt(-5))))
}

func TestWalletStore_Get_NotFound(t *testing.T) {
	_, err := NewWalletStore().Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestWalletStore_Get_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWalletStore().Get(ctx, uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWalletStore_ConditionalPut(t *testing.T) {
	store := NewWalletStore()
	w := domain.NewWallet(uuid.New(), decimal.NewFromInt(1000))
	require.NoError(t, store.Create(context.Background(), w))

	version, err := store.ConditionalPut(context.Background(), w.ID, decimal.NewFromInt(1500), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	_, err = store.ConditionalPut(context.Background(), w.ID, decimal.NewFromInt(1200), 0)
	assert.ErrorIs(t, err, ports.ErrVersionConflict)

	got, _ := store.Get(context.Background(), w.ID)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, int64(1), got.Version)
}

func TestWalletStore_ConditionalPut_SameBaseVersionRace(t *testing.T) {
	store := NewWalletStore()
	w := domain.NewWallet(uuid.New(), decimal.NewFromInt(1000))
	require.NoError(t, store.Create(context.Background(), w))

	const writers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		committed int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.ConditionalPut(context.Background(), w.ID, decimal.NewFromInt(int64(i)), 0)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				committed++
			} else if assert.ErrorIs(t, err, ports.ErrVersionConflict) {
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, committed)
	assert.Equal(t, writers-1, conflicts)

	got, _ := store.Get(context.Background(), w.ID)
	assert.Equal(t, int64(1), got.Version)
}
