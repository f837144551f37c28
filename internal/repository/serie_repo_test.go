package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerieRepo_IncrementarSecuencial(t *testing.T) {
	repo := NewSerieRepository(newTestDB(t))
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		n, err := repo.Incrementar(ctx, "JC-150")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	// Independent codes do not share a counter
	n, err := repo.Incrementar(ctx, "MB-3X4")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	actual, err := repo.Actual(ctx, "JC-150")
	require.NoError(t, err)
	assert.Equal(t, 3, actual)
}

func TestSerieRepo_IncrementarConcurrente(t *testing.T) {
	repo := NewSerieRepository(newTestDB(t))
	ctx := context.Background()

	const n = 25
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int]bool)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repo.Incrementar(ctx, "PM-24")
			assert.NoError(t, err)
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n, "every caller must get a distinct value")
	for i := 1; i <= n; i++ {
		assert.True(t, seen[i], "missing %d", i)
	}
}

func TestSerieRepo_Liberar(t *testing.T) {
	repo := NewSerieRepository(newTestDB(t))
	ctx := context.Background()

	_, found, err := repo.Liberar(ctx, "NOPE", nil)
	require.NoError(t, err)
	assert.False(t, found)

	for i := 0; i < 2; i++ {
		_, err := repo.Incrementar(ctx, "TQ-100")
		require.NoError(t, err)
	}

	v, found, err := repo.Liberar(ctx, "TQ-100", nil)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, v)

	v, _, err = repo.Liberar(ctx, "TQ-100", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	v, _, err = repo.Liberar(ctx, "TQ-100", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, v, "counter never goes below zero")

	objetivo := 10
	v, _, err = repo.Liberar(ctx, "TQ-100", &objetivo)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	next, err := repo.Incrementar(ctx, "TQ-100")
	require.NoError(t, err)
	assert.Equal(t, 11, next)
}
