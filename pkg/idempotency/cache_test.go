package idempotency

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEvictsOldestInsert(t *testing.T) {
	cache, err := New[string](DefaultCapacity)
	require.NoError(t, err)

	for i := 0; i < DefaultCapacity+1; i++ {
		cache.Put(fmt.Sprintf("key-%d", i), fmt.Sprintf("digest-%d", i))
	}

	assert.Equal(t, DefaultCapacity, cache.Len())
	_, ok := cache.Get("key-0")
	assert.False(t, ok, "first inserted key should be evicted")
	for i := 1; i <= DefaultCapacity; i++ {
		got, ok := cache.Get(fmt.Sprintf("key-%d", i))
		require.True(t, ok, "key-%d missing", i)
		assert.Equal(t, fmt.Sprintf("digest-%d", i), got)
	}
}

func TestCacheGetRefreshesRecency(t *testing.T) {
	cache, err := New[int](2)
	require.NoError(t, err)

	cache.Put("a", 1)
	cache.Put("b", 2)
	_, ok := cache.Get("a")
	require.True(t, ok)
	cache.Put("c", 3)

	_, ok = cache.Get("b")
	assert.False(t, ok)
	v, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestCacheOverwriteKeepsSingleEntry(t *testing.T) {
	cache, err := New[int](4)
	require.NoError(t, err)

	cache.Put("a", 1)
	cache.Put("a", 2)
	v, _ := cache.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, cache.Len())
}

func TestCacheRejectsZeroCapacity(t *testing.T) {
	_, err := New[int](0)
	require.Error(t, err)
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache, err := New[int](16)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("%d-%d", w, i%32)
				cache.Put(key, i)
				cache.Get(key)
			}
		}(w)
	}
	wg.Wait()
	assert.LessOrEqual(t, cache.Len(), 16)
}
