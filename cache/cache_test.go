package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/arjunmahishi/repoctx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPut(t *testing.T) {
	c, err := New(8, nil)
	require.NoError(t, err)

	mtime := time.Unix(1700000000, 0)
	key := NewKey("a.cs", 10, mtime)

	_, ok := c.Get(key)
	assert.False(t, ok)

	summary := types.FileSummary{Path: "a.cs", Type: types.SourceCode, Size: 10, Context: "Class: A"}
	c.Put(key, summary)
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, summary, got)

	// A modified file is a different key.
	_, ok = c.Get(NewKey("a.cs", 10, mtime.Add(time.Second)))
	assert.False(t, ok)
	_, ok = c.Get(NewKey("a.cs", 11, mtime))
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(3), stats.Misses)
	assert.Equal(t, 1, stats.Len)
}

func TestEviction(t *testing.T) {
	c, err := New(2, nil)
	require.NoError(t, err)

	now := time.Now()
	for i := 0; i < 3; i++ {
		path := fmt.Sprintf("f%d.py", i)
		c.Put(NewKey(path, 1, now), types.FileSummary{Path: path})
	}

	_, ok := c.Get(NewKey("f0.py", 1, now))
	assert.False(t, ok, "oldest entry should be evicted")
	assert.Equal(t, int64(1), c.Stats().Evictions)
	assert.Equal(t, 2, c.Stats().Len)
}

func TestNewRejectsNegativeSize(t *testing.T) {
	_, err := New(-1, nil)
	require.Error(t, err)
}

func TestConcurrentAccess(t *testing.T) {
	c, err := New(64, nil)
	require.NoError(t, err)

	now := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := NewKey(fmt.Sprintf("f%d.js", i%4), 1, now)
			c.Put(key, types.FileSummary{Path: key.Path, Context: "Functions:\n  f"})
			_, _ = c.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, c.Stats().Len)
	assert.Equal(t, int64(16), c.Stats().Hits+c.Stats().Misses)
}
