package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestCacheBasicOperations(t *testing.T) {
	cache := NewCache[string, string]()

	t.Run("Set and Get", func(t *testing.T) {
		cache.Set("token-1", "session-a")

		got, exists := cache.Get("token-1")
		if !exists {
			t.Error("Expected key to exist")
		}
		if got != "session-a" {
			t.Errorf("Expected %q, got %q", "session-a", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		_, exists := cache.Get("missing")
		if exists {
			t.Error("Expected key to not exist")
		}
	})

	t.Run("Overwrite existing key", func(t *testing.T) {
		cache.Set("token-2", "first")
		cache.Set("token-2", "second")

		got, _ := cache.Get("token-2")
		if got != "second" {
			t.Errorf("Expected %q, got %q", "second", got)
		}
	})
}

func TestCacheGetOrSet(t *testing.T) {
	cache := NewCache[string, int]()

	t.Run("Creates on first access", func(t *testing.T) {
		calls := 0
		got := cache.GetOrSet("a", func() int {
			calls++
			return 42
		})
		if got != 42 || calls != 1 {
			t.Errorf("Expected 42 from one call, got %d from %d calls", got, calls)
		}
	})

	t.Run("Reuses existing value", func(t *testing.T) {
		got := cache.GetOrSet("a", func() int {
			t.Error("Callback ran for existing key")
			return 0
		})
		if got != 42 {
			t.Errorf("Expected cached 42, got %d", got)
		}
	})

	t.Run("Concurrent callers create once", func(t *testing.T) {
		fresh := NewCache[string, int]()
		var calls atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fresh.GetOrSet("shared", func() int {
					calls.Add(1)
					return 7
				})
			}()
		}
		wg.Wait()
		if calls.Load() != 1 {
			t.Errorf("Expected callback to run once, ran %d times", calls.Load())
		}
	})
}

func TestCacheDelete(t *testing.T) {
	cache := NewCache[string, string]()

	t.Run("Delete existing key", func(t *testing.T) {
		cache.Set("gone", "value")
		cache.Delete("gone")

		if _, exists := cache.Get("gone"); exists {
			t.Error("Expected key to be deleted")
		}
	})

	t.Run("Delete non-existent key", func(t *testing.T) {
		cache.Delete("never-there")
	})
}

func TestCacheClearAndSetTo(t *testing.T) {
	cache := NewCache[string, string]()

	t.Run("Clear drops everything", func(t *testing.T) {
		cache.Set("k1", "v1")
		cache.Set("k2", "v2")
		cache.Clear()

		_, e1 := cache.Get("k1")
		_, e2 := cache.Get("k2")
		if e1 || e2 {
			t.Error("Expected all keys to be cleared")
		}
	})

	t.Run("SetTo replaces the whole map", func(t *testing.T) {
		cache.Set("old", "value")
		cache.SetTo(map[string]string{"new": "value"})

		if _, exists := cache.Get("old"); exists {
			t.Error("Expected old items to be replaced")
		}
		if got, exists := cache.Get("new"); !exists || got != "value" {
			t.Errorf("Expected replacement items, got %q (%v)", got, exists)
		}
	})
}

func TestCacheConcurrency(t *testing.T) {
	cache := NewCache[int, string]()
	const numGoroutines = 50
	const numOperations = 200

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOperations; j++ {
				key := id*numOperations + j
				cache.Set(key, fmt.Sprintf("value-%d-%d", id, j))
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()
}
