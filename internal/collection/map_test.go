package collection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncMap(t *testing.T) {
	m := NewSyncMap[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	assert.True(t, m.Update("a", func(v int) int { return v + 10 }))
	assert.False(t, m.Update("z", func(v int) int { return v }))
	v, _ = m.Get("a")
	assert.Equal(t, 11, v)

	m.Range(func(key string, _ int) bool {
		m.Delete(key)
		return true
	})
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Delete("a"))
}

func TestSyncMap_DeleteIf(t *testing.T) {
	m := NewSyncMap[string, int]()
	m.Put("a", 1)
	m.Put("b", 5)
	stale := func(v int) bool { return v < 3 }

	m.Range(func(key string, value int) bool {
		if key == "a" {
			m.Update(key, func(v int) int { return v + 10 }) // refreshed after the snapshot
		}
		if stale(value) {
			assert.False(t, m.DeleteIf(key, stale), key)
		}
		return true
	})
	assert.Equal(t, 2, m.Len())

	m.Put("c", 0)
	assert.True(t, m.DeleteIf("c", stale))
	assert.False(t, m.DeleteIf("c", stale))
	assert.False(t, m.DeleteIf("b", stale))
}

func TestSyncMap_Concurrent(t *testing.T) {
	m := NewSyncMap[int, int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Put(i, i)
			m.Get(i)
			if i%2 == 0 {
				m.Delete(i)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 25, m.Len())
}
