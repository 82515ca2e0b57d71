package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	reg := newRegistry()
	mk := func(code string) *roomActor { return &roomActor{room: newRoom(code)} }

	a, created := reg.GetOrCreate("ROOM1", mk)
	assert.True(t, created)
	again, created := reg.GetOrCreate("ROOM1", mk)
	assert.False(t, created)
	assert.Same(t, a, again)
	assert.Same(t, a, reg.Get("ROOM1"))
	assert.Nil(t, reg.Get("ROOM2"))

	stale := mk("ROOM1")
	assert.False(t, reg.Remove("ROOM1", stale), "only the registered actor may remove itself")
	assert.Equal(t, 1, reg.Len())

	assert.True(t, reg.Remove("ROOM1", a))
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	reg := newRegistry()
	var mu sync.Mutex
	creates := 0
	mk := func(code string) *roomActor {
		mu.Lock()
		creates++
		mu.Unlock()
		return &roomActor{room: newRoom(code)}
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.GetOrCreate("ROOM1", mk)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, reg.Len())
}
