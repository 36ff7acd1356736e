package mediaid

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_PrefixAndValidity(t *testing.T) {
	id := New()
	assert.True(t, IsValid(id), id)
	assert.Len(t, id, len(prefix)+26)
	assert.True(t, IsValid(strings.ToLower(id)))

	assert.False(t, IsValid("jan_01h0000000000000000000000"))
	assert.False(t, IsValid("med_not-a-ulid"))
	assert.False(t, IsValid("med_1"))
	assert.False(t, IsValid(" "+id))
	assert.False(t, IsValid(id+"/../x"))
}

func TestNew_ConcurrentUnique(t *testing.T) {
	const n = 1000
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]struct{}, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := New()
			mu.Lock()
			ids[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, ids, n)
}
