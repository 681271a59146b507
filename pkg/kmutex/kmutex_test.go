package kmutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerializesPerKey(t *testing.T) {
	km := New()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock(1)
			defer km.Unlock(1)
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestIndependentKeys(t *testing.T) {
	km := New()

	km.Lock(1)
	done := make(chan struct{})
	go func() {
		// A different key must not block.
		km.Lock(2)
		km.Unlock(2)
		close(done)
	}()
	<-done
	km.Unlock(1)
}

func TestEntriesReleased(t *testing.T) {
	km := New()

	for i := range int64(50) {
		km.Lock(i)
		km.Unlock(i)
	}

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks)
}
