package multimap

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	sortedmap "MVDB/map"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	writers   = 8
	perWriter = 500
)

func TestConcurrentSet(t *testing.T) {
	each(t, ascending, func(t *testing.T, m *Multimap[string, int]) {
		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					m.Set(fmt.Sprintf("k%02d", i%10), w*perWriter+i)
				}
			}(w)
		}
		wg.Wait()

		assert.Equal(t, writers*perWriter, m.Len())
		values := m.Values(sortedmap.All[string]())
		require.Len(t, values, writers*perWriter)
		seen := make(map[int]bool, len(values))
		for _, v := range values {
			assert.False(t, seen[v], "value %d stored twice", v)
			seen[v] = true
		}
	})
}

func TestConcurrentPopItem(t *testing.T) {
	each(t, reversed, func(t *testing.T, m *Multimap[string, int]) {
		total := writers * perWriter
		for i := 0; i < total; i++ {
			m.Set(fmt.Sprintf("k%03d", i%100), i)
		}

		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			popped = make(map[int]bool, total)
		)
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					_, v, err := m.PopItem()
					if err != nil {
						assert.ErrorIs(t, err, ErrEmpty)
						return
					}
					mu.Lock()
					assert.False(t, popped[v], "value %d popped twice", v)
					popped[v] = true
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Len(t, popped, total)
		assert.Equal(t, 0, m.Len())
		assert.Equal(t, 0, m.KeyCount())
	})
}

// Readers never take the lock; they must keep working while writers run
// and agree with the writers once everything has stopped.
func TestReadsDuringWrites(t *testing.T) {
	each(t, fifo, func(t *testing.T, m *Multimap[string, int]) {
		var (
			writersWG sync.WaitGroup
			readersWG sync.WaitGroup
			done      = make(chan struct{})
		)
		for r := 0; r < 4; r++ {
			readersWG.Add(1)
			go func() {
				defer readersWG.Done()
				for {
					select {
					case <-done:
						return
					default:
					}
					_ = m.Len()
					_ = m.Contains("k1")
					_ = m.GetOr("k2", nil)
					for _, v := range m.Values(sortedmap.Between("k0", "k5")) {
						assert.GreaterOrEqual(t, v, 0)
					}
					_ = m.String()
				}
			}()
		}

		for w := 0; w < writers; w++ {
			writersWG.Add(1)
			go func() {
				defer writersWG.Done()
				for i := 0; i < perWriter; i++ {
					key := fmt.Sprintf("k%d", i%8)
					m.Set(key, i)
					if i%4 == 0 {
						_, _ = m.Pop(key)
					}
					if i%50 == 0 {
						_ = m.Delete(fmt.Sprintf("k%d", (i+1)%8))
					}
				}
			}()
		}
		writersWG.Wait()
		close(done)
		readersWG.Wait()

		assert.Equal(t, len(m.Values(sortedmap.All[string]())), m.Len())
		for k, seq := range m.Items(sortedmap.All[string]()) {
			assert.NotEmpty(t, seq, "key %s kept with no values", k)
		}
	})
}
