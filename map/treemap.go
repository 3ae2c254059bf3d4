package sortedmap

import (
	"github.com/emirpasic/gods/maps/treemap"
)

// TreeMap is a SortedMap backed by a red-black tree.
// Unlike the B-tree maps, Copy rebuilds the whole tree.
type TreeMap[K, V any] struct {
	tm  *treemap.Map
	cmp func(K, K) int
}

// NewTreeMap returns an empty red-black tree map ordered by cmp.
func NewTreeMap[K, V any](cmp func(K, K) int) *TreeMap[K, V] {
	return &TreeMap[K, V]{tm: treemap.NewWith(comparator(cmp)), cmp: cmp}
}

func comparator[K any](cmp func(K, K) int) func(a, b interface{}) int {
	return func(a, b interface{}) int { return cmp(a.(K), b.(K)) }
}

func (m *TreeMap[K, V]) Set(key K, value V) { m.tm.Put(key, value) }

func (m *TreeMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.tm.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

func (m *TreeMap[K, V]) Delete(key K) bool {
	if _, ok := m.tm.Get(key); !ok {
		return false
	}
	m.tm.Remove(key)
	return true
}

func (m *TreeMap[K, V]) Min() (K, bool) { return m.end(m.tm.Min()) }

func (m *TreeMap[K, V]) Max() (K, bool) { return m.end(m.tm.Max()) }

func (m *TreeMap[K, V]) end(k, _ interface{}) (K, bool) {
	if k == nil {
		var zero K
		return zero, false
	}
	return k.(K), true
}

func (m *TreeMap[K, V]) Len() int { return m.tm.Size() }

func (m *TreeMap[K, V]) Ascend(r Range[K], fn func(K, V) bool) {
	if r.empty(m.cmp) {
		return
	}
	it := m.tm.Iterator()
	for it.Next() {
		k := it.Key().(K)
		if r.above(m.cmp, k) {
			return
		}
		if !r.contains(m.cmp, k) {
			continue
		}
		if !fn(k, it.Value().(V)) {
			return
		}
	}
}

func (m *TreeMap[K, V]) Copy() SortedMap[K, V] {
	c := NewTreeMap[K, V](m.cmp)
	it := m.tm.Iterator()
	for it.Next() {
		c.tm.Put(it.Key(), it.Value())
	}
	return c
}
