package sortedmap

import (
	"cmp"

	"github.com/tidwall/btree"
)

// 0 selects the library's default node degree.
const defaultDegree = 0

// BTree is a SortedMap over ordered keys backed by a copy-on-write B-tree.
type BTree[K cmp.Ordered, V any] struct {
	tr *btree.Map[K, V]
}

// NewBTree returns an empty B-tree map.
func NewBTree[K cmp.Ordered, V any]() *BTree[K, V] {
	return &BTree[K, V]{tr: btree.NewMap[K, V](defaultDegree)}
}

func (m *BTree[K, V]) Set(key K, value V) { m.tr.Set(key, value) }

func (m *BTree[K, V]) Get(key K) (V, bool) { return m.tr.Get(key) }

func (m *BTree[K, V]) Delete(key K) bool {
	_, ok := m.tr.Delete(key)
	return ok
}

func (m *BTree[K, V]) Min() (K, bool) {
	k, _, ok := m.tr.Min()
	return k, ok
}

func (m *BTree[K, V]) Max() (K, bool) {
	k, _, ok := m.tr.Max()
	return k, ok
}

func (m *BTree[K, V]) Len() int { return m.tr.Len() }

func (m *BTree[K, V]) Ascend(r Range[K], fn func(K, V) bool) {
	if r.empty(cmp.Compare[K]) {
		return
	}
	visit := func(k K, v V) bool {
		if r.above(cmp.Compare[K], k) {
			return false
		}
		return fn(k, v)
	}
	if lo, ok := r.Low(); ok {
		m.tr.Ascend(lo, visit)
		return
	}
	m.tr.Scan(visit)
}

// Copy is O(1); nodes are cloned lazily by whichever map writes first.
func (m *BTree[K, V]) Copy() SortedMap[K, V] {
	return &BTree[K, V]{tr: m.tr.Copy()}
}

type pair[K, V any] struct {
	key K
	val V
}

// BTreeFunc is a SortedMap over arbitrary keys ordered by a comparison
// function, backed by a copy-on-write B-tree.
type BTreeFunc[K, V any] struct {
	tr  *btree.BTreeG[pair[K, V]]
	cmp func(K, K) int
}

// NewBTreeFunc returns an empty B-tree map ordered by cmp.
func NewBTreeFunc[K, V any](cmp func(K, K) int) *BTreeFunc[K, V] {
	less := func(a, b pair[K, V]) bool { return cmp(a.key, b.key) < 0 }
	return &BTreeFunc[K, V]{tr: btree.NewBTreeG(less), cmp: cmp}
}

func (m *BTreeFunc[K, V]) Set(key K, value V) {
	m.tr.Set(pair[K, V]{key: key, val: value})
}

func (m *BTreeFunc[K, V]) Get(key K) (V, bool) {
	p, ok := m.tr.Get(pair[K, V]{key: key})
	return p.val, ok
}

func (m *BTreeFunc[K, V]) Delete(key K) bool {
	_, ok := m.tr.Delete(pair[K, V]{key: key})
	return ok
}

func (m *BTreeFunc[K, V]) Min() (K, bool) {
	p, ok := m.tr.Min()
	return p.key, ok
}

func (m *BTreeFunc[K, V]) Max() (K, bool) {
	p, ok := m.tr.Max()
	return p.key, ok
}

func (m *BTreeFunc[K, V]) Len() int { return m.tr.Len() }

func (m *BTreeFunc[K, V]) Ascend(r Range[K], fn func(K, V) bool) {
	if r.empty(m.cmp) {
		return
	}
	visit := func(p pair[K, V]) bool {
		if r.above(m.cmp, p.key) {
			return false
		}
		return fn(p.key, p.val)
	}
	if lo, ok := r.Low(); ok {
		m.tr.Ascend(pair[K, V]{key: lo}, visit)
		return
	}
	m.tr.Scan(visit)
}

func (m *BTreeFunc[K, V]) Copy() SortedMap[K, V] {
	return &BTreeFunc[K, V]{tr: m.tr.Copy(), cmp: m.cmp}
}
