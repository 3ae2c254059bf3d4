// Package multimap implements an ordered multivalued map: a sorted map in
// which every key holds a sequence of values instead of a single one.
//
//	m := multimap.New[string, int](nil)
//	m.Set("a", 1)
//	m.Set("a", 2)
//	seq, _ := m.Get("a") // [1 2]
//
// All mutations are serialized by one mutex. Reads never take it: each read
// sees the state left by some completed mutation, but two reads may see
// different states when they race with writers.
package multimap

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"MVDB/log"
	sortedmap "MVDB/map"
)

// state is an immutable view published after each mutation.
// Value slices reachable from a published state are never written below
// their length; Pop clips the shortened slice so the next Set reallocates.
type state[K, V any] struct {
	store sortedmap.SortedMap[K, []V]
	count int
}

type Multimap[K, V any] struct {
	mu      sync.Mutex
	current atomic.Pointer[state[K, V]]

	queue   QueueType
	reverse bool
	logger  log.Logger
}

// New returns an empty multimap stored in a B-tree.
// A nil opts means DefaultOptions.
func New[K cmp.Ordered, V any](opts *Options) *Multimap[K, V] {
	return NewWithStore[K, V](sortedmap.NewBTree[K, []V](), opts)
}

// NewWithStore returns a multimap that owns store. Pairs already in store
// are kept, except keys holding no values.
func NewWithStore[K, V any](store sortedmap.SortedMap[K, []V], opts *Options) *Multimap[K, V] {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := opts.logger
	if logger == nil {
		logger = log.Nop()
	}
	m := &Multimap[K, V]{
		queue:   opts.queue,
		reverse: opts.reverse,
		logger:  logger.Named("multimap"),
	}

	s := &state[K, V]{store: store}
	var empty []K
	store.Ascend(sortedmap.All[K](), func(k K, seq []V) bool {
		if len(seq) == 0 {
			empty = append(empty, k)
		}
		s.count += len(seq)
		return true
	})
	for _, k := range empty {
		store.Delete(k)
	}
	m.current.Store(s)
	return m
}

func (m *Multimap[K, V]) QueueType() QueueType { return m.queue }

func (m *Multimap[K, V]) ReverseOrder() bool { return m.reverse }

func (m *Multimap[K, V]) load() *state[K, V] { return m.current.Load() }

// mutate applies fn to a private copy of the current state under the lock
// and publishes the copy unless fn fails.
func (m *Multimap[K, V]) mutate(fn func(s *state[K, V]) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.current.Load()
	next := &state[K, V]{store: cur.store.Copy(), count: cur.count}
	if err := fn(next); err != nil {
		return err
	}
	m.current.Store(next)
	return nil
}

// Set adds value to the values held by key. Earlier values are kept.
func (m *Multimap[K, V]) Set(key K, value V) {
	_ = m.mutate(func(s *state[K, V]) error {
		seq, _ := s.store.Get(key)
		if m.queue == FIFO {
			seq = append([]V{value}, seq...)
		} else {
			seq = append(seq, value)
		}
		s.store.Set(key, seq)
		s.count++
		return nil
	})
}

// pop removes the last value of key's sequence, dropping the key once its
// sequence is empty.
func (s *state[K, V]) pop(key K) (V, bool) {
	seq, ok := s.store.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	n := len(seq) - 1
	value := seq[n]
	if n == 0 {
		s.store.Delete(key)
	} else {
		s.store.Set(key, slices.Clip(seq[:n]))
	}
	s.count--
	return value, true
}

// Pop removes and returns the next value of key: the newest one for LIFO,
// the oldest one for FIFO.
func (m *Multimap[K, V]) Pop(key K) (V, error) {
	var value V
	err := m.mutate(func(s *state[K, V]) error {
		var ok bool
		if value, ok = s.pop(key); !ok {
			return errors.Wrapf(ErrKeyNotFound, "pop %v", key)
		}
		return nil
	})
	if err != nil {
		m.logger.Debugw("pop failed", "key", key, "error", err)
	}
	return value, err
}

// PopDefault is Pop, except that an absent key yields def.
//
// An absent key still decrements Len even though nothing is removed, so
// Len can drop below the number of stored values and even below zero.
// Callers rely on this counting, so it is kept.
func (m *Multimap[K, V]) PopDefault(key K, def V) V {
	value := def
	_ = m.mutate(func(s *state[K, V]) error {
		if v, ok := s.pop(key); ok {
			value = v
			return nil
		}
		s.count--
		m.logger.Debugw("pop default on absent key", "key", key, "len", s.count)
		return nil
	})
	return value
}

// PopItem removes the next value of the extremal key: the largest key in
// reverse order, the smallest otherwise.
func (m *Multimap[K, V]) PopItem() (K, V, error) {
	var (
		key   K
		value V
	)
	err := m.mutate(func(s *state[K, V]) error {
		var ok bool
		if m.reverse {
			key, ok = s.store.Max()
		} else {
			key, ok = s.store.Min()
		}
		if !ok {
			return errors.Wrap(ErrEmpty, "popitem")
		}
		value, _ = s.pop(key)
		return nil
	})
	if err != nil {
		m.logger.Debugw("popitem failed", "error", err)
	}
	return key, value, err
}

// Delete removes key together with all its values.
func (m *Multimap[K, V]) Delete(key K) error {
	err := m.mutate(func(s *state[K, V]) error {
		seq, ok := s.store.Get(key)
		if !ok {
			return errors.Wrapf(ErrKeyNotFound, "delete %v", key)
		}
		s.count -= len(seq)
		s.store.Delete(key)
		return nil
	})
	if err != nil {
		m.logger.Debugw("delete failed", "key", key, "error", err)
	}
	return err
}

// Len returns the number of stored (key, value) pairs. See PopDefault for
// the one case where it drifts from that number.
func (m *Multimap[K, V]) Len() int { return m.load().count }

// KeyCount returns the number of distinct keys.
func (m *Multimap[K, V]) KeyCount() int { return m.load().store.Len() }

func (m *Multimap[K, V]) Contains(key K) bool {
	_, ok := m.load().store.Get(key)
	return ok
}

// Get returns a copy of the values held by key in stored order.
func (m *Multimap[K, V]) Get(key K) ([]V, error) {
	seq, ok := m.load().store.Get(key)
	if !ok {
		return nil, errors.Wrapf(ErrKeyNotFound, "get %v", key)
	}
	return slices.Clone(seq), nil
}

// GetOr is Get with def returned for an absent key.
func (m *Multimap[K, V]) GetOr(key K, def []V) []V {
	if seq, ok := m.load().store.Get(key); ok {
		return slices.Clone(seq)
	}
	return def
}

func (m *Multimap[K, V]) MinKey() (K, error) {
	k, ok := m.load().store.Min()
	if !ok {
		return k, errors.Wrap(ErrEmpty, "min key")
	}
	return k, nil
}

func (m *Multimap[K, V]) MaxKey() (K, error) {
	k, ok := m.load().store.Max()
	if !ok {
		return k, errors.Wrap(ErrEmpty, "max key")
	}
	return k, nil
}

// Values returns every value whose key lies in r. Keys are visited in
// ascending order and each key's values in stored order; in reverse order
// the whole concatenation is then reversed.
func (m *Multimap[K, V]) Values(r sortedmap.Range[K]) []V {
	var values []V
	m.load().store.Ascend(r, func(_ K, seq []V) bool {
		values = append(values, seq...)
		return true
	})
	if m.reverse {
		slices.Reverse(values)
	}
	return values
}

// Keys returns the keys in r, descending in reverse order.
func (m *Multimap[K, V]) Keys(r sortedmap.Range[K]) []K {
	var keys []K
	m.load().store.Ascend(r, func(k K, _ []V) bool {
		keys = append(keys, k)
		return true
	})
	if m.reverse {
		slices.Reverse(keys)
	}
	return keys
}

// Items yields each key in r with a copy of its values, keys ordered as in
// Keys. Value sequences keep their stored order.
func (m *Multimap[K, V]) Items(r sortedmap.Range[K]) iter.Seq2[K, []V] {
	return func(yield func(K, []V) bool) {
		s := m.load()
		if !m.reverse {
			s.store.Ascend(r, func(k K, seq []V) bool {
				return yield(k, slices.Clone(seq))
			})
			return
		}
		var (
			keys []K
			seqs [][]V
		)
		s.store.Ascend(r, func(k K, seq []V) bool {
			keys = append(keys, k)
			seqs = append(seqs, seq)
			return true
		})
		for i := len(keys) - 1; i >= 0; i-- {
			if !yield(keys[i], slices.Clone(seqs[i])) {
				return
			}
		}
	}
}

// String formats the contents as {k1: [v1 v2], k2: [v3]} in ascending key
// order.
func (m *Multimap[K, V]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	m.load().store.Ascend(sortedmap.All[K](), func(k K, seq []V) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v: %v", k, seq)
		return true
	})
	b.WriteByte('}')
	return b.String()
}
