// Package chainhash implements a generic associative container backed
// by an array of singly linked collision chains. The bucket array grows
// automatically once a chain gets too long or too many buckets are in
// use, so lookups stay amortized O(1).
//
// A Map is not safe for concurrent use; callers that share one across
// goroutines must provide their own synchronization.
package chainhash

import (
	"errors"

	"github.com/go-logr/logr"

	"github.com/docbag/chainhash/pkg/hash"
)

const (
	// DefaultCapacity is the bucket count used when the config leaves
	// it unset.
	DefaultCapacity = 10
	// DefaultMaxCollisions is the longest a single chain may grow
	// before the next insert triggers a rehash.
	DefaultMaxCollisions = 3
	// DefaultMaxFillFactor is the highest tolerated ratio of non-empty
	// buckets to total buckets.
	DefaultMaxFillFactor = 0.8
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrBucketIndex = errors.New("bucket index out of range")
)

// Config tunes a Map at construction time. The zero value of every
// field selects its default.
type Config struct {
	// Capacity is the initial bucket count.
	Capacity int
	// MaxCollisions bounds the chain length of a single bucket.
	MaxCollisions int
	// MaxFillFactor bounds the used-bucket ratio.
	MaxFillFactor float64
	// Logger traces rehashes at verbosity 2.
	Logger logr.Logger
}

type node[K comparable, V any] struct {
	key   K
	value V
	next  *node[K, V]
}

// Map is a hash table with separate chaining. Keys are located with a
// caller supplied 64 bit hash function and compared with ==.
type Map[K comparable, V any] struct {
	hash          func(K) uint64
	buckets       []*node[K, V]
	bucketSizes   []int
	size          int
	usedBuckets   int
	maxCollisions int
	maxFillFactor float64
	log           logr.Logger
}

// New returns an empty Map keyed by hfn with default tuning.
func New[K comparable, V any](hfn func(K) uint64) *Map[K, V] {
	return NewWithConfig[K, V](hfn, Config{})
}

// NewWithConfig returns an empty Map keyed by hfn, tuned by cfg.
func NewWithConfig[K comparable, V any](hfn func(K) uint64, cfg Config) *Map[K, V] {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	maxCollisions := cfg.MaxCollisions
	if maxCollisions <= 0 {
		maxCollisions = DefaultMaxCollisions
	}
	maxFillFactor := cfg.MaxFillFactor
	if maxFillFactor <= 0 {
		maxFillFactor = DefaultMaxFillFactor
	}
	logger := cfg.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}

	return &Map[K, V]{
		hash:          hfn,
		buckets:       make([]*node[K, V], capacity),
		bucketSizes:   make([]int, capacity),
		maxCollisions: maxCollisions,
		maxFillFactor: maxFillFactor,
		log:           logger,
	}
}

// NewString returns a Map for string keys hashed with a freshly salted
// murmur3 hasher.
func NewString[V any]() (*Map[string, V], error) {
	return NewStringWithConfig[V](Config{})
}

// NewStringWithConfig is NewString with explicit tuning.
func NewStringWithConfig[V any](cfg Config) (*Map[string, V], error) {
	salt, err := hash.Salt()
	if err != nil {
		return nil, err
	}
	h, err := hash.NewMurmur3Hasher(salt)
	if err != nil {
		return nil, err
	}

	return NewWithConfig[string, V](StringHash(h), cfg), nil
}

// StringHash adapts a hash.Hasher into a string key function.
func StringHash(h hash.Hasher) func(string) uint64 {
	return func(s string) uint64 {
		return h.Hash64([]byte(s))
	}
}

// Get returns the value stored under key.
// Fails with ErrKeyNotFound when key has no entry.
func (m *Map[K, V]) Get(key K) (V, error) {
	for n := m.buckets[m.index(key)]; n != nil; n = n.next {
		if n.key == key {
			return n.value, nil
		}
	}

	var zero V
	return zero, ErrKeyNotFound
}

// Contains reports whether key has an entry.
func (m *Map[K, V]) Contains(key K) bool {
	for n := m.buckets[m.index(key)]; n != nil; n = n.next {
		if n.key == key {
			return true
		}
	}
	return false
}

// Set stores value under key, overwriting in place when key is already
// present. Inserting a new key prepends it to its chain and may grow
// the bucket array.
func (m *Map[K, V]) Set(key K, value V) {
	i := m.index(key)
	for n := m.buckets[i]; n != nil; n = n.next {
		if n.key == key {
			n.value = value
			return
		}
	}

	m.buckets[i] = &node[K, V]{key: key, value: value, next: m.buckets[i]}
	if m.bucketSizes[i] == 0 {
		m.usedBuckets++
	}
	m.bucketSizes[i]++
	m.size++

	if m.bucketSizes[i] > m.maxCollisions || m.fillFactor() > m.maxFillFactor {
		m.rehash()
	}
}

// Remove unlinks key's entry from its chain and reports whether an
// entry was removed. The bucket array never shrinks.
func (m *Map[K, V]) Remove(key K) bool {
	i := m.index(key)

	var prev *node[K, V]
	for n := m.buckets[i]; n != nil; n = n.next {
		if n.key != key {
			prev = n
			continue
		}
		if prev == nil {
			m.buckets[i] = n.next
		} else {
			prev.next = n.next
		}
		m.size--
		m.bucketSizes[i]--
		if m.bucketSizes[i] == 0 {
			m.usedBuckets--
		}
		return true
	}
	return false
}

// Len returns the number of stored keys.
func (m *Map[K, V]) Len() int {
	return m.size
}

// BucketCount returns the current bucket array capacity.
func (m *Map[K, V]) BucketCount() int {
	return len(m.buckets)
}

// BucketSize returns the chain length of bucket i.
// Fails with ErrBucketIndex when i is outside [0, BucketCount()).
func (m *Map[K, V]) BucketSize(i int) (int, error) {
	if i < 0 || i >= len(m.buckets) {
		return 0, ErrBucketIndex
	}
	return m.bucketSizes[i], nil
}

func (m *Map[K, V]) index(key K) int {
	return int(m.hash(key) % uint64(len(m.buckets)))
}

func (m *Map[K, V]) fillFactor() float64 {
	return float64(m.usedBuckets) / float64(len(m.buckets))
}

// rehash moves every node into a bucket array of 2*capacity+1 slots.
// Nodes are relocated with a head prepend during a forward scan over
// the old buckets, so entries sharing a new bucket end up in reverse
// relative order. Total size is unchanged.
func (m *Map[K, V]) rehash() {
	oldCap := len(m.buckets)
	newCap := oldCap*2 + 1
	if newCap <= oldCap {
		newCap = oldCap + 1
	}

	buckets := make([]*node[K, V], newCap)
	sizes := make([]int, newCap)
	used := 0

	for _, n := range m.buckets {
		for n != nil {
			next := n.next
			i := int(m.hash(n.key) % uint64(newCap))
			n.next = buckets[i]
			buckets[i] = n
			if sizes[i] == 0 {
				used++
			}
			sizes[i]++
			n = next
		}
	}

	m.buckets = buckets
	m.bucketSizes = sizes
	m.usedBuckets = used

	m.log.V(2).Info("rehashed", "capacity", newCap, "size", m.size, "usedBuckets", used)
}
