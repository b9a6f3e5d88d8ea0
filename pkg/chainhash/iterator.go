package chainhash

// Entry is one key/value pair read off a bucket's chain.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// BucketIter is a restartable forward cursor over a single bucket's
// chain, head to tail, as the chain was laid out when the cursor was
// created. Mutating the table while a cursor is live is undefined
// behavior; the cursor does no guarding of its own.
type BucketIter[K comparable, V any] struct {
	head *node[K, V]
	next *node[K, V]
}

// Bucket returns a cursor over the chain at index i.
// Fails with ErrBucketIndex when i is outside [0, BucketCount()).
func (m *Map[K, V]) Bucket(i int) (*BucketIter[K, V], error) {
	if i < 0 || i >= len(m.buckets) {
		return nil, ErrBucketIndex
	}

	head := m.buckets[i]
	return &BucketIter[K, V]{head: head, next: head}, nil
}

// Next returns the next entry in the chain and false once the chain is
// exhausted.
func (it *BucketIter[K, V]) Next() (Entry[K, V], bool) {
	if it.next == nil {
		return Entry[K, V]{}, false
	}

	n := it.next
	it.next = n.next
	return Entry[K, V]{Key: n.key, Value: n.value}, true
}

// Reset rewinds the cursor to the chain head it was created at.
func (it *BucketIter[K, V]) Reset() {
	it.next = it.head
}
