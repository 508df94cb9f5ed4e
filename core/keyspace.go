package core

import (
	"sync"
	"time"
)

// Keyspace is the single mapping from key to container. It is guarded by
// one reader-writer mutex: handle acquisition normally takes a read,
// container creation escalates to a write. Insertion order of keys is
// preserved in keyOrder and is what SCAN/KEYS iterate positionally.
type Keyspace struct {
	mu        sync.RWMutex
	byKey     map[string]*Container
	keyOrder  []string
	positions map[string]int // key -> index into keyOrder, kept in sync with byKey
}

// NewKeyspace constructs an empty keyspace.
func NewKeyspace() *Keyspace {
	return &Keyspace{
		byKey:     make(map[string]*Container),
		positions: make(map[string]int),
	}
}

// TryGet returns the container stored at key, if any.
func (ks *Keyspace) TryGet(key string) (*Container, bool) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	c, ok := ks.byKey[key]
	return c, ok
}

// TryGetMany returns one container per key, in the same order, with a nil
// slot for each absent key. A single keyspace read lock covers the whole
// batch.
func (ks *Keyspace) TryGetMany(keys []string) []*Container {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	out := make([]*Container, len(keys))
	for i, key := range keys {
		out[i] = ks.byKey[key]
	}
	return out
}

// GetOrCreate returns the container at key, creating one of kind if
// absent. It fails with errWrongType if key already holds a different
// kind of container.
func (ks *Keyspace) GetOrCreate(key string, kind Kind) (*Container, error) {
	if c, ok := ks.TryGet(key); ok {
		if c.Kind() != kind {
			return nil, errWrongType
		}
		return c, nil
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()
	if c, ok := ks.byKey[key]; ok {
		if c.Kind() != kind {
			return nil, errWrongType
		}
		return c, nil
	}

	c := newContainer(kind)
	ks.insertLocked(key, c)
	return c, nil
}

// GetOrCreateMany is GetOrCreate over a batch of keys, all created or
// fetched under a single keyspace write lock -- matching the original's
// get_containers, which always escalates to a write lock so every
// container in the batch is allocated consistently.
func (ks *Keyspace) GetOrCreateMany(keys []string, kind Kind) ([]*Container, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	out := make([]*Container, len(keys))
	for i, key := range keys {
		c, ok := ks.byKey[key]
		if !ok {
			c = newContainer(kind)
			ks.insertLocked(key, c)
		} else if c.Kind() != kind {
			return nil, errWrongType
		}
		out[i] = c
	}
	return out, nil
}

// insertLocked adds a freshly created container under key. Caller must
// hold ks.mu for writing.
func (ks *Keyspace) insertLocked(key string, c *Container) {
	ks.byKey[key] = c
	ks.positions[key] = len(ks.keyOrder)
	ks.keyOrder = append(ks.keyOrder, key)
}

// GetOrCreateConditional is GetOrCreate gated by shouldSet, evaluated
// against whether key already exists, under the same write lock that
// performs the creation -- the atomic building block SET's NX/XX options
// need so the existence check and the write can't race with a concurrent
// command on the same key.
func (ks *Keyspace) GetOrCreateConditional(key string, kind Kind, shouldSet func(existed bool) bool) (cnt *Container, proceeded bool, err error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	c, existed := ks.byKey[key]
	if !shouldSet(existed) {
		return nil, false, nil
	}
	if existed {
		if c.Kind() != kind {
			return nil, false, errWrongType
		}
		return c, true, nil
	}

	c = newContainer(kind)
	ks.insertLocked(key, c)
	return c, true, nil
}

// ReplaceConditional is the write side of SET: gated by shouldSet
// (evaluated against whether key already exists), it installs a brand
// new container in place of whatever was there -- regardless of its
// prior Kind -- without disturbing key's position in iteration order if
// it already existed. make is called only once shouldSet has approved
// the write.
func (ks *Keyspace) ReplaceConditional(key string, shouldSet func(existed bool) bool, make func() *Container) (cnt *Container, proceeded bool) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	_, existed := ks.byKey[key]
	if !shouldSet(existed) {
		return nil, false
	}

	c := make()
	if existed {
		ks.byKey[key] = c
	} else {
		ks.insertLocked(key, c)
	}
	return c, true
}

// Remove deletes key, reporting whether it was present.
func (ks *Keyspace) Remove(key string) bool {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	return ks.removeLocked(key)
}

func (ks *Keyspace) removeLocked(key string) bool {
	pos, ok := ks.positions[key]
	if !ok {
		return false
	}
	delete(ks.byKey, key)
	delete(ks.positions, key)
	ks.keyOrder = append(ks.keyOrder[:pos], ks.keyOrder[pos+1:]...)
	for i := pos; i < len(ks.keyOrder); i++ {
		ks.positions[ks.keyOrder[i]] = i
	}
	return true
}

// Rename moves the container at oldKey to newKey, preserving its
// expiration. It reports the container's expiration time (if any) so the
// caller can re-announce it to the expiration controller, and whether
// oldKey existed at all.
func (ks *Keyspace) Rename(oldKey, newKey string) (expiresAt time.Time, hadExpiry bool, ok bool) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	c, exists := ks.byKey[oldKey]
	if !exists {
		return time.Time{}, false, false
	}
	ks.removeLocked(oldKey)

	if old, existed := ks.byKey[newKey]; existed {
		_ = old
		ks.removeLocked(newKey)
	}
	ks.insertLocked(newKey, c)

	expiresAt, hadExpiry = c.ExpiresAt()
	return expiresAt, hadExpiry, true
}

// Len returns the number of keys currently stored.
func (ks *Keyspace) Len() int {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return len(ks.keyOrder)
}

// KeyAt returns the key and container at position i in insertion order,
// and whether i was in range at the time of the call.
func (ks *Keyspace) KeyAt(i int) (string, *Container, bool) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	if i < 0 || i >= len(ks.keyOrder) {
		return "", nil, false
	}
	key := ks.keyOrder[i]
	return key, ks.byKey[key], true
}

// Keys returns every key currently stored, in insertion order.
func (ks *Keyspace) Keys() []string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	out := make([]string, len(ks.keyOrder))
	copy(out, ks.keyOrder)
	return out
}
