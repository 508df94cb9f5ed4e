package core

import "sort"

// lockAll acquires a consistent set of container locks across potentially
// overlapping write and read sets, and returns a function that releases
// them in reverse order. It is the deadlock-free multi-key locking
// primitive every multi-key command (MGET, MSET, SMOVE, SDIFFSTORE, ...)
// goes through instead of locking containers one at a time.
//
// Containers are ordered by their stable lock id (nextLockID(), assigned
// at creation) rather than by memory address -- the portable substitute
// for the original's BTreeMap<*mut Inner, Mode> total order. When a
// container appears in both writes and reads, the write lock wins: it is
// acquired once, for writing, and never separately for reading.
//
// nil entries (an absent key in a read set, e.g. a TryGetMany miss) are
// skipped.
func lockAll(writes []*Container, reads []*Container) func() {
	type entry struct {
		c     *Container
		write bool
	}

	byID := make(map[uint64]*entry)
	for _, c := range writes {
		if c == nil {
			continue
		}
		byID[c.id] = &entry{c: c, write: true}
	}
	for _, c := range reads {
		if c == nil {
			continue
		}
		if e, ok := byID[c.id]; ok {
			_ = e
			continue
		}
		byID[c.id] = &entry{c: c, write: false}
	}

	entries := make([]*entry, 0, len(byID))
	for _, e := range byID {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].c.id < entries[j].c.id })

	for _, e := range entries {
		if e.write {
			e.c.mu.Lock()
		} else {
			e.c.mu.RLock()
		}
	}

	return func() {
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			if e.write {
				e.c.mu.Unlock()
			} else {
				e.c.mu.RUnlock()
			}
		}
	}
}
