package core

import "github.com/go-radish/radish/message"

// orderedSet is a set of message.Value preserving insertion order, with
// positional access by index. message.Value is not Go-comparable (it may
// hold a slice), so membership is tracked by each value's canonical
// msgpack encoding rather than by using Value directly as a map key.
type orderedSet struct {
	order []message.Value
	index map[string]int // canonical bytes -> position in order
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[string]int)}
}

// Add inserts v if absent, returning whether it was actually added.
func (s *orderedSet) Add(v message.Value) bool {
	key := v.Canonical()
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.order)
	s.order = append(s.order, v)
	return true
}

// Contains reports whether v is a member.
func (s *orderedSet) Contains(v message.Value) bool {
	_, ok := s.index[v.Canonical()]
	return ok
}

// Remove deletes v, preserving the relative order of the remaining
// elements, and reports whether v was present.
func (s *orderedSet) Remove(v message.Value) bool {
	key := v.Canonical()
	pos, ok := s.index[key]
	if !ok {
		return false
	}
	s.order = append(s.order[:pos], s.order[pos+1:]...)
	delete(s.index, key)
	for i := pos; i < len(s.order); i++ {
		s.index[s.order[i].Canonical()] = i
	}
	return true
}

// RemoveAt removes and returns the element at position i by swapping it
// with the last element -- the O(1) removal SPOP relies on. It does not
// preserve the order of the remaining elements.
func (s *orderedSet) RemoveAt(i int) message.Value {
	v := s.order[i]
	last := len(s.order) - 1
	s.order[i] = s.order[last]
	s.index[s.order[i].Canonical()] = i
	s.order = s.order[:last]
	delete(s.index, v.Canonical())
	return v
}

// Len returns the number of members.
func (s *orderedSet) Len() int { return len(s.order) }

// At returns the member at position i in insertion (or post-swap) order.
func (s *orderedSet) At(i int) message.Value { return s.order[i] }

// Members returns a copy of the members in their current order.
func (s *orderedSet) Members() []message.Value {
	out := make([]message.Value, len(s.order))
	copy(out, s.order)
	return out
}

// orderedMap is a mapping from message.Value to message.Value preserving
// insertion order, with positional access by index -- used for Hash
// containers, keyed by field.
type orderedMap struct {
	keys   []message.Value
	values []message.Value
	index  map[string]int // canonical(key) -> position
}

func newOrderedMap() *orderedMap {
	return &orderedMap{index: make(map[string]int)}
}

// Set inserts or overwrites the value for key, reporting whether this was
// a fresh insertion (true) or an overwrite of an existing field (false).
func (m *orderedMap) Set(key, value message.Value) bool {
	k := key.Canonical()
	if pos, ok := m.index[k]; ok {
		m.values[pos] = value
		return false
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
	return true
}

// Get returns the value for key and whether it was present.
func (m *orderedMap) Get(key message.Value) (message.Value, bool) {
	pos, ok := m.index[key.Canonical()]
	if !ok {
		return message.Value{}, false
	}
	return m.values[pos], true
}

// Delete removes key, preserving the order of the remaining fields, and
// reports whether it was present.
func (m *orderedMap) Delete(key message.Value) bool {
	k := key.Canonical()
	pos, ok := m.index[k]
	if !ok {
		return false
	}
	m.keys = append(m.keys[:pos], m.keys[pos+1:]...)
	m.values = append(m.values[:pos], m.values[pos+1:]...)
	delete(m.index, k)
	for i := pos; i < len(m.keys); i++ {
		m.index[m.keys[i].Canonical()] = i
	}
	return true
}

// Len returns the number of fields.
func (m *orderedMap) Len() int { return len(m.keys) }

// At returns the field name and value at position i.
func (m *orderedMap) At(i int) (message.Value, message.Value) { return m.keys[i], m.values[i] }

// Keys returns a copy of the field names in order.
func (m *orderedMap) Keys() []message.Value {
	out := make([]message.Value, len(m.keys))
	copy(out, m.keys)
	return out
}
