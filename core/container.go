package core

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mshaverdo/assert"

	"github.com/go-radish/radish/message"
)

// errWrongType is returned when a command addresses a key that already
// holds a container of a different kind.
var errWrongType = errors.New("Unexpected container type")

// ParseKind maps a container type name, as accepted by SCAN's TYPE filter
// and returned by TYPE, back to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "string":
		return KindString, nil
	case "list":
		return KindList, nil
	case "set":
		return KindSet, nil
	case "hash":
		return KindHash, nil
	default:
		return 0, fmt.Errorf("Unexpected type '%s'", name)
	}
}

// Kind identifies which of the four typed containers a key holds. A
// container never changes Kind once created.
type Kind int

const (
	KindString Kind = iota
	KindList
	KindSet
	KindHash
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindHash:
		return "hash"
	default:
		return "unknown"
	}
}

// lockIDCounter hands out the monotonic identities lockAll orders by. A
// plain atomic counter is the portable stand-in spec.md's design notes
// sanction in place of the original's memory-address ordering.
var lockIDCounter uint64

func nextLockID() uint64 {
	return atomic.AddUint64(&lockIDCounter, 1)
}

// Container is a single keyspace entry: a typed payload guarded by its own
// reader-writer mutex, plus an optional absolute expiration time.
//
// Exactly one of str/list/set/hash is populated, selected by kind. The
// caller is responsible for holding mu in the appropriate mode before
// touching any of them -- Container itself enforces nothing beyond the
// Program Logic assertions on kind mismatch.
type Container struct {
	mu sync.RWMutex

	// id is this container's position in the global lock-ordering total
	// order; assigned once at creation and never reused.
	id uint64

	kind Kind

	str  []byte
	list []message.Value
	set  *orderedSet
	hash *orderedMap

	// expiresAt is the absolute expiration instant; the zero Time means
	// the container never expires.
	expiresAt time.Time
}

func newContainer(kind Kind) *Container {
	c := &Container{id: nextLockID(), kind: kind}
	switch kind {
	case KindString:
		c.str = nil
	case KindList:
		c.list = nil
	case KindSet:
		c.set = newOrderedSet()
	case KindHash:
		c.hash = newOrderedMap()
	default:
		panic("Program Logic error: unknown container kind")
	}
	return c
}

// Kind returns the container's type.
func (c *Container) Kind() Kind { return c.kind }

// ID returns the container's stable lock-ordering identity.
func (c *Container) ID() uint64 { return c.id }

// Str returns the string payload, panicking if this isn't a string
// container -- mirroring the teacher's Item.Str()/List()/Dict() panics on
// kind mismatch, which only ever fire on a programming error since callers
// must check Kind() (or go through the typed extractors) first.
func (c *Container) Str() []byte {
	assert.True(c.kind == KindString, "Program Logic error: Str() on a %s container", c.kind)
	return c.str
}

func (c *Container) setStr(b []byte) {
	assert.True(c.kind == KindString, "Program Logic error: setStr() on a %s container", c.kind)
	c.str = b
}

// List returns the list payload, panicking if this isn't a list container.
func (c *Container) List() []message.Value {
	assert.True(c.kind == KindList, "Program Logic error: List() on a %s container", c.kind)
	return c.list
}

func (c *Container) setList(l []message.Value) {
	assert.True(c.kind == KindList, "Program Logic error: setList() on a %s container", c.kind)
	c.list = l
}

// Set returns the set payload, panicking if this isn't a set container.
func (c *Container) Set() *orderedSet {
	assert.True(c.kind == KindSet, "Program Logic error: Set() on a %s container", c.kind)
	return c.set
}

func (c *Container) setSet(s *orderedSet) {
	assert.True(c.kind == KindSet, "Program Logic error: setSet() on a %s container", c.kind)
	c.set = s
}

// Hash returns the hash payload, panicking if this isn't a hash container.
func (c *Container) Hash() *orderedMap {
	assert.True(c.kind == KindHash, "Program Logic error: Hash() on a %s container", c.kind)
	return c.hash
}

// ExpiresAt returns the container's absolute expiration time and whether
// one is set at all.
func (c *Container) ExpiresAt() (t time.Time, ok bool) {
	if c.expiresAt.IsZero() {
		return time.Time{}, false
	}
	return c.expiresAt, true
}

// SetExpiresAt records t as the container's absolute expiration time. A
// zero Time clears the expiration. Callers must hold c.mu for writing.
func (c *Container) SetExpiresAt(t time.Time) {
	c.expiresAt = t
}

// ClearExpiresAt removes any expiration. Callers must hold c.mu for writing.
func (c *Container) ClearExpiresAt() {
	c.expiresAt = time.Time{}
}
