package core

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/go-radish/radish/message"
)

func (c *Core) setCard(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Integer(0), nil
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	if cnt.Kind() != KindSet {
		return message.Value{}, errWrongType
	}
	return message.Integer(int64(cnt.Set().Len())), nil
}

func (c *Core) setMembers(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Array(nil), nil
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	if cnt.Kind() != KindSet {
		return message.Value{}, errWrongType
	}
	return message.Array(cnt.Set().Members()), nil
}

func (c *Core) setIsMember(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	member, err := extract(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Integer(0), nil
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	if cnt.Kind() != KindSet {
		return message.Value{}, errWrongType
	}
	if cnt.Set().Contains(member) {
		return message.Integer(1), nil
	}
	return message.Integer(0), nil
}

func (c *Core) setAdd(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	members := a.rest()

	cnt, err := c.ks.GetOrCreate(key, KindSet)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	var count int64
	for _, m := range members {
		if cnt.Set().Add(m) {
			count++
		}
	}
	return message.Integer(count), nil
}

func (c *Core) setRem(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	members := a.rest()

	cnt, err := c.ks.GetOrCreate(key, KindSet)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	var count int64
	for _, m := range members {
		if cnt.Set().Remove(m) {
			count++
		}
	}
	return message.Integer(count), nil
}

func (c *Core) setPop(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	count, err := optionalIndex(a, 1)
	if err != nil {
		return message.Value{}, err
	}

	cnt, err := c.ks.GetOrCreate(key, KindSet)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	set := cnt.Set()

	var out []message.Value
	for i := 0; i < count; i++ {
		if set.Len() == 0 {
			break
		}
		idx := rand.Intn(set.Len())
		out = append(out, set.RemoveAt(idx))
	}
	return message.Array(out), nil
}

func (c *Core) setMove(a *args) (message.Value, error) {
	source, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	destination, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	member, err := extract(a)
	if err != nil {
		return message.Value{}, err
	}

	cnts, err := c.ks.GetOrCreateMany([]string{source, destination}, KindSet)
	if err != nil {
		return message.Value{}, err
	}
	unlock := lockAll(cnts, nil)
	defer unlock()

	if !cnts[0].Set().Remove(member) {
		return message.Integer(0), nil
	}
	cnts[1].Set().Add(member)
	return message.Integer(1), nil
}

func setDiffOp(sets []*orderedSet) []message.Value {
	if len(sets) == 0 {
		return nil
	}
	var out []message.Value
	for _, v := range sets[0].Members() {
		found := false
		for _, s := range sets[1:] {
			if s.Contains(v) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, v)
		}
	}
	return out
}

func setInterOp(sets []*orderedSet) []message.Value {
	if len(sets) == 0 {
		return nil
	}
	var out []message.Value
	for _, v := range sets[0].Members() {
		all := true
		for _, s := range sets[1:] {
			if !s.Contains(v) {
				all = false
				break
			}
		}
		if all {
			out = append(out, v)
		}
	}
	return out
}

func setUnionOp(sets []*orderedSet) []message.Value {
	seen := newOrderedSet()
	for _, s := range sets {
		for _, v := range s.Members() {
			seen.Add(v)
		}
	}
	return seen.Members()
}

const (
	setDiff = iota
	setInter
	setUnion
)

// setAlgebra implements SDIFF/SINTER/SUNION and their *STORE variants. All
// involved containers -- sources, and the destination when store is true
// -- are acquired write-locked through a single lockAll call, matching
// the original's set_lock_containers, which write-locks every set it
// touches even when only reading from it.
func (c *Core) setAlgebra(a *args, op int, store bool) (message.Value, error) {
	var destKey string
	if store {
		var err error
		destKey, err = extractKey(a)
		if err != nil {
			return message.Value{}, err
		}
	}

	first, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	keys := []string{first}
	for a.len() > 0 {
		key, err := extractKey(a)
		if err != nil {
			break
		}
		keys = append(keys, key)
	}

	allKeys := keys
	if store {
		allKeys = append([]string{destKey}, keys...)
	}
	cnts, err := c.ks.GetOrCreateMany(allKeys, KindSet)
	if err != nil {
		return message.Value{}, err
	}
	unlock := lockAll(cnts, nil)
	defer unlock()

	var destCnt *Container
	srcCnts := cnts
	if store {
		destCnt = cnts[0]
		srcCnts = cnts[1:]
	}

	sets := make([]*orderedSet, len(srcCnts))
	for i, cnt := range srcCnts {
		sets[i] = cnt.Set()
	}

	var result []message.Value
	switch op {
	case setDiff:
		result = setDiffOp(sets)
	case setInter:
		result = setInterOp(sets)
	case setUnion:
		result = setUnionOp(sets)
	}

	if store {
		newSet := newOrderedSet()
		for _, v := range result {
			newSet.Add(v)
		}
		oldExpireAt, hadExpiry := destCnt.ExpiresAt()
		destCnt.setSet(newSet)
		destCnt.ClearExpiresAt()
		c.clearExpiry(destKey, oldExpireAt, hadExpiry)
		return message.Integer(int64(newSet.Len())), nil
	}
	return message.Array(result), nil
}

func (c *Core) setScan(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	start, err := extractIndex(a)
	if err != nil {
		return message.Value{}, err
	}

	var pattern *regexp.Regexp
	maxCheck := 100

	for a.len() > 0 {
		sub, err := extractString(a)
		if err != nil {
			break
		}
		switch strings.ToUpper(sub) {
		case "MATCH":
			p, err := extractString(a)
			if err != nil {
				return message.Value{}, err
			}
			pattern, err = regexp.Compile(p)
			if err != nil {
				return message.Value{}, err
			}
		case "COUNT":
			maxCheck, err = extractIndex(a)
			if err != nil {
				return message.Value{}, err
			}
		default:
			return message.Value{}, fmt.Errorf("Unexpected argument '%s'", sub)
		}
	}

	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Array([]message.Value{message.Integer(0), message.Array(nil)}), nil
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	if cnt.Kind() != KindSet {
		return message.Value{}, errWrongType
	}
	set := cnt.Set()

	end := start + maxCheck
	next := end
	var values []message.Value
	for i := start; i < end; i++ {
		if i >= set.Len() {
			next = 0
			break
		}
		v := set.At(i)
		if pattern != nil {
			var text string
			if v.Kind() == message.KindBuffer {
				text = string(v.BufferValue())
			} else {
				text = v.String()
			}
			if !pattern.MatchString(text) {
				continue
			}
		}
		values = append(values, v)
	}

	return message.Array([]message.Value{message.Integer(int64(next)), message.Array(values)}), nil
}

// optionalIndex pops the next argument as a non-negative index if one
// remains, or returns def if the argument list is exhausted.
func optionalIndex(a *args, def int) (int, error) {
	if a.len() == 0 {
		return def, nil
	}
	return extractIndex(a)
}
