package core

import (
	"errors"
	"strings"

	"github.com/go-radish/radish/message"
)

var errOutOfIndex = errors.New("Out of index")

func (c *Core) listLen(a *args) (message.Value, error) {
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
	if cnt.Kind() != KindList {
		return message.Value{}, errWrongType
	}
	return message.Integer(int64(len(cnt.List()))), nil
}

// listPush implements LPUSH/RPUSH (onlyIfExists false) and LPUSHX/RPUSHX
// (onlyIfExists true, a no-op on an absent key).
func (c *Core) listPush(a *args, front, onlyIfExists bool) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	values := a.rest()

	var cnt *Container
	if onlyIfExists {
		var ok bool
		cnt, ok = c.ks.TryGet(key)
		if !ok {
			return message.Nil(), nil
		}
		if cnt.Kind() != KindList {
			return message.Value{}, errWrongType
		}
	} else {
		cnt, err = c.ks.GetOrCreate(key, KindList)
		if err != nil {
			return message.Value{}, err
		}
	}

	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	list := cnt.List()
	if front {
		for _, v := range values {
			list = append([]message.Value{v}, list...)
		}
	} else {
		list = append(list, values...)
	}
	cnt.setList(list)
	return message.Integer(int64(len(list))), nil
}

func (c *Core) listPop(a *args, front bool) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, err := c.ks.GetOrCreate(key, KindList)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	list := cnt.List()
	if len(list) == 0 {
		return message.Nil(), nil
	}

	var v message.Value
	if front {
		v, list = list[0], list[1:]
	} else {
		v, list = list[len(list)-1], list[:len(list)-1]
	}
	cnt.setList(list)
	return v, nil
}

func (c *Core) listRem(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	index, err := extractIndex(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, err := c.ks.GetOrCreate(key, KindList)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	list := cnt.List()
	if index >= len(list) {
		return message.Value{}, errOutOfIndex
	}
	v := list[index]
	cnt.setList(append(list[:index], list[index+1:]...))
	return v, nil
}

func (c *Core) listSet(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	index, err := extractIndex(a)
	if err != nil {
		return message.Value{}, err
	}
	value, err := extract(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, err := c.ks.GetOrCreate(key, KindList)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	list := cnt.List()
	if index >= len(list) {
		return message.Value{}, errOutOfIndex
	}
	old := list[index]
	list[index] = value
	return old, nil
}

func (c *Core) listIndex(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	index, err := extractIndex(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Value{}, errOutOfIndex
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	if cnt.Kind() != KindList {
		return message.Value{}, errWrongType
	}
	list := cnt.List()
	if index >= len(list) {
		return message.Value{}, errOutOfIndex
	}
	return list[index], nil
}

func (c *Core) listRange(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	start, err := extractIndex(a)
	if err != nil {
		return message.Value{}, err
	}
	stop, err := extractIndex(a)
	if err != nil {
		return message.Value{}, err
	}

	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Array(nil), nil
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	if cnt.Kind() != KindList {
		return message.Value{}, errWrongType
	}
	list := cnt.List()

	if start > len(list) {
		start = len(list)
	}
	end := stop + 1
	if end > len(list) {
		end = len(list)
	}
	if start >= end {
		return message.Array(nil), nil
	}
	out := make([]message.Value, end-start)
	copy(out, list[start:end])
	return message.Array(out), nil
}

func (c *Core) listInsert(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	dir, err := extractString(a)
	if err != nil {
		return message.Value{}, err
	}
	pivot, err := extract(a)
	if err != nil {
		return message.Value{}, err
	}
	value, err := extract(a)
	if err != nil {
		return message.Value{}, err
	}

	var shift int
	switch strings.ToLower(dir) {
	case "before":
		shift = 0
	case "after":
		shift = 1
	default:
		return message.Value{}, errors.New("Unexpected direction " + dir)
	}

	cnt, err := c.ks.GetOrCreate(key, KindList)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	list := cnt.List()

	pos := -1
	for i, v := range list {
		if v.Equal(pivot) {
			pos = i
			break
		}
	}
	if pos < 0 {
		return message.Integer(-1), nil
	}

	at := pos + shift
	list = append(list, message.Value{})
	copy(list[at+1:], list[at:])
	list[at] = value
	cnt.setList(list)
	return message.Integer(int64(len(list))), nil
}

func (c *Core) listTrim(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	start, err := extractInteger(a)
	if err != nil {
		return message.Value{}, err
	}
	stop, err := extractInteger(a)
	if err != nil {
		return message.Value{}, err
	}

	cnt, err := c.ks.GetOrCreate(key, KindList)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	list := cnt.List()
	n := len(list)

	s := int(start)
	if start < 0 {
		s = n + int(start)
	}
	if s < 0 {
		s = 0
	}
	if s > n {
		s = n
	}

	// end is the exclusive upper bound, clamped to n the same way
	// listRange clamps its end -- an over-length stop must not turn into
	// an out-of-bounds slice expression.
	end := int(stop) + 1
	if stop < 0 {
		end = n + int(stop) + 1
	}
	if end > n {
		end = n
	}

	if s >= end {
		cnt.setList(nil)
	} else {
		cnt.setList(append([]message.Value(nil), list[s:end]...))
	}
	return message.Ok(), nil
}
