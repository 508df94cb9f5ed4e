package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-radish/radish/message"
)

func (c *Core) hashSet(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, err := c.ks.GetOrCreate(key, KindHash)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	var count int64
	for a.len() >= 2 {
		field, _ := extract(a)
		value, _ := extract(a)
		cnt.Hash().Set(field, value)
		count++
	}
	return message.Integer(count), nil
}

func (c *Core) hashSetNx(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	field, err := extract(a)
	if err != nil {
		return message.Value{}, err
	}
	value, err := extract(a)
	if err != nil {
		return message.Value{}, err
	}

	cnt, err := c.ks.GetOrCreate(key, KindHash)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	if _, exists := cnt.Hash().Get(field); exists {
		return message.Bool(false), nil
	}
	cnt.Hash().Set(field, value)
	return message.Bool(true), nil
}

func (c *Core) hashDel(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	fields := a.rest()

	cnt, err := c.ks.GetOrCreate(key, KindHash)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	var count int64
	for _, f := range fields {
		if cnt.Hash().Delete(f) {
			count++
		}
	}
	return message.Integer(count), nil
}

func (c *Core) hashGet(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	field, err := extract(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Nil(), nil
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	if cnt.Kind() != KindHash {
		return message.Value{}, errWrongType
	}
	v, exists := cnt.Hash().Get(field)
	if !exists {
		return message.Nil(), nil
	}
	return v, nil
}

func (c *Core) hashMGet(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	fields := a.rest()

	cnt, ok := c.ks.TryGet(key)
	if !ok {
		out := make([]message.Value, len(fields))
		for i := range out {
			out[i] = message.Nil()
		}
		return message.Array(out), nil
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	if cnt.Kind() != KindHash {
		return message.Value{}, errWrongType
	}
	out := make([]message.Value, len(fields))
	for i, f := range fields {
		if v, exists := cnt.Hash().Get(f); exists {
			out[i] = v
		} else {
			out[i] = message.Nil()
		}
	}
	return message.Array(out), nil
}

func (c *Core) hashGetAll(a *args) (message.Value, error) {
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
	if cnt.Kind() != KindHash {
		return message.Value{}, errWrongType
	}
	h := cnt.Hash()
	out := make([]message.Value, 0, 2*h.Len())
	for i := 0; i < h.Len(); i++ {
		k, v := h.At(i)
		out = append(out, k, v)
	}
	return message.Array(out), nil
}

func (c *Core) hashExists(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	field, err := extract(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Bool(false), nil
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	if cnt.Kind() != KindHash {
		return message.Value{}, errWrongType
	}
	_, exists := cnt.Hash().Get(field)
	return message.Bool(exists), nil
}

func (c *Core) hashKeys(a *args) (message.Value, error) {
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
	if cnt.Kind() != KindHash {
		return message.Value{}, errWrongType
	}
	return message.Array(cnt.Hash().Keys()), nil
}

func (c *Core) hashValues(a *args) (message.Value, error) {
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
	if cnt.Kind() != KindHash {
		return message.Value{}, errWrongType
	}
	h := cnt.Hash()
	out := make([]message.Value, h.Len())
	for i := range out {
		_, out[i] = h.At(i)
	}
	return message.Array(out), nil
}

func (c *Core) hashLen(a *args) (message.Value, error) {
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
	if cnt.Kind() != KindHash {
		return message.Value{}, errWrongType
	}
	return message.Integer(int64(cnt.Hash().Len())), nil
}

func (c *Core) hashStrlen(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	field, err := extract(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Nil(), nil
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	if cnt.Kind() != KindHash {
		return message.Value{}, errWrongType
	}
	v, exists := cnt.Hash().Get(field)
	if !exists || v.Kind() != message.KindBuffer {
		return message.Nil(), nil
	}
	return message.Integer(int64(len(v.BufferValue()))), nil
}

func (c *Core) hashIncrBy(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	field, err := extract(a)
	if err != nil {
		return message.Value{}, err
	}
	delta, err := extractInteger(a)
	if err != nil {
		return message.Value{}, err
	}

	cnt, err := c.ks.GetOrCreate(key, KindHash)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	h := cnt.Hash()

	current, exists := h.Get(field)
	if !exists {
		current = message.Integer(0)
	} else if current.Kind() != message.KindInteger {
		return message.Value{}, fmt.Errorf("Unexpected field type")
	}
	number := current.IntegerValue() + delta
	h.Set(field, message.Integer(number))
	return message.Integer(number), nil
}

func (c *Core) hashIncrByFloat(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	field, err := extract(a)
	if err != nil {
		return message.Value{}, err
	}
	delta, err := extractFloat(a)
	if err != nil {
		return message.Value{}, err
	}

	cnt, err := c.ks.GetOrCreate(key, KindHash)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	h := cnt.Hash()

	current, exists := h.Get(field)
	if !exists {
		current = message.Float(0)
	} else if current.Kind() != message.KindFloat {
		return message.Value{}, fmt.Errorf("Unexpected field type")
	}
	number := current.FloatValue() + delta
	result := message.Float(number)
	h.Set(field, result)
	return result, nil
}

func (c *Core) hashScan(a *args) (message.Value, error) {
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
	if cnt.Kind() != KindHash {
		return message.Value{}, errWrongType
	}
	h := cnt.Hash()

	end := start + maxCheck
	next := end
	var fields []message.Value
	for i := start; i < end; i++ {
		if i >= h.Len() {
			next = 0
			break
		}
		k, _ := h.At(i)
		if pattern != nil {
			var text string
			if k.Kind() == message.KindBuffer {
				text = string(k.BufferValue())
			} else {
				text = k.String()
			}
			if !pattern.MatchString(text) {
				continue
			}
		}
		fields = append(fields, k)
	}

	return message.Array([]message.Value{message.Integer(int64(next)), message.Array(fields)}), nil
}
