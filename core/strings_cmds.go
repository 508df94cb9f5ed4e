package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-radish/radish/message"
)

var bitCountTable = [256]int{
	0, 1, 1, 2, 1, 2, 2, 3, 1, 2, 2, 3, 2, 3, 3, 4, 1, 2, 2, 3, 2, 3, 3, 4, 2, 3, 3, 4, 3, 4, 4, 5,
	1, 2, 2, 3, 2, 3, 3, 4, 2, 3, 3, 4, 3, 4, 4, 5, 2, 3, 3, 4, 3, 4, 4, 5, 3, 4, 4, 5, 4, 5, 5, 6,
	1, 2, 2, 3, 2, 3, 3, 4, 2, 3, 3, 4, 3, 4, 4, 5, 2, 3, 3, 4, 3, 4, 4, 5, 3, 4, 4, 5, 4, 5, 5, 6,
	2, 3, 3, 4, 3, 4, 4, 5, 3, 4, 4, 5, 4, 5, 5, 6, 3, 4, 4, 5, 4, 5, 5, 6, 4, 5, 5, 6, 5, 6, 6, 7,
	1, 2, 2, 3, 2, 3, 3, 4, 2, 3, 3, 4, 3, 4, 4, 5, 2, 3, 3, 4, 3, 4, 4, 5, 3, 4, 4, 5, 4, 5, 5, 6,
	2, 3, 3, 4, 3, 4, 4, 5, 3, 4, 4, 5, 4, 5, 5, 6, 3, 4, 4, 5, 4, 5, 5, 6, 4, 5, 5, 6, 5, 6, 6, 7,
	2, 3, 3, 4, 3, 4, 4, 5, 3, 4, 4, 5, 4, 5, 5, 6, 3, 4, 4, 5, 4, 5, 5, 6, 4, 5, 5, 6, 5, 6, 6, 7,
	3, 4, 4, 5, 4, 5, 5, 6, 4, 5, 5, 6, 5, 6, 6, 7, 4, 5, 5, 6, 5, 6, 6, 7, 5, 6, 6, 7, 6, 7, 7, 8,
}

// optionalInteger pops the next argument as a signed integer if one
// remains, or returns def if the argument list is exhausted -- the
// optional-count form INCR/INCRBY/DECR/DECRBY share.
func optionalInteger(a *args, def int64) (int64, error) {
	if a.len() == 0 {
		return def, nil
	}
	return extractInteger(a)
}

func (c *Core) stringsAppend(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	value, err := extractBuffer(a)
	if err != nil {
		return message.Value{}, err
	}

	cnt, err := c.ks.GetOrCreate(key, KindString)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()
	cnt.setStr(append(cnt.Str(), value...))
	return message.Integer(int64(len(cnt.Str()))), nil
}

func (c *Core) stringsGet(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Nil(), nil
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	if cnt.Kind() != KindString {
		return message.Value{}, errWrongType
	}
	return message.Buffer(append([]byte(nil), cnt.Str()...)), nil
}

func (c *Core) stringsSet(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	value, err := extractBuffer(a)
	if err != nil {
		return message.Value{}, err
	}

	keepttl := false
	var expireAt *time.Time
	var setIfExists *bool

	for a.len() > 0 {
		sub, err := extractString(a)
		if err != nil {
			break
		}
		switch strings.ToUpper(sub) {
		case "KEEPTTL":
			keepttl = true
		case "XX":
			t := true
			setIfExists = &t
		case "NX":
			f := false
			setIfExists = &f
		case "EX":
			seconds, err := extractUnsignedInteger(a)
			if err != nil {
				return message.Value{}, err
			}
			t := time.Now().Add(time.Duration(seconds) * time.Second)
			expireAt = &t
		case "PX":
			millis, err := extractUnsignedInteger(a)
			if err != nil {
				return message.Value{}, err
			}
			t := time.Now().Add(time.Duration(millis) * time.Millisecond)
			expireAt = &t
		default:
			return message.Value{}, fmt.Errorf("Unexpected argument '%s'", sub)
		}
	}

	shouldSet := func(existed bool) bool {
		if setIfExists == nil {
			return true
		}
		return *setIfExists == existed
	}

	var oldExpireAt time.Time
	var hadOldExpiry bool
	cnt, proceeded := c.ks.ReplaceConditional(key, shouldSet, func() *Container {
		nc := newContainer(KindString)
		nc.setStr(value)
		return nc
	})
	if !proceeded {
		return message.Nil(), nil
	}

	cnt.mu.Lock()
	if keepttl {
		oldExpireAt, hadOldExpiry = cnt.ExpiresAt()
	}
	if expireAt != nil {
		cnt.SetExpiresAt(*expireAt)
	} else if !keepttl {
		cnt.ClearExpiresAt()
	}
	cnt.mu.Unlock()

	if expireAt != nil {
		c.scheduleExpiry(key, oldExpireAt, hadOldExpiry, *expireAt)
	}
	return message.Ok(), nil
}

func (c *Core) stringsSetExImpl(key string, at time.Time, value []byte) (message.Value, error) {
	c.ks.ReplaceConditional(key, func(bool) bool { return true }, func() *Container {
		nc := newContainer(KindString)
		nc.setStr(value)
		nc.SetExpiresAt(at)
		return nc
	})
	c.expire.Schedule(key, at)
	return message.Ok(), nil
}

func (c *Core) stringsSetEx(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	seconds, err := extractUnsignedInteger(a)
	if err != nil {
		return message.Value{}, err
	}
	value, err := extractBuffer(a)
	if err != nil {
		return message.Value{}, err
	}
	return c.stringsSetExImpl(key, time.Now().Add(time.Duration(seconds)*time.Second), value)
}

func (c *Core) stringsPSetEx(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	millis, err := extractUnsignedInteger(a)
	if err != nil {
		return message.Value{}, err
	}
	value, err := extractBuffer(a)
	if err != nil {
		return message.Value{}, err
	}
	return c.stringsSetExImpl(key, time.Now().Add(time.Duration(millis)*time.Millisecond), value)
}

func (c *Core) stringsSetNx(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	value, err := extractBuffer(a)
	if err != nil {
		return message.Value{}, err
	}

	_, proceeded := c.ks.ReplaceConditional(key, func(existed bool) bool { return !existed }, func() *Container {
		nc := newContainer(KindString)
		nc.setStr(value)
		return nc
	})
	return message.Bool(proceeded), nil
}

func (c *Core) stringsGetSet(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	value, err := extractBuffer(a)
	if err != nil {
		return message.Value{}, err
	}

	cnt, ok := c.ks.TryGet(key)
	if !ok {
		_, err := c.ks.GetOrCreate(key, KindString)
		if err != nil {
			return message.Value{}, err
		}
		cnt, _ = c.ks.TryGet(key)
		cnt.mu.Lock()
		cnt.setStr(value)
		cnt.mu.Unlock()
		return message.Nil(), nil
	}

	cnt.mu.Lock()
	if cnt.Kind() != KindString {
		cnt.mu.Unlock()
		return message.Value{}, errWrongType
	}
	old := cnt.Str()
	oldExpireAt, hadExpiry := cnt.ExpiresAt()
	cnt.setStr(value)
	cnt.ClearExpiresAt()
	cnt.mu.Unlock()

	c.clearExpiry(key, oldExpireAt, hadExpiry)
	return message.Buffer(old), nil
}

func (c *Core) stringsLen(a *args) (message.Value, error) {
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
	if cnt.Kind() != KindString {
		return message.Value{}, errWrongType
	}
	return message.Integer(int64(len(cnt.Str()))), nil
}

func parseCounter(buf []byte) (int64, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	return strconv.ParseInt(string(buf), 10, 64)
}

func (c *Core) stringsCounter(a *args, sign int64, defaultDelta int64) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	delta, err := optionalInteger(a, defaultDelta)
	if err != nil {
		return message.Value{}, err
	}

	cnt, err := c.ks.GetOrCreate(key, KindString)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()

	number, err := parseCounter(cnt.Str())
	if err != nil {
		return message.Value{}, err
	}
	number += sign * delta
	cnt.setStr([]byte(strconv.FormatInt(number, 10)))
	return message.Integer(number), nil
}

func (c *Core) stringsIncrBy(a *args, singleStep bool) (message.Value, error) {
	return c.stringsCounter(a, 1, 1)
}

func (c *Core) stringsDecrBy(a *args, singleStep bool) (message.Value, error) {
	return c.stringsCounter(a, -1, 1)
}

// stringsIncrByFloat parses and stores a real decimal float, correcting a
// confirmed bug in the original (which ran INCRBYFLOAT through the
// integer counter path and discarded any fractional delta).
func (c *Core) stringsIncrByFloat(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	delta, err := extractFloat(a)
	if err != nil {
		return message.Value{}, err
	}

	cnt, err := c.ks.GetOrCreate(key, KindString)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()

	var current float64
	if len(cnt.Str()) > 0 {
		current, err = strconv.ParseFloat(string(cnt.Str()), 64)
		if err != nil {
			return message.Value{}, err
		}
	}
	number := current + delta
	cnt.setStr([]byte(strconv.FormatFloat(number, 'f', -1, 64)))
	return message.Float(number), nil
}

func (c *Core) stringsBitCount(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	start, err := optionalInteger(a, 0)
	if err != nil {
		return message.Value{}, err
	}
	end, err := optionalInteger(a, -1)
	if err != nil {
		return message.Value{}, err
	}

	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Integer(0), nil
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	if cnt.Kind() != KindString {
		return message.Value{}, errWrongType
	}
	buf := cnt.Str()

	s := resolveStart(start, len(buf))
	e := resolveEndInclusive(end, len(buf))
	if s >= len(buf) || s >= e {
		return message.Integer(0), nil
	}

	var sum int64
	for _, b := range buf[s:e] {
		sum += int64(bitCountTable[b])
	}
	return message.Integer(sum), nil
}

func resolveStart(start int64, length int) int {
	if start < 0 {
		start += int64(length)
	}
	if start < 0 {
		start = 0
	}
	return int(start)
}

// resolveEndInclusive converts an inclusive, possibly negative end index
// into an exclusive Go slice bound.
func resolveEndInclusive(end int64, length int) int {
	if end < 0 {
		end += int64(length)
	}
	e := int(end) + 1
	if e > length {
		e = length
	}
	if e < 0 {
		e = 0
	}
	return e
}

func (c *Core) stringsMGet(a *args) (message.Value, error) {
	var keys []string
	for a.len() > 0 {
		key, err := extractKey(a)
		if err != nil {
			break
		}
		keys = append(keys, key)
	}

	cnts := c.ks.TryGetMany(keys)
	unlock := lockAll(nil, cnts)
	defer unlock()
	out := make([]message.Value, len(cnts))
	for i, cnt := range cnts {
		if cnt != nil && cnt.Kind() == KindString {
			out[i] = message.Buffer(append([]byte(nil), cnt.Str()...))
		} else {
			out[i] = message.Nil()
		}
	}
	return message.Array(out), nil
}

func (c *Core) stringsMSet(a *args) (message.Value, error) {
	var keys []string
	var values [][]byte
	for a.len() > 1 {
		key, err := extractKey(a)
		if err != nil {
			break
		}
		value, err := extractBuffer(a)
		if err != nil {
			return message.Value{}, err
		}
		keys = append(keys, key)
		values = append(values, value)
	}

	cnts, err := c.ks.GetOrCreateMany(keys, KindString)
	if err != nil {
		return message.Value{}, err
	}
	oldExpireAts := make([]time.Time, len(cnts))
	hadExpiries := make([]bool, len(cnts))
	unlock := lockAll(cnts, nil)
	for i, cnt := range cnts {
		oldExpireAts[i], hadExpiries[i] = cnt.ExpiresAt()
		cnt.setStr(values[i])
		cnt.ClearExpiresAt()
	}
	unlock()
	for i := range cnts {
		c.clearExpiry(keys[i], oldExpireAts[i], hadExpiries[i])
	}
	return message.Ok(), nil
}

func (c *Core) stringsBitOp(a *args) (message.Value, error) {
	op, err := extractString(a)
	if err != nil {
		return message.Value{}, err
	}
	switch strings.ToUpper(op) {
	case "AND", "OR", "XOR":
		return c.stringsBitOpCommutative(strings.ToUpper(op), a)
	case "NOT":
		return c.stringsBitOpNot(a)
	default:
		return message.Value{}, fmt.Errorf("Unsupported operation '%s'", op)
	}
}

func (c *Core) stringsBitOpNot(a *args) (message.Value, error) {
	dest, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	src, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}

	srcCnt, _ := c.ks.TryGet(src)
	var srcBuf []byte
	if srcCnt != nil {
		srcCnt.mu.RLock()
		srcBuf = append([]byte(nil), srcCnt.Str()...)
		srcCnt.mu.RUnlock()
	}

	out := make([]byte, len(srcBuf))
	for i, b := range srcBuf {
		out[i] = ^b
	}

	destCnt, err := c.ks.GetOrCreate(dest, KindString)
	if err != nil {
		return message.Value{}, err
	}
	destCnt.mu.Lock()
	oldExpireAt, hadExpiry := destCnt.ExpiresAt()
	destCnt.setStr(out)
	destCnt.ClearExpiresAt()
	destCnt.mu.Unlock()
	c.clearExpiry(dest, oldExpireAt, hadExpiry)

	return message.Integer(int64(len(out))), nil
}

func (c *Core) stringsBitOpCommutative(op string, a *args) (message.Value, error) {
	dest, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	var srcKeys []string
	for a.len() > 0 {
		key, err := extractKey(a)
		if err != nil {
			break
		}
		srcKeys = append(srcKeys, key)
	}

	srcBufs := make([][]byte, len(srcKeys))
	maxLen := 0
	minLen := -1
	for i, key := range srcKeys {
		cnt, ok := c.ks.TryGet(key)
		if ok {
			cnt.mu.RLock()
			srcBufs[i] = append([]byte(nil), cnt.Str()...)
			cnt.mu.RUnlock()
		}
		if len(srcBufs[i]) > maxLen {
			maxLen = len(srcBufs[i])
		}
		if minLen == -1 || len(srcBufs[i]) < minLen {
			minLen = len(srcBufs[i])
		}
	}
	if minLen == -1 {
		minLen = 0
	}

	out := make([]byte, maxLen)
	if len(srcBufs) > 0 {
		copy(out, srcBufs[0])
	}

	switch op {
	case "AND":
		// Shorter sources count as zero-padded, so every byte past the
		// shortest source ANDs down to zero.
		for _, buf := range srcBufs {
			for i := 0; i < minLen; i++ {
				out[i] &= buf[i]
			}
		}
		for i := minLen; i < len(out); i++ {
			out[i] = 0
		}
	case "OR":
		for _, buf := range srcBufs {
			for i := range buf {
				out[i] |= buf[i]
			}
		}
	case "XOR":
		// Start from zero rather than from the first-source seed above, so
		// each source is XORed in exactly once.
		out = make([]byte, maxLen)
		for _, buf := range srcBufs {
			for i := range buf {
				out[i] ^= buf[i]
			}
		}
	}

	destCnt, err := c.ks.GetOrCreate(dest, KindString)
	if err != nil {
		return message.Value{}, err
	}
	destCnt.mu.Lock()
	oldExpireAt, hadExpiry := destCnt.ExpiresAt()
	destCnt.setStr(out)
	destCnt.ClearExpiresAt()
	destCnt.mu.Unlock()
	c.clearExpiry(dest, oldExpireAt, hadExpiry)

	return message.Integer(int64(len(out))), nil
}

func (c *Core) stringsSetBit(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	offset, err := extractInteger(a)
	if err != nil {
		return message.Value{}, err
	}
	bit, err := extractBit(a)
	if err != nil {
		return message.Value{}, err
	}
	if offset < 0 || offset >= 1<<32 {
		return message.Value{}, fmt.Errorf("offset is out of range [0; 2^32)")
	}

	byteIndex := int(offset / 8)
	bitIndex := uint(offset % 8)
	mask := byte(0b1000_0000 >> bitIndex)

	cnt, err := c.ks.GetOrCreate(key, KindString)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()

	buf := cnt.Str()
	if byteIndex >= len(buf) {
		grown := make([]byte, byteIndex+1)
		copy(grown, buf)
		buf = grown
	}
	original := buf[byteIndex] & mask
	if bit {
		buf[byteIndex] |= mask
	} else {
		buf[byteIndex] &^= mask
	}
	cnt.setStr(buf)

	return message.Bool(original != 0), nil
}

func (c *Core) stringsGetBit(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	offset, err := extractInteger(a)
	if err != nil {
		return message.Value{}, err
	}
	if offset < 0 || offset >= 1<<32 {
		return message.Value{}, fmt.Errorf("offset is out of range [0; 2^32)")
	}

	byteIndex := int(offset / 8)
	bitIndex := uint(offset % 8)
	mask := byte(0b1000_0000 >> bitIndex)

	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Bool(false), nil
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	buf := cnt.Str()
	if byteIndex >= len(buf) {
		return message.Bool(false), nil
	}
	return message.Bool(buf[byteIndex]&mask != 0), nil
}

func (c *Core) stringsGetRange(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	start, err := extractInteger(a)
	if err != nil {
		return message.Value{}, err
	}
	end, err := extractInteger(a)
	if err != nil {
		return message.Value{}, err
	}

	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Buffer(nil), nil
	}
	cnt.mu.RLock()
	defer cnt.mu.RUnlock()
	buf := cnt.Str()

	s := resolveStart(start, len(buf))
	e := resolveEndInclusive(end, len(buf))
	if s >= len(buf) || s >= e {
		return message.Buffer(nil), nil
	}
	return message.Buffer(append([]byte(nil), buf[s:e]...)), nil
}

func (c *Core) stringsSetRange(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	start, err := extractIndex(a)
	if err != nil {
		return message.Value{}, err
	}
	value, err := extractBuffer(a)
	if err != nil {
		return message.Value{}, err
	}
	end := start + len(value)

	cnt, err := c.ks.GetOrCreate(key, KindString)
	if err != nil {
		return message.Value{}, err
	}
	cnt.mu.Lock()
	defer cnt.mu.Unlock()

	buf := cnt.Str()
	if len(buf) < end {
		grown := make([]byte, end)
		copy(grown, buf)
		buf = grown
	}
	copy(buf[start:end], value)
	cnt.setStr(buf)
	return message.Integer(int64(len(buf))), nil
}
