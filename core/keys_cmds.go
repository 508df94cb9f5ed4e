package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-radish/radish/message"
)

func (c *Core) keysNow(a *args) (message.Value, error) {
	return message.Integer(time.Now().Unix()), nil
}

func (c *Core) keysPNow(a *args) (message.Value, error) {
	return message.Integer(time.Now().UnixNano() / int64(time.Millisecond)), nil
}

func (c *Core) keysDel(a *args) (message.Value, error) {
	var removed int64
	for a.len() > 0 {
		key, err := extractKey(a)
		if err != nil {
			break
		}
		if cnt, ok := c.ks.TryGet(key); ok {
			expiresAt, hadExpiry := cnt.ExpiresAt()
			if c.ks.Remove(key) {
				c.clearExpiry(key, expiresAt, hadExpiry)
				removed++
			}
		}
	}
	return message.Integer(removed), nil
}

func (c *Core) keysKeys(a *args) (message.Value, error) {
	patternBytes, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	pattern, err := regexp.Compile(string(patternBytes))
	if err != nil {
		return message.Value{}, err
	}

	var out []message.Value
	for _, key := range c.ks.Keys() {
		if pattern.MatchString(key) {
			out = append(out, message.String(key))
		}
	}
	return message.Array(out), nil
}

func (c *Core) keysExists(a *args) (message.Value, error) {
	var count int64
	for a.len() > 0 {
		key, err := extractKey(a)
		if err != nil {
			break
		}
		if _, ok := c.ks.TryGet(key); ok {
			count++
		}
	}
	return message.Integer(count), nil
}

func (c *Core) keysRename(a *args) (message.Value, error) {
	oldKey, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	newKey, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}

	expiresAt, hadExpiry, ok := c.ks.Rename(oldKey, newKey)
	if !ok {
		return message.Value{}, fmt.Errorf("key '%s' not found", oldKey)
	}
	if hadExpiry {
		c.expire.Unschedule(oldKey, expiresAt)
		c.expire.Schedule(newKey, expiresAt)
	}
	return message.Ok(), nil
}

func (c *Core) keysType(a *args) (message.Value, error) {
	var keys []string
	for a.len() > 0 {
		key, err := extractKey(a)
		if err != nil {
			break
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return message.Value{}, fmt.Errorf("TYPE key")
	}

	cnts := c.ks.TryGetMany(keys)
	types := make([]message.Value, len(cnts))
	for i, cnt := range cnts {
		if cnt == nil {
			types[i] = message.Nil()
			continue
		}
		types[i] = message.String(cnt.Kind().String())
	}
	if len(types) == 1 {
		return types[0], nil
	}
	return message.Array(types), nil
}

func (c *Core) keysExpirationTime(a *args, toInteger func(time.Duration) int64) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Integer(-2), nil
	}

	cnt.mu.RLock()
	expiresAt, hasExpiry := cnt.ExpiresAt()
	cnt.mu.RUnlock()

	if !hasExpiry {
		return message.Integer(-1), nil
	}
	ttl := time.Until(expiresAt)
	if ttl < 0 {
		ttl = 0
	}
	return message.Integer(toInteger(ttl)), nil
}

func (c *Core) keysPTTL(a *args) (message.Value, error) {
	return c.keysExpirationTime(a, func(d time.Duration) int64 { return d.Milliseconds() })
}

// keysTTL truncates toward zero rather than rounding, so a key set to
// expire in 1s can report a TTL of 0 a moment later -- matching
// original_source's Duration::as_secs() truncation exactly.
func (c *Core) keysTTL(a *args) (message.Value, error) {
	return c.keysExpirationTime(a, func(d time.Duration) int64 { return int64(d.Seconds()) })
}

func (c *Core) keysExpireImpl(key string, at time.Time) (message.Value, error) {
	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Bool(false), nil
	}

	cnt.mu.Lock()
	oldAt, hadExpiry := cnt.ExpiresAt()
	cnt.SetExpiresAt(at)
	cnt.mu.Unlock()

	c.scheduleExpiry(key, oldAt, hadExpiry, at)
	return message.Bool(true), nil
}

func (c *Core) keysExpire(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	seconds, err := extractUnsignedInteger(a)
	if err != nil {
		return message.Value{}, err
	}
	return c.keysExpireImpl(key, time.Now().Add(time.Duration(seconds)*time.Second))
}

func (c *Core) keysExpireAt(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	seconds, err := extractUnsignedInteger(a)
	if err != nil {
		return message.Value{}, err
	}
	return c.keysExpireImpl(key, time.Unix(int64(seconds), 0))
}

func (c *Core) keysPExpire(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	millis, err := extractUnsignedInteger(a)
	if err != nil {
		return message.Value{}, err
	}
	return c.keysExpireImpl(key, time.Now().Add(time.Duration(millis)*time.Millisecond))
}

func (c *Core) keysPExpireAt(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	millis, err := extractUnsignedInteger(a)
	if err != nil {
		return message.Value{}, err
	}
	return c.keysExpireImpl(key, time.Unix(0, int64(millis)*int64(time.Millisecond)))
}

// keysPersist removes any expiration from key, reporting whether one was
// actually cleared. It has no original_source counterpart -- PERSIST is
// left unimplemented there -- so it is grounded on the shape of
// keysExpireImpl, the existing expiration-mutation handler.
func (c *Core) keysPersist(a *args) (message.Value, error) {
	key, err := extractKey(a)
	if err != nil {
		return message.Value{}, err
	}
	cnt, ok := c.ks.TryGet(key)
	if !ok {
		return message.Bool(false), nil
	}

	cnt.mu.Lock()
	oldAt, hadExpiry := cnt.ExpiresAt()
	if hadExpiry {
		cnt.ClearExpiresAt()
	}
	cnt.mu.Unlock()

	if hadExpiry {
		c.expire.Unschedule(key, oldAt)
	}
	return message.Bool(hadExpiry), nil
}

func (c *Core) keysScan(a *args) (message.Value, error) {
	start, err := extractIndex(a)
	if err != nil {
		return message.Value{}, err
	}

	var pattern *regexp.Regexp
	var kindFilter *Kind
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
		case "TYPE":
			t, err := extractString(a)
			if err != nil {
				return message.Value{}, err
			}
			k, err := ParseKind(t)
			if err != nil {
				return message.Value{}, err
			}
			kindFilter = &k
		default:
			return message.Value{}, fmt.Errorf("Unexpected argument '%s'", sub)
		}
	}

	end := start + maxCheck
	next := end
	var keys []message.Value
	for i := start; i < end; i++ {
		key, cnt, ok := c.ks.KeyAt(i)
		if !ok {
			next = 0
			break
		}
		if kindFilter != nil && cnt.Kind() != *kindFilter {
			continue
		}
		if pattern != nil && !pattern.MatchString(key) {
			continue
		}
		keys = append(keys, message.String(key))
	}

	return message.Array([]message.Value{message.Integer(int64(next)), message.Array(keys)}), nil
}
