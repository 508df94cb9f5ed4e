package core

import (
	"sort"
	"sync"
	"time"
)

// expireController tracks which keys are due to expire and when, the Go
// stand-in for the original's BTreeMap<SystemTime, HashSet<Key>>. Callers
// schedule a key's expiration when they set a TTL and may unschedule the
// old instant when it is cleared or moved; an entry left behind (SET and
// SETEX replacing a key leave one) is harmless, because the reaper
// (collectExpired) re-checks each container's own expiry before removing
// the key. The reaper drains everything due each time it is run.
type expireController struct {
	mu     sync.Mutex
	byTime map[time.Time]map[string]struct{}
	times  []time.Time // kept sorted ascending

	awaker func(time.Time)
}

func newExpireController() *expireController {
	return &expireController{byTime: make(map[time.Time]map[string]struct{})}
}

// SetAwaker registers the callback invoked after every Schedule with the
// earliest pending expiration, so the server can arrange to run the
// reaper at or after that instant. Unschedule and drainDue do not invoke
// it. It is always invoked without the controller's own mutex held.
func (ec *expireController) SetAwaker(f func(time.Time)) {
	ec.mu.Lock()
	ec.awaker = f
	ec.mu.Unlock()
}

// Schedule records that key is due to expire at "at". Any previous
// schedule for key is left in place by this call alone -- callers that
// move a key's expiration must Unschedule the old instant first.
func (ec *expireController) Schedule(key string, at time.Time) {
	ec.mu.Lock()
	set, ok := ec.byTime[at]
	if !ok {
		set = make(map[string]struct{})
		ec.byTime[at] = set
		ec.insertTimeLocked(at)
	}
	set[key] = struct{}{}
	earliest, any := ec.earliestLocked()
	awaker := ec.awaker
	ec.mu.Unlock()

	if any && awaker != nil {
		awaker(earliest)
	}
}

// Unschedule removes key's entry at "at", e.g. because its TTL was
// cleared, overwritten with a new TTL, or the key was deleted.
func (ec *expireController) Unschedule(key string, at time.Time) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	set, ok := ec.byTime[at]
	if !ok {
		return
	}
	delete(set, key)
	if len(set) == 0 {
		delete(ec.byTime, at)
		ec.removeTimeLocked(at)
	}
}

func (ec *expireController) insertTimeLocked(at time.Time) {
	i := sort.Search(len(ec.times), func(i int) bool { return !ec.times[i].Before(at) })
	ec.times = append(ec.times, time.Time{})
	copy(ec.times[i+1:], ec.times[i:])
	ec.times[i] = at
}

func (ec *expireController) removeTimeLocked(at time.Time) {
	i := sort.Search(len(ec.times), func(i int) bool { return !ec.times[i].Before(at) })
	if i < len(ec.times) && ec.times[i].Equal(at) {
		ec.times = append(ec.times[:i], ec.times[i+1:]...)
	}
}

func (ec *expireController) earliestLocked() (time.Time, bool) {
	if len(ec.times) == 0 {
		return time.Time{}, false
	}
	return ec.times[0], true
}

// Earliest returns the soonest pending expiration, if any. Callers use
// this to re-arm a wake-up after a reap, since a single debounced timer
// only fires for the deadline it was armed with and must be told about
// whatever is next in line.
func (ec *expireController) Earliest() (time.Time, bool) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.earliestLocked()
}

// drainDue removes and returns every key scheduled at or before
// now+1µs, along with that pivot instant. The 1µs slack mirrors the
// original's expire_keys, which treats "now" as inclusive of anything
// scheduled for exactly the current instant; reaping in terms of a fixed
// pivot instead of a moving "now" keeps one drain call's results
// internally consistent.
func (ec *expireController) drainDue(now time.Time) (pivot time.Time, keys []string) {
	pivot = now.Add(time.Microsecond)

	ec.mu.Lock()
	defer ec.mu.Unlock()

	i := 0
	for ; i < len(ec.times); i++ {
		if ec.times[i].After(pivot) {
			break
		}
		for key := range ec.byTime[ec.times[i]] {
			keys = append(keys, key)
		}
		delete(ec.byTime, ec.times[i])
	}
	ec.times = ec.times[i:]

	return pivot, keys
}

// collectExpired drains everything due as of now and removes each
// resulting key from ks, but only if the container's actual current
// expiration is still at or before the drain pivot -- guarding against
// the key having been touched (TTL moved or cleared) between scheduling
// and reaping. It returns the keys actually removed.
func collectExpired(ks *Keyspace, ec *expireController, now time.Time) []string {
	pivot, due := ec.drainDue(now)
	if len(due) == 0 {
		return nil
	}

	removed := make([]string, 0, len(due))
	for _, key := range due {
		c, ok := ks.TryGet(key)
		if !ok {
			continue
		}

		c.mu.RLock()
		expiresAt, hasExpiry := c.ExpiresAt()
		c.mu.RUnlock()

		if !hasExpiry || expiresAt.After(pivot) {
			continue
		}

		if ks.Remove(key) {
			removed = append(removed, key)
		}
	}
	return removed
}
