package core

import (
	"time"

	"github.com/go-radish/radish/message"
)

// Core bundles the keyspace and its expiration controller, and is the
// single receiver every command handler hangs off of. A server wires
// Core.Execute to each connection and Core.SetExpireAwaker to its own
// debounced reaper timer.
type Core struct {
	ks     *Keyspace
	expire *expireController
}

// NewCore constructs an empty Core -- no persisted state survives
// between processes.
func NewCore() *Core {
	return &Core{
		ks:     NewKeyspace(),
		expire: newExpireController(),
	}
}

// SetExpireAwaker registers the callback invoked with the earliest
// pending expiration each time an expiration is scheduled, so a server
// can schedule CollectExpired at or after that instant instead of polling.
func (c *Core) SetExpireAwaker(f func(time.Time)) {
	c.expire.SetAwaker(f)
}

// CollectExpired reaps every key due to expire as of now, returning the
// keys actually removed. Servers call this from the awaker callback (or
// on a fallback interval) rather than the command-handling path.
func (c *Core) CollectExpired(now time.Time) []string {
	return collectExpired(c.ks, c.expire, now)
}

// NextExpiry reports the soonest pending expiration, if any. A server
// calls this after every CollectExpired pass to re-arm its wake-up timer
// for whatever expiry is next in line -- the debounced timer only knows
// about the deadline it was last armed with.
func (c *Core) NextExpiry() (time.Time, bool) {
	return c.expire.Earliest()
}

// scheduleExpiry moves key's expiration to at, updating both the
// container and the expire controller. An old expiry for key, if
// supplied, is unscheduled first.
func (c *Core) scheduleExpiry(key string, old time.Time, hadOld bool, at time.Time) {
	if hadOld {
		c.expire.Unschedule(key, old)
	}
	c.expire.Schedule(key, at)
}

// clearExpiry unschedules key's current expiry, if any.
func (c *Core) clearExpiry(key string, old time.Time, hadOld bool) {
	if hadOld {
		c.expire.Unschedule(key, old)
	}
}

// Execute dispatches a single command to its handler, wrapping any
// handler error into a Value of kind Error -- the one place command
// failures turn into wire-level Values, mirroring the original's
// Result<Value, String> -> Value collapse at the end of execute().
func (c *Core) Execute(cmd message.Command) message.Value {
	v, err := c.dispatch(cmd)
	if err != nil {
		return message.Error(err.Error())
	}
	return v
}
