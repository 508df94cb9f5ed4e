package core

import (
	"errors"

	"github.com/go-radish/radish/message"
)

// dispatch maps a command name to its handler, the Go analogue of the
// original's execute() match block. Unknown commands -- including the
// names the original left unimplemented (DUMP, OBJECT, MIGRATE, ...),
// except PERSIST, which is handled here -- fall through to the same
// "Unsupported command" error.
func (c *Core) dispatch(cmd message.Command) (message.Value, error) {
	a := newArgs(cmd.Arguments)

	switch cmd.Name() {
	case "NOW":
		return c.keysNow(a)
	case "PNOW":
		return c.keysPNow(a)
	case "DEL":
		return c.keysDel(a)
	case "KEYS":
		return c.keysKeys(a)
	case "EXISTS":
		return c.keysExists(a)
	case "RENAME":
		return c.keysRename(a)
	case "EXPIRE":
		return c.keysExpire(a)
	case "EXPIREAT":
		return c.keysExpireAt(a)
	case "PEXPIRE":
		return c.keysPExpire(a)
	case "PEXPIREAT":
		return c.keysPExpireAt(a)
	case "PERSIST":
		return c.keysPersist(a)
	case "PTTL":
		return c.keysPTTL(a)
	case "TTL":
		return c.keysTTL(a)
	case "TYPE":
		return c.keysType(a)
	case "SCAN":
		return c.keysScan(a)

	case "APPEND":
		return c.stringsAppend(a)
	case "GET":
		return c.stringsGet(a)
	case "GETSET":
		return c.stringsGetSet(a)
	case "STRLEN":
		return c.stringsLen(a)
	case "BITCOUNT":
		return c.stringsBitCount(a)
	case "BITOP":
		return c.stringsBitOp(a)
	case "DECR", "DECRBY":
		return c.stringsDecrBy(a, cmd.Name() == "DECR")
	case "GETBIT":
		return c.stringsGetBit(a)
	case "GETRANGE":
		return c.stringsGetRange(a)
	case "INCR", "INCRBY":
		return c.stringsIncrBy(a, cmd.Name() == "INCR")
	case "INCRBYFLOAT":
		return c.stringsIncrByFloat(a)
	case "MGET":
		return c.stringsMGet(a)
	case "MSET":
		return c.stringsMSet(a)
	case "PSETEX":
		return c.stringsPSetEx(a)
	case "SET":
		return c.stringsSet(a)
	case "SETBIT":
		return c.stringsSetBit(a)
	case "SETEX":
		return c.stringsSetEx(a)
	case "SETNX":
		return c.stringsSetNx(a)
	case "SETRANGE":
		return c.stringsSetRange(a)

	case "LLEN":
		return c.listLen(a)
	case "LPOP":
		return c.listPop(a, true)
	case "RPOP":
		return c.listPop(a, false)
	case "LREM":
		return c.listRem(a)
	case "LSET":
		return c.listSet(a)
	case "LPUSH":
		return c.listPush(a, true, false)
	case "RPUSH":
		return c.listPush(a, false, false)
	case "LPUSHX":
		return c.listPush(a, true, true)
	case "RPUSHX":
		return c.listPush(a, false, true)
	case "LINDEX":
		return c.listIndex(a)
	case "LRANGE":
		return c.listRange(a)
	case "LINSERT":
		return c.listInsert(a)
	case "LTRIM":
		return c.listTrim(a)

	case "SADD":
		return c.setAdd(a)
	case "SREM":
		return c.setRem(a)
	case "SPOP":
		return c.setPop(a)
	case "SSCAN":
		return c.setScan(a)
	case "SCARD":
		return c.setCard(a)
	case "SMOVE":
		return c.setMove(a)
	case "SMEMBERS":
		return c.setMembers(a)
	case "SISMEMBER":
		return c.setIsMember(a)
	case "SDIFF":
		return c.setAlgebra(a, setDiff, false)
	case "SINTER":
		return c.setAlgebra(a, setInter, false)
	case "SUNION":
		return c.setAlgebra(a, setUnion, false)
	case "SDIFFSTORE":
		return c.setAlgebra(a, setDiff, true)
	case "SINTERSTORE":
		return c.setAlgebra(a, setInter, true)
	case "SUNIONSTORE":
		return c.setAlgebra(a, setUnion, true)

	case "HSET", "HMSET":
		return c.hashSet(a)
	case "HSETNX":
		return c.hashSetNx(a)
	case "HDEL":
		return c.hashDel(a)
	case "HGET":
		return c.hashGet(a)
	case "HGETALL":
		return c.hashGetAll(a)
	case "HEXISTS":
		return c.hashExists(a)
	case "HKEYS":
		return c.hashKeys(a)
	case "HVALUES":
		return c.hashValues(a)
	case "HLEN":
		return c.hashLen(a)
	case "HSTRLEN":
		return c.hashStrlen(a)
	case "HINCRBY":
		return c.hashIncrBy(a)
	case "HINCRBYFLOAT":
		return c.hashIncrByFloat(a)
	case "HMGET":
		return c.hashMGet(a)
	case "HSCAN":
		return c.hashScan(a)

	case "AUTHORS":
		return c.authors(a)
	case "VERSION":
		return c.version(a)
	case "LICENSE":
		return c.license(a)
	case "HELP", "":
		return c.help(a)

	default:
		return message.Value{}, errors.New("Unsupported command")
	}
}
