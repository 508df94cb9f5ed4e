package core

import (
	"testing"

	"github.com/go-radish/radish/message"
)

func TestHashSetGetDel(t *testing.T) {
	c := NewCore()

	if got := exec(c, "HSET", buf("h"), buf("f1"), buf("v1"), buf("f2"), buf("v2")); got.IntegerValue() != 2 {
		t.Fatalf("HSET: got %v, want 2", got)
	}
	if got := exec(c, "HGET", buf("h"), buf("f1")); string(got.BufferValue()) != "v1" {
		t.Fatalf("HGET f1: got %v, want v1", got)
	}
	if got := exec(c, "HGET", buf("h"), buf("missing")); got.Kind() != message.KindNil {
		t.Fatalf("HGET missing field: got %v, want Nil", got)
	}
	if got := exec(c, "HLEN", buf("h")); got.IntegerValue() != 2 {
		t.Fatalf("HLEN: got %v, want 2", got)
	}
	if got := exec(c, "HDEL", buf("h"), buf("f1"), buf("nosuch")); got.IntegerValue() != 1 {
		t.Fatalf("HDEL: got %v, want 1", got)
	}
	if got := exec(c, "HLEN", buf("h")); got.IntegerValue() != 1 {
		t.Fatalf("HLEN after HDEL: got %v, want 1", got)
	}
}

// HEXISTS returns Bool, unlike SISMEMBER/SMOVE's Integer(0/1) -- both
// preserved exactly as the corresponding original_source functions return
// them, rather than unified onto one Value kind.
func TestHashExistsReturnsBool(t *testing.T) {
	c := NewCore()
	exec(c, "HSET", buf("h"), buf("f"), buf("v"))

	got := exec(c, "HEXISTS", buf("h"), buf("f"))
	if got.Kind() != message.KindBool || !got.BoolValue() {
		t.Fatalf("HEXISTS present field: got %v, want Bool(true)", got)
	}
	got = exec(c, "HEXISTS", buf("h"), buf("nosuch"))
	if got.Kind() != message.KindBool || got.BoolValue() {
		t.Fatalf("HEXISTS missing field: got %v, want Bool(false)", got)
	}
}

func TestHashSetNx(t *testing.T) {
	c := NewCore()
	if got := exec(c, "HSETNX", buf("h"), buf("f"), buf("v1")); !got.BoolValue() {
		t.Fatalf("HSETNX new field: got %v, want true", got)
	}
	if got := exec(c, "HSETNX", buf("h"), buf("f"), buf("v2")); got.BoolValue() {
		t.Fatalf("HSETNX existing field: got %v, want false", got)
	}
	if got := exec(c, "HGET", buf("h"), buf("f")); string(got.BufferValue()) != "v1" {
		t.Errorf("value after blocked HSETNX: got %v, want v1", got)
	}
}

func TestHashGetAllKeysValues(t *testing.T) {
	c := NewCore()
	exec(c, "HSET", buf("h"), buf("a"), buf("1"), buf("b"), buf("2"))

	all := exec(c, "HGETALL", buf("h")).ArrayValue()
	if len(all) != 4 {
		t.Fatalf("HGETALL: got %v, want 4 elements", all)
	}

	keys := exec(c, "HKEYS", buf("h")).ArrayValue()
	if len(keys) != 2 {
		t.Fatalf("HKEYS: got %v, want 2 elements", keys)
	}
	values := exec(c, "HVALUES", buf("h")).ArrayValue()
	if len(values) != 2 {
		t.Fatalf("HVALUES: got %v, want 2 elements", values)
	}
}

func TestHashMGet(t *testing.T) {
	c := NewCore()
	exec(c, "HSET", buf("h"), buf("a"), buf("1"))

	got := exec(c, "HMGET", buf("h"), buf("a"), buf("missing")).ArrayValue()
	if len(got) != 2 || string(got[0].BufferValue()) != "1" || got[1].Kind() != message.KindNil {
		t.Fatalf("HMGET: got %v", got)
	}
}

func TestHashIncrBy(t *testing.T) {
	c := NewCore()
	if got := exec(c, "HINCRBY", buf("h"), buf("n"), message.Integer(5)); got.IntegerValue() != 5 {
		t.Fatalf("HINCRBY on absent field: got %v, want 5", got)
	}
	if got := exec(c, "HINCRBY", buf("h"), buf("n"), message.Integer(-2)); got.IntegerValue() != 3 {
		t.Fatalf("HINCRBY again: got %v, want 3", got)
	}
}

func TestHashIncrByFloat(t *testing.T) {
	c := NewCore()
	got := exec(c, "HINCRBYFLOAT", buf("h"), buf("n"), message.Float(2.5))
	if got.Kind() != message.KindFloat || got.FloatValue() != 2.5 {
		t.Fatalf("HINCRBYFLOAT on absent field: got %v, want 2.5", got)
	}
	got = exec(c, "HINCRBYFLOAT", buf("h"), buf("n"), message.Float(0.5))
	if got.FloatValue() != 3 {
		t.Fatalf("HINCRBYFLOAT again: got %v, want 3", got)
	}
}

func TestHashStrlen(t *testing.T) {
	c := NewCore()
	exec(c, "HSET", buf("h"), buf("f"), buf("hello"))
	if got := exec(c, "HSTRLEN", buf("h"), buf("f")); got.IntegerValue() != 5 {
		t.Fatalf("HSTRLEN: got %v, want 5", got)
	}
	if got := exec(c, "HSTRLEN", buf("h"), buf("nosuch")); got.Kind() != message.KindNil {
		t.Fatalf("HSTRLEN missing field: got %v, want Nil", got)
	}
}

func TestHashScanPagesThroughFields(t *testing.T) {
	c := NewCore()
	exec(c, "HSET", buf("h"), buf("a"), buf("1"), buf("b"), buf("2"))

	got := exec(c, "HSCAN", buf("h"), message.Integer(0), buf("COUNT"), message.Integer(100))
	arr := got.ArrayValue()
	if arr[0].IntegerValue() != 0 {
		t.Fatalf("HSCAN cursor: got %v, want 0", arr[0])
	}
	if len(arr[1].ArrayValue()) != 2 {
		t.Fatalf("HSCAN fields: got %v, want 2", arr[1].ArrayValue())
	}
}
