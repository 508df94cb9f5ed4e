package core

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/go-radish/radish/message"
)

func valuesOf(ss ...string) []message.Value {
	out := make([]message.Value, len(ss))
	for i, s := range ss {
		out[i] = buf(s)
	}
	return out
}

func TestListPushPopLen(t *testing.T) {
	c := NewCore()

	if got := exec(c, "RPUSH", buf("l"), buf("a"), buf("b")); got.IntegerValue() != 2 {
		t.Fatalf("RPUSH: got %v, want 2", got)
	}
	if got := exec(c, "LPUSH", buf("l"), buf("z")); got.IntegerValue() != 3 {
		t.Fatalf("LPUSH: got %v, want 3", got)
	}
	if got := exec(c, "LLEN", buf("l")); got.IntegerValue() != 3 {
		t.Fatalf("LLEN: got %v, want 3", got)
	}

	got := exec(c, "LRANGE", buf("l"), message.Integer(0), message.Integer(10))
	if diff := deep.Equal(got.ArrayValue(), valuesOf("z", "a", "b")); diff != nil {
		t.Errorf("LRANGE after pushes: %v", diff)
	}

	if got := exec(c, "LPOP", buf("l")); string(got.BufferValue()) != "z" {
		t.Fatalf("LPOP: got %v, want z", got)
	}
	if got := exec(c, "RPOP", buf("l")); string(got.BufferValue()) != "b" {
		t.Fatalf("RPOP: got %v, want b", got)
	}
}

func TestListPopEmptyReturnsNil(t *testing.T) {
	c := NewCore()
	if got := exec(c, "LPOP", buf("missing")); got.Kind() != message.KindNil {
		t.Fatalf("LPOP missing: got %v, want Nil", got)
	}
}

func TestListPushXOnMissingKeyIsNoop(t *testing.T) {
	c := NewCore()
	if got := exec(c, "LPUSHX", buf("missing"), buf("v")); got.Kind() != message.KindNil {
		t.Fatalf("LPUSHX on missing key: got %v, want Nil", got)
	}
	if got := exec(c, "EXISTS", buf("missing")); got.IntegerValue() != 0 {
		t.Errorf("LPUSHX on missing key created it")
	}
}

func TestListSetIndexGetRange(t *testing.T) {
	c := NewCore()
	exec(c, "RPUSH", buf("l"), buf("a"), buf("b"), buf("c"))

	if got := exec(c, "LINDEX", buf("l"), message.Integer(1)); string(got.BufferValue()) != "b" {
		t.Fatalf("LINDEX 1: got %v, want b", got)
	}

	old := exec(c, "LSET", buf("l"), message.Integer(1), buf("B"))
	if string(old.BufferValue()) != "b" {
		t.Fatalf("LSET returned old value: got %v, want b", old)
	}
	if got := exec(c, "LINDEX", buf("l"), message.Integer(1)); string(got.BufferValue()) != "B" {
		t.Fatalf("LINDEX after LSET: got %v, want B", got)
	}

	if got := exec(c, "LINDEX", buf("l"), message.Integer(99)); got.Kind() != message.KindError {
		t.Errorf("LINDEX out of range: got %v, want Error", got)
	}
}

func TestListInsertBeforeAfterAndMissingPivot(t *testing.T) {
	c := NewCore()
	exec(c, "RPUSH", buf("l"), buf("a"), buf("c"))

	if got := exec(c, "LINSERT", buf("l"), buf("BEFORE"), buf("c"), buf("b")); got.IntegerValue() != 3 {
		t.Fatalf("LINSERT BEFORE: got %v, want 3", got)
	}
	got := exec(c, "LRANGE", buf("l"), message.Integer(0), message.Integer(10))
	if diff := deep.Equal(got.ArrayValue(), valuesOf("a", "b", "c")); diff != nil {
		t.Errorf("LRANGE after LINSERT BEFORE: %v", diff)
	}

	if got := exec(c, "LINSERT", buf("l"), buf("AFTER"), buf("c"), buf("d")); got.IntegerValue() != 4 {
		t.Fatalf("LINSERT AFTER: got %v, want 4", got)
	}

	if got := exec(c, "LINSERT", buf("l"), buf("BEFORE"), buf("nosuch"), buf("x")); got.IntegerValue() != -1 {
		t.Errorf("LINSERT missing pivot: got %v, want -1", got)
	}
}

func TestListTrim(t *testing.T) {
	c := NewCore()
	exec(c, "RPUSH", buf("l"), buf("a"), buf("b"), buf("c"), buf("d"), buf("e"))

	if got := exec(c, "LTRIM", buf("l"), message.Integer(1), message.Integer(-2)); got.Kind() != message.KindOk {
		t.Fatalf("LTRIM: got %v", got)
	}
	got := exec(c, "LRANGE", buf("l"), message.Integer(0), message.Integer(10))
	if diff := deep.Equal(got.ArrayValue(), valuesOf("b", "c", "d")); diff != nil {
		t.Errorf("LRANGE after LTRIM: %v", diff)
	}
}

// LTRIM with a stop index past the end of the list must clamp rather
// than produce an out-of-bounds slice expression.
func TestListTrimStopBeyondLengthDoesNotPanic(t *testing.T) {
	c := NewCore()
	exec(c, "RPUSH", buf("l"), buf("1"), buf("2"), buf("3"))

	if got := exec(c, "LTRIM", buf("l"), message.Integer(0), message.Integer(5)); got.Kind() != message.KindOk {
		t.Fatalf("LTRIM 0 5 on a 3-element list: got %v", got)
	}
	got := exec(c, "LRANGE", buf("l"), message.Integer(0), message.Integer(10))
	if diff := deep.Equal(got.ArrayValue(), valuesOf("1", "2", "3")); diff != nil {
		t.Errorf("LRANGE after LTRIM 0 5: %v", diff)
	}
}

func TestListRemByIndex(t *testing.T) {
	c := NewCore()
	exec(c, "RPUSH", buf("l"), buf("a"), buf("b"), buf("c"))

	got := exec(c, "LREM", buf("l"), message.Integer(1))
	if string(got.BufferValue()) != "b" {
		t.Fatalf("LREM index 1: got %v, want b", got)
	}
	rest := exec(c, "LRANGE", buf("l"), message.Integer(0), message.Integer(10))
	if diff := deep.Equal(rest.ArrayValue(), valuesOf("a", "c")); diff != nil {
		t.Errorf("LRANGE after LREM: %v", diff)
	}
}
