package core

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/go-radish/radish/message"
)

func membersSet(t *testing.T, got message.Value) map[string]bool {
	t.Helper()
	out := make(map[string]bool)
	for _, v := range got.ArrayValue() {
		out[string(v.BufferValue())] = true
	}
	return out
}

func TestSetAddRemCardIsMember(t *testing.T) {
	c := NewCore()

	if got := exec(c, "SADD", buf("s"), buf("a"), buf("b"), buf("a")); got.IntegerValue() != 2 {
		t.Fatalf("SADD with duplicate: got %v, want 2", got)
	}
	if got := exec(c, "SCARD", buf("s")); got.IntegerValue() != 2 {
		t.Fatalf("SCARD: got %v, want 2", got)
	}
	if got := exec(c, "SISMEMBER", buf("s"), buf("a")); got.Kind() != message.KindInteger || got.IntegerValue() != 1 {
		t.Fatalf("SISMEMBER a: got %v, want Integer(1)", got)
	}
	if got := exec(c, "SISMEMBER", buf("s"), buf("z")); got.IntegerValue() != 0 {
		t.Fatalf("SISMEMBER z: got %v, want Integer(0)", got)
	}
	if got := exec(c, "SREM", buf("s"), buf("a")); got.IntegerValue() != 1 {
		t.Fatalf("SREM a: got %v, want 1", got)
	}
	if got := exec(c, "SCARD", buf("s")); got.IntegerValue() != 1 {
		t.Fatalf("SCARD after SREM: got %v, want 1", got)
	}
}

func TestSetMoveReturnsIntegerAndTransfersMember(t *testing.T) {
	c := NewCore()
	exec(c, "SADD", buf("src"), buf("m"))

	got := exec(c, "SMOVE", buf("src"), buf("dst"), buf("m"))
	if got.Kind() != message.KindInteger || got.IntegerValue() != 1 {
		t.Fatalf("SMOVE: got %v, want Integer(1)", got)
	}
	if got := exec(c, "SISMEMBER", buf("src"), buf("m")); got.IntegerValue() != 0 {
		t.Errorf("member still present in source after SMOVE")
	}
	if got := exec(c, "SISMEMBER", buf("dst"), buf("m")); got.IntegerValue() != 1 {
		t.Errorf("member missing from destination after SMOVE")
	}

	if got := exec(c, "SMOVE", buf("src"), buf("dst"), buf("nosuch")); got.IntegerValue() != 0 {
		t.Errorf("SMOVE missing member: got %v, want Integer(0)", got)
	}
}

func TestSetDiffInterUnion(t *testing.T) {
	c := NewCore()
	exec(c, "SADD", buf("a"), buf("1"), buf("2"), buf("3"))
	exec(c, "SADD", buf("b"), buf("2"), buf("3"), buf("4"))

	if got := membersSet(t, exec(c, "SDIFF", buf("a"), buf("b"))); len(got) != 1 || !got["1"] {
		t.Errorf("SDIFF a b: got %v, want {1}", got)
	}
	if got := membersSet(t, exec(c, "SINTER", buf("a"), buf("b"))); len(got) != 2 || !got["2"] || !got["3"] {
		t.Errorf("SINTER a b: got %v, want {2,3}", got)
	}
	if got := membersSet(t, exec(c, "SUNION", buf("a"), buf("b"))); len(got) != 4 {
		t.Errorf("SUNION a b: got %v, want 4 members", got)
	}
}

func TestSetDiffStore(t *testing.T) {
	c := NewCore()
	exec(c, "SADD", buf("a"), buf("1"), buf("2"))
	exec(c, "SADD", buf("b"), buf("2"))

	if got := exec(c, "SDIFFSTORE", buf("dest"), buf("a"), buf("b")); got.IntegerValue() != 1 {
		t.Fatalf("SDIFFSTORE: got %v, want 1", got)
	}
	if got := membersSet(t, exec(c, "SMEMBERS", buf("dest"))); len(got) != 1 || !got["1"] {
		t.Errorf("SMEMBERS dest: got %v, want {1}", got)
	}
}

func TestSetPopRemovesReturnedMembers(t *testing.T) {
	c := NewCore()
	exec(c, "SADD", buf("s"), buf("a"), buf("b"), buf("c"))

	got := exec(c, "SPOP", buf("s"), message.Integer(2))
	if len(got.ArrayValue()) != 2 {
		t.Fatalf("SPOP count 2: got %v", got)
	}
	if got := exec(c, "SCARD", buf("s")); got.IntegerValue() != 1 {
		t.Errorf("SCARD after SPOP: got %v, want 1", got)
	}
}

func TestSetScanPagesThroughMembers(t *testing.T) {
	c := NewCore()
	exec(c, "SADD", buf("s"), buf("a"), buf("b"), buf("c"))

	got := exec(c, "SSCAN", buf("s"), message.Integer(0), buf("COUNT"), message.Integer(100))
	arr := got.ArrayValue()
	if arr[0].IntegerValue() != 0 {
		t.Fatalf("SSCAN cursor: got %v, want 0", arr[0])
	}
	if diff := deep.Equal(len(arr[1].ArrayValue()), 3); diff != nil {
		t.Errorf("SSCAN values: %v", diff)
	}
}
