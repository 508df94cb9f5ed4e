package message

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/vmihailenco/msgpack/v5"
)

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil==nil", Nil(), Nil(), true},
		{"ok!=nil", Ok(), Nil(), false},
		{"bool equal", Bool(true), Bool(true), true},
		{"bool differ", Bool(true), Bool(false), false},
		{"integer equal", Integer(42), Integer(42), true},
		{"float bits equal", FloatBits(0x3ff0000000000000), Float(1.0), true},
		{"nan bits differ", FloatBits(0x7ff8000000000001), FloatBits(0x7ff8000000000002), false},
		{"buffer equal", Buffer([]byte("abc")), Buffer([]byte("abc")), true},
		{"buffer differ", Buffer([]byte("abc")), Buffer([]byte("abd")), false},
		{"array equal", Array([]Value{Integer(1), String("x")}), Array([]Value{Integer(1), String("x")}), true},
		{"array length differs", Array([]Value{Integer(1)}), Array([]Value{Integer(1), Integer(2)}), false},
		{"error equal", Error("boom"), Error("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_Canonical(t *testing.T) {
	a := Array([]Value{Buffer([]byte("x")), Integer(5)})
	b := Array([]Value{Buffer([]byte("x")), Integer(5)})
	c := Array([]Value{Buffer([]byte("x")), Integer(6)})

	if a.Canonical() != b.Canonical() {
		t.Errorf("equal values must canonicalize identically")
	}
	if a.Canonical() == c.Canonical() {
		t.Errorf("different values must canonicalize differently")
	}
}

func TestValue_MsgpackRoundTrip(t *testing.T) {
	values := []Value{
		Nil(),
		Ok(),
		Bool(true),
		Bool(false),
		Integer(-9001),
		Float(3.14159),
		Buffer([]byte("hello\x00world")),
		Array([]Value{Integer(1), Buffer([]byte("two")), Array([]Value{Bool(true)})}),
		Error("Unsupported command"),
	}

	for _, v := range values {
		encoded, err := msgpack.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", v, err)
		}

		var decoded Value
		if err := msgpack.Unmarshal(encoded, &decoded); err != nil {
			t.Fatalf("Unmarshal(%v): %v", v, err)
		}

		if !v.Equal(decoded) {
			if diff := deep.Equal(v, decoded); diff != nil {
				t.Errorf("round trip mismatch for %v: %v", v, diff)
			}
		}
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Nil(), "nill"},
		{Ok(), "ok"},
		{Bool(true), "true"},
		{Integer(7), "7"},
		{Buffer([]byte("abc")), `"abc"`},
		{Error("bad command"), "bad command"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
