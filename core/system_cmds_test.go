package core

import (
	"testing"

	"github.com/go-radish/radish/message"
)

func TestSystemCommandsReturnNonEmptyText(t *testing.T) {
	c := NewCore()

	for _, name := range []string{"AUTHORS", "VERSION", "LICENSE", "HELP", ""} {
		got := exec(c, name)
		if got.Kind() != message.KindBuffer || len(got.BufferValue()) == 0 {
			t.Errorf("%q: got %v, want non-empty Buffer", name, got)
		}
	}
}

func TestUnsupportedCommandReturnsError(t *testing.T) {
	c := NewCore()
	got := exec(c, "DUMP", buf("k"))
	if got.Kind() != message.KindError {
		t.Fatalf("unsupported command: got %v, want Error", got)
	}
}
