package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-radish/radish/message"
)

// args is a forward-only cursor over a command's argument list, the Go
// analogue of the original's VecDeque::pop_front() consumption style.
type args struct {
	vals []message.Value
	pos  int
}

func newArgs(vals []message.Value) *args {
	return &args{vals: vals}
}

// len returns the number of arguments not yet consumed.
func (a *args) len() int { return len(a.vals) - a.pos }

func (a *args) next() (message.Value, bool) {
	if a.pos >= len(a.vals) {
		return message.Value{}, false
	}
	v := a.vals[a.pos]
	a.pos++
	return v, true
}

// rest consumes and returns every remaining argument.
func (a *args) rest() []message.Value {
	r := a.vals[a.pos:]
	a.pos = len(a.vals)
	return r
}

var errNotEnoughArguments = errors.New("Not enough arguments")

// extract pops the next argument, failing if none remains.
func extract(a *args) (message.Value, error) {
	v, ok := a.next()
	if !ok {
		return message.Value{}, errNotEnoughArguments
	}
	return v, nil
}

// extractBuffer pops the next argument as a Buffer.
func extractBuffer(a *args) ([]byte, error) {
	v, err := extract(a)
	if err != nil {
		return nil, err
	}
	if v.Kind() != message.KindBuffer {
		return nil, errors.New("Unexpected buffer type")
	}
	return v.BufferValue(), nil
}

// extractString pops the next argument as a Buffer and decodes it as text.
func extractString(a *args) (string, error) {
	b, err := extractBuffer(a)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// extractKey pops the next argument as a Buffer, used as a keyspace key.
func extractKey(a *args) (string, error) {
	b, err := extractBuffer(a)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// extractInteger pops the next argument as a signed integer.
func extractInteger(a *args) (int64, error) {
	v, err := extract(a)
	if err != nil {
		return 0, err
	}
	if v.Kind() != message.KindInteger {
		return 0, errors.New("Unexpected index type")
	}
	return v.IntegerValue(), nil
}

// extractUnsignedInteger pops the next argument as a non-negative integer.
func extractUnsignedInteger(a *args) (uint64, error) {
	i, err := extractInteger(a)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, fmt.Errorf("Integer is out of range: [0; %d]", math.MaxInt64)
	}
	return uint64(i), nil
}

// extractFloat pops the next argument as a Float.
func extractFloat(a *args) (float64, error) {
	v, err := extract(a)
	if err != nil {
		return 0, err
	}
	if v.Kind() != message.KindFloat {
		return 0, errors.New("Unexpected index type")
	}
	return v.FloatValue(), nil
}

// extractIndex pops the next argument as a non-negative index.
func extractIndex(a *args) (int, error) {
	i, err := extractInteger(a)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, fmt.Errorf("Index is out of range: [0; %d]", math.MaxInt64)
	}
	return int(i), nil
}

// extractBit pops the next argument as a bit: Bool, or Integer in {0, 1}.
func extractBit(a *args) (bool, error) {
	v, err := extract(a)
	if err != nil {
		return false, err
	}
	switch v.Kind() {
	case message.KindBool:
		return v.BoolValue(), nil
	case message.KindInteger:
		switch v.IntegerValue() {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return false, errors.New("Unexpected bit value")
		}
	default:
		return false, errors.New("Unexpected bit type")
	}
}
