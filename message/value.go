// Package message defines the tagged value and command envelope that flow
// between the connection loop and the storage engine, and that the wire
// codec puts on and takes off the network.
package message

import (
	"fmt"
	"math"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind identifies which case of Value is populated.
type Kind int

const (
	KindNil Kind = iota
	KindOk
	KindBool
	KindInteger
	KindFloat
	KindBuffer
	KindArray
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindOk:
		return "Ok"
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindBuffer:
		return "Buffer"
	case KindArray:
		return "Array"
	case KindError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Value is a tagged variant carried over the wire and stored inside
// containers. The zero Value is Nil.
//
// Float is stored as its 64-bit IEEE-754 bit pattern rather than as a Go
// float64 so that Equal and Canonical compare Floats by bits -- two NaNs
// with different bit patterns are distinct Values, matching the contract
// every container (Set keys, Hash keys) relies on.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	bits    uint64
	buf     []byte
	arr     []Value
	errText string
}

var valueNil = Value{kind: KindNil}
var valueOk = Value{kind: KindOk}

// Nil returns the Nil sentinel value.
func Nil() Value { return valueNil }

// Ok returns the Ok sentinel value, used for "success with no value".
func Ok() Value { return valueOk }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Integer wraps a signed 64-bit integer.
func Integer(i int64) Value { return Value{kind: KindInteger, integer: i} }

// Float wraps a float64, storing it by bit pattern.
func Float(f float64) Value { return Value{kind: KindFloat, bits: math.Float64bits(f)} }

// FloatBits wraps a float already represented by its bit pattern.
func FloatBits(bits uint64) Value { return Value{kind: KindFloat, bits: bits} }

// Buffer wraps a byte buffer. The slice is retained, not copied.
func Buffer(b []byte) Value { return Value{kind: KindBuffer, buf: b} }

// String wraps the UTF-8 bytes of s as a Buffer, a convenience used
// throughout the command handlers for literal text values.
func String(s string) Value { return Value{kind: KindBuffer, buf: []byte(s)} }

// Array wraps an ordered sequence of Values.
func Array(vs []Value) Value { return Value{kind: KindArray, arr: vs} }

// Error wraps a human-readable error message.
func Error(text string) Value { return Value{kind: KindError, errText: text} }

// Errorf formats an error message the way Error does.
func Errorf(format string, args ...interface{}) Value {
	return Value{kind: KindError, errText: fmt.Sprintf(format, args...)}
}

// Kind reports which case is populated.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the Nil sentinel.
func (v Value) IsNil() bool { return v.kind == KindNil }

// BoolValue returns the boolean payload; only meaningful when Kind() == KindBool.
func (v Value) BoolValue() bool { return v.boolean }

// IntegerValue returns the integer payload; only meaningful when Kind() == KindInteger.
func (v Value) IntegerValue() int64 { return v.integer }

// FloatBitsValue returns the raw bit pattern backing a Float value.
func (v Value) FloatBitsValue() uint64 { return v.bits }

// FloatValue decodes the bit pattern backing a Float value into a float64.
func (v Value) FloatValue() float64 { return math.Float64frombits(v.bits) }

// BufferValue returns the byte payload; only meaningful when Kind() == KindBuffer.
func (v Value) BufferValue() []byte { return v.buf }

// ArrayValue returns the element slice; only meaningful when Kind() == KindArray.
func (v Value) ArrayValue() []Value { return v.arr }

// ErrorText returns the error message; only meaningful when Kind() == KindError.
func (v Value) ErrorText() string { return v.errText }

// Equal reports structural equality: Float compares bit patterns (so two
// differently-encoded NaNs are unequal), Buffer and Array compare
// elementwise, everything else compares its single payload field.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil, KindOk:
		return true
	case KindBool:
		return v.boolean == other.boolean
	case KindInteger:
		return v.integer == other.integer
	case KindFloat:
		return v.bits == other.bits
	case KindBuffer:
		return string(v.buf) == string(other.buf)
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindError:
		return v.errText == other.errText
	default:
		return false
	}
}

// String renders v the way the CLI displays a decoded result.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nill"
	case KindOk:
		return "ok"
	case KindBool:
		if v.boolean {
			return "true"
		}
		return "false"
	case KindInteger:
		return fmt.Sprintf("%d", v.integer)
	case KindFloat:
		return fmt.Sprintf("%v", v.FloatValue())
	case KindBuffer:
		return fmt.Sprintf("%q", string(v.buf))
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindError:
		return v.errText
	default:
		return "<unknown value>"
	}
}

// msgpack wire layout: a two-element array [kind, payload]. Payload is
// absent (encoded as nil) for Nil/Ok.

var _ msgpack.CustomEncoder = Value{}
var _ msgpack.CustomDecoder = (*Value)(nil)

// EncodeMsgpack implements msgpack.CustomEncoder.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(v.kind)); err != nil {
		return err
	}
	switch v.kind {
	case KindNil, KindOk:
		return enc.EncodeNil()
	case KindBool:
		return enc.EncodeBool(v.boolean)
	case KindInteger:
		return enc.EncodeInt(v.integer)
	case KindFloat:
		return enc.EncodeUint(v.bits)
	case KindBuffer:
		return enc.EncodeBytes(v.buf)
	case KindArray:
		if err := enc.EncodeArrayLen(len(v.arr)); err != nil {
			return err
		}
		for _, e := range v.arr {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		return nil
	case KindError:
		return enc.EncodeString(v.errText)
	default:
		return fmt.Errorf("message: unknown value kind %d", v.kind)
	}
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 2 {
		return fmt.Errorf("message: malformed value frame, expected 2 elements, got %d", n)
	}

	kindInt, err := dec.DecodeInt64()
	if err != nil {
		return err
	}
	kind := Kind(kindInt)

	switch kind {
	case KindNil, KindOk:
		if err := dec.DecodeNil(); err != nil {
			return err
		}
		*v = Value{kind: kind}
	case KindBool:
		b, err := dec.DecodeBool()
		if err != nil {
			return err
		}
		*v = Value{kind: kind, boolean: b}
	case KindInteger:
		i, err := dec.DecodeInt64()
		if err != nil {
			return err
		}
		*v = Value{kind: kind, integer: i}
	case KindFloat:
		bits, err := dec.DecodeUint64()
		if err != nil {
			return err
		}
		*v = Value{kind: kind, bits: bits}
	case KindBuffer:
		b, err := dec.DecodeBytes()
		if err != nil {
			return err
		}
		*v = Value{kind: kind, buf: b}
	case KindArray:
		elemCount, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		arr := make([]Value, elemCount)
		for i := range arr {
			if err := dec.Decode(&arr[i]); err != nil {
				return err
			}
		}
		*v = Value{kind: kind, arr: arr}
	case KindError:
		s, err := dec.DecodeString()
		if err != nil {
			return err
		}
		*v = Value{kind: kind, errText: s}
	default:
		return fmt.Errorf("message: unknown value kind %d", kind)
	}
	return nil
}

// Canonical returns a byte string that uniquely identifies v's structural
// value -- two Values that are Equal produce the same Canonical bytes and
// vice versa. core/ordered.go uses this to key Values in a Go map, since
// Value itself is not comparable (it may hold a slice).
func (v Value) Canonical() string {
	b, err := msgpack.Marshal(v)
	if err != nil {
		// Value only ever contains types msgpack can encode; a marshal
		// failure here means a programming error, not bad input.
		panic(fmt.Sprintf("message: failed to canonicalize value: %v", err))
	}
	return string(b)
}
