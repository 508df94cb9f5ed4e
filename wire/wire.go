// Package wire implements radish's length-framed wire protocol: a
// big-endian u16 frame length followed by that many bytes of a MessagePack
// body. Requests encode message.Command; responses encode message.Value.
//
// Grounded on original_source/radish-server/src/main.rs's
// read_u16/read_exact/write_u16/write_all frame loop and
// radish-cli/src/main.rs's rmp_serde::to_vec/from_read_ref pair, carried
// over to Go's net.Conn using vmihailenco/msgpack/v5 in place of rmp_serde.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/go-radish/radish/message"
)

// MaxFrameSize is the largest body a frame may carry: the length header is
// 16 bits wide, so 65535 bytes is the hard ceiling spec'd for both request
// and response frames.
const MaxFrameSize = 65535

// ErrFrameTooLarge is returned when an encoded body would not fit in a
// single frame's 16-bit length header.
var ErrFrameTooLarge = errors.New("wire: frame body exceeds 65535 bytes")

// ReadCommand reads one framed Command from r.
func ReadCommand(r io.Reader) (message.Command, error) {
	body, err := readFrame(r)
	if err != nil {
		return message.Command{}, err
	}
	var cmd message.Command
	if err := msgpack.Unmarshal(body, &cmd); err != nil {
		return message.Command{}, fmt.Errorf("wire: failed to decode command: %w", err)
	}
	return cmd, nil
}

// WriteCommand frames and writes cmd to w.
func WriteCommand(w io.Writer, cmd message.Command) error {
	body, err := msgpack.Marshal(&cmd)
	if err != nil {
		return fmt.Errorf("wire: failed to encode command: %w", err)
	}
	return writeFrame(w, body)
}

// ReadValue reads one framed Value from r.
func ReadValue(r io.Reader) (message.Value, error) {
	body, err := readFrame(r)
	if err != nil {
		return message.Value{}, err
	}
	var v message.Value
	if err := msgpack.Unmarshal(body, &v); err != nil {
		return message.Value{}, fmt.Errorf("wire: failed to decode value: %w", err)
	}
	return v, nil
}

// WriteValue frames and writes v to w.
func WriteValue(w io.Writer, v message.Value) error {
	body, err := msgpack.Marshal(&v)
	if err != nil {
		return fmt.Errorf("wire: failed to encode value: %w", err)
	}
	return writeFrame(w, body)
}

func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("wire: failed to read frame size: %w", err)
	}
	length := binary.BigEndian.Uint16(lenBuf[:])
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("wire: failed to read frame body: %w", err)
	}
	return body, nil
}

func writeFrame(w io.Writer, body []byte) error {
	if len(body) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("wire: failed to write frame size: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("wire: failed to write frame body: %w", err)
	}
	return nil
}
