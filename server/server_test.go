package server

import (
	"net"
	"testing"
	"time"

	"github.com/go-test/deep"

	"github.com/go-radish/radish/log"
	"github.com/go-radish/radish/message"
	"github.com/go-radish/radish/wire"
)

func init() {
	// set lowest log level to prevent test output pollution
	log.SetLevel(log.CRITICAL)
}

func startTestServer(t *testing.T) (addr string, stop func()) {
	t.Helper()
	s := New("127.0.0.1:0")

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	s.listener = listener
	s.addr = listener.Addr().String()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			s.handlerWg.Add(1)
			go func() {
				defer s.handlerWg.Done()
				s.serveConn(conn)
			}()
		}
	}()

	return s.addr, s.Shutdown
}

func roundTrip(t *testing.T, conn net.Conn, cmd message.Command) message.Value {
	t.Helper()
	if err := wire.WriteCommand(conn, cmd); err != nil {
		t.Fatalf("WriteCommand: %v", err)
	}
	v, err := wire.ReadValue(conn)
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	return v
}

func TestServeConnSetGet(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("net.Dial: %v", err)
	}
	defer conn.Close()

	set := roundTrip(t, conn, message.NewCommand("SET", []message.Value{
		message.Buffer([]byte("foo")),
		message.Buffer([]byte("bar")),
	}))
	if diff := deep.Equal(set, message.Ok()); diff != nil {
		t.Errorf("SET result: %v", diff)
	}

	get := roundTrip(t, conn, message.NewCommand("GET", []message.Value{
		message.Buffer([]byte("foo")),
	}))
	want := message.Buffer([]byte("bar"))
	if !get.Equal(want) {
		t.Errorf("GET result: got %v, want %v", get, want)
	}
}

func TestServeConnMultipleCommandsSameConnection(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("net.Dial: %v", err)
	}
	defer conn.Close()

	roundTrip(t, conn, message.NewCommand("RPUSH", []message.Value{
		message.Buffer([]byte("list")),
		message.Buffer([]byte("a")),
		message.Buffer([]byte("b")),
	}))
	length := roundTrip(t, conn, message.NewCommand("LLEN", []message.Value{
		message.Buffer([]byte("list")),
	}))
	if !length.Equal(message.Integer(2)) {
		t.Errorf("LLEN result: got %v, want Integer(2)", length)
	}
}

func TestAwakerExpiresKey(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("net.Dial: %v", err)
	}
	defer conn.Close()

	roundTrip(t, conn, message.NewCommand("SET", []message.Value{
		message.Buffer([]byte("k")),
		message.Buffer([]byte("v")),
		message.String("PX"),
		message.Integer(10),
	}))

	time.Sleep(150 * time.Millisecond)

	exists := roundTrip(t, conn, message.NewCommand("EXISTS", []message.Value{
		message.Buffer([]byte("k")),
	}))
	if !exists.Equal(message.Integer(0)) {
		t.Errorf("EXISTS after expiry: got %v, want Integer(0)", exists)
	}
}
