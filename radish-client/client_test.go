package radish

import (
	"testing"
	"time"

	"github.com/go-radish/radish/log"
	"github.com/go-radish/radish/message"
	"github.com/go-radish/radish/server"
)

func init() {
	log.SetLevel(log.CRITICAL)
}

func startTestServer(t *testing.T) string {
	t.Helper()
	srv := server.New("127.0.0.1:0")
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			t.Logf("ListenAndServe: %v", err)
		}
	}()
	t.Cleanup(srv.Shutdown)

	// ListenAndServe binds its listener asynchronously; poll briefly for the
	// address the teacher's client_test.go instead waited a fixed 500ms for.
	for i := 0; i < 100; i++ {
		if addr := srv.Addr(); addr != "" {
			return addr
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("server never started listening")
	return ""
}

func TestClientSetGet(t *testing.T) {
	addr := startTestServer(t)
	client, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	cases := []struct {
		name string
		cmd  message.Command
		want message.Value
	}{
		{"SET", ParseCommand("SET", []string{"key1", "val1"}), message.Ok()},
		{"GET hit", ParseCommand("GET", []string{"key1"}), message.Buffer([]byte("val1"))},
		{"GET miss", ParseCommand("GET", []string{"key2"}), message.Nil()},
		{"LPUSH", ParseCommand("LPUSH", []string{"list", "a"}), message.Integer(1)},
		{"LRANGE", ParseCommand("LRANGE", []string{"list", "0", "0"}),
			message.Array([]message.Value{message.Buffer([]byte("a"))})},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := client.Do(c.cmd)
			if err != nil {
				t.Fatalf("Do(%v): %v", c.cmd, err)
			}
			if !got.Equal(c.want) {
				t.Errorf("Do(%v) = %v, want %v", c.cmd, got, c.want)
			}
		})
	}
}

func TestClientCall(t *testing.T) {
	addr := startTestServer(t)
	client, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	got, err := client.Call("SADD", message.Buffer([]byte("set")), message.Buffer([]byte("m1")))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !got.Equal(message.Integer(1)) {
		t.Errorf("Call(SADD) = %v, want Integer(1)", got)
	}
}
