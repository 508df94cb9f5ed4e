// Package server hosts the TCP accept loop and per-connection command
// loop around a core.Core, plus the debounced expiration awaker that
// ties the two together.
//
// Grounded on the teacher's controller.Controller (ListenAndServe/
// Shutdown shape, stopChan-based graceful stop, serviceWg/handlerWg
// goroutine accounting) generalized from the teacher's HTTP transport
// to the spec's length-framed TCP protocol, and on
// original_source/radish-server/src/main.rs's command_loop_executor
// (read frame, dispatch, write frame, log at debug) and its
// set_expire_awaker closure (schedule a wake-up no sooner than the
// next pending expiration).
package server

import (
	"net"
	"sync"
	"time"

	"github.com/go-radish/radish/core"
	"github.com/go-radish/radish/log"
	"github.com/go-radish/radish/wire"
)

// Server accepts connections on a single TCP listener and serves each one
// against a shared core.Core.
type Server struct {
	addr string
	core *core.Core

	awaker *awaker

	listenerMu sync.Mutex
	listener   net.Listener

	// handlerWg tracks in-flight connection goroutines so Shutdown can wait
	// for them to finish, mirroring the teacher's handlerWg.
	handlerWg sync.WaitGroup

	stopOnce sync.Once
	stopChan chan struct{}
}

// New constructs a Server bound to addr, wiring its Core's expire awaker
// to a debounced wake-up timer.
func New(addr string) *Server {
	s := &Server{
		addr:     addr,
		core:     core.NewCore(),
		stopChan: make(chan struct{}),
	}
	s.awaker = newAwaker(s.runCollector)
	s.core.SetExpireAwaker(s.awaker.notify)
	return s
}

// ListenAndServe binds the listener and accepts connections until
// Shutdown is called.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listenerMu.Lock()
	s.listener = listener
	s.listenerMu.Unlock()

	log.Infof("radish ready to serve at %s", listener.Addr())
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return nil
			default:
				return err
			}
		}

		s.handlerWg.Add(1)
		go func() {
			defer s.handlerWg.Done()
			s.serveConn(conn)
		}()
	}
}

// Shutdown stops accepting new connections, stops the awaker and waits
// for in-flight connections to finish.
func (s *Server) Shutdown() {
	log.Info("shutting down radish...")
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.listenerMu.Lock()
	listener := s.listener
	s.listenerMu.Unlock()
	if listener != nil {
		listener.Close()
	}
	s.awaker.stop()
	s.handlerWg.Wait()
	log.Info("goodbye!")
}

// Addr returns the address the listener is bound to, or "" if
// ListenAndServe hasn't bound one yet.
func (s *Server) Addr() string {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) serveConn(conn net.Conn) {
	name := conn.RemoteAddr().String()
	log.Infof("%s: connected", name)
	defer conn.Close()

	for {
		cmd, err := wire.ReadCommand(conn)
		if err != nil {
			log.Infof("%s: closed: %s", name, err)
			return
		}
		log.Debugf("%s: %s", name, cmd)

		result := s.core.Execute(cmd)
		log.Debugf("%s: %s", name, result)

		if err := wire.WriteValue(conn, result); err != nil {
			log.Infof("%s: closed: %s", name, err)
			return
		}
	}
}

// runCollector reaps whatever is due, then re-arms the awaker for the
// next pending expiration -- the debounced timer fires once for the
// deadline it was given and has no memory of anything scheduled after
// it, so without this every expiry but the earliest would be orphaned.
func (s *Server) runCollector() {
	count := len(s.core.CollectExpired(time.Now()))
	log.Debugf("collected %d expired keys", count)

	if next, ok := s.core.NextExpiry(); ok {
		s.awaker.notify(next)
	}
}
