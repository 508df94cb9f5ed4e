package main

import (
	"flag"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/mshaverdo/assert"

	"github.com/go-radish/radish/log"
	"github.com/go-radish/radish/server"
)

var assertionEnabled = "1"

func init() {
	assert.Enabled = (assertionEnabled == "1")
}

// bindAddr is fixed: one process-wide keyspace serving one well-known
// address, not a configurable deployment target.
const bindAddr = "127.0.0.1:6142"

func main() {
	var (
		quiet, verbose, veryVerbose bool
		cpuProfile                  string
	)

	flag.StringVar(&cpuProfile, "cpuprofile", "", "dump cpu profile into specified file")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging.")
	flag.BoolVar(&quiet, "q", false, "Quiet logging. Totally silent.")
	flag.BoolVar(&veryVerbose, "vv", false, "Enable very verbose logging.")
	flag.Parse()

	if cpuProfile != "" {
		if f, err := os.Create(cpuProfile); err == nil {
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		} else {
			log.Errorf("Can't create file %s: %s", cpuProfile, err)
		}
	}

	switch {
	case veryVerbose:
		log.SetLevel(log.DEBUG)
	case verbose:
		log.SetLevel(log.INFO)
	case quiet:
		log.SetLevel(-1)
	}

	srv := server.New(bindAddr)

	go handleSignals(srv)

	if err := srv.ListenAndServe(); err != nil {
		log.Critical(err.Error())
	}
}

func handleSignals(srv *server.Server) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	for {
		s := <-sigs
		switch s {
		case syscall.SIGINT, syscall.SIGTERM:
			srv.Shutdown()
			return
		}
	}
}
