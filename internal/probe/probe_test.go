package probe

import (
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestTCPProber_ReachableEndpoint(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	p := NewTCPProber(zerolog.Nop())
	if !p.Probe(ln.Addr().String()) {
		t.Errorf("expected %s to be reachable", ln.Addr())
	}
}

func TestTCPProber_UnreachableEndpoint(t *testing.T) {
	// Grab a free port, then close the listener so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	p := NewTCPProber(zerolog.Nop())
	if p.Probe(addr) {
		t.Errorf("expected %s to be unreachable", addr)
	}
}

func TestNewTCPProber_DefaultTimeout(t *testing.T) {
	p := NewTCPProber(zerolog.Nop())
	if p.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", p.timeout)
	}
}
