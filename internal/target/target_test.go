package target

import (
	"strings"
	"testing"
)

func TestResolve_Localhost(t *testing.T) {
	tgt, err := Resolve("localhost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tgt.Host != "localhost" {
		t.Errorf("Host = %q, want %q", tgt.Host, "localhost")
	}
	if tgt.Port != SMBPort {
		t.Errorf("Port = %d, want %d", tgt.Port, SMBPort)
	}
	if !strings.HasSuffix(tgt.Endpoint, ":445") {
		t.Errorf("Endpoint = %q, want port 445 suffix", tgt.Endpoint)
	}
}

func TestResolve_EmptyHost(t *testing.T) {
	if _, err := Resolve(""); err == nil {
		t.Fatal("expected error for empty host")
	}
}

func TestResolve_UnresolvableHost(t *testing.T) {
	// .invalid is reserved and never resolves (RFC 2606).
	if _, err := Resolve("remountd-test.invalid"); err == nil {
		t.Fatal("expected error for unresolvable host")
	}
}
