// Package probe implements point-in-time reachability checks against the
// file server's endpoint.
package probe

import (
	"net"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single probe. A dial that neither succeeds nor
// fails within it counts as unreachable.
const DefaultTimeout = 5 * time.Second

// Prober reports whether an endpoint currently accepts connections.
type Prober interface {
	Probe(endpoint string) bool
}

// TCPProber checks reachability by dialing the endpoint. Each probe is a
// point-in-time check, not a sustained health check: a single success after
// any number of failures flips the caller's view immediately.
type TCPProber struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// NewTCPProber creates a TCPProber with the default timeout.
func NewTCPProber(logger zerolog.Logger) *TCPProber {
	return &TCPProber{
		timeout: DefaultTimeout,
		logger:  logger.With().Str("component", "probe").Logger(),
	}
}

// Probe dials endpoint and reports whether the connection was accepted
// within the timeout.
func (p *TCPProber) Probe(endpoint string) bool {
	conn, err := net.DialTimeout("tcp", endpoint, p.timeout)
	if err != nil {
		p.logger.Debug().Err(err).Str("endpoint", endpoint).Msg("endpoint unreachable")
		return false
	}
	conn.Close()
	return true
}
