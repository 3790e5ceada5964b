// Package target resolves the monitored file server into a concrete endpoint.
package target

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// SMBPort is the well-known port of the SMB file-sharing service.
const SMBPort = 445

// ErrUnresolvable indicates the hostname did not resolve to any address.
var ErrUnresolvable = errors.New("hostname did not resolve to any address")

// Target is the file server being watched. The endpoint is resolved exactly
// once at startup and never refreshed, even if the host's DNS record changes
// while the daemon runs.
type Target struct {
	// Host is the hostname as given on the command line.
	Host string
	// Port is the service port probed for reachability.
	Port int
	// Endpoint is the resolved "address:port" the prober dials.
	Endpoint string
}

// Resolve looks up host and returns a Target fixed on the first resolved
// address. A resolution failure is fatal to the caller; there are no retries.
func Resolve(host string) (*Target, error) {
	if host == "" {
		return nil, errors.New("host must not be empty")
	}

	addrs, err := net.LookupHost(host)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", host, err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("resolve %s: %w", host, ErrUnresolvable)
	}

	return &Target{
		Host:     host,
		Port:     SMBPort,
		Endpoint: net.JoinHostPort(addrs[0], strconv.Itoa(SMBPort)),
	}, nil
}
