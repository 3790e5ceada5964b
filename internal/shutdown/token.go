// Package shutdown provides cooperative shutdown coordination for the
// remountd monitor loop.
package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog"
)

// Token is a once-set cancellation token shared between the signal-handling
// entry point and the monitor loop. It transitions false to true at most
// once and is never reset. The loop observes it only at iteration
// boundaries; in-flight operations are never interrupted.
type Token struct {
	requested atomic.Bool
	done      chan struct{}
	once      sync.Once
	logger    zerolog.Logger
}

// NewToken creates an unset Token.
func NewToken(logger zerolog.Logger) *Token {
	return &Token{
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "shutdown").Logger(),
	}
}

// Requested reports whether shutdown has been requested. Safe to call from
// any goroutine.
func (t *Token) Requested() bool {
	return t.requested.Load()
}

// Done returns a channel that is closed once shutdown has been requested.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Request marks the token. Subsequent calls are no-ops.
func (t *Token) Request() {
	t.once.Do(func() {
		t.requested.Store(true)
		close(t.done)
	})
}

// Listen registers interest in SIGINT and SIGTERM; either sets the token.
func (t *Token) Listen() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		t.logger.Info().Str("signal", sig.String()).Msg("termination signal received")
		t.Request()
	}()
}
