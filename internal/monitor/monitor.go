// Package monitor implements the connectivity-driven remount loop: poll the
// file server's endpoint at a fixed cadence and trigger a remount pass on
// every Down-to-Up transition.
package monitor

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/MacJediWizard/remountd/internal/probe"
	"github.com/MacJediWizard/remountd/internal/remount"
	"github.com/MacJediWizard/remountd/internal/shutdown"
	"github.com/MacJediWizard/remountd/internal/target"
)

// Remounter runs one full remount pass over the configured shares.
type Remounter interface {
	RemountAll() (remount.Summary, error)
}

// Config holds the configuration for the monitor.
type Config struct {
	// PollInterval is how often reachability is checked while idle.
	PollInterval time.Duration
	// PostMountCommand is run after a fully successful remount pass.
	// Empty means no hook is configured.
	PostMountCommand string
}

// DefaultConfig returns a Config with the standard cadence.
func DefaultConfig() Config {
	return Config{PollInterval: 1 * time.Second}
}

// Monitor polls the target endpoint and reacts to reachability transitions.
// It runs as a single thread of control: shares are remounted one after
// another, and a pass fully blocks the next poll.
type Monitor struct {
	target    *target.Target
	prober    probe.Prober
	remounter Remounter
	hook      remount.HookExecutor
	config    Config
	logger    zerolog.Logger
}

// New creates a Monitor.
func New(t *target.Target, prober probe.Prober, remounter Remounter, hook remount.HookExecutor, config Config, logger zerolog.Logger) *Monitor {
	return &Monitor{
		target:    t,
		prober:    prober,
		remounter: remounter,
		hook:      hook,
		config:    config,
		logger:    logger.With().Str("component", "monitor").Logger(),
	}
}

// Run executes the monitor loop until token requests shutdown. The returned
// error is non-nil only for unrecoverable failures escalated out of a
// remount pass or hook invocation; individual remount failures are logged
// and absorbed.
func (m *Monitor) Run(token *shutdown.Token) error {
	ticker := time.NewTicker(m.config.PollInterval)
	defer ticker.Stop()

	wasUp := false
	for {
		if token.Requested() {
			m.logger.Info().Msg("shutdown requested, exiting monitor loop")
			return nil
		}

		var err error
		wasUp, err = m.step(wasUp)
		if err != nil {
			return err
		}

		select {
		case <-token.Done():
		case <-ticker.C:
		}
	}
}

// step performs one poll iteration and returns the latched state for the
// next one. wasUp advances to Up on the edge before the pass runs, so a
// failed pass is not retried while connectivity holds; only a Down-then-Up
// flap re-arms the edge.
func (m *Monitor) step(wasUp bool) (bool, error) {
	up := m.prober.Probe(m.target.Endpoint)
	switch {
	case up && !wasUp:
		return true, m.onUp()
	case !up && wasUp:
		m.logger.Info().
			Str("host", m.target.Host).
			Int("port", m.target.Port).
			Msg("host is down, will remount when it is back up")
		return false, nil
	default:
		return wasUp, nil
	}
}

// onUp handles a Down-to-Up edge: remount everything, then run the hook if
// the pass fully succeeded and a hook is configured.
func (m *Monitor) onUp() error {
	m.logger.Info().
		Str("host", m.target.Host).
		Int("port", m.target.Port).
		Msg("host is up, attempting remount")

	summary, err := m.remounter.RemountAll()
	if err != nil {
		return fmt.Errorf("remount pass: %w", err)
	}
	if !summary.Successful() {
		m.logger.Error().
			Str("pass_id", summary.PassID.String()).
			Int("failed", len(summary.Failed())).
			Msg("remount pass failed, skipping post-mount hook")
		return nil
	}

	if m.config.PostMountCommand == "" {
		return nil
	}

	m.logger.Info().Str("command", m.config.PostMountCommand).Msg("executing post-mount hook")
	if err := m.hook.Run(m.config.PostMountCommand); err != nil {
		if errors.Is(err, remount.ErrHookFailed) {
			m.logger.Error().Err(err).Msg("post-mount hook failed")
			return nil
		}
		return fmt.Errorf("post-mount hook: %w", err)
	}
	return nil
}
