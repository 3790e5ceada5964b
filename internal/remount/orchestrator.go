// Package remount restores a fixed set of network shares after the file
// server comes back up.
package remount

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Orchestrator attempts to restore every configured share and aggregates
// per-share outcomes.
type Orchestrator struct {
	server  string
	shares  []string
	mounter MountExecutor
	logger  zerolog.Logger
}

// NewOrchestrator creates an Orchestrator for the given server and share
// paths.
func NewOrchestrator(server string, shares []string, mounter MountExecutor, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		server:  server,
		shares:  shares,
		mounter: mounter,
		logger:  logger.With().Str("component", "remount").Logger(),
	}
}

// RemountAll attempts every share in order. One share's failure never
// prevents attempting the others, and nothing is rolled back on failure.
// The returned error is non-nil only when a mount command could not be
// invoked at all; command-level failures are reported through the Summary.
func (o *Orchestrator) RemountAll() (Summary, error) {
	summary := Summary{
		PassID:   uuid.New(),
		Outcomes: make([]Outcome, 0, len(o.shares)),
	}
	logger := o.logger.With().Str("pass_id", summary.PassID.String()).Logger()

	for _, share := range o.shares {
		outcome, err := o.remountOne(logger, share)
		if err != nil {
			return summary, err
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	failed := summary.Failed()
	for _, f := range failed {
		logger.Error().Str("share", f.Share).Str("reason", f.Reason).Msg("share remount failed")
	}
	if len(failed) > 0 {
		logger.Error().
			Int("failed", len(failed)).
			Int("total", len(summary.Outcomes)).
			Msg("remount pass failed")
	} else {
		logger.Info().Int("shares", len(summary.Outcomes)).Msg("remount pass successful")
	}

	return summary, nil
}

// remountOne restores a single share. A share whose local path already
// exists is treated as already mounted and skipped without invoking the
// mount executor.
func (o *Orchestrator) remountOne(logger zerolog.Logger, share string) (Outcome, error) {
	if _, err := os.Stat(share); err == nil {
		logger.Info().Str("share", share).Msg("share path already present, skipping remount")
		return Outcome{Share: share, Status: StatusSkipped}, nil
	}

	if err := o.mounter.Mount(o.server, share); err != nil {
		if errors.Is(err, ErrMountFailed) {
			return Outcome{Share: share, Status: StatusFailed, Reason: err.Error()}, nil
		}
		return Outcome{}, fmt.Errorf("remount %s: %w", share, err)
	}

	logger.Info().Str("share", share).Msg("share remounted")
	return Outcome{Share: share, Status: StatusSucceeded}, nil
}
