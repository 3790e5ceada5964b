package remount

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog"
)

// ErrMountFailed indicates a mount command that ran and exited non-zero.
var ErrMountFailed = errors.New("mount command exited with failure")

// ErrHookFailed indicates a post-mount hook that ran and exited non-zero.
var ErrHookFailed = errors.New("post-mount hook exited with failure")

// MountExecutor mounts a single network share at a local path.
type MountExecutor interface {
	// Mount attempts to mount server's share at its local path. A command
	// that ran and failed returns an error wrapping ErrMountFailed; any
	// other error means the command could not be invoked at all, which the
	// caller treats as unrecoverable.
	Mount(server, share string) error
}

// HookExecutor runs the optional post-mount command.
type HookExecutor interface {
	// Run executes command via the platform shell. A command that ran and
	// exited non-zero returns an error wrapping ErrHookFailed; any other
	// error means the shell could not be invoked.
	Run(command string) error
}

// ShellMounter mounts shares by shelling out to the platform mount
// mechanism. No timeout is imposed on the mount command.
type ShellMounter struct {
	logger zerolog.Logger
}

// NewShellMounter creates a ShellMounter.
func NewShellMounter(logger zerolog.Logger) *ShellMounter {
	return &ShellMounter{logger: logger.With().Str("component", "mounter").Logger()}
}

// Mount runs the platform mount command for share.
func (m *ShellMounter) Mount(server, share string) error {
	command := mountCommand(server, share)
	m.logger.Debug().Str("command", command).Msg("executing mount command")

	if err := exec.Command("sh", "-c", command).Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s", ErrMountFailed, exitErr)
		}
		return fmt.Errorf("invoke mount command: %w", err)
	}
	return nil
}

// mountCommand builds the platform mount invocation for a share. On macOS
// the mount goes through Finder via AppleScript, which resolves credentials
// from the keychain; elsewhere the share path is expected to have an fstab
// entry.
func mountCommand(server, share string) string {
	if runtime.GOOS == "darwin" {
		return fmt.Sprintf("osascript -e 'mount volume \"smb://%s%s\"'", server, share)
	}
	return fmt.Sprintf("mount %s", share)
}

// ShellHook runs the post-mount command via the platform shell.
type ShellHook struct {
	logger zerolog.Logger
}

// NewShellHook creates a ShellHook.
func NewShellHook(logger zerolog.Logger) *ShellHook {
	return &ShellHook{logger: logger.With().Str("component", "hook").Logger()}
}

// Run executes command with sh -c. The exit status is observed but not
// otherwise interpreted.
func (h *ShellHook) Run(command string) error {
	h.logger.Debug().Str("command", command).Msg("executing post-mount hook")

	if err := exec.Command("sh", "-c", command).Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s", ErrHookFailed, exitErr)
		}
		return fmt.Errorf("invoke hook command: %w", err)
	}
	return nil
}
