// Package main is the entrypoint for the remountd CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MacJediWizard/remountd/internal/config"
	"github.com/MacJediWizard/remountd/internal/monitor"
	"github.com/MacJediWizard/remountd/internal/mounts"
	"github.com/MacJediWizard/remountd/internal/probe"
	"github.com/MacJediWizard/remountd/internal/remount"
	"github.com/MacJediWizard/remountd/internal/shutdown"
	"github.com/MacJediWizard/remountd/internal/target"
)

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var debug bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "remountd",
		Short: "remountd - restores network shares when their host comes back",
		Long: `remountd watches a file server's SMB port and remounts a fixed set of
network shares whenever the host transitions from unreachable to reachable.

It is meant for machines whose shares silently fail to recover after the
host sleeps, the VPN reconnects, or the network drops.

Run 'remountd start HOST SHARES' to start the daemon.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newStartCmd(),
		newCheckCmd(),
		newMountsCmd(),
	)

	return rootCmd
}

// newLogger builds the process logger. Console output goes to stderr with
// human-readable RFC3339 timestamps.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("remountd %s\n", Version)
			fmt.Printf("  Commit:     %s\n", Commit)
			fmt.Printf("  Built:      %s\n", BuildDate)
			fmt.Printf("  Go version: %s\n", runtime.Version())
			fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newInitCmd() *cobra.Command {
	var postMountScript string
	var configPath string

	cmd := &cobra.Command{
		Use:   "init [host] [shares]",
		Short: "Write the daemon configuration file",
		Long: `Write host, shares, and the optional post-mount script to the config
file (~/.remountd/config.yml by default) so 'remountd start' can run
without arguments, e.g.:

  remountd init nas.local /Volumes/media,/Volumes/backup -p ./post-mount.sh`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(configPath, args, postMountScript)
		},
	}

	cmd.Flags().StringVarP(&postMountScript, "post-mount-script", "p", "", "Command to run after a successful remount pass")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default ~/.remountd/config.yml)")

	return cmd
}

func runInit(path string, args []string, postMountScript string) error {
	cfg := &config.Config{
		Host:            args[0],
		Shares:          config.ParseShares(args[1]),
		PostMountScript: postMountScript,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if path == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = defaultPath
	}

	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Printf("Configuration written to %s\n", path)
	return nil
}

func newStartCmd() *cobra.Command {
	var postMountScript string
	var configPath string

	cmd := &cobra.Command{
		Use:   "start [host] [shares]",
		Short: "Start the remount daemon",
		Long: `Start the remount daemon.

HOST is the file server to monitor and SHARES is a comma-separated list of
local mount paths to restore, e.g.:

  remountd start nas.local /Volumes/media,/Volumes/backup -p ./post-mount.sh

Both can also come from the config file (~/.remountd/config.yml);
command-line arguments take precedence.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, args, postMountScript)
			if err != nil {
				return err
			}
			return runStart(cfg)
		},
	}

	cmd.Flags().StringVarP(&postMountScript, "post-mount-script", "p", "", "Command to run after a successful remount pass")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default ~/.remountd/config.yml)")

	return cmd
}

// loadFileConfig reads the config file at path, or the default path when
// path is empty. An absent file yields an empty config.
func loadFileConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// loadConfig merges the config file with command-line arguments. Arguments
// win over file values.
func loadConfig(path string, args []string, postMountScript string) (*config.Config, error) {
	cfg, err := loadFileConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if len(args) > 0 {
		cfg.Host = args[0]
	}
	if len(args) > 1 {
		cfg.Shares = config.ParseShares(args[1])
	}
	if postMountScript != "" {
		cfg.PostMountScript = postMountScript
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runStart(cfg *config.Config) error {
	logger := newLogger()

	tgt, err := target.Resolve(cfg.Host)
	if err != nil {
		logger.Error().Err(err).Str("host", cfg.Host).Msg("could not resolve host")
		return err
	}

	logger.Info().
		Str("version", Version).
		Str("host", cfg.Host).
		Str("endpoint", tgt.Endpoint).
		Strs("shares", cfg.Shares).
		Str("post_mount_script", cfg.PostMountScript).
		Msg("starting remountd")

	reportCurrentMounts(logger)

	token := shutdown.NewToken(logger)
	token.Listen()

	prober := probe.NewTCPProber(logger)
	mounter := remount.NewShellMounter(logger)
	orch := remount.NewOrchestrator(tgt.Host, cfg.Shares, mounter, logger)
	hook := remount.NewShellHook(logger)

	monitorCfg := monitor.DefaultConfig()
	monitorCfg.PostMountCommand = cfg.PostMountScript
	mon := monitor.New(tgt, prober, orch, hook, monitorCfg, logger)

	if err := mon.Run(token); err != nil {
		logger.Error().Err(err).Msg("monitor loop failed")
		return err
	}

	logger.Info().Msg("remountd exited normally")
	return nil
}

// reportCurrentMounts logs which network shares are already mounted at
// startup. Detection failures are not fatal.
func reportCurrentMounts(logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	detector := mounts.NewDetector(logger)
	detected, err := detector.Detect(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("could not detect current network mounts")
		return
	}
	for _, m := range detected {
		logger.Info().
			Str("path", m.Path).
			Str("type", m.Type).
			Str("remote", m.Remote).
			Msg("network share currently mounted")
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [host]",
		Short: "Probe a host's SMB port once",
		Long: `Resolve a host and probe its SMB port a single time.

Exits 0 if the port is reachable, non-zero otherwise. Uses the same
resolution and probe machinery as the daemon.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			tgt, err := target.Resolve(args[0])
			if err != nil {
				return err
			}

			prober := probe.NewTCPProber(logger)
			if !prober.Probe(tgt.Endpoint) {
				return fmt.Errorf("%s (%s) is not reachable", tgt.Host, tgt.Endpoint)
			}

			fmt.Printf("%s (%s) is up\n", tgt.Host, tgt.Endpoint)
			return nil
		},
	}
}

func newMountsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mounts",
		Short: "List mounted network shares",
		Long: `Detects and displays all network mounts (NFS, SMB, CIFS) on this system.

Shows mount path, type, and remote location. When shares are configured,
also reports whether each configured share path is currently mounted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMounts(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default ~/.remountd/config.yml)")

	return cmd
}

func runMounts(configPath string) error {
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	detector := mounts.NewDetector(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	detected, err := detector.Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect mounts: %w", err)
	}

	if len(detected) == 0 {
		fmt.Println("No network mounts detected")
	} else {
		fmt.Printf("%-40s %-8s %-40s\n", "PATH", "TYPE", "REMOTE")
		fmt.Println(strings.Repeat("-", 90))
		for _, m := range detected {
			fmt.Printf("%-40s %-8s %-40s\n", m.Path, m.Type, m.Remote)
		}
	}

	// The config file is optional here; without one there are no
	// configured shares to report on.
	cfg, err := loadFileConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(cfg.Shares) == 0 {
		return nil
	}

	fmt.Printf("\n%-40s %-8s\n", "CONFIGURED SHARE", "STATUS")
	fmt.Println(strings.Repeat("-", 50))
	for _, share := range cfg.Shares {
		mounted, err := detector.Mounted(ctx, share)
		if err != nil {
			return fmt.Errorf("check share %s: %w", share, err)
		}
		status := "absent"
		if mounted {
			status = "mounted"
		}
		fmt.Printf("%-40s %-8s\n", share, status)
	}

	return nil
}
