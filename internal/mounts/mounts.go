// Package mounts enumerates network filesystems currently mounted on the
// local system.
package mounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"
)

// Mount describes one mounted network share.
type Mount struct {
	// Path is the local mount point.
	Path string
	// Type is the filesystem type (nfs, cifs, smbfs).
	Type string
	// Remote is the remote source of the mount.
	Remote string
}

// Detector finds network mounts in the system's partition table.
type Detector struct {
	logger zerolog.Logger
}

// NewDetector creates a Detector.
func NewDetector(logger zerolog.Logger) *Detector {
	return &Detector{logger: logger.With().Str("component", "mounts").Logger()}
}

// Detect returns all currently mounted network shares.
func (d *Detector) Detect(ctx context.Context) ([]Mount, error) {
	parts, err := disk.PartitionsWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}
	mounts := fromPartitions(parts)
	d.logger.Debug().Int("count", len(mounts)).Msg("network mounts detected")
	return mounts, nil
}

// Mounted reports whether path is currently a network mount point.
func (d *Detector) Mounted(ctx context.Context, path string) (bool, error) {
	mounts, err := d.Detect(ctx)
	if err != nil {
		return false, err
	}
	return mountedIn(mounts, path), nil
}

// mountedIn reports whether path appears among the detected mount points.
func mountedIn(mounts []Mount, path string) bool {
	for _, m := range mounts {
		if m.Path == path {
			return true
		}
	}
	return false
}

// fromPartitions filters the partition table down to network filesystems.
func fromPartitions(parts []disk.PartitionStat) []Mount {
	var mounts []Mount
	for _, p := range parts {
		fsType := strings.ToLower(p.Fstype)
		if !isNetworkFS(fsType) {
			continue
		}
		mounts = append(mounts, Mount{
			Path:   p.Mountpoint,
			Type:   fsType,
			Remote: p.Device,
		})
	}
	return mounts
}

// isNetworkFS reports whether fsType names a network filesystem.
func isNetworkFS(fsType string) bool {
	switch fsType {
	case "nfs", "nfs4", "cifs", "smbfs":
		return true
	default:
		return false
	}
}
