// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"fmt"
	"path"
	"runtime"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// StorageCollector enumerates mounted filesystems with usage and, where the
// device can be matched, cumulative I/O counters.
type StorageCollector struct {
	sysinfo.BaseCollector

	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
	ioCounters func(ctx context.Context, names ...string) (map[string]disk.IOCountersStat, error)
}

func NewStorageCollector(logger logr.Logger, config sysinfo.CollectionConfig) (*StorageCollector, error) {
	return &StorageCollector{
		BaseCollector: sysinfo.NewBaseCollector(
			"storage",
			logger,
			config,
			sysinfo.CollectorCapabilities{},
		),
		partitions: disk.PartitionsWithContext,
		usage:      disk.UsageWithContext,
		ioCounters: disk.IOCountersWithContext,
	}, nil
}

func (c *StorageCollector) Collect(ctx context.Context) (any, error) {
	parts, err := c.partitions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}

	ioStats, err := c.ioCounters(ctx)
	if err != nil {
		c.Logger().V(1).Info("disk io counters unavailable", "error", err.Error())
		ioStats = nil
	}

	info := &sysinfo.StorageInfo{}
	for _, p := range parts {
		if skipPartition(p) {
			continue
		}

		u, err := c.usage(ctx, p.Mountpoint)
		if err != nil {
			// Unreadable mounts (permissions, disconnected media) are
			// skipped, not fatal.
			c.Logger().V(1).Info("skipping unreadable mount",
				"mountpoint", p.Mountpoint, "error", err.Error())
			continue
		}

		vol := sysinfo.Volume{
			Device:      p.Device,
			Mountpoint:  p.Mountpoint,
			Fstype:      p.Fstype,
			Total:       u.Total,
			Used:        u.Used,
			Free:        u.Free,
			UsedPercent: u.UsedPercent,
			IO:          matchVolumeIO(p.Device, ioStats),
		}
		info.Volumes = append(info.Volumes, vol)
		info.TotalBytes += u.Total
	}

	return info, nil
}

// skipPartition drops pseudo and removable mounts that would otherwise show
// up as zero-byte or blocking volumes. On Windows the empty floppy letters
// and optical drives are the usual offenders.
func skipPartition(p disk.PartitionStat) bool {
	if runtime.GOOS == "windows" {
		upper := strings.ToUpper(p.Mountpoint)
		if strings.HasPrefix(upper, "A:") || strings.HasPrefix(upper, "B:") {
			return true
		}
		for _, opt := range p.Opts {
			if strings.EqualFold(opt, "cdrom") {
				return true
			}
		}
	}
	return false
}

// deviceKey reduces a partition device path to the token used for I/O
// counter matching: the path base on unix-likes, the bare drive letter on
// Windows.
func deviceKey(device string) string {
	if runtime.GOOS == "windows" {
		device = strings.ReplaceAll(device, ":", "")
		device = strings.ReplaceAll(device, `\`, "")
		return strings.ToLower(device)
	}
	return strings.ToLower(path.Base(device))
}

// matchVolumeIO finds I/O counters for a volume's backing device by
// case-insensitive substring match over the counter map keys, in sorted key
// order for determinism. Substring matching means "sda" also matches the
// "sda1" counter entry; the first hit wins.
func matchVolumeIO(device string, ioStats map[string]disk.IOCountersStat) *sysinfo.VolumeIO {
	if len(ioStats) == 0 {
		return nil
	}
	key := deviceKey(device)
	if key == "" {
		return nil
	}

	names := make([]string, 0, len(ioStats))
	for name := range ioStats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.Contains(lower, key) || strings.Contains(key, lower) {
			stat := ioStats[name]
			return &sysinfo.VolumeIO{
				ReadBytes:  stat.ReadBytes,
				WriteBytes: stat.WriteBytes,
				ReadCount:  stat.ReadCount,
				WriteCount: stat.WriteCount,
			}
		}
	}
	return nil
}
