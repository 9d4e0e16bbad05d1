// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// FansCollector reads fan tachometers from the hwmon sysfs tree. Platforms
// without hwmon (or hosts with no tachometers exposed) report an empty map.
type FansCollector struct {
	sysinfo.BaseCollector

	hwmonPath string
}

func NewFansCollector(logger logr.Logger, config sysinfo.CollectionConfig) (*FansCollector, error) {
	return &FansCollector{
		BaseCollector: sysinfo.NewBaseCollector(
			"fans",
			logger,
			config,
			sysinfo.CollectorCapabilities{},
		),
		hwmonPath: filepath.Join(config.HostSysPath, "class", "hwmon"),
	}, nil
}

func (c *FansCollector) Collect(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	readings := make(map[string][]sysinfo.FanReading)

	entries, err := os.ReadDir(c.hwmonPath)
	if err != nil {
		// hwmon absent entirely (VMs, non-Linux); no fans is a valid answer.
		c.Logger().V(1).Info("hwmon not available", "path", c.hwmonPath, "error", err.Error())
		return readings, nil
	}

	for _, entry := range entries {
		chipDir := filepath.Join(c.hwmonPath, entry.Name())
		group := readSysfsString(filepath.Join(chipDir, "name"))
		if group == "" {
			group = entry.Name()
		}

		inputs, err := filepath.Glob(filepath.Join(chipDir, "fan*_input"))
		if err != nil {
			continue
		}
		for _, input := range inputs {
			rpm, err := readSysfsUint(input)
			if err != nil {
				continue
			}
			label := readSysfsString(strings.TrimSuffix(input, "_input") + "_label")
			if label == "" {
				label = group
			}
			readings[group] = append(readings[group], sysinfo.FanReading{
				Label: label,
				RPM:   rpm,
			})
		}
	}

	return readings, nil
}

func readSysfsString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func readSysfsUint(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed value in %s: %w", path, err)
	}
	return v, nil
}
