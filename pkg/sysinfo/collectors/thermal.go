// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// ThermalCollector reads all temperature sensors and groups them by chip.
// The sensor key convention is "<chip>_<label>"; readings with no label part
// fall back to the chip name as their label.
type ThermalCollector struct {
	sysinfo.BaseCollector

	temperatures func(ctx context.Context) ([]host.TemperatureStat, error)
}

func NewThermalCollector(logger logr.Logger, config sysinfo.CollectionConfig) (*ThermalCollector, error) {
	return &ThermalCollector{
		BaseCollector: sysinfo.NewBaseCollector(
			"thermal",
			logger,
			config,
			sysinfo.CollectorCapabilities{},
		),
		temperatures: host.SensorsTemperaturesWithContext,
	}, nil
}

func (c *ThermalCollector) Collect(ctx context.Context) (any, error) {
	stats, err := c.temperatures(ctx)
	if err != nil && len(stats) == 0 {
		return nil, fmt.Errorf("failed to read temperature sensors: %w", err)
	}

	readings := make(map[string][]sysinfo.TemperatureReading)
	for _, stat := range stats {
		group, label := splitSensorKey(stat.SensorKey)
		readings[group] = append(readings[group], sysinfo.TemperatureReading{
			Label:    label,
			Current:  stat.Temperature,
			High:     stat.High,
			Critical: stat.Critical,
		})
	}
	return readings, nil
}

// splitSensorKey splits "coretemp_core_0" into group "coretemp" and label
// "core_0". A key without an underscore is its own group, labeled by the
// group name.
func splitSensorKey(key string) (group, label string) {
	group, label, ok := strings.Cut(key, "_")
	if !ok || label == "" {
		return key, key
	}
	return group, label
}
