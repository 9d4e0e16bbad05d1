// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"math"

	"github.com/go-logr/logr"
	"github.com/shirou/gopsutil/v3/load"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// LoadCollector reads the 1/5/15 minute load averages. Platforms without
// the concept (Windows) report an absent category, not an error.
type LoadCollector struct {
	sysinfo.BaseCollector

	avg func(ctx context.Context) (*load.AvgStat, error)
}

func NewLoadCollector(logger logr.Logger, config sysinfo.CollectionConfig) (*LoadCollector, error) {
	return &LoadCollector{
		BaseCollector: sysinfo.NewBaseCollector(
			"load",
			logger,
			config,
			sysinfo.CollectorCapabilities{},
		),
		avg: load.AvgWithContext,
	}, nil
}

func (c *LoadCollector) Collect(ctx context.Context) (any, error) {
	stat, err := c.avg(ctx)
	if err != nil || stat == nil {
		if err != nil {
			c.Logger().V(1).Info("load averages unavailable", "error", err.Error())
		}
		return nil, nil
	}

	return &sysinfo.LoadAverages{
		Load1:  round2(stat.Load1),
		Load5:  round2(stat.Load5),
		Load15: round2(stat.Load15),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
