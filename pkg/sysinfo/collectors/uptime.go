// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// UptimeCollector derives boot time and elapsed uptime
type UptimeCollector struct {
	sysinfo.BaseCollector

	bootTime func(ctx context.Context) (uint64, error)
	now      func() time.Time
}

func NewUptimeCollector(logger logr.Logger, config sysinfo.CollectionConfig) (*UptimeCollector, error) {
	return &UptimeCollector{
		BaseCollector: sysinfo.NewBaseCollector(
			"uptime",
			logger,
			config,
			sysinfo.CollectorCapabilities{},
		),
		bootTime: host.BootTimeWithContext,
		now:      time.Now,
	}, nil
}

func (c *UptimeCollector) Collect(ctx context.Context) (any, error) {
	boot, err := c.bootTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read boot time: %w", err)
	}

	bootAt := time.Unix(int64(boot), 0)
	elapsed := c.now().Sub(bootAt)
	if elapsed < 0 {
		elapsed = 0
	}

	return &sysinfo.UptimeInfo{
		BootTime: bootAt,
		Elapsed:  elapsed,
	}, nil
}
