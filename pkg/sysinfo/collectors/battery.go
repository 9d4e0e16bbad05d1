// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"fmt"
	"math"

	"github.com/distatus/battery"
	"github.com/go-logr/logr"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// BatteryCollector reads the first battery's charge state. Hosts without a
// battery legitimately yield no data, which the runner records as an absent
// category rather than a degraded step.
type BatteryCollector struct {
	sysinfo.BaseCollector

	batteries func() ([]*battery.Battery, error)
}

func NewBatteryCollector(logger logr.Logger, config sysinfo.CollectionConfig) (*BatteryCollector, error) {
	return &BatteryCollector{
		BaseCollector: sysinfo.NewBaseCollector(
			"battery",
			logger,
			config,
			sysinfo.CollectorCapabilities{},
		),
		batteries: battery.GetAll,
	}, nil
}

func (c *BatteryCollector) Collect(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bats, err := c.batteries()
	if err != nil {
		// Partial errors still return readable batteries; only give up
		// when there is nothing at all.
		if len(bats) == 0 {
			c.Logger().V(1).Info("no battery information", "error", err.Error())
			return nil, nil
		}
	}
	if len(bats) == 0 {
		return nil, nil
	}

	bat := bats[0]
	info := &sysinfo.BatteryInfo{
		Plugged:     bat.State != battery.Discharging,
		SecondsLeft: -1,
	}
	if bat.Full > 0 {
		info.Percent = bat.Current / bat.Full * 100
	}

	if !info.Plugged && bat.ChargeRate > 0 {
		hours := bat.Current / bat.ChargeRate
		if !math.IsInf(hours, 0) && !math.IsNaN(hours) && hours > 0 {
			secs := int64(hours * 3600)
			info.SecondsLeft = secs
			info.TimeLeft = formatTimeLeft(secs)
		}
	}

	return info, nil
}

// formatTimeLeft renders a seconds estimate as "1h 30m".
func formatTimeLeft(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	return fmt.Sprintf("%dh %dm", h, m)
}
