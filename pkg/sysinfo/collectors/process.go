// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// ProcessCollector counts live processes by status. A process that exits
// mid-enumeration (or denies status access) still counts toward the total.
type ProcessCollector struct {
	sysinfo.BaseCollector

	processes func(ctx context.Context) ([]*process.Process, error)
	status    func(ctx context.Context, p *process.Process) ([]string, error)
}

func NewProcessCollector(logger logr.Logger, config sysinfo.CollectionConfig) (*ProcessCollector, error) {
	return &ProcessCollector{
		BaseCollector: sysinfo.NewBaseCollector(
			"process",
			logger,
			config,
			sysinfo.CollectorCapabilities{},
		),
		processes: process.ProcessesWithContext,
		status: func(ctx context.Context, p *process.Process) ([]string, error) {
			return p.StatusWithContext(ctx)
		},
	}, nil
}

func (c *ProcessCollector) Collect(ctx context.Context) (any, error) {
	procs, err := c.processes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate processes: %w", err)
	}

	census := &sysinfo.ProcessCensus{Total: len(procs)}
	for _, p := range procs {
		statuses, err := c.status(ctx, p)
		if err != nil {
			continue
		}
		for _, s := range statuses {
			switch s {
			case process.Running:
				census.Running++
			case process.Sleep:
				census.Sleeping++
			}
		}
	}

	return census, nil
}
