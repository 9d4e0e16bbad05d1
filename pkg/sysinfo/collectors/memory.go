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
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// MemoryCollector collects physical and swap memory usage. Virtual memory is
// mandatory for this step; swap is optional and a swap failure only zeroes
// the swap fields.
type MemoryCollector struct {
	sysinfo.BaseCollector

	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	swapMemory    func(ctx context.Context) (*mem.SwapMemoryStat, error)
}

func NewMemoryCollector(logger logr.Logger, config sysinfo.CollectionConfig) (*MemoryCollector, error) {
	return &MemoryCollector{
		BaseCollector: sysinfo.NewBaseCollector(
			"memory",
			logger,
			config,
			sysinfo.CollectorCapabilities{},
		),
		virtualMemory: mem.VirtualMemoryWithContext,
		swapMemory:    mem.SwapMemoryWithContext,
	}, nil
}

func (c *MemoryCollector) Collect(ctx context.Context) (any, error) {
	vm, err := c.virtualMemory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read virtual memory: %w", err)
	}

	info := &sysinfo.MemoryInfo{
		Total:       vm.Total,
		Used:        vm.Used,
		Available:   vm.Available,
		Free:        vm.Free,
		Cached:      vm.Cached,
		Buffers:     vm.Buffers,
		UsedPercent: vm.UsedPercent,
	}

	swap, err := c.swapMemory(ctx)
	if err != nil {
		c.Logger().V(1).Info("swap memory unavailable", "error", err.Error())
		return info, nil
	}
	info.SwapTotal = swap.Total
	info.SwapUsed = swap.Used
	info.SwapFree = swap.Free
	info.SwapPercent = swap.UsedPercent

	return info, nil
}
