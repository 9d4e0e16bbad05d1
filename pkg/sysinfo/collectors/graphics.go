// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/jaypipes/ghw"

	"github.com/narmesh/System-Spec-Analyzer/pkg/hostexec"
	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// gpuProbeTimeout bounds each external GPU probe. The probes run serially,
// so a hung driver tool costs at most this much per source.
const gpuProbeTimeout = 5 * time.Second

// GraphicsCollector enumerates graphics adapters. The NVIDIA management tool
// is tried first because it is the only source with live metrics; the PCI
// database and the platform inventory tool fill in names for everything
// else. No adapters at all is a legitimate result (headless hosts, VMs).
type GraphicsCollector struct {
	sysinfo.BaseCollector

	queryNvidia  func(ctx context.Context) ([]sysinfo.GPUInfo, error)
	queryPCI     func() ([]string, error)
	queryAdapter func(ctx context.Context) ([]string, error)
}

func NewGraphicsCollector(logger logr.Logger, config sysinfo.CollectionConfig) (*GraphicsCollector, error) {
	c := &GraphicsCollector{
		BaseCollector: sysinfo.NewBaseCollector(
			"graphics",
			logger,
			config,
			sysinfo.CollectorCapabilities{RequiresExternalTools: true},
		),
		queryPCI: ghwGPUNames,
	}
	c.queryNvidia = c.nvidiaSMI
	c.queryAdapter = c.queryAdapterNames
	return c, nil
}

func (c *GraphicsCollector) Collect(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gpus, err := c.queryNvidia(ctx)
	if err != nil {
		c.Logger().V(1).Info("nvidia query unavailable", "error", err.Error())
	}

	names, err := c.queryPCI()
	if err != nil {
		c.Logger().V(1).Info("pci gpu enumeration unavailable", "error", err.Error())
	}
	if len(names) == 0 {
		names, err = c.queryAdapter(ctx)
		if err != nil {
			c.Logger().V(1).Info("adapter enumeration unavailable", "error", err.Error())
		}
	}

	for _, name := range names {
		if hasGPUNamed(gpus, name) {
			continue
		}
		gpus = append(gpus, sysinfo.GPUInfo{Name: name})
	}

	if gpus == nil {
		gpus = []sysinfo.GPUInfo{}
	}
	return gpus, nil
}

// nvidiaSMI queries the NVIDIA management tool for every GPU it knows,
// including live memory, load and temperature readings.
func (c *GraphicsCollector) nvidiaSMI(ctx context.Context) ([]sysinfo.GPUInfo, error) {
	out, err := hostexec.Output(ctx, gpuProbeTimeout, "nvidia-smi",
		"--query-gpu=name,memory.total,memory.used,memory.free,utilization.gpu,temperature.gpu",
		"--format=csv,noheader,nounits")
	if err != nil {
		return nil, err
	}
	return parseNvidiaSMI(string(out)), nil
}

// parseNvidiaSMI parses the noheader/nounits CSV form, one GPU per line.
func parseNvidiaSMI(out string) []sysinfo.GPUInfo {
	var gpus []sysinfo.GPUInfo
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 6 {
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		gpu := sysinfo.GPUInfo{
			Name:       fields[0],
			HasMetrics: true,
		}
		gpu.MemoryTotalMB, _ = strconv.ParseUint(fields[1], 10, 64)
		gpu.MemoryUsedMB, _ = strconv.ParseUint(fields[2], 10, 64)
		gpu.MemoryFreeMB, _ = strconv.ParseUint(fields[3], 10, 64)
		gpu.LoadPercent, _ = strconv.ParseFloat(fields[4], 64)
		gpu.TemperatureC, _ = strconv.ParseFloat(fields[5], 64)
		gpus = append(gpus, gpu)
	}
	return gpus
}

// ghwGPUNames reads adapter product names from the PCI database.
func ghwGPUNames() ([]string, error) {
	info, err := ghw.GPU()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, card := range info.GraphicsCards {
		if card.DeviceInfo == nil || card.DeviceInfo.Product == nil {
			continue
		}
		name := strings.TrimSpace(card.DeviceInfo.Product.Name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func hasGPUNamed(gpus []sysinfo.GPUInfo, name string) bool {
	for _, g := range gpus {
		if strings.EqualFold(g.Name, name) {
			return true
		}
	}
	return false
}
