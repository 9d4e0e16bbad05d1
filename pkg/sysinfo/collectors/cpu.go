// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/klauspost/cpuid/v2"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// cpuIdentity is what the detailed CPU-identification source reports.
// Fields are zero values when the source has nothing (e.g. non-x86).
type cpuIdentity struct {
	Brand         string
	Vendor        string
	PhysicalCores int
	LogicalCores  int
	Hz            int64
	CacheL1D      int
	CacheL2       int
	CacheL3       int
	Flags         []string
}

// CPUCollector collects processor identity, topology, frequency and an
// instantaneous utilization sample.
//
// Identity prefers the CPUID instruction (detailed vendor/cache/feature
// data) and falls back to the coarser OS-reported model string. The
// utilization sample blocks for CPUSampleWindow; that window trades
// responsiveness against sampling noise. Every sub-source is optional:
// the collector always returns a CPUInfo, with Unknown/zero values for
// whatever failed.
type CPUCollector struct {
	sysinfo.BaseCollector

	identify  func() cpuIdentity
	info      func(ctx context.Context) ([]cpu.InfoStat, error)
	counts    func(ctx context.Context, logical bool) (int, error)
	percent   func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	freqRange func() (minMHz, maxMHz float64)
}

func NewCPUCollector(logger logr.Logger, config sysinfo.CollectionConfig) (*CPUCollector, error) {
	c := &CPUCollector{
		BaseCollector: sysinfo.NewBaseCollector(
			"cpu",
			logger,
			config,
			sysinfo.CollectorCapabilities{},
		),
		identify: cpuidIdentity,
		info:     cpu.InfoWithContext,
		counts:   cpu.CountsWithContext,
		percent:  cpu.PercentWithContext,
	}
	c.freqRange = c.sysfsFreqRange
	return c, nil
}

// sysfsFreqRange reads the cpufreq hardware limits for cpu0 in MHz. Hosts
// without cpufreq (VMs, non-Linux) report 0/0.
func (c *CPUCollector) sysfsFreqRange() (minMHz, maxMHz float64) {
	base := filepath.Join(c.Config().HostSysPath, "devices", "system", "cpu", "cpu0", "cpufreq")
	read := func(name string) float64 {
		data, err := os.ReadFile(filepath.Join(base, name))
		if err != nil {
			return 0
		}
		khz, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
		if err != nil {
			return 0
		}
		return khz / 1000
	}
	return read("cpuinfo_min_freq"), read("cpuinfo_max_freq")
}

func cpuidIdentity() cpuIdentity {
	return cpuIdentity{
		Brand:         cpuid.CPU.BrandName,
		Vendor:        cpuid.CPU.VendorString,
		PhysicalCores: cpuid.CPU.PhysicalCores,
		LogicalCores:  cpuid.CPU.LogicalCores,
		Hz:            cpuid.CPU.Hz,
		CacheL1D:      cpuid.CPU.Cache.L1D,
		CacheL2:       cpuid.CPU.Cache.L2,
		CacheL3:       cpuid.CPU.Cache.L3,
		Flags:         cpuid.CPU.FeatureSet(),
	}
}

func (c *CPUCollector) Collect(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ci := &sysinfo.CPUInfo{
		Vendor:    sysinfo.Unknown,
		ModelName: sysinfo.Unknown,
	}

	id := c.identify()
	if id.Brand != "" {
		ci.ModelName = normalizeCPUName(id.Brand)
	}
	if id.Vendor != "" {
		ci.Vendor = id.Vendor
	}
	if id.CacheL1D > 0 {
		ci.CacheL1 = id.CacheL1D
	}
	if id.CacheL2 > 0 {
		ci.CacheL2 = id.CacheL2
	}
	if id.CacheL3 > 0 {
		ci.CacheL3 = id.CacheL3
	}
	ci.Flags = id.Flags

	infos, err := c.info(ctx)
	if err != nil {
		c.Logger().V(1).Info("cpu info unavailable", "error", err.Error())
	} else if len(infos) > 0 {
		if ci.ModelName == sysinfo.Unknown && infos[0].ModelName != "" {
			ci.ModelName = normalizeCPUName(infos[0].ModelName)
		}
		if ci.Vendor == sysinfo.Unknown && infos[0].VendorID != "" {
			ci.Vendor = infos[0].VendorID
		}
		if infos[0].Mhz > 0 {
			ci.MHz = infos[0].Mhz
		}
	}
	if ci.MHz == 0 && id.Hz > 0 {
		ci.MHz = float64(id.Hz) / 1e6
	}
	ci.MinMHz, ci.MaxMHz = c.freqRange()

	if n, err := c.counts(ctx, false); err == nil && n > 0 {
		ci.PhysicalCores = n
	} else if id.PhysicalCores > 0 {
		ci.PhysicalCores = id.PhysicalCores
	}
	if n, err := c.counts(ctx, true); err == nil && n > 0 {
		ci.LogicalCores = n
	} else if id.LogicalCores > 0 {
		ci.LogicalCores = id.LogicalCores
	}

	window := c.Config().CPUSampleWindow
	if usage, err := c.percent(ctx, window, false); err != nil {
		c.Logger().V(1).Info("cpu utilization sample failed", "error", err.Error())
	} else if len(usage) > 0 {
		ci.UsagePercent = usage[0]
	}
	if perCore, err := c.percent(ctx, window, true); err == nil {
		ci.PerCoreUsage = perCore
	}

	return ci, nil
}

// normalizeCPUName collapses whitespace runs and strips the (R)/(TM)
// trademark markers vendors embed in brand strings.
func normalizeCPUName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	for _, marker := range []string{"(R)", "(TM)", "(tm)"} {
		name = strings.ReplaceAll(name, marker, "")
	}
	return strings.TrimSpace(strings.Join(strings.Fields(name), " "))
}
