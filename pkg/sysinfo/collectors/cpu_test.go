// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

func TestNormalizeCPUName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "intel brand string",
			in:   "Intel(R) Core(TM) i7-9750H CPU @ 2.60GHz",
			want: "Intel Core i7-9750H CPU @ 2.60GHz",
		},
		{
			name: "lowercase trademark marker",
			in:   "AMD Ryzen(tm) 7 5800X",
			want: "AMD Ryzen 7 5800X",
		},
		{
			name: "whitespace runs collapse",
			in:   "  Intel   Xeon\tE5-2680  ",
			want: "Intel Xeon E5-2680",
		},
		{
			name: "already clean",
			in:   "Apple M2",
			want: "Apple M2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeCPUName(tt.in))
		})
	}
}

func newTestCPUCollector(t *testing.T) *CPUCollector {
	t.Helper()
	c, err := NewCPUCollector(logr.Discard(), sysinfo.DefaultCollectionConfig())
	require.NoError(t, err)
	return c
}

func TestCPUCollector_PrefersDetailedIdentity(t *testing.T) {
	c := newTestCPUCollector(t)
	c.identify = func() cpuIdentity {
		return cpuIdentity{
			Brand:         "Intel(R) Core(TM) i7-9750H",
			Vendor:        "GenuineIntel",
			PhysicalCores: 6,
			LogicalCores:  12,
			Hz:            2_600_000_000,
			CacheL1D:      32 << 10,
			CacheL2:       256 << 10,
			CacheL3:       12 << 20,
			Flags:         []string{"sse4.2", "avx2"},
		}
	}
	c.info = func(context.Context) ([]cpu.InfoStat, error) {
		return []cpu.InfoStat{{ModelName: "ignored", VendorID: "ignored", Mhz: 2600}}, nil
	}
	c.counts = func(_ context.Context, logical bool) (int, error) {
		if logical {
			return 12, nil
		}
		return 6, nil
	}
	c.percent = func(_ context.Context, _ time.Duration, percpu bool) ([]float64, error) {
		if percpu {
			return []float64{10, 20, 30, 40, 50, 60, 10, 20, 30, 40, 50, 60}, nil
		}
		return []float64{35.5}, nil
	}
	c.freqRange = func() (float64, float64) { return 800, 4500 }

	data, err := c.Collect(context.Background())
	require.NoError(t, err)
	ci := data.(*sysinfo.CPUInfo)

	assert.Equal(t, "Intel Core i7-9750H", ci.ModelName)
	assert.Equal(t, "GenuineIntel", ci.Vendor)
	assert.Equal(t, 6, ci.PhysicalCores)
	assert.Equal(t, 12, ci.LogicalCores)
	assert.InDelta(t, 2600, ci.MHz, 0.1)
	assert.InDelta(t, 800, ci.MinMHz, 0.1)
	assert.InDelta(t, 4500, ci.MaxMHz, 0.1)
	assert.InDelta(t, 35.5, ci.UsagePercent, 0.01)
	assert.Len(t, ci.PerCoreUsage, 12)
	assert.Equal(t, 12<<20, ci.CacheL3)
	assert.Contains(t, ci.Flags, "avx2")
}

func TestCPUCollector_FallsBackToOSIdentity(t *testing.T) {
	c := newTestCPUCollector(t)
	c.identify = func() cpuIdentity { return cpuIdentity{} }
	c.info = func(context.Context) ([]cpu.InfoStat, error) {
		return []cpu.InfoStat{{ModelName: "QEMU Virtual CPU", VendorID: "GenuineIntel", Mhz: 2000}}, nil
	}
	c.counts = func(_ context.Context, logical bool) (int, error) { return 4, nil }
	c.percent = func(context.Context, time.Duration, bool) ([]float64, error) {
		return []float64{12.0}, nil
	}
	c.freqRange = func() (float64, float64) { return 0, 0 }

	data, err := c.Collect(context.Background())
	require.NoError(t, err)
	ci := data.(*sysinfo.CPUInfo)

	assert.Equal(t, "QEMU Virtual CPU", ci.ModelName)
	assert.Equal(t, "GenuineIntel", ci.Vendor)
	assert.InDelta(t, 2000, ci.MHz, 0.1)
	assert.Equal(t, 4, ci.PhysicalCores)
}

func TestCPUCollector_EverySourceFailingStillReturnsData(t *testing.T) {
	c := newTestCPUCollector(t)
	c.identify = func() cpuIdentity { return cpuIdentity{} }
	c.info = func(context.Context) ([]cpu.InfoStat, error) {
		return nil, errors.New("cpuinfo unreadable")
	}
	c.counts = func(context.Context, bool) (int, error) {
		return 0, errors.New("no topology")
	}
	c.percent = func(context.Context, time.Duration, bool) ([]float64, error) {
		return nil, errors.New("no sample")
	}
	c.freqRange = func() (float64, float64) { return 0, 0 }

	data, err := c.Collect(context.Background())
	require.NoError(t, err)
	ci := data.(*sysinfo.CPUInfo)

	assert.Equal(t, sysinfo.Unknown, ci.ModelName)
	assert.Equal(t, sysinfo.Unknown, ci.Vendor)
	assert.Zero(t, ci.UsagePercent)
}

func TestCPUCollector_CancelledContext(t *testing.T) {
	c := newTestCPUCollector(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Collect(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
