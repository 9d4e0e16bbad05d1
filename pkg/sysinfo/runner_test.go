// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package sysinfo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

type fakeCollector struct {
	name string
	fn   func(ctx context.Context) (any, error)
}

func (f *fakeCollector) Name() string { return f.name }

func (f *fakeCollector) Collect(ctx context.Context) (any, error) { return f.fn(ctx) }

func (f *fakeCollector) Capabilities() sysinfo.CollectorCapabilities {
	return sysinfo.CollectorCapabilities{}
}

// fixed builds a constructor whose collector returns a fresh value on every
// run, so snapshot-independence can be asserted.
func fixed(name string, mk func() any) sysinfo.NewStepCollector {
	return func(logr.Logger, sysinfo.CollectionConfig) (sysinfo.PointCollector, error) {
		return &fakeCollector{name: name, fn: func(context.Context) (any, error) {
			return mk(), nil
		}}, nil
	}
}

func failing(name string, err error) sysinfo.NewStepCollector {
	return func(logr.Logger, sysinfo.CollectionConfig) (sysinfo.PointCollector, error) {
		return &fakeCollector{name: name, fn: func(context.Context) (any, error) {
			return nil, err
		}}, nil
	}
}

// happyConstructors returns a full catalog of collectors that all succeed.
// The battery reports legitimately-absent; everything else returns data.
func happyConstructors() sysinfo.StepConstructors {
	return sysinfo.StepConstructors{
		Identity: fixed("identity", func() any {
			return &sysinfo.HostInfo{OSName: "Linux", OSFull: "Linux 6.8"}
		}),
		Uptime: fixed("uptime", func() any {
			return &sysinfo.UptimeInfo{Elapsed: time.Hour}
		}),
		Board: fixed("board", func() any { return sysinfo.NewBoardInfo() }),
		CPU: fixed("cpu", func() any {
			return &sysinfo.CPUInfo{Vendor: "GenuineIntel", ModelName: "Test CPU"}
		}),
		Memory: fixed("memory", func() any {
			return &sysinfo.MemoryInfo{Total: 20 << 30}
		}),
		Storage: fixed("storage", func() any {
			return &sysinfo.StorageInfo{TotalBytes: 750 << 30}
		}),
		Graphics: fixed("graphics", func() any { return []sysinfo.GPUInfo{} }),
		Network:  fixed("network", func() any { return &sysinfo.NetworkInfo{} }),
		Battery: func(logr.Logger, sysinfo.CollectionConfig) (sysinfo.PointCollector, error) {
			return &fakeCollector{name: "battery", fn: func(context.Context) (any, error) {
				return nil, nil
			}}, nil
		},
		Thermal: fixed("thermal", func() any { return map[string][]sysinfo.TemperatureReading{} }),
		Fans:    fixed("fans", func() any { return map[string][]sysinfo.FanReading{} }),
		Process: fixed("process", func() any { return &sysinfo.ProcessCensus{Total: 10} }),
		Load:    fixed("load", func() any { return &sysinfo.LoadAverages{Load1: 0.5} }),
	}
}

func newTestRunner(t *testing.T, ctors sysinfo.StepConstructors) *sysinfo.Runner {
	t.Helper()
	t.Setenv("HOST_PROC", "")
	t.Setenv("HOST_SYS", "")

	runner, err := sysinfo.NewRunner(sysinfo.RunnerOptions{
		Logger:       logr.Discard(),
		Constructors: ctors,
	})
	require.NoError(t, err)
	return runner
}

func collectOne(t *testing.T, runner *sysinfo.Runner, ctx context.Context) ([]sysinfo.Progress, *sysinfo.Snapshot) {
	t.Helper()

	progressCh, resultCh := runner.Collect(ctx)
	var events []sysinfo.Progress
	for p := range progressCh {
		events = append(events, p)
	}
	snap := <-resultCh
	require.NotNil(t, snap)

	// Both channels close after the single snapshot.
	_, open := <-resultCh
	assert.False(t, open)
	return events, snap
}

func TestRunner_RequiresLogger(t *testing.T) {
	_, err := sysinfo.NewRunner(sysinfo.RunnerOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger is required")
}

func TestRunner_ProgressSequence(t *testing.T) {
	runner := newTestRunner(t, happyConstructors())
	events, _ := collectOne(t, runner, context.Background())

	// 13 steps plus the finalize event.
	require.Len(t, events, 14)
	assert.Equal(t, "Detecting operating system...", events[0].Message)
	assert.Equal(t, 5, events[0].Percent)
	assert.Equal(t, "Finalizing system analysis...", events[len(events)-1].Message)
	assert.Equal(t, 100, events[len(events)-1].Percent)

	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].Percent, events[i-1].Percent,
			"progress must never go backwards (event %d)", i)
	}
}

func TestRunner_HappyPathSnapshot(t *testing.T) {
	runner := newTestRunner(t, happyConstructors())
	_, snap := collectOne(t, runner, context.Background())

	require.NotNil(t, snap.Host)
	assert.Equal(t, "Linux 6.8", snap.Host.OSFull)
	require.NotNil(t, snap.CPU)
	require.NotNil(t, snap.Memory)
	require.NotNil(t, snap.Storage)

	// Battery reported legitimately absent: nil category, step still OK.
	assert.Nil(t, snap.Battery)
	assert.Equal(t, sysinfo.StepStatusOK, snap.Run.Steps["battery"].Status)

	require.Len(t, snap.Run.Steps, 13)
	for name, stat := range snap.Run.Steps {
		assert.Equal(t, sysinfo.StepStatusOK, stat.Status, "step %s", name)
	}
	assert.Greater(t, snap.Run.Duration, time.Duration(0))
}

func TestRunner_CapabilitiesDerivedDuringRun(t *testing.T) {
	runner := newTestRunner(t, happyConstructors())
	_, snap := collectOne(t, runner, context.Background())

	// 20 GiB installed with an Intel CPU collected earlier in the same run.
	require.NotNil(t, snap.Memory)
	assert.Equal(t, "256 GB", snap.Memory.Capability.MaxCapacity)
	assert.Equal(t, "DDR4/DDR5 (Intel)", snap.Memory.Capability.Type)

	require.NotNil(t, snap.Storage)
	assert.Equal(t, "16-32 TB", snap.Storage.Capability.MaxCapacity)
}

func TestRunner_StepFailureIsIsolated(t *testing.T) {
	ctors := happyConstructors()
	ctors.CPU = failing("cpu", errors.New("cpuinfo unreadable"))
	runner := newTestRunner(t, ctors)

	events, snap := collectOne(t, runner, context.Background())

	assert.Nil(t, snap.CPU)
	assert.Equal(t, sysinfo.StepStatusDegraded, snap.Run.Steps["cpu"].Status)
	assert.ErrorContains(t, snap.Run.Steps["cpu"].Err, "cpuinfo unreadable")

	// Every other step is untouched, and the run still completes at 100.
	require.NotNil(t, snap.Host)
	require.NotNil(t, snap.Memory)
	assert.Equal(t, sysinfo.StepStatusOK, snap.Run.Steps["memory"].Status)
	assert.Equal(t, 100, events[len(events)-1].Percent)

	// Memory capability falls back to the unknown vendor path.
	assert.Equal(t, "DDR4/DDR5", snap.Memory.Capability.Type)
}

func TestRunner_StepPanicIsRecovered(t *testing.T) {
	ctors := happyConstructors()
	ctors.Network = func(logr.Logger, sysinfo.CollectionConfig) (sysinfo.PointCollector, error) {
		return &fakeCollector{name: "network", fn: func(context.Context) (any, error) {
			panic("interface table corrupted")
		}}, nil
	}
	runner := newTestRunner(t, ctors)

	_, snap := collectOne(t, runner, context.Background())

	assert.Nil(t, snap.Network)
	assert.Equal(t, sysinfo.StepStatusDegraded, snap.Run.Steps["network"].Status)
	assert.ErrorContains(t, snap.Run.Steps["network"].Err, "interface table corrupted")
	assert.Equal(t, sysinfo.StepStatusOK, snap.Run.Steps["battery"].Status)
}

func TestRunner_ConstructorFailureDegradesStep(t *testing.T) {
	ctors := happyConstructors()
	ctors.Board = func(logr.Logger, sysinfo.CollectionConfig) (sysinfo.PointCollector, error) {
		return nil, errors.New("no inventory tool")
	}
	runner := newTestRunner(t, ctors)

	_, snap := collectOne(t, runner, context.Background())

	assert.Nil(t, snap.Board)
	assert.Equal(t, sysinfo.StepStatusDegraded, snap.Run.Steps["board"].Status)
	assert.ErrorContains(t, snap.Run.Steps["board"].Err, "no inventory tool")
}

func TestRunner_MissingConstructorDegradesStep(t *testing.T) {
	ctors := happyConstructors()
	ctors.Fans = nil
	runner := newTestRunner(t, ctors)

	_, snap := collectOne(t, runner, context.Background())

	assert.Nil(t, snap.Fans)
	assert.Equal(t, sysinfo.StepStatusDegraded, snap.Run.Steps["fans"].Status)
}

func TestRunner_CancelledContextStillEmitsSnapshot(t *testing.T) {
	runner := newTestRunner(t, happyConstructors())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events, snap := collectOne(t, runner, ctx)

	// All steps degraded, but the contract holds: one snapshot, final 100.
	require.Len(t, snap.Run.Steps, 13)
	for name, stat := range snap.Run.Steps {
		assert.Equal(t, sysinfo.StepStatusDegraded, stat.Status, "step %s", name)
	}
	assert.Equal(t, 100, events[len(events)-1].Percent)
}

func TestRunner_SnapshotsAreIndependent(t *testing.T) {
	runner := newTestRunner(t, happyConstructors())

	_, first := collectOne(t, runner, context.Background())
	_, second := collectOne(t, runner, context.Background())

	require.NotSame(t, first, second)
	require.NotSame(t, first.Memory, second.Memory)

	// Mutating one run's snapshot must not leak into the other.
	first.Memory.Total = 1
	assert.EqualValues(t, 20<<30, second.Memory.Total)
}

func TestRunner_EnvOverridesPaths(t *testing.T) {
	t.Setenv("HOST_PROC", "/custom/proc")
	t.Setenv("HOST_SYS", "/custom/sys")

	runner, err := sysinfo.NewRunner(sysinfo.RunnerOptions{
		Logger:       logr.Discard(),
		Constructors: happyConstructors(),
	})
	require.NoError(t, err)

	assert.Equal(t, "/custom/proc", runner.Config().HostProcPath)
	assert.Equal(t, "/custom/sys", runner.Config().HostSysPath)
}
