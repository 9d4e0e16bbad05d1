// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package sysinfo

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
)

// step is one entry in the fixed collection sequence. message and percent
// form the progress event emitted before the step executes; apply merges the
// collected data into the snapshot under construction.
type step struct {
	name      string
	message   string
	percent   int
	collector PointCollector
	ctorErr   error // non-nil when the collector could not be constructed
	apply     func(snap *Snapshot, data any)
}

// NewStepCollector constructs a PointCollector for one collection step.
// Constructors are registered by the collectors package via RegisterSteps.
type NewStepCollector func(logger logr.Logger, config CollectionConfig) (PointCollector, error)

// StepConstructors is the ordered catalog of step collector factories,
// populated once by the collectors package. Kept as an injection point so
// the runner package does not import its own collectors.
type StepConstructors struct {
	Identity NewStepCollector
	Uptime   NewStepCollector
	Board    NewStepCollector
	CPU      NewStepCollector
	Memory   NewStepCollector
	Storage  NewStepCollector
	Graphics NewStepCollector
	Network  NewStepCollector
	Battery  NewStepCollector
	Thermal  NewStepCollector
	Fans     NewStepCollector
	Process  NewStepCollector
	Load     NewStepCollector
}

// Runner executes the fixed, ordered catalog of collection steps. One call
// to Collect produces exactly one Snapshot; every step is independently
// fault tolerant, so a failure degrades that step's fields and nothing else.
type Runner struct {
	logger logr.Logger
	config CollectionConfig
	steps  []step
}

type RunnerOptions struct {
	Config       CollectionConfig
	Logger       logr.Logger
	Constructors StepConstructors
}

func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Logger.GetSink() == nil {
		return nil, fmt.Errorf("logger is required")
	}

	config := opts.Config
	config.ApplyDefaults()

	// Override paths for containerized environments
	if os.Getenv("HOST_PROC") != "" {
		config.HostProcPath = os.Getenv("HOST_PROC")
	}
	if os.Getenv("HOST_SYS") != "" {
		config.HostSysPath = os.Getenv("HOST_SYS")
	}

	if err := config.Validate(ValidateOptions{
		RequireHostProcPath: true,
		RequireHostSysPath:  true,
	}); err != nil {
		return nil, err
	}

	r := &Runner{
		logger: opts.Logger.WithName("sysinfo-runner"),
		config: config,
	}
	r.steps = buildSteps(r.logger, config, opts.Constructors)
	return r, nil
}

// buildSteps wires the ordered step catalog. A factory that fails (or was
// never registered) leaves a permanently degraded step rather than failing
// runner construction: the run must survive any single source being broken.
func buildSteps(logger logr.Logger, config CollectionConfig, ctors StepConstructors) []step {
	mk := func(name, message string, percent int, ctor NewStepCollector, apply func(*Snapshot, any)) step {
		s := step{name: name, message: message, percent: percent, apply: apply}
		if ctor == nil {
			s.ctorErr = fmt.Errorf("no collector registered for step %q", name)
			return s
		}
		collector, err := ctor(logger, config)
		if err != nil {
			s.ctorErr = fmt.Errorf("failed to create %s collector: %w", name, err)
			logger.Error(err, "step collector unavailable", "step", name)
			return s
		}
		s.collector = collector
		return s
	}

	return []step{
		mk("identity", "Detecting operating system...", 5, ctors.Identity, func(snap *Snapshot, data any) {
			snap.Host = data.(*HostInfo)
		}),
		mk("uptime", "Calculating system uptime...", 10, ctors.Uptime, func(snap *Snapshot, data any) {
			snap.Uptime = data.(*UptimeInfo)
		}),
		mk("board", "Scanning motherboard information...", 20, ctors.Board, func(snap *Snapshot, data any) {
			snap.Board = data.(*BoardInfo)
		}),
		mk("cpu", "Analyzing processor specifications...", 30, ctors.CPU, func(snap *Snapshot, data any) {
			snap.CPU = data.(*CPUInfo)
		}),
		mk("memory", "Examining memory configuration...", 45, ctors.Memory, func(snap *Snapshot, data any) {
			info := data.(*MemoryInfo)
			vendor := Unknown
			if snap.CPU != nil {
				vendor = snap.CPU.Vendor
			}
			info.Capability = MemoryCapabilityFor(info.Total, vendor)
			snap.Memory = info
		}),
		mk("storage", "Scanning storage devices...", 60, ctors.Storage, func(snap *Snapshot, data any) {
			info := data.(*StorageInfo)
			info.Capability = StorageCapabilityFor(info.TotalBytes)
			snap.Storage = info
		}),
		mk("graphics", "Detecting graphics hardware...", 70, ctors.Graphics, func(snap *Snapshot, data any) {
			snap.Graphics = data.([]GPUInfo)
		}),
		mk("network", "Analyzing network interfaces...", 80, ctors.Network, func(snap *Snapshot, data any) {
			snap.Network = data.(*NetworkInfo)
		}),
		mk("battery", "Checking power management...", 85, ctors.Battery, func(snap *Snapshot, data any) {
			snap.Battery = data.(*BatteryInfo)
		}),
		mk("thermal", "Reading sensor data...", 90, ctors.Thermal, func(snap *Snapshot, data any) {
			snap.Thermal = data.(map[string][]TemperatureReading)
		}),
		mk("fans", "Reading fan speeds...", 90, ctors.Fans, func(snap *Snapshot, data any) {
			snap.Fans = data.(map[string][]FanReading)
		}),
		mk("process", "Counting system processes...", 95, ctors.Process, func(snap *Snapshot, data any) {
			snap.Processes = data.(*ProcessCensus)
		}),
		mk("load", "Reading load averages...", 95, ctors.Load, func(snap *Snapshot, data any) {
			snap.Load = data.(*LoadAverages)
		}),
	}
}

// Config returns the effective configuration after defaults and environment
// overrides.
func (r *Runner) Config() CollectionConfig {
	return r.config
}

// Collect starts one collection run on a dedicated worker goroutine and
// returns the progress stream plus the terminal snapshot channel. Exactly
// one Snapshot is delivered and then both channels are closed; the progress
// percentages are non-decreasing and terminate at 100. Collect never fails:
// step errors degrade their own fields only.
//
// Cancelling ctx does not abort the step in flight; it marks the remaining
// steps degraded and the run still emits its snapshot.
func (r *Runner) Collect(ctx context.Context) (<-chan Progress, <-chan *Snapshot) {
	// Buffered for the whole run so a slow consumer can never stall the
	// worker between steps.
	progress := make(chan Progress, len(r.steps)+1)
	result := make(chan *Snapshot, 1)

	go func() {
		defer close(result)
		defer close(progress)

		snap := r.collect(ctx, progress)
		result <- snap
	}()

	return progress, result
}

func (r *Runner) collect(ctx context.Context, progress chan<- Progress) *Snapshot {
	start := time.Now()
	snap := &Snapshot{
		Timestamp: start,
		Run: RunInfo{
			Steps: make(map[string]StepStat, len(r.steps)),
		},
	}

	for _, s := range r.steps {
		progress <- Progress{Message: s.message, Percent: s.percent}
		r.runStep(ctx, s, snap)
	}

	progress <- Progress{Message: "Finalizing system analysis...", Percent: 100}
	snap.Run.Duration = time.Since(start)

	r.logger.V(1).Info("collection run complete",
		"duration", snap.Run.Duration, "steps", len(r.steps))
	return snap
}

// runStep executes one step inside an isolation boundary: errors, panics and
// context cancellation all degrade this step alone.
func (r *Runner) runStep(ctx context.Context, s step, snap *Snapshot) {
	start := time.Now()
	stat := StepStat{Status: StepStatusOK}

	defer func() {
		if p := recover(); p != nil {
			stat.Status = StepStatusDegraded
			stat.Err = fmt.Errorf("step panicked: %v", p)
			r.logger.Error(stat.Err, "collection step panicked", "step", s.name)
		}
		stat.Duration = time.Since(start)
		snap.Run.Steps[s.name] = stat
	}()

	if err := ctx.Err(); err != nil {
		stat.Status = StepStatusDegraded
		stat.Err = err
		return
	}

	if s.collector == nil {
		stat.Status = StepStatusDegraded
		stat.Err = s.ctorErr
		return
	}

	data, err := s.collector.Collect(ctx)
	if err != nil {
		stat.Status = StepStatusDegraded
		stat.Err = err
		r.logger.V(1).Info("collection step degraded", "step", s.name, "error", err.Error())
		return
	}
	if data == nil {
		// Legitimately absent on this host (e.g. no battery, no loadavg).
		return
	}

	s.apply(snap, data)
}
