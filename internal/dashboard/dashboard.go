// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

// Package dashboard drives periodic collection runs and hands the results to
// a presenter. Runs are strictly serialized: the refresh timer and manual
// refresh requests feed one loop, so two collection runs never overlap.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

const DefaultRefreshInterval = 30 * time.Second

// Collector produces one snapshot per call with a progress stream alongside.
// *sysinfo.Runner is the production implementation.
type Collector interface {
	Collect(ctx context.Context) (<-chan sysinfo.Progress, <-chan *sysinfo.Snapshot)
}

// Presenter consumes one run's progress events followed by its snapshot.
// Calls arrive from a single goroutine.
type Presenter interface {
	Progress(p sysinfo.Progress)
	Render(snap *sysinfo.Snapshot)
}

// Dashboard owns the refresh loop around a Collector and a Presenter.
type Dashboard struct {
	collector Collector
	presenter Presenter
	logger    logr.Logger
	interval  time.Duration

	// refresh carries at most one pending manual request; extra requests
	// while a run is in flight coalesce into it.
	refresh chan struct{}
}

type Options struct {
	Collector Collector
	Presenter Presenter
	Logger    logr.Logger
	// Interval between automatic refreshes; DefaultRefreshInterval when zero.
	Interval time.Duration
}

func New(opts Options) (*Dashboard, error) {
	if opts.Collector == nil {
		return nil, fmt.Errorf("collector is required")
	}
	if opts.Presenter == nil {
		return nil, fmt.Errorf("presenter is required")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Dashboard{
		collector: opts.Collector,
		presenter: opts.Presenter,
		logger:    opts.Logger.WithName("dashboard"),
		interval:  interval,
		refresh:   make(chan struct{}, 1),
	}, nil
}

// Refresh requests an immediate collection run. Never blocks; a request made
// while one is already pending is absorbed.
func (d *Dashboard) Refresh() {
	select {
	case d.refresh <- struct{}{}:
	default:
	}
}

// RunOnce performs a single collection run and presents it.
func (d *Dashboard) RunOnce(ctx context.Context) {
	start := time.Now()
	progress, result := d.collector.Collect(ctx)

	for p := range progress {
		d.presenter.Progress(p)
	}
	snap := <-result
	if snap != nil {
		d.presenter.Render(snap)
	}

	d.logger.V(1).Info("refresh complete", "elapsed", time.Since(start))
}

// Run refreshes immediately, then on every interval tick and every manual
// Refresh request, until ctx is cancelled. The interval timer restarts after
// each run so a manual refresh pushes the next automatic one out.
func (d *Dashboard) Run(ctx context.Context) error {
	d.RunOnce(ctx)

	timer := time.NewTimer(d.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		case <-d.refresh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		d.RunOnce(ctx)
		timer.Reset(d.interval)
	}
}
