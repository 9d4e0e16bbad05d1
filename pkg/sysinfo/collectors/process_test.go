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

	"github.com/go-logr/logr"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

func newTestProcessCollector(t *testing.T) *ProcessCollector {
	t.Helper()
	c, err := NewProcessCollector(logr.Discard(), sysinfo.DefaultCollectionConfig())
	require.NoError(t, err)
	return c
}

func TestProcessCollector_CountsByStatus(t *testing.T) {
	c := newTestProcessCollector(t)

	statuses := map[int32][]string{
		1: {process.Running},
		2: {process.Sleep},
		3: {process.Sleep},
		4: {process.Zombie},
		5: {process.Running},
	}
	c.processes = func(context.Context) ([]*process.Process, error) {
		var procs []*process.Process
		for pid := int32(1); pid <= 5; pid++ {
			procs = append(procs, &process.Process{Pid: pid})
		}
		return procs, nil
	}
	c.status = func(_ context.Context, p *process.Process) ([]string, error) {
		return statuses[p.Pid], nil
	}

	data, err := c.Collect(context.Background())
	require.NoError(t, err)
	census := data.(*sysinfo.ProcessCensus)

	assert.Equal(t, 5, census.Total)
	assert.Equal(t, 2, census.Running)
	assert.Equal(t, 2, census.Sleeping)
}

func TestProcessCollector_VanishedProcessStillCounts(t *testing.T) {
	c := newTestProcessCollector(t)

	c.processes = func(context.Context) ([]*process.Process, error) {
		return []*process.Process{{Pid: 1}, {Pid: 2}}, nil
	}
	c.status = func(_ context.Context, p *process.Process) ([]string, error) {
		if p.Pid == 2 {
			return nil, errors.New("process exited")
		}
		return []string{process.Running}, nil
	}

	data, err := c.Collect(context.Background())
	require.NoError(t, err)
	census := data.(*sysinfo.ProcessCensus)

	assert.Equal(t, 2, census.Total)
	assert.Equal(t, 1, census.Running)
	assert.Zero(t, census.Sleeping)
}

func TestProcessCollector_EnumerationFailureIsFatal(t *testing.T) {
	c := newTestProcessCollector(t)
	c.processes = func(context.Context) ([]*process.Process, error) {
		return nil, errors.New("proc unreadable")
	}

	_, err := c.Collect(context.Background())
	require.Error(t, err)
}
