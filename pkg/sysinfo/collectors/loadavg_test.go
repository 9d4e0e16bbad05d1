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
	"github.com/shirou/gopsutil/v3/load"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

func TestLoadCollector_RoundsToTwoDecimals(t *testing.T) {
	c, err := NewLoadCollector(logr.Discard(), sysinfo.DefaultCollectionConfig())
	require.NoError(t, err)

	c.avg = func(context.Context) (*load.AvgStat, error) {
		return &load.AvgStat{Load1: 1.23456, Load5: 0.995, Load15: 2.0}, nil
	}

	data, err := c.Collect(context.Background())
	require.NoError(t, err)
	l := data.(*sysinfo.LoadAverages)

	assert.Equal(t, 1.23, l.Load1)
	assert.Equal(t, 1.0, l.Load5)
	assert.Equal(t, 2.0, l.Load15)
}

func TestLoadCollector_UnsupportedPlatformIsAbsent(t *testing.T) {
	c, err := NewLoadCollector(logr.Discard(), sysinfo.DefaultCollectionConfig())
	require.NoError(t, err)

	c.avg = func(context.Context) (*load.AvgStat, error) {
		return nil, errors.New("load average not implemented")
	}

	data, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}
