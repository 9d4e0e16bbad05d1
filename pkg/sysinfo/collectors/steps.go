// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

// Package collectors implements the point collectors behind each collection
// step: one collector per hardware or OS category, each independently fault
// tolerant.
package collectors

import (
	"github.com/go-logr/logr"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// Steps returns the full collector catalog for the runner's fixed step
// sequence.
func Steps() sysinfo.StepConstructors {
	return sysinfo.StepConstructors{
		Identity: wrap(NewIdentityCollector),
		Uptime:   wrap(NewUptimeCollector),
		Board:    wrap(NewBoardCollector),
		CPU:      wrap(NewCPUCollector),
		Memory:   wrap(NewMemoryCollector),
		Storage:  wrap(NewStorageCollector),
		Graphics: wrap(NewGraphicsCollector),
		Network:  wrap(NewNetworkCollector),
		Battery:  wrap(NewBatteryCollector),
		Thermal:  wrap(NewThermalCollector),
		Fans:     wrap(NewFansCollector),
		Process:  wrap(NewProcessCollector),
		Load:     wrap(NewLoadCollector),
	}
}

// wrap adapts a concrete constructor to the runner's factory signature.
func wrap[T sysinfo.PointCollector](ctor func(logr.Logger, sysinfo.CollectionConfig) (T, error)) sysinfo.NewStepCollector {
	return func(logger logr.Logger, config sysinfo.CollectionConfig) (sysinfo.PointCollector, error) {
		return ctor(logger, config)
	}
}
