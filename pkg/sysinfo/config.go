// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package sysinfo

import (
	"fmt"
	"path/filepath"
	"time"
)

// CollectionConfig represents configuration for a collection run
type CollectionConfig struct {
	// HostProcPath and HostSysPath point at /proc and /sys (useful for
	// containers and for tests that stage fixture trees).
	HostProcPath string
	HostSysPath  string

	// CPUSampleWindow is the blocking window for the instantaneous CPU
	// utilization sample. Short windows are noisier; long windows stall the
	// collection worker.
	CPUSampleWindow time.Duration

	// CommandTimeout bounds external inventory tool invocations so a hung
	// helper cannot stall the collector indefinitely.
	CommandTimeout time.Duration
}

// DefaultCollectionConfig returns a default configuration
func DefaultCollectionConfig() CollectionConfig {
	return CollectionConfig{
		HostProcPath:    "/proc",
		HostSysPath:     "/sys",
		CPUSampleWindow: 100 * time.Millisecond,
		CommandTimeout:  10 * time.Second,
	}
}

// ApplyDefaults fills in zero values with defaults
func (c *CollectionConfig) ApplyDefaults() {
	defaults := DefaultCollectionConfig()

	if c.HostProcPath == "" {
		c.HostProcPath = defaults.HostProcPath
	}
	if c.HostSysPath == "" {
		c.HostSysPath = defaults.HostSysPath
	}
	if c.CPUSampleWindow == 0 {
		c.CPUSampleWindow = defaults.CPUSampleWindow
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = defaults.CommandTimeout
	}
}

// ValidateOptions specifies validation requirements for CollectionConfig
type ValidateOptions struct {
	RequireHostProcPath bool
	RequireHostSysPath  bool
}

// Validate ensures that all configured paths are absolute paths and that
// required paths are non-empty.
func (c *CollectionConfig) Validate(opt ValidateOptions) error {
	if opt.RequireHostProcPath && c.HostProcPath == "" {
		return fmt.Errorf("HostProcPath is required but not provided")
	}
	if opt.RequireHostSysPath && c.HostSysPath == "" {
		return fmt.Errorf("HostSysPath is required but not provided")
	}

	if c.HostProcPath != "" && !filepath.IsAbs(c.HostProcPath) {
		return fmt.Errorf("HostProcPath must be an absolute path, got: %q", c.HostProcPath)
	}
	if c.HostSysPath != "" && !filepath.IsAbs(c.HostSysPath) {
		return fmt.Errorf("HostSysPath must be an absolute path, got: %q", c.HostSysPath)
	}
	return nil
}
