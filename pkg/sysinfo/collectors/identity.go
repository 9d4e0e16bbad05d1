// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"runtime"

	"github.com/go-logr/logr"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// IdentityCollector collects OS identity: name, release, kernel build,
// hostname, architecture and the logged-in user.
type IdentityCollector struct {
	sysinfo.BaseCollector

	hostInfo    func(ctx context.Context) (*host.InfoStat, error)
	currentUser func() (*user.User, error)
}

func NewIdentityCollector(logger logr.Logger, config sysinfo.CollectionConfig) (*IdentityCollector, error) {
	return &IdentityCollector{
		BaseCollector: sysinfo.NewBaseCollector(
			"identity",
			logger,
			config,
			sysinfo.CollectorCapabilities{},
		),
		hostInfo:    host.InfoWithContext,
		currentUser: user.Current,
	}, nil
}

func (c *IdentityCollector) Collect(ctx context.Context) (any, error) {
	info, err := c.hostInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read host info: %w", err)
	}

	h := &sysinfo.HostInfo{
		OSName:       osDisplayName(info.OS),
		OSVersion:    info.PlatformVersion,
		OSBuild:      info.KernelVersion,
		Architecture: info.KernelArch,
		Machine:      runtime.GOARCH,
		Hostname:     info.Hostname,
		Username:     c.username(),
	}
	if h.OSVersion == "" {
		h.OSVersion = sysinfo.Unknown
	}
	if h.OSBuild == "" {
		h.OSBuild = sysinfo.Unknown
	}
	if h.Architecture == "" {
		h.Architecture = sysinfo.Unknown
	}
	if h.Hostname == "" {
		h.Hostname = sysinfo.Unknown
	}
	h.OSFull = h.OSName
	if h.OSVersion != sysinfo.Unknown {
		h.OSFull = h.OSName + " " + h.OSVersion
	}

	return h, nil
}

// username resolves the invoking user, falling back to the environment the
// way interactive shells populate it.
func (c *IdentityCollector) username() string {
	if u, err := c.currentUser(); err == nil && u.Username != "" {
		return u.Username
	}
	if v := os.Getenv("USERNAME"); v != "" {
		return v
	}
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	return sysinfo.Unknown
}

func osDisplayName(osName string) string {
	switch osName {
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	case "darwin":
		return "macOS"
	case "freebsd":
		return "FreeBSD"
	case "openbsd":
		return "OpenBSD"
	case "":
		return sysinfo.Unknown
	default:
		return osName
	}
}
