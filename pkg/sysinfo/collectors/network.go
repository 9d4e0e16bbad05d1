// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	gopsnet "github.com/shirou/gopsutil/v3/net"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// NetworkCollector enumerates physical network interfaces and aggregates
// global I/O totals. Loopback and virtual interfaces are filtered out of the
// interface list; the totals still cover every interface on the host.
type NetworkCollector struct {
	sysinfo.BaseCollector

	interfaces func(ctx context.Context) (gopsnet.InterfaceStatList, error)
	ioCounters func(ctx context.Context, pernic bool) ([]gopsnet.IOCountersStat, error)
	linkSpeed  func(name string) uint64
}

func NewNetworkCollector(logger logr.Logger, config sysinfo.CollectionConfig) (*NetworkCollector, error) {
	c := &NetworkCollector{
		BaseCollector: sysinfo.NewBaseCollector(
			"network",
			logger,
			config,
			sysinfo.CollectorCapabilities{},
		),
		interfaces: gopsnet.InterfacesWithContext,
		ioCounters: gopsnet.IOCountersWithContext,
	}
	c.linkSpeed = c.sysfsLinkSpeed
	return c, nil
}

func (c *NetworkCollector) Collect(ctx context.Context) (any, error) {
	ifaces, err := c.interfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list network interfaces: %w", err)
	}

	perNIC := make(map[string]gopsnet.IOCountersStat)
	if counters, err := c.ioCounters(ctx, true); err != nil {
		c.Logger().V(1).Info("per-interface io counters unavailable", "error", err.Error())
	} else {
		for _, stat := range counters {
			perNIC[stat.Name] = stat
		}
	}

	info := &sysinfo.NetworkInfo{}
	for _, iface := range ifaces {
		if excludeInterface(iface.Name) {
			continue
		}
		addrs := interfaceAddresses(iface.Addrs)
		if len(addrs) == 0 {
			// No usable IPv4 address; not a live physical interface.
			continue
		}

		out := sysinfo.Interface{
			Name:      iface.Name,
			Up:        hasFlag(iface.Flags, "up"),
			SpeedMbps: c.linkSpeed(iface.Name),
			MTU:       iface.MTU,
			MAC:       iface.HardwareAddr,
			Addresses: addrs,
		}
		if stat, ok := perNIC[iface.Name]; ok {
			out.IO = &sysinfo.InterfaceIO{
				BytesSent:   stat.BytesSent,
				BytesRecv:   stat.BytesRecv,
				PacketsSent: stat.PacketsSent,
				PacketsRecv: stat.PacketsRecv,
				ErrorsIn:    stat.Errin,
				ErrorsOut:   stat.Errout,
				DropsIn:     stat.Dropin,
				DropsOut:    stat.Dropout,
			}
		}
		info.Interfaces = append(info.Interfaces, out)
	}

	if totals, err := c.ioCounters(ctx, false); err != nil {
		c.Logger().V(1).Info("aggregate io counters unavailable", "error", err.Error())
	} else if len(totals) > 0 {
		info.Totals = &sysinfo.NetworkTotals{
			BytesSent:   totals[0].BytesSent,
			BytesRecv:   totals[0].BytesRecv,
			PacketsSent: totals[0].PacketsSent,
			PacketsRecv: totals[0].PacketsRecv,
		}
	}

	return info, nil
}

// excludeInterface drops loopback and virtualization artifacts from the
// interface list. Matching is by name only: "lo" and "loopback" exactly,
// anything containing "virtual" case-insensitively.
func excludeInterface(name string) bool {
	lower := strings.ToLower(name)
	if lower == "lo" || lower == "loopback" {
		return true
	}
	return strings.Contains(lower, "virtual")
}

// interfaceAddresses keeps the non-loopback IPv4 addresses, converting the
// CIDR form gopsutil reports into address plus dotted netmask.
func interfaceAddresses(addrs gopsnet.InterfaceAddrList) []sysinfo.Address {
	var out []sysinfo.Address
	for _, a := range addrs {
		ip, ipnet, err := net.ParseCIDR(a.Addr)
		if err != nil {
			ip = net.ParseIP(a.Addr)
			ipnet = nil
		}
		if ip == nil || ip.To4() == nil || ip.IsLoopback() {
			continue
		}

		addr := sysinfo.Address{Type: "IPv4", Address: ip.String()}
		if ipnet != nil {
			if mask := net.IP(ipnet.Mask); mask.To4() != nil || len(mask) == 4 {
				addr.Netmask = net.IP(ipnet.Mask).String()
			}
		}
		out = append(out, addr)
	}
	return out
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}

// sysfsLinkSpeed reads the negotiated link speed in Mbps from sysfs. Absent
// or unreadable (wireless, down links report -1) means 0.
func (c *NetworkCollector) sysfsLinkSpeed(name string) uint64 {
	p := filepath.Join(c.Config().HostSysPath, "class", "net", name, "speed")
	data, err := os.ReadFile(p)
	if err != nil {
		return 0
	}
	speed, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || speed <= 0 {
		return 0
	}
	return uint64(speed)
}
