// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package dashboard

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

const notAvailable = "N/A"

// renderSnapshot writes the full text dashboard. Categories that degraded
// (nil pointers) render as a single N/A line instead of vanishing, so the
// layout stays stable across runs.
func renderSnapshot(w io.Writer, snap *sysinfo.Snapshot) {
	fmt.Fprintf(w, "\nSystem Analysis  %s\n", snap.Timestamp.Format(time.RFC1123))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	renderHost(w, snap.Host, snap.Uptime)
	renderBoard(w, snap.Board)
	renderCPU(w, snap.CPU)
	renderMemory(w, snap.Memory)
	renderStorage(w, snap.Storage)
	renderGraphics(w, snap.Graphics)
	renderNetwork(w, snap.Network)
	renderBattery(w, snap.Battery)
	renderThermal(w, snap.Thermal)
	renderFans(w, snap.Fans)
	renderProcesses(w, snap.Processes)
	renderLoad(w, snap.Load)
	renderRun(w, snap.Run)
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func renderHost(w io.Writer, h *sysinfo.HostInfo, u *sysinfo.UptimeInfo) {
	section(w, "System")
	if h == nil {
		fmt.Fprintln(w, "  "+notAvailable)
	} else {
		fmt.Fprintf(w, "  OS:           %s\n", h.OSFull)
		fmt.Fprintf(w, "  Kernel:       %s\n", h.OSBuild)
		fmt.Fprintf(w, "  Architecture: %s (%s)\n", h.Architecture, h.Machine)
		fmt.Fprintf(w, "  Host:         %s\n", h.Hostname)
		fmt.Fprintf(w, "  User:         %s\n", h.Username)
	}
	if u != nil {
		fmt.Fprintf(w, "  Booted:       %s (up %s)\n",
			u.BootTime.Format(time.RFC1123), formatDuration(u.Elapsed))
	}
}

func renderBoard(w io.Writer, b *sysinfo.BoardInfo) {
	section(w, "Motherboard")
	if b == nil {
		fmt.Fprintln(w, "  "+notAvailable)
		return
	}
	fmt.Fprintf(w, "  Manufacturer: %s\n", b.Manufacturer)
	fmt.Fprintf(w, "  Product:      %s\n", b.Product)
	fmt.Fprintf(w, "  Version:      %s\n", b.Version)
	fmt.Fprintf(w, "  Serial:       %s\n", b.Serial)
}

func renderCPU(w io.Writer, c *sysinfo.CPUInfo) {
	section(w, "Processor")
	if c == nil {
		fmt.Fprintln(w, "  "+notAvailable)
		return
	}
	fmt.Fprintf(w, "  Model:        %s\n", c.ModelName)
	fmt.Fprintf(w, "  Vendor:       %s\n", c.Vendor)
	fmt.Fprintf(w, "  Cores:        %d physical / %d logical\n", c.PhysicalCores, c.LogicalCores)
	if c.MHz > 0 {
		line := fmt.Sprintf("  Frequency:    %.0f MHz", c.MHz)
		if c.MaxMHz > 0 {
			line += fmt.Sprintf(" (%.0f-%.0f MHz)", c.MinMHz, c.MaxMHz)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "  Usage:        %.1f%%\n", c.UsagePercent)
	if c.CacheL3 > 0 {
		fmt.Fprintf(w, "  Cache:        L1d %s, L2 %s, L3 %s\n",
			humanize.IBytes(uint64(c.CacheL1)),
			humanize.IBytes(uint64(c.CacheL2)),
			humanize.IBytes(uint64(c.CacheL3)))
	}
}

func renderMemory(w io.Writer, m *sysinfo.MemoryInfo) {
	section(w, "Memory")
	if m == nil {
		fmt.Fprintln(w, "  "+notAvailable)
		return
	}
	fmt.Fprintf(w, "  Installed:    %s (%.1f%% used)\n", humanize.IBytes(m.Total), m.UsedPercent)
	fmt.Fprintf(w, "  Available:    %s\n", humanize.IBytes(m.Available))
	if m.SwapTotal > 0 {
		fmt.Fprintf(w, "  Swap:         %s / %s (%.1f%%)\n",
			humanize.IBytes(m.SwapUsed), humanize.IBytes(m.SwapTotal), m.SwapPercent)
	}
	mc := m.Capability
	fmt.Fprintf(w, "  Expandable:   up to %s %s, %s, %s\n",
		mc.MaxCapacity, mc.Type, mc.MaxSpeed, mc.Slots)
}

func renderStorage(w io.Writer, s *sysinfo.StorageInfo) {
	section(w, "Storage")
	if s == nil {
		fmt.Fprintln(w, "  "+notAvailable)
		return
	}
	for _, v := range s.Volumes {
		fmt.Fprintf(w, "  %-20s %-8s %s / %s (%.1f%%)\n",
			v.Mountpoint, v.Fstype,
			humanize.IBytes(v.Used), humanize.IBytes(v.Total), v.UsedPercent)
		if v.IO != nil {
			fmt.Fprintf(w, "    io: read %s, written %s\n",
				humanize.IBytes(v.IO.ReadBytes), humanize.IBytes(v.IO.WriteBytes))
		}
	}
	fmt.Fprintf(w, "  Total:        %s\n", humanize.IBytes(s.TotalBytes))
	fmt.Fprintf(w, "  Expandable:   up to %s via %s, %s\n",
		s.Capability.MaxCapacity,
		strings.Join(s.Capability.Interfaces, "/"),
		s.Capability.MaxDrives)
}

func renderGraphics(w io.Writer, gpus []sysinfo.GPUInfo) {
	section(w, "Graphics")
	if len(gpus) == 0 {
		fmt.Fprintln(w, "  No dedicated adapters detected")
		return
	}
	for _, g := range gpus {
		fmt.Fprintf(w, "  %s\n", g.Name)
		if g.HasMetrics {
			fmt.Fprintf(w, "    memory: %d/%d MB, load %.0f%%, %.0f C\n",
				g.MemoryUsedMB, g.MemoryTotalMB, g.LoadPercent, g.TemperatureC)
		}
	}
}

func renderNetwork(w io.Writer, n *sysinfo.NetworkInfo) {
	section(w, "Network")
	if n == nil {
		fmt.Fprintln(w, "  "+notAvailable)
		return
	}
	for _, iface := range n.Interfaces {
		state := "down"
		if iface.Up {
			state = "up"
		}
		fmt.Fprintf(w, "  %-12s %s  mtu %d  %s\n", iface.Name, state, iface.MTU, iface.MAC)
		for _, a := range iface.Addresses {
			fmt.Fprintf(w, "    %s %s/%s\n", a.Type, a.Address, a.Netmask)
		}
		if iface.SpeedMbps > 0 {
			fmt.Fprintf(w, "    speed: %d Mbps\n", iface.SpeedMbps)
		}
		if iface.IO != nil {
			fmt.Fprintf(w, "    io: sent %s, received %s\n",
				humanize.IBytes(iface.IO.BytesSent), humanize.IBytes(iface.IO.BytesRecv))
		}
	}
	if n.Totals != nil {
		fmt.Fprintf(w, "  Totals:       sent %s, received %s\n",
			humanize.IBytes(n.Totals.BytesSent), humanize.IBytes(n.Totals.BytesRecv))
	}
}

func renderBattery(w io.Writer, b *sysinfo.BatteryInfo) {
	section(w, "Battery")
	if b == nil {
		fmt.Fprintln(w, "  No battery present")
		return
	}
	state := "discharging"
	if b.Plugged {
		state = "plugged in"
	}
	fmt.Fprintf(w, "  Charge:       %.0f%% (%s)\n", b.Percent, state)
	if b.TimeLeft != "" {
		fmt.Fprintf(w, "  Remaining:    %s\n", b.TimeLeft)
	}
}

func renderThermal(w io.Writer, groups map[string][]sysinfo.TemperatureReading) {
	section(w, "Temperatures")
	if len(groups) == 0 {
		fmt.Fprintln(w, "  No sensors detected")
		return
	}
	for _, name := range sortedKeys(groups) {
		fmt.Fprintf(w, "  %s:\n", name)
		for _, r := range groups[name] {
			line := fmt.Sprintf("    %-16s %.1f C", r.Label, r.Current)
			if r.Critical > 0 {
				line += fmt.Sprintf(" (crit %.0f C)", r.Critical)
			}
			fmt.Fprintln(w, line)
		}
	}
}

func renderFans(w io.Writer, groups map[string][]sysinfo.FanReading) {
	section(w, "Fans")
	if len(groups) == 0 {
		fmt.Fprintln(w, "  No fans detected")
		return
	}
	for _, name := range sortedKeys(groups) {
		fmt.Fprintf(w, "  %s:\n", name)
		for _, r := range groups[name] {
			fmt.Fprintf(w, "    %-16s %d RPM\n", r.Label, r.RPM)
		}
	}
}

func renderProcesses(w io.Writer, p *sysinfo.ProcessCensus) {
	section(w, "Processes")
	if p == nil {
		fmt.Fprintln(w, "  "+notAvailable)
		return
	}
	fmt.Fprintf(w, "  Total: %d (%d running, %d sleeping)\n", p.Total, p.Running, p.Sleeping)
}

func renderLoad(w io.Writer, l *sysinfo.LoadAverages) {
	if l == nil {
		return
	}
	section(w, "Load Average")
	fmt.Fprintf(w, "  %.2f %.2f %.2f\n", l.Load1, l.Load5, l.Load15)
}

func renderRun(w io.Writer, run sysinfo.RunInfo) {
	degraded := make([]string, 0)
	for _, name := range sortedKeys(run.Steps) {
		if run.Steps[name].Status == sysinfo.StepStatusDegraded {
			degraded = append(degraded, name)
		}
	}
	fmt.Fprintf(w, "\nCollected in %s", run.Duration.Round(time.Millisecond))
	if len(degraded) > 0 {
		fmt.Fprintf(w, " (degraded: %s)", strings.Join(degraded, ", "))
	}
	fmt.Fprintln(w)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	minutes := (d % time.Hour) / time.Minute
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
