// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package sysinfo

import (
	"time"
)

// Unknown is the sentinel value for string fields that could not be collected.
// Numeric zero values remain legitimate readings; a field-level failure is
// visible either through this sentinel or through a nil category pointer.
const Unknown = "Unknown"

// Progress is one event on the collection progress stream. Percent values
// within a single run form a non-decreasing sequence terminating at 100.
type Progress struct {
	Message string
	Percent int
}

// StepStatus represents the outcome of a single collection step
type StepStatus string

const (
	StepStatusOK       StepStatus = "ok"
	StepStatusDegraded StepStatus = "degraded"
)

// StepStat tracks an individual collection step within one run
type StepStat struct {
	Status   StepStatus
	Duration time.Duration
	Err      error
}

// RunInfo contains metadata about a collection run
type RunInfo struct {
	Duration time.Duration
	Steps    map[string]StepStat
}

// Snapshot is one complete set of host facts produced by a single collection
// run. It is rebuilt from scratch on every run and never mutated after the
// runner hands it out; a nil category pointer means that step degraded
// entirely.
type Snapshot struct {
	Timestamp time.Time

	Host      *HostInfo
	Uptime    *UptimeInfo
	Board     *BoardInfo
	CPU       *CPUInfo
	Memory    *MemoryInfo
	Storage   *StorageInfo
	Graphics  []GPUInfo
	Network   *NetworkInfo
	Battery   *BatteryInfo
	Thermal   map[string][]TemperatureReading
	Fans      map[string][]FanReading
	Processes *ProcessCensus
	Load      *LoadAverages

	Run RunInfo
}

// HostInfo identifies the operating system and machine
type HostInfo struct {
	OSName       string // e.g. "Linux", "Windows", "macOS"
	OSVersion    string // platform release, e.g. "22.04"
	OSBuild      string // kernel or build version string
	OSFull       string // display string combining name and release
	Architecture string // kernel architecture, e.g. "x86_64"
	Machine      string // compiled architecture, e.g. "amd64"
	Hostname     string
	Username     string
}

// UptimeInfo records when the host booted and how long it has been up
type UptimeInfo struct {
	BootTime time.Time
	Elapsed  time.Duration
}

// BoardInfo holds best-effort motherboard identity from the platform
// inventory tool (wmic on Windows, dmidecode on Linux). All fields default
// to Unknown; platforms without an inventory tool report all-Unknown.
type BoardInfo struct {
	Manufacturer string
	Product      string
	Version      string
	Serial       string
}

// NewBoardInfo returns a BoardInfo with every field set to Unknown.
func NewBoardInfo() *BoardInfo {
	return &BoardInfo{
		Manufacturer: Unknown,
		Product:      Unknown,
		Version:      Unknown,
		Serial:       Unknown,
	}
}

// CPUInfo describes the processor and its utilization at sample time.
// Utilization is a blocking sample over a short fixed window (see
// CollectionConfig.CPUSampleWindow); 0 is a legitimate reading.
type CPUInfo struct {
	Vendor    string
	ModelName string // normalized: whitespace collapsed, trademark markers stripped

	PhysicalCores int
	LogicalCores  int

	MHz    float64 // current frequency
	MinMHz float64
	MaxMHz float64

	UsagePercent float64   // aggregate, 0-100
	PerCoreUsage []float64 // per logical CPU, 0-100

	CacheL1 int // bytes, 0 when unknown
	CacheL2 int
	CacheL3 int

	Flags []string // feature flags from the CPU identification source
}

// MemoryCapability is an estimated upper bound on memory expandability,
// derived from fixed threshold bands on currently installed capacity. It is
// a heuristic, not a hardware-verified fact.
type MemoryCapability struct {
	MaxCapacity string
	Type        string
	MaxSpeed    string
	Slots       string
}

// MemoryInfo holds physical and swap memory usage, all byte counts
type MemoryInfo struct {
	Total     uint64
	Used      uint64
	Available uint64
	Free      uint64
	Cached    uint64
	Buffers   uint64

	UsedPercent float64

	SwapTotal   uint64
	SwapUsed    uint64
	SwapFree    uint64
	SwapPercent float64

	Capability MemoryCapability
}

// VolumeIO holds cumulative I/O counters for the device backing a volume
type VolumeIO struct {
	ReadBytes  uint64
	WriteBytes uint64
	ReadCount  uint64
	WriteCount uint64
}

// Volume is one mounted filesystem
type Volume struct {
	Device      string
	Mountpoint  string
	Fstype      string
	Total       uint64
	Used        uint64
	Free        uint64
	UsedPercent float64
	IO          *VolumeIO // nil when no I/O counters matched the device
}

// StorageCapability is the storage analog of MemoryCapability
type StorageCapability struct {
	MaxCapacity string
	Interfaces  []string
	MaxDrives   string
}

// StorageInfo holds all mounted volumes plus the aggregate capability estimate
type StorageInfo struct {
	Volumes    []Volume
	TotalBytes uint64
	Capability StorageCapability
}

// GPUInfo describes one graphics adapter. Only Name is guaranteed; the
// remaining fields are populated when the dedicated GPU query tool answers.
type GPUInfo struct {
	Name string

	HasMetrics    bool // true when the fields below carry real readings
	MemoryTotalMB uint64
	MemoryUsedMB  uint64
	MemoryFreeMB  uint64
	LoadPercent   float64
	TemperatureC  float64
}

// Address is one non-loopback address bound to an interface
type Address struct {
	Type    string // "IPv4"
	Address string
	Netmask string
}

// InterfaceIO holds cumulative per-interface I/O counters
type InterfaceIO struct {
	BytesSent   uint64
	BytesRecv   uint64
	PacketsSent uint64
	PacketsRecv uint64
	ErrorsIn    uint64
	ErrorsOut   uint64
	DropsIn     uint64
	DropsOut    uint64
}

// Interface is one physical network interface. Loopback and virtual
// interfaces, and interfaces without any non-loopback IPv4 address, are
// excluded at collection time.
type Interface struct {
	Name      string
	Up        bool
	SpeedMbps uint64 // 0 when the platform does not report link speed
	MTU       int
	MAC       string
	Addresses []Address
	IO        *InterfaceIO // nil when no counters were reported
}

// NetworkTotals aggregates I/O over all interfaces, including the ones
// filtered out of the interface list.
type NetworkTotals struct {
	BytesSent   uint64
	BytesRecv   uint64
	PacketsSent uint64
	PacketsRecv uint64
}

// NetworkInfo holds the filtered interface list and the global totals
type NetworkInfo struct {
	Interfaces []Interface
	Totals     *NetworkTotals
}

// BatteryInfo holds battery state; the category is absent on systems
// without a battery.
type BatteryInfo struct {
	Percent float64
	Plugged bool
	// TimeLeft is a human readable remaining-time estimate such as "1h 30m",
	// present only when the platform reports a finite positive estimate.
	TimeLeft    string
	SecondsLeft int64 // -1 when no finite estimate exists
}

// TemperatureReading is one thermal sensor reading. Label falls back to the
// sensor group name when the platform supplies no per-reading label.
type TemperatureReading struct {
	Label    string
	Current  float64
	High     float64
	Critical float64
}

// FanReading is one fan tachometer reading
type FanReading struct {
	Label string
	RPM   uint64
}

// ProcessCensus counts live processes by status
type ProcessCensus struct {
	Total    int
	Running  int
	Sleeping int
}

// LoadAverages holds the 1/5/15 minute load figures, rounded to 2 decimal
// digits. The category is absent on platforms without the concept.
type LoadAverages struct {
	Load1  float64
	Load5  float64
	Load15 float64
}
