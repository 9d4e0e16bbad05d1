// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package sysinfo

import "strings"

const gib = 1 << 30

// MemoryCapabilityFor estimates memory expandability from the currently
// installed capacity. The bands are fixed thresholds at 4/8/16/32 GiB; the
// CPU vendor only decorates the type string. This is an estimate derived
// from capacity alone, never a hardware-queried fact.
func MemoryCapabilityFor(totalBytes uint64, cpuVendor string) MemoryCapability {
	totalGB := float64(totalBytes) / gib

	var c MemoryCapability
	switch {
	case totalGB <= 4:
		c = MemoryCapability{
			MaxCapacity: "32 GB",
			Type:        "DDR4",
			MaxSpeed:    "DDR4-3200",
			Slots:       "2-4 slots",
		}
	case totalGB <= 8:
		c = MemoryCapability{
			MaxCapacity: "64 GB",
			Type:        "DDR4",
			MaxSpeed:    "DDR4-3200",
			Slots:       "2-4 slots",
		}
	case totalGB <= 16:
		c = MemoryCapability{
			MaxCapacity: "128 GB",
			Type:        "DDR4/DDR5",
			MaxSpeed:    "DDR4-3600/DDR5-4800",
			Slots:       "4 slots",
		}
	case totalGB <= 32:
		c = MemoryCapability{
			MaxCapacity: "256 GB",
			Type:        "DDR4/DDR5",
			MaxSpeed:    "DDR5-5600",
			Slots:       "4-8 slots",
		}
	default:
		c = MemoryCapability{
			MaxCapacity: "512+ GB",
			Type:        "DDR5/ECC",
			MaxSpeed:    "DDR5-6400+",
			Slots:       "8+ slots",
		}
	}

	if totalGB >= 16 {
		vendor := strings.ToLower(cpuVendor)
		switch {
		case strings.Contains(vendor, "intel"):
			c.Type = "DDR4/DDR5 (Intel)"
		case strings.Contains(vendor, "amd"):
			c.Type = "DDR4/DDR5 (AMD)"
		}
	}

	return c
}

// StorageCapabilityFor estimates storage expandability from the summed
// capacity of all mounted volumes. Bands at 500/1000/2000 GB; an estimate,
// not a hardware-queried fact.
func StorageCapabilityFor(totalBytes uint64) StorageCapability {
	totalGB := float64(totalBytes) / gib

	switch {
	case totalGB <= 500:
		return StorageCapability{
			MaxCapacity: "8-16 TB",
			Interfaces:  []string{"SATA III", "M.2 NVMe"},
			MaxDrives:   "2-4 drives",
		}
	case totalGB <= 1000:
		return StorageCapability{
			MaxCapacity: "16-32 TB",
			Interfaces:  []string{"SATA III", "M.2 NVMe", "PCIe 4.0"},
			MaxDrives:   "4-6 drives",
		}
	case totalGB <= 2000:
		return StorageCapability{
			MaxCapacity: "32-64 TB",
			Interfaces:  []string{"SATA III", "M.2 NVMe", "PCIe 4.0", "U.2"},
			MaxDrives:   "6-8 drives",
		}
	default:
		return StorageCapability{
			MaxCapacity: "64+ TB",
			Interfaces:  []string{"SATA III", "M.2 NVMe", "PCIe 5.0", "U.2", "Enterprise SAS"},
			MaxDrives:   "8+ drives",
		}
	}
}
