// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"strings"

	"github.com/go-logr/logr"

	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
)

// BoardCollector collects motherboard identity via the platform inventory
// tool: wmic on Windows, dmidecode on Linux. Other platforms report
// all-Unknown. The query never fails the step; a broken or missing tool
// degrades to Unknown fields with the reason logged.
type BoardCollector struct {
	sysinfo.BaseCollector

	query func(ctx context.Context) (*sysinfo.BoardInfo, error)
}

func NewBoardCollector(logger logr.Logger, config sysinfo.CollectionConfig) (*BoardCollector, error) {
	c := &BoardCollector{
		BaseCollector: sysinfo.NewBaseCollector(
			"board",
			logger,
			config,
			sysinfo.CollectorCapabilities{RequiresExternalTools: true},
		),
	}
	c.query = c.queryBoard
	return c, nil
}

func (c *BoardCollector) Collect(ctx context.Context) (any, error) {
	info, err := c.query(ctx)
	if err != nil {
		c.Logger().V(1).Info("board inventory unavailable", "error", err.Error())
		return sysinfo.NewBoardInfo(), nil
	}
	if info == nil {
		return sysinfo.NewBoardInfo(), nil
	}
	return info, nil
}

// parseDmidecodeBaseboard extracts board identity from `dmidecode -t baseboard`
// output. Missing fields stay Unknown.
func parseDmidecodeBaseboard(out string) *sysinfo.BoardInfo {
	info := sysinfo.NewBoardInfo()

	set := func(dst *string, value string) {
		value = strings.TrimSpace(value)
		if value != "" {
			*dst = value
		}
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Manufacturer":
			set(&info.Manufacturer, value)
		case "Product Name":
			set(&info.Product, value)
		case "Version":
			set(&info.Version, value)
		case "Serial Number":
			set(&info.Serial, value)
		}
	}

	return info
}

// parseWmicBaseboard extracts board identity from
// `wmic baseboard get manufacturer,product,version,serialnumber /format:csv`.
// CSV column order is Node,Manufacturer,Product,SerialNumber,Version.
func parseWmicBaseboard(out string) *sysinfo.BoardInfo {
	info := sysinfo.NewBoardInfo()

	lines := strings.Split(strings.ReplaceAll(out, "\r", ""), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, ",") {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 5 {
			continue
		}
		// header row
		if strings.EqualFold(strings.TrimSpace(parts[1]), "manufacturer") {
			continue
		}
		if v := strings.TrimSpace(parts[1]); v != "" {
			info.Manufacturer = v
		}
		if v := strings.TrimSpace(parts[2]); v != "" {
			info.Product = v
		}
		if v := strings.TrimSpace(parts[3]); v != "" {
			info.Serial = v
		}
		if v := strings.TrimSpace(parts[4]); v != "" {
			info.Version = v
		}
		break
	}

	return info
}
